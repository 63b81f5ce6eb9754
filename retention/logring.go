package retention

import "sync"

// LogCapacity is the fixed entry count of the retention log ring. 64
// entries of EntrySize bytes is the slice of the retention budget the
// log is allowed to own; do not grow it casually.
const LogCapacity = 64

// ControlSize is the packed size of the ring control block inside a
// checkpoint; RingSize is control plus storage.
const (
	ControlSize = 20
	RingSize    = ControlSize + LogCapacity*EntrySize
)

// LogRing is a fixed-capacity FIFO of log entries that survives sleep.
// Unlike Store it may be touched from more than one execution context
// within a wake episode (main task plus the report pump), so every
// public operation holds the mutex for its whole body. Critical
// sections are O(1) or O(capacity) memory work and never perform I/O,
// which is what makes blocking acquisition without a timeout safe.
type LogRing struct {
	mu          sync.Mutex
	initialized bool

	head    uint16 // next write slot
	tail    uint16 // oldest entry
	count   uint16
	seq     uint16 // next sequence number; wraps silently
	wrapped bool   // ring has reached capacity; disambiguates full from empty

	overflow    uint32
	corruptions uint32

	entries [LogCapacity]Entry
}

// NewLogRing returns a ring that has not been through Begin yet. Until
// Begin runs, mutations fail and queries answer conservatively.
func NewLogRing() *LogRing { return &LogRing{} }

// Begin prepares the ring on a first-ever boot. It is idempotent; a
// second call is a no-op. Resume from a checkpoint goes through Restore
// instead.
func (r *LogRing) Begin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initialized {
		return
	}
	r.resetLocked()
	r.initialized = true
}

// Restore resumes the ring from its checkpoint region (ControlSize
// control bytes followed by the packed entries). Indices outside
// [0, capacity) or an inconsistent count reset the ring to empty and
// bump the corruption statistic; torn indices are never operated on.
func (r *LogRing) Restore(raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initialized {
		return
	}
	r.initialized = true
	if len(raw) < RingSize {
		r.resetLocked()
		return
	}

	seq := getU16(raw[0:])
	head := getU16(raw[2:])
	tail := getU16(raw[4:])
	count := getU16(raw[6:])
	overflow := getU32(raw[8:])
	corruptions := getU32(raw[12:])
	flags := raw[16]

	if !controlValid(head, tail, count, flags) {
		r.resetLocked()
		r.corruptions = corruptions + 1
		return
	}

	r.seq = seq
	r.head = head
	r.tail = tail
	r.count = count
	r.overflow = overflow
	r.wrapped = flags&0x01 != 0
	r.corruptions = corruptions
	for i := 0; i < LogCapacity; i++ {
		r.entries[i].decodeFrom(raw[ControlSize+i*EntrySize:])
	}
}

func controlValid(head, tail, count uint16, flags uint8) bool {
	if head >= LogCapacity || tail >= LogCapacity || count > LogCapacity {
		return false
	}
	if flags&^uint8(0x01) != 0 {
		return false
	}
	// head == tail means empty or completely full; the wrapped flag is
	// what tells the two apart, so a full count without it is torn.
	// Anything else must account for exactly count entries between tail
	// and head.
	if head == tail {
		if count == 0 {
			return true
		}
		return count == LogCapacity && flags&0x01 != 0
	}
	span := (head + LogCapacity - tail) % LogCapacity
	return count == span
}

func (r *LogRing) resetLocked() {
	r.head = 0
	r.tail = 0
	r.count = 0
	r.seq = 0
	r.wrapped = false
	r.overflow = 0
	for i := range r.entries {
		r.entries[i] = Entry{}
	}
}

// EncodeTo writes the control block and storage into dst (at least
// RingSize bytes) for the sleep-entry checkpoint.
func (r *LogRing) EncodeTo(dst []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	putU16(dst[0:], r.seq)
	putU16(dst[2:], r.head)
	putU16(dst[4:], r.tail)
	putU16(dst[6:], r.count)
	putU32(dst[8:], r.overflow)
	putU32(dst[12:], r.corruptions)
	var flags uint8
	if r.wrapped {
		flags |= 0x01
	}
	dst[16] = flags
	dst[17], dst[18], dst[19] = 0, 0, 0
	for i := 0; i < LogCapacity; i++ {
		r.entries[i].encodeTo(dst[ControlSize+i*EntrySize:])
	}
}

// Push appends e, stamping its sequence number. When the ring is full
// the oldest entry is evicted and the overflow counter incremented.
// Returns false only before Begin/Restore.
func (r *LogRing) Push(e Entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return false
	}
	e.Seq = r.seq
	r.seq++
	r.entries[r.head] = e
	r.head = (r.head + 1) % LogCapacity
	if r.count == LogCapacity {
		r.tail = (r.tail + 1) % LogCapacity
		r.overflow++
	} else {
		r.count++
		if r.count == LogCapacity {
			r.wrapped = true
		}
	}
	return true
}

// Pop dequeues the oldest entry into out. Returns false on an empty or
// uninitialized ring; out is untouched in that case.
func (r *LogRing) Pop(out *Entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized || r.count == 0 {
		return false
	}
	*out = r.entries[r.tail]
	r.tail = (r.tail + 1) % LogCapacity
	r.count--
	return true
}

// EntryAt reads the entry at logical index i, 0 = oldest, without
// mutating the ring.
func (r *LogRing) EntryAt(i int, out *Entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized || i < 0 || i >= int(r.count) {
		return false
	}
	*out = r.entries[(int(r.tail)+i)%LogCapacity]
	return true
}

// Dump invokes fn for every entry oldest-to-newest. The ring stays
// locked for the duration, so fn must not log, block, or touch the ring.
func (r *LogRing) Dump(fn func(Entry)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return
	}
	for i := 0; i < int(r.count); i++ {
		fn(r.entries[(int(r.tail)+i)%LogCapacity])
	}
}

// Clear resets the ring to empty and zeroes the storage. The sequence
// counter and the overflow/corruption statistics are preserved so log
// consumers can still spot the discontinuity.
func (r *LogRing) Clear() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return false
	}
	overflow := r.overflow
	corruptions := r.corruptions
	seq := r.seq
	r.resetLocked()
	r.overflow = overflow
	r.corruptions = corruptions
	r.seq = seq
	return true
}

// Len reports the number of stored entries; 0 before initialization.
func (r *LogRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return 0
	}
	return int(r.count)
}

// IsEmpty conservatively reports true before initialization.
func (r *LogRing) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.initialized || r.count == 0
}

func (r *LogRing) IsFull() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized && r.count == LogCapacity
}

// OverflowCount reports how many entries have been evicted by pushes
// into a full ring.
func (r *LogRing) OverflowCount() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overflow
}

// CorruptionCount reports how many times Restore found torn indices.
func (r *LogRing) CorruptionCount() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.corruptions
}

// Log formats nothing: it stamps ts/level/module onto msg (truncated to
// MessageLen) and pushes. Convenience for collaborators.
func (r *LogRing) Log(ts uint32, level Level, module uint8, msg string) bool {
	var e Entry
	e.Timestamp = ts
	e.Level = level
	e.Module = module
	e.SetMessage(msg)
	return r.Push(e)
}
