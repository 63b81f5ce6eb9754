package retention

import (
	"sync"
	"testing"
)

func testEntry(ts uint32, msg string) Entry {
	var e Entry
	e.Timestamp = ts
	e.Level = LevelInfo
	e.Module = ModMain
	e.SetMessage(msg)
	return e
}

func TestPushPopFIFO(t *testing.T) {
	r := NewLogRing()
	r.Begin()

	for i := 0; i < 10; i++ {
		if !r.Push(testEntry(uint32(i), "msg")) {
			t.Fatalf("push %d failed", i)
		}
	}
	if r.Len() != 10 {
		t.Fatalf("len = %d, want 10", r.Len())
	}

	for i := 0; i < 10; i++ {
		var e Entry
		if !r.Pop(&e) {
			t.Fatalf("pop %d failed", i)
		}
		if e.Timestamp != uint32(i) {
			t.Errorf("pop %d: timestamp = %d, want %d", i, e.Timestamp, i)
		}
		if e.Seq != uint16(i) {
			t.Errorf("pop %d: seq = %d, want %d", i, e.Seq, i)
		}
	}
	if !r.IsEmpty() {
		t.Error("ring should be empty after popping everything")
	}
}

func TestOverflowEvictsOldest(t *testing.T) {
	r := NewLogRing()
	r.Begin()

	for i := 0; i < LogCapacity; i++ {
		r.Push(testEntry(uint32(i), "fill"))
	}
	if !r.IsFull() {
		t.Fatal("ring should be full")
	}
	if r.OverflowCount() != 0 {
		t.Fatalf("overflow = %d before overflowing", r.OverflowCount())
	}

	r.Push(testEntry(999, "overflow"))

	if r.Len() != LogCapacity {
		t.Errorf("len = %d, want %d", r.Len(), LogCapacity)
	}
	if r.OverflowCount() != 1 {
		t.Errorf("overflow = %d, want 1", r.OverflowCount())
	}

	var e Entry
	if !r.EntryAt(0, &e) {
		t.Fatal("EntryAt(0) failed")
	}
	if e.Seq != 1 {
		t.Errorf("oldest seq = %d, want 1 (seq 0 evicted)", e.Seq)
	}
	if !r.EntryAt(LogCapacity-1, &e) {
		t.Fatal("EntryAt(last) failed")
	}
	if e.Timestamp != 999 {
		t.Errorf("newest timestamp = %d, want 999", e.Timestamp)
	}
}

func TestEntryAtLogicalOrder(t *testing.T) {
	r := NewLogRing()
	r.Begin()

	// Wrap the physical indices: fill, evict a few, then read logically.
	for i := 0; i < LogCapacity+5; i++ {
		r.Push(testEntry(uint32(i), "x"))
	}
	for i := 0; i < r.Len(); i++ {
		var e Entry
		if !r.EntryAt(i, &e) {
			t.Fatalf("EntryAt(%d) failed", i)
		}
		want := uint32(i + 5)
		if e.Timestamp != want {
			t.Errorf("EntryAt(%d).Timestamp = %d, want %d", i, e.Timestamp, want)
		}
	}
	var e Entry
	if r.EntryAt(r.Len(), &e) {
		t.Error("EntryAt past the end should fail")
	}
}

func TestUninitializedFailSafe(t *testing.T) {
	r := NewLogRing()

	if r.Push(testEntry(1, "x")) {
		t.Error("push before Begin should fail")
	}
	var e Entry
	if r.Pop(&e) {
		t.Error("pop before Begin should fail")
	}
	if !r.IsEmpty() {
		t.Error("IsEmpty before Begin should conservatively report true")
	}
	if r.Len() != 0 {
		t.Errorf("Len before Begin = %d, want 0", r.Len())
	}
	if r.IsFull() {
		t.Error("IsFull before Begin should report false")
	}
	if r.Clear() {
		t.Error("clear before Begin should fail")
	}
	called := false
	r.Dump(func(Entry) { called = true })
	if called {
		t.Error("dump before Begin should not invoke the callback")
	}
}

func TestBeginIdempotent(t *testing.T) {
	r := NewLogRing()
	r.Begin()
	r.Push(testEntry(1, "a"))
	r.Push(testEntry(2, "b"))
	r.Begin()
	if r.Len() != 2 {
		t.Errorf("len after second Begin = %d, want 2", r.Len())
	}
}

func TestClearPreservesCounters(t *testing.T) {
	r := NewLogRing()
	r.Begin()
	for i := 0; i < LogCapacity+3; i++ {
		r.Push(testEntry(uint32(i), "x"))
	}
	if !r.Clear() {
		t.Fatal("clear failed")
	}
	if r.Len() != 0 || !r.IsEmpty() {
		t.Error("ring not empty after clear")
	}
	if r.OverflowCount() != 3 {
		t.Errorf("overflow after clear = %d, want 3", r.OverflowCount())
	}
	// Sequence numbering continues so consumers can spot the gap.
	r.Push(testEntry(100, "after"))
	var e Entry
	r.EntryAt(0, &e)
	if e.Seq != uint16(LogCapacity+3) {
		t.Errorf("seq after clear = %d, want %d", e.Seq, LogCapacity+3)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	r := NewLogRing()
	r.Begin()
	for i := 0; i < 7; i++ {
		r.Push(testEntry(uint32(100+i), "persisted"))
	}

	var buf [RingSize]byte
	r.EncodeTo(buf[:])

	r2 := NewLogRing()
	r2.Restore(buf[:])
	if r2.Len() != 7 {
		t.Fatalf("restored len = %d, want 7", r2.Len())
	}
	for i := 0; i < 7; i++ {
		var e Entry
		r2.EntryAt(i, &e)
		if e.Timestamp != uint32(100+i) {
			t.Errorf("restored entry %d timestamp = %d", i, e.Timestamp)
		}
		if e.MessageString() != "persisted" {
			t.Errorf("restored entry %d message = %q", i, e.MessageString())
		}
	}
	if r2.CorruptionCount() != 0 {
		t.Errorf("corruption after clean restore = %d", r2.CorruptionCount())
	}
}

func TestRestoreCorruptIndices(t *testing.T) {
	cases := []struct {
		name string
		mut  func(raw []byte)
	}{
		{"head out of range", func(raw []byte) { putU16(raw[2:], LogCapacity) }},
		{"tail out of range", func(raw []byte) { putU16(raw[4:], 200) }},
		{"count over capacity", func(raw []byte) { putU16(raw[6:], LogCapacity+1) }},
		{"count inconsistent", func(raw []byte) {
			putU16(raw[2:], 5)
			putU16(raw[4:], 0)
			putU16(raw[6:], 3)
		}},
		{"unknown flags", func(raw []byte) { raw[16] = 0xF0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := NewLogRing()
			src.Begin()
			for i := 0; i < 10; i++ {
				src.Push(testEntry(uint32(i), "x"))
			}
			var raw [RingSize]byte
			src.EncodeTo(raw[:])
			tc.mut(raw[:])

			r := NewLogRing()
			r.Restore(raw[:])
			if r.Len() != 0 {
				t.Errorf("len after corrupt restore = %d, want 0", r.Len())
			}
			if r.CorruptionCount() != 1 {
				t.Errorf("corruption stat = %d, want exactly 1", r.CorruptionCount())
			}
			// The ring must be usable after recovery.
			if !r.Push(testEntry(1, "recovered")) {
				t.Error("push after recovery failed")
			}
		})
	}
}

func TestRestoreWrappedFull(t *testing.T) {
	// head == tail with count == capacity is the legitimate "wrapped
	// full" shape and must not be flagged as corruption.
	src := NewLogRing()
	src.Begin()
	for i := 0; i < LogCapacity; i++ {
		src.Push(testEntry(uint32(i), "full"))
	}
	var raw [RingSize]byte
	src.EncodeTo(raw[:])

	r := NewLogRing()
	r.Restore(raw[:])
	if r.Len() != LogCapacity {
		t.Fatalf("len = %d, want %d", r.Len(), LogCapacity)
	}
	if r.CorruptionCount() != 0 {
		t.Errorf("corruption stat = %d for a valid wrapped-full block", r.CorruptionCount())
	}
}

func TestRestoreFullWithoutWrappedFlag(t *testing.T) {
	// head == tail with a full count is only legitimate when the wrapped
	// flag backs it up; without the flag the indices are torn.
	src := NewLogRing()
	src.Begin()
	for i := 0; i < LogCapacity; i++ {
		src.Push(testEntry(uint32(i), "full"))
	}
	var raw [RingSize]byte
	src.EncodeTo(raw[:])
	raw[16] = 0 // strip the wrapped flag

	r := NewLogRing()
	r.Restore(raw[:])
	if r.Len() != 0 {
		t.Errorf("len = %d, want 0 for full count without wrapped flag", r.Len())
	}
	if r.CorruptionCount() != 1 {
		t.Errorf("corruption stat = %d, want 1", r.CorruptionCount())
	}
}

func TestWrappedFlagSetOnlyAtCapacity(t *testing.T) {
	r := NewLogRing()
	r.Begin()
	for i := 0; i < LogCapacity-1; i++ {
		r.Push(testEntry(uint32(i), "x"))
	}
	var raw [RingSize]byte
	r.EncodeTo(raw[:])
	if raw[16]&0x01 != 0 {
		t.Error("wrapped flag set before the ring ever filled")
	}
	r.Push(testEntry(99, "fills"))
	r.EncodeTo(raw[:])
	if raw[16]&0x01 == 0 {
		t.Error("wrapped flag missing after the ring filled")
	}
}

func TestRestoreShortBuffer(t *testing.T) {
	r := NewLogRing()
	r.Restore(make([]byte, 10))
	if r.Len() != 0 {
		t.Error("short restore should leave the ring empty")
	}
	if !r.Push(testEntry(1, "ok")) {
		t.Error("ring should be initialized after short restore")
	}
}

func TestConcurrentPushAndDump(t *testing.T) {
	r := NewLogRing()
	r.Begin()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			r.Push(testEntry(uint32(i), "producer"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			last := -1
			r.Dump(func(e Entry) {
				if last >= 0 && int(e.Seq) != last+1 {
					t.Errorf("dump out of order: seq %d after %d", e.Seq, last)
				}
				last = int(e.Seq)
			})
			_ = r.Len()
			_ = r.IsEmpty()
		}
	}()
	wg.Wait()

	if r.Len() != LogCapacity {
		t.Errorf("len = %d, want %d after 500 pushes", r.Len(), LogCapacity)
	}
	if r.OverflowCount() != 500-LogCapacity {
		t.Errorf("overflow = %d, want %d", r.OverflowCount(), 500-LogCapacity)
	}
}

func TestMessageTruncation(t *testing.T) {
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	var e Entry
	e.SetMessage(string(long))
	if got := e.MessageString(); len(got) != MessageLen {
		t.Errorf("message length = %d, want %d", len(got), MessageLen)
	}
	e.SetMessage("short")
	if e.MessageString() != "short" {
		t.Errorf("message = %q after overwrite", e.MessageString())
	}
	for i := 5; i < MessageLen; i++ {
		if e.Message[i] != 0 {
			t.Fatalf("message byte %d not NUL-padded", i)
		}
	}
}
