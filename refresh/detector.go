// Package refresh decides what an e-ink display actually has to redraw:
// a per-wake registry of content-hashed regions plus the cadence policy
// that trades partial updates against full ghost-clearing refreshes.
//
// Everything here is volatile; it is rebuilt from scratch each wake and
// never persisted. Only the partial-update counter and full-only flag
// live in retention, owned by the caller.
package refresh

import "github.com/jtn0123/ESP32-Temp-Sensor-sub003/x/strconvx"

// MaxRegions is the fixed registry capacity. Registration past it is
// silently ignored (observable only through RegionCount), matching the
// display's fixed region table.
const MaxRegions = 16

// Stats counts change checks for observability and tests. It has no
// control-flow effect anywhere.
type Stats struct {
	Checks  uint32 // total Changed/ChangedFloat calls
	Actual  uint32 // calls that reported a change
	Skipped uint32 // calls that reported no change
}

type region struct {
	id        uint8
	hash      uint32
	updatedAt uint32
	dirty     bool
	used      bool
}

// Detector tracks registered display regions by content hash. Owned by
// the main task; not safe for concurrent use and deliberately unlocked.
type Detector struct {
	regions [MaxRegions]region
	count   int
	stats   Stats
}

func NewDetector() *Detector { return &Detector{} }

// Register adds a region id. Idempotent; a duplicate id does not grow
// the registry and a full registry drops the registration on the floor.
func (d *Detector) Register(id uint8) {
	if d.lookup(id) != nil {
		return
	}
	if d.count >= MaxRegions {
		return
	}
	d.regions[d.count] = region{id: id, used: true}
	d.count++
}

// RegionCount reports how many regions are registered.
func (d *Detector) RegionCount() int { return d.count }

func (d *Detector) lookup(id uint8) *region {
	for i := 0; i < d.count; i++ {
		if d.regions[i].id == id {
			return &d.regions[i]
		}
	}
	return nil
}

// Changed reports whether the region's canonical content differs from
// what was last committed to it, and records the new content when it
// does. An unregistered region has no baseline, so it always reports
// changed (fail-open: drawing too much beats drawing stale data). A
// region already marked dirty also reports changed regardless of hash.
func (d *Detector) Changed(id uint8, content string, now uint32) bool {
	d.stats.Checks++
	h := fnv1a(content)
	r := d.lookup(id)
	if r == nil {
		d.stats.Actual++
		return true
	}
	if r.hash == h && !r.dirty {
		d.stats.Skipped++
		return false
	}
	r.hash = h
	r.updatedAt = now
	r.dirty = true
	d.stats.Actual++
	return true
}

// ChangedFloat canonicalizes v to prec decimal places before hashing, so
// two values that render to the same displayed text count as unchanged.
// That is the anti-jitter contract: display precision defines identity
// here, not float equality.
func (d *Detector) ChangedFloat(id uint8, v float64, prec int, now uint32) bool {
	return d.Changed(id, strconvx.FormatFloat(v, 'f', prec, 64), now)
}

// ChangedInt is Changed over the decimal rendering of v.
func (d *Detector) ChangedInt(id uint8, v int64, now uint32) bool {
	return d.Changed(id, strconvx.FormatInt(v, 10), now)
}

// MarkDirty forces the region's next check (or an immediate redraw
// decision) to treat it as changed. Idempotent.
func (d *Detector) MarkDirty(id uint8) {
	if r := d.lookup(id); r != nil {
		r.dirty = true
	}
}

// MarkAllDirty invalidates every region, e.g. after a full refresh made
// the on-screen content authoritative again and everything must rehash.
func (d *Detector) MarkAllDirty() {
	for i := 0; i < d.count; i++ {
		d.regions[i].dirty = true
	}
}

// MarkClean clears the dirty flag after a committed draw.
func (d *Detector) MarkClean(id uint8) {
	if r := d.lookup(id); r != nil {
		r.dirty = false
	}
}

// DirtyMask returns a bitmask over region ids (bit n = region id n) for
// redraw scheduling. Ids at or above 32 cannot be represented and are
// omitted; the display's region table stays well under that.
func (d *Detector) DirtyMask() uint32 {
	var mask uint32
	for i := 0; i < d.count; i++ {
		r := &d.regions[i]
		if r.dirty && r.id < 32 {
			mask |= 1 << r.id
		}
	}
	return mask
}

// AnyDirty is a fast OR over all dirty flags.
func (d *Detector) AnyDirty() bool {
	for i := 0; i < d.count; i++ {
		if d.regions[i].dirty {
			return true
		}
	}
	return false
}

// UpdatedAt reports the timestamp stored by the last actual update of
// the region, and false for an unregistered id.
func (d *Detector) UpdatedAt(id uint8) (uint32, bool) {
	if r := d.lookup(id); r != nil {
		return r.updatedAt, true
	}
	return 0, false
}

// Stats returns a copy of the counters.
func (d *Detector) Stats() Stats { return d.stats }

// ResetStats zeroes the counters; region state is untouched.
func (d *Detector) ResetStats() { d.stats = Stats{} }

// fnv1a is the 32-bit FNV-1a over the canonical content bytes. Order
// sensitive, allocation free.
func fnv1a(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
