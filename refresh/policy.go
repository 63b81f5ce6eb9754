package refresh

import "github.com/jtn0123/ESP32-Temp-Sensor-sub003/retention"

// DefaultMaxPartialUpdates is how many partial refreshes may run
// back-to-back before ghosting forces a full one.
const DefaultMaxPartialUpdates = 10

// Policy is the stateless half of the cadence decision; the counter it
// judges lives in the retention store.
type Policy struct {
	MaxPartialUpdates uint16
}

func NewPolicy(max uint16) Policy {
	if max == 0 {
		max = DefaultMaxPartialUpdates
	}
	return Policy{MaxPartialUpdates: max}
}

// ShouldPartialUpdate permits a partial redraw while the node is not in
// full-only mode and the budget since the last full refresh has not run
// out.
func (p Policy) ShouldPartialUpdate(counter uint16, fullOnly bool) bool {
	return !fullOnly && counter < p.MaxPartialUpdates
}

// Decision is one wake's redraw verdict.
type Decision struct {
	Full bool
	Mask uint32 // dirty regions; meaningful only when !Full
}

// Controller binds the policy to the retention store's counters and the
// detector's dirty mask. Main task only, like everything it touches.
type Controller struct {
	Store    *retention.Store
	Detector *Detector
	Policy   Policy
}

func NewController(st *retention.Store, det *Detector, pol Policy) *Controller {
	return &Controller{Store: st, Detector: det, Policy: pol}
}

// Decide picks full or partial for this wake. A full redraw is forced
// when the partial budget is spent, the node is in full-only mode, or a
// collaborator's cadence trigger set full-only for this cycle.
func (c *Controller) Decide() Decision {
	if !c.Policy.ShouldPartialUpdate(c.Store.PartialCounter(), c.Store.FullOnlyMode()) {
		return Decision{Full: true}
	}
	return Decision{Mask: c.Detector.DirtyMask()}
}

// CommitPartial records that a partial redraw was pushed to the panel.
func (c *Controller) CommitPartial() {
	c.Store.IncrementPartialCounter()
}

// CommitFull records a completed full refresh: the counter restarts and
// every cached hash is invalidated, because the panel's content is now
// authoritative and each region must rehash against it.
func (c *Controller) CommitFull() {
	c.Store.ResetPartialCounter()
	c.Detector.MarkAllDirty()
}
