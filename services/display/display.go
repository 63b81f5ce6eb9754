// Package display plans e-ink redraws. It formats retained readings to
// display precision, runs them through the change detector, and asks the
// refresh controller whether this wake gets a partial or a full update.
// Actual pixel pushing belongs to the renderer, which consumes the plan;
// nothing in this package draws.
package display

import (
	"hash/crc32"
	"math"

	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/refresh"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/retention"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/x/strconvx"
)

// Region ids. These are the panel's fixed layout slots; the detector's
// dirty mask is a bitmask over them.
const (
	RegionInsideTemp uint8 = iota
	RegionInsideRH
	RegionOutsideTemp
	RegionOutsideRH
	RegionPressure
	RegionBattery
	RegionStatus

	numRegions
)

// Unknown values render as a dash, and the dash participates in change
// detection like any other content: a sensor going away is a redraw.
const unknownText = "--"

// Planner owns the per-wake redraw decision. Main task only.
type Planner struct {
	Store      *retention.Store
	Detector   *refresh.Detector
	Controller *refresh.Controller
}

func NewPlanner(st *retention.Store, pol refresh.Policy) *Planner {
	det := refresh.NewDetector()
	for id := uint8(0); id < numRegions; id++ {
		det.Register(id)
	}
	return &Planner{
		Store:      st,
		Detector:   det,
		Controller: refresh.NewController(st, det, pol),
	}
}

// Observe runs every region's current content through the detector and
// refreshes the weather/status fingerprints. Call once per wake, after
// sensors committed into the store.
func (p *Planner) Observe(now uint32) {
	st := p.Store
	d := p.Detector

	d.Changed(RegionInsideTemp, tempText(st.LastInsideTempF()), now)
	d.Changed(RegionInsideRH, rhText(st.LastInsideRH()), now)
	d.Changed(RegionOutsideTemp, tempText(st.LastOutsideTempF()), now)
	d.Changed(RegionOutsideRH, rhText(st.LastOutsideRH()), now)
	d.Changed(RegionPressure, pressureText(st.LastPressure()), now)
	d.Changed(RegionBattery, batteryText(st.LastBatteryPct()), now)
	d.Changed(RegionStatus, p.statusText(), now)

	p.updateFingerprints()
}

// updateFingerprints maintains the CRC change-fingerprints the network
// collaborators publish against: re-announce only when the canonical
// payload really changed.
func (p *Planner) updateFingerprints() {
	st := p.Store
	weather := weatherCanonical(st)
	status := p.statusText()

	changed := false
	if c := crc32.ChecksumIEEE([]byte(weather)); c != st.LastWeatherCRC() {
		st.SetLastWeatherCRC(c)
		changed = true
	}
	if c := crc32.ChecksumIEEE([]byte(status)); c != st.LastStatusCRC() {
		st.SetLastStatusCRC(c)
		changed = true
	}
	if changed {
		st.SetHasChanged(true)
	}
}

// Plan returns this wake's redraw decision.
func (p *Planner) Plan() refresh.Decision {
	return p.Controller.Decide()
}

// Commit records the renderer's completed work. For a partial update the
// drawn regions go clean; a full refresh restarts the cadence and
// invalidates every cached hash.
func (p *Planner) Commit(dec refresh.Decision) {
	if dec.Full {
		p.Controller.CommitFull()
		p.Store.SetHasChanged(false)
		return
	}
	if dec.Mask == 0 {
		return // nothing drawn, nothing to commit
	}
	p.Controller.CommitPartial()
	for id := uint8(0); id < numRegions; id++ {
		if dec.Mask&(1<<id) != 0 {
			p.Detector.MarkClean(id)
		}
	}
	p.Store.SetHasChanged(false)
}

// ---- Canonical display text ----
// One decimal for temperature and pressure, whole numbers for RH and
// battery. These strings define content identity for change detection;
// change the precision here and every region redraws once.

func tempText(f float32) string {
	if math.IsNaN(float64(f)) {
		return unknownText
	}
	return strconvx.FormatFloat(float64(f), 'f', 1, 32)
}

func rhText(deci int16) string {
	if deci == retention.RHUnknown {
		return unknownText
	}
	return strconvx.FormatInt(int64(deci/10), 10)
}

func pressureText(f float32) string {
	if math.IsNaN(float64(f)) {
		return unknownText
	}
	return strconvx.FormatFloat(float64(f), 'f', 1, 32)
}

func batteryText(pct int8) string {
	if pct == retention.BatteryUnknown {
		return unknownText
	}
	return strconvx.FormatInt(int64(pct), 10)
}

func (p *Planner) statusText() string {
	st := p.Store
	return "w" + strconvx.FormatUint(uint64(st.WakeCount()), 10) +
		" b" + batteryText(st.LastBatteryPct())
}

func weatherCanonical(st *retention.Store) string {
	return "i" + tempText(st.LastInsideTempF()) + "/" + rhText(st.LastInsideRH()) +
		" o" + tempText(st.LastOutsideTempF()) + "/" + rhText(st.LastOutsideRH()) +
		" p" + pressureText(st.LastPressure())
}
