package retention

import (
	"math"

	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/x/mathx"
)

// Sentinels for "never observed" values.
const (
	RHUnknown      int16 = -1 // deci-%RH
	BatteryUnknown int8  = -1
)

// stateMagic is the ever-initialized marker. If the persisted block does
// not open with it, every other field in the block is untrustworthy.
const stateMagic uint32 = 0x524E5331 // "RNS1"

// StateSize is the packed size of the state block inside a checkpoint.
const StateSize = 48

// Resume sanity bounds. A persisted field outside these is treated as a
// torn or corrupted block, never as data.
const (
	maxSaneWakeCount = 1 << 28
	maxSanePartial   = 1000
	maxSaneWakeMs    = 600_000 // ten minutes awake would itself be a bug
)

// Store is the durable scalar state of the node: wake counters, last
// readings, refresh bookkeeping and mode flags.
//
// Store is owned by the main task. Access from any other goroutine is a
// caller bug; there is deliberately no lock here (see LogRing for the one
// retention structure that is shared).
type Store struct {
	initialized bool

	wakeCount    uint32
	partialCount uint16

	insideTempF  float32 // NaN = unknown
	outsideTempF float32 // NaN = unknown
	insideRH     int16   // deci-%RH, RHUnknown = unknown
	outsideRH    int16
	pressureHPa  float32 // NaN = unknown
	batteryPct   int8    // BatteryUnknown = unknown

	weatherCRC uint32 // 0 = unset
	statusCRC  uint32 // 0 = unset

	fullOnly   bool
	hasChanged bool
	wakeTimeMs uint32

	corruptions uint32 // monotonic, survives resets of the data fields
}

// NewStore returns an empty, uninitialized store. Call InitializeOrResume
// exactly once per boot before any other method.
func NewStore() *Store { return &Store{} }

// InitializeOrResume installs defaults on first-ever boot (marker absent)
// or decodes and validates a persisted block. A block that fails any
// bounds check is reset wholesale; partially-valid state is never kept.
func (s *Store) InitializeOrResume(raw []byte) {
	if len(raw) < StateSize || getU32(raw) != stateMagic {
		s.resetDefaults()
		s.initialized = true
		return
	}
	corruptions := getU32(raw[40:])
	if !s.decodeAndValidate(raw) {
		s.resetDefaults()
		s.corruptions = corruptions + 1
	}
	s.initialized = true
}

func (s *Store) resetDefaults() {
	nan := float32(math.NaN())
	s.wakeCount = 0
	s.partialCount = 0
	s.insideTempF = nan
	s.outsideTempF = nan
	s.insideRH = RHUnknown
	s.outsideRH = RHUnknown
	s.pressureHPa = nan
	s.batteryPct = BatteryUnknown
	s.weatherCRC = 0
	s.statusCRC = 0
	s.fullOnly = false
	s.hasChanged = false
	s.wakeTimeMs = 0
}

// decodeAndValidate fills s from raw and reports whether every bounded
// field is within its legal range. On false the caller must discard the
// decoded values.
func (s *Store) decodeAndValidate(raw []byte) bool {
	wake := getU32(raw[4:])
	partial := getU16(raw[8:])
	flags := raw[10]
	batt := int8(raw[11])
	inRH := int16(getU16(raw[12:]))
	outRH := int16(getU16(raw[14:]))
	inT := getF32(raw[16:])
	outT := getF32(raw[20:])
	press := getF32(raw[24:])
	wakeMs := getU32(raw[36:])

	if wake > maxSaneWakeCount || partial > maxSanePartial || wakeMs > maxSaneWakeMs {
		return false
	}
	if flags&^uint8(0x03) != 0 {
		return false
	}
	if !mathx.Between(batt, BatteryUnknown, 100) {
		return false
	}
	if !mathx.Between(inRH, RHUnknown, 1000) || !mathx.Between(outRH, RHUnknown, 1000) {
		return false
	}
	if !tempPlausible(inT) || !tempPlausible(outT) {
		return false
	}
	if !pressurePlausible(press) {
		return false
	}

	s.wakeCount = wake
	s.partialCount = partial
	s.fullOnly = flags&0x01 != 0
	s.hasChanged = flags&0x02 != 0
	s.batteryPct = batt
	s.insideRH = inRH
	s.outsideRH = outRH
	s.insideTempF = inT
	s.outsideTempF = outT
	s.pressureHPa = press
	s.weatherCRC = getU32(raw[28:])
	s.statusCRC = getU32(raw[32:])
	s.wakeTimeMs = wakeMs
	s.corruptions = getU32(raw[40:])
	return true
}

func tempPlausible(f float32) bool {
	if math.IsNaN(float64(f)) {
		return true
	}
	return mathx.Between(f, -100, 200) // °F
}

func pressurePlausible(f float32) bool {
	if math.IsNaN(float64(f)) {
		return true
	}
	return mathx.Between(f, 300, 1200) // hPa, wide enough for altitude
}

// EncodeTo writes the packed state block into dst (at least StateSize
// bytes). The marker is written even for a store that has only ever held
// defaults; once initialized, always initialized.
func (s *Store) EncodeTo(dst []byte) {
	putU32(dst[0:], stateMagic)
	putU32(dst[4:], s.wakeCount)
	putU16(dst[8:], s.partialCount)
	var flags uint8
	if s.fullOnly {
		flags |= 0x01
	}
	if s.hasChanged {
		flags |= 0x02
	}
	dst[10] = flags
	dst[11] = byte(s.batteryPct)
	putU16(dst[12:], uint16(s.insideRH))
	putU16(dst[14:], uint16(s.outsideRH))
	putF32(dst[16:], s.insideTempF)
	putF32(dst[20:], s.outsideTempF)
	putF32(dst[24:], s.pressureHPa)
	putU32(dst[28:], s.weatherCRC)
	putU32(dst[32:], s.statusCRC)
	putU32(dst[36:], s.wakeTimeMs)
	putU32(dst[40:], s.corruptions)
	putU32(dst[44:], 0) // reserved
}

// ---- Typed accessors (main task only) ----

func (s *Store) WakeCount() uint32 { return s.wakeCount }

func (s *Store) IncrementWakeCount() { s.wakeCount++ }

func (s *Store) PartialCounter() uint16 { return s.partialCount }

func (s *Store) IncrementPartialCounter() { s.partialCount++ }

func (s *Store) ResetPartialCounter() { s.partialCount = 0 }

func (s *Store) LastInsideTempF() float32     { return s.insideTempF }
func (s *Store) SetLastInsideTempF(f float32) { s.insideTempF = f }

func (s *Store) LastOutsideTempF() float32     { return s.outsideTempF }
func (s *Store) SetLastOutsideTempF(f float32) { s.outsideTempF = f }

// RH values are deci-%RH (0..1000), RHUnknown when never observed.
func (s *Store) LastInsideRH() int16      { return s.insideRH }
func (s *Store) SetLastInsideRH(v int16)  { s.insideRH = v }
func (s *Store) LastOutsideRH() int16     { return s.outsideRH }
func (s *Store) SetLastOutsideRH(v int16) { s.outsideRH = v }

func (s *Store) LastPressure() float32     { return s.pressureHPa }
func (s *Store) SetLastPressure(f float32) { s.pressureHPa = f }

func (s *Store) LastBatteryPct() int8     { return s.batteryPct }
func (s *Store) SetLastBatteryPct(v int8) { s.batteryPct = v }

func (s *Store) LastWeatherCRC() uint32     { return s.weatherCRC }
func (s *Store) SetLastWeatherCRC(v uint32) { s.weatherCRC = v }
func (s *Store) LastStatusCRC() uint32      { return s.statusCRC }
func (s *Store) SetLastStatusCRC(v uint32)  { s.statusCRC = v }

func (s *Store) FullOnlyMode() bool     { return s.fullOnly }
func (s *Store) SetFullOnlyMode(v bool) { s.fullOnly = v }

func (s *Store) HasChanged() bool     { return s.hasChanged }
func (s *Store) SetHasChanged(v bool) { s.hasChanged = v }

func (s *Store) WakeTimeMs() uint32     { return s.wakeTimeMs }
func (s *Store) SetWakeTimeMs(v uint32) { s.wakeTimeMs = v }

// CorruptionCount reports how many times a persisted block failed
// validation and was reset. Monotonic; exempt from bounds checks.
func (s *Store) CorruptionCount() uint32 { return s.corruptions }
