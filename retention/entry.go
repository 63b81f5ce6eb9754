// Package retention holds the state that must outlive a deep-sleep cycle:
// a fixed-layout scalar state block, a fixed-capacity log ring, and the
// checkpoint codec that carries both across the sleep/wake boundary.
//
// Nothing in this package touches sensors, radios or pixels. Collaborators
// write into it during the wake episode; Checkpoint() freezes it just
// before sleep; Open() validates and resumes it at boot.
package retention

// Level classifies a log record. Values are stable; they are persisted raw.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelNotice
	LevelWarn
	LevelError
	LevelFatal

	numLevels = 7
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelNotice:
		return "notice"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "unknown"
}

// Module ids tag log records with their origin. u8 on the wire.
const (
	ModMain    uint8 = 0
	ModSense   uint8 = 1
	ModNet     uint8 = 2
	ModDisplay uint8 = 3
	ModPower   uint8 = 4
	ModStore   uint8 = 5
	ModReport  uint8 = 6
)

// MessageLen is the fixed, NUL-padded message field width.
// EntrySize is the packed wire size of one Entry; the ring addresses
// entries by fixed offset, so this must never change without a version
// bump in the domain header.
const (
	MessageLen = 48
	EntrySize  = 4 + 1 + 1 + 2 + MessageLen // 56
)

// Entry is one structured log record. Fixed size, no pointers, so the
// whole ring serializes as a flat byte run.
type Entry struct {
	Timestamp uint32 // seconds, epoch or uptime per the caller's clock
	Level     Level
	Module    uint8
	Seq       uint16 // stamped by the ring on push; wraps silently
	Message   [MessageLen]byte
}

// SetMessage copies s into the fixed message field, truncating and
// NUL-padding as needed.
func (e *Entry) SetMessage(s string) {
	n := copy(e.Message[:], s)
	for i := n; i < MessageLen; i++ {
		e.Message[i] = 0
	}
}

// MessageString returns the message with trailing NULs stripped.
func (e *Entry) MessageString() string {
	n := 0
	for n < MessageLen && e.Message[n] != 0 {
		n++
	}
	return string(e.Message[:n])
}

func (e *Entry) encodeTo(dst []byte) {
	putU32(dst[0:], e.Timestamp)
	dst[4] = byte(e.Level)
	dst[5] = e.Module
	putU16(dst[6:], e.Seq)
	copy(dst[8:8+MessageLen], e.Message[:])
}

func (e *Entry) decodeFrom(src []byte) {
	e.Timestamp = getU32(src[0:])
	e.Level = Level(src[4])
	e.Module = src[5]
	e.Seq = getU16(src[6:])
	copy(e.Message[:], src[8:8+MessageLen])
}
