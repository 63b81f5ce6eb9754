package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Now32 returns Unix seconds truncated to u32, the timestamp width used
// by retention log entries and region update stamps.
func Now32() uint32 { return uint32(time.Now().Unix()) }

// SinceMs32 returns elapsed wall time since start in milliseconds,
// saturated to u32 for the retention wake-time field.
func SinceMs32(start time.Time) uint32 {
	ms := time.Since(start).Milliseconds()
	if ms < 0 {
		return 0
	}
	if ms > int64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(ms)
}
