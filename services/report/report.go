// Package report is the diagnostic pump: a second execution context that
// tails the retention log ring during the wake episode and mirrors new
// records to a sink (serial on target, stdout on host). It is the reason
// the ring carries a lock at all; everything else in retention is main
// task only.
package report

import (
	"context"
	"io"
	"time"

	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/retention"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/x/strconvx"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/x/timex"
)

// Service tails the ring non-destructively, so the crash log survives in
// retention even after it has been mirrored out.
type Service struct {
	Ring *retention.LogRing
	Sink io.Writer

	// Poll is the tail interval. Zero means 50ms.
	Poll time.Duration

	lastSeq uint16
	seen    bool
}

// Run pumps until ctx is cancelled, then drains once more so records
// logged at the very end of the episode still get out. Run never writes
// while holding the ring lock; entries are staged under the lock and
// formatted outside it.
func (s *Service) Run(ctx context.Context) {
	poll := s.Poll
	if poll <= 0 {
		poll = 50 * time.Millisecond
	}
	tick := time.NewTicker(poll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Flush()
			s.Ring.Log(timex.Now32(), retention.LevelDebug, retention.ModReport, "pump stopped")
			return
		case <-tick.C:
			s.Flush()
		}
	}
}

// Flush mirrors every not-yet-seen entry to the sink, oldest first.
func (s *Service) Flush() {
	var staged []retention.Entry
	s.Ring.Dump(func(e retention.Entry) {
		if !s.seen || seqAfter(e.Seq, s.lastSeq) {
			staged = append(staged, e)
		}
	})
	for i := range staged {
		s.writeEntry(&staged[i])
		s.lastSeq = staged[i].Seq
		s.seen = true
	}
}

// seqAfter reports whether a comes after b in wrapping u16 sequence
// space. Gaps from overflow eviction still compare correctly as long as
// the consumer is not 32k entries behind, which a 64-entry ring cannot be.
func seqAfter(a, b uint16) bool {
	return int16(a-b) > 0
}

func (s *Service) writeEntry(e *retention.Entry) {
	if s.Sink == nil {
		return
	}
	line := strconvx.FormatUint(uint64(e.Timestamp), 10) +
		" [" + e.Level.String() + "] m" +
		strconvx.FormatUint(uint64(e.Module), 10) +
		" #" + strconvx.FormatUint(uint64(e.Seq), 10) +
		" " + e.MessageString() + "\n"
	_, _ = s.Sink.Write([]byte(line))
}
