// Package sense owns sensor acquisition for the wake episode. Adaptors
// wrap concrete drivers behind one narrow interface; the service merges
// their samples, commits them into the retention store, and emits log
// records for anything that misbehaved. No adaptor touches the store
// directly.
package sense

import (
	"context"
	"errors"
	"time"

	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/errcode"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/retention"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/types"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/x/timex"
)

// Adaptor is one sensor source. Sample blocks for at most the context's
// deadline and returns a partially-filled EnvSample; fields the sensor
// does not produce stay nil.
type Adaptor interface {
	ID() string
	Sample(ctx context.Context) (types.EnvSample, error)
}

// Service runs all adaptors once per wake episode.
type Service struct {
	Adaptors []Adaptor
	Ring     *retention.LogRing

	// SampleTimeout bounds each adaptor individually. Zero means 500ms.
	SampleTimeout time.Duration
}

// Run samples every adaptor and merges the results, last writer wins per
// field. Errors are logged to the ring and skipped; a wake episode with
// a dead sensor still proceeds with whatever the others produced.
func (s *Service) Run(ctx context.Context) types.EnvSample {
	timeout := s.SampleTimeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	var merged types.EnvSample
	for _, a := range s.Adaptors {
		actx, cancel := context.WithTimeout(ctx, timeout)
		sample, err := a.Sample(actx)
		cancel()
		if err != nil {
			s.logErr(a.ID(), err)
			continue
		}
		mergeInto(&merged, sample)
	}
	return merged
}

// Commit writes the merged sample into the retention store. Fields the
// sensors skipped keep their previous retained values.
func Commit(st *retention.Store, sample types.EnvSample) {
	if sample.InsideTemp != nil {
		st.SetLastInsideTempF(sample.InsideTemp.DegF())
	}
	if sample.InsideRH != nil {
		st.SetLastInsideRH(sample.InsideRH.DeciRH())
	}
	if sample.OutsideTemp != nil {
		st.SetLastOutsideTempF(sample.OutsideTemp.DegF())
	}
	if sample.OutsideRH != nil {
		st.SetLastOutsideRH(sample.OutsideRH.DeciRH())
	}
	if sample.Pressure != nil {
		st.SetLastPressure(sample.Pressure.HPa())
	}
	if sample.Battery != nil {
		st.SetLastBatteryPct(sample.Battery.Percent)
	}
}

func mergeInto(dst *types.EnvSample, src types.EnvSample) {
	if src.InsideTemp != nil {
		dst.InsideTemp = src.InsideTemp
	}
	if src.InsideRH != nil {
		dst.InsideRH = src.InsideRH
	}
	if src.OutsideTemp != nil {
		dst.OutsideTemp = src.OutsideTemp
	}
	if src.OutsideRH != nil {
		dst.OutsideRH = src.OutsideRH
	}
	if src.Pressure != nil {
		dst.Pressure = src.Pressure
	}
	if src.Battery != nil {
		dst.Battery = src.Battery
	}
}

func (s *Service) logErr(id string, err error) {
	if s.Ring == nil {
		return
	}
	code := errcode.Of(err)
	if errors.Is(err, context.DeadlineExceeded) {
		code = errcode.SensorTimeout
	}
	s.Ring.Log(timex.Now32(), retention.LevelWarn, retention.ModSense,
		id+": "+string(code))
}
