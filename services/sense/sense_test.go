package sense

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/retention"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/types"
)

// stubAdaptor scripts one sensor source.
type stubAdaptor struct {
	id     string
	sample types.EnvSample
	err    error
	block  bool
}

func (s *stubAdaptor) ID() string { return s.id }

func (s *stubAdaptor) Sample(ctx context.Context) (types.EnvSample, error) {
	if s.block {
		<-ctx.Done()
		return types.EnvSample{}, ctx.Err()
	}
	return s.sample, s.err
}

func TestRunMergesAdaptors(t *testing.T) {
	inside := &stubAdaptor{id: "shtc3", sample: types.EnvSample{
		InsideTemp: &types.TemperatureValue{DeciC: 225},
		InsideRH:   &types.HumidityValue{RHx100: 4512},
	}}
	outside := &stubAdaptor{id: "bme280", sample: types.EnvSample{
		OutsideTemp: &types.TemperatureValue{DeciC: 101},
		Pressure:    &types.PressureValue{DeciHPa: 10132},
	}}
	batt := &stubAdaptor{id: "batt", sample: types.EnvSample{
		Battery: &types.BatteryValue{Percent: 77, MilliVolts: 3993},
	}}

	s := &Service{Adaptors: []Adaptor{inside, outside, batt}}
	got := s.Run(context.Background())

	if got.InsideTemp == nil || got.InsideTemp.DeciC != 225 {
		t.Error("inside temperature missing from merge")
	}
	if got.InsideRH == nil || got.InsideRH.RHx100 != 4512 {
		t.Error("inside humidity missing from merge")
	}
	if got.OutsideTemp == nil || got.Pressure == nil {
		t.Error("outside readings missing from merge")
	}
	if got.OutsideRH != nil {
		t.Error("no adaptor produced outside humidity, field should stay nil")
	}
	if got.Battery == nil || got.Battery.Percent != 77 {
		t.Error("battery missing from merge")
	}
}

func TestRunSkipsFailingAdaptorAndLogs(t *testing.T) {
	ring := retention.NewLogRing()
	ring.Begin()

	ok := &stubAdaptor{id: "shtc3", sample: types.EnvSample{
		InsideTemp: &types.TemperatureValue{DeciC: 200},
	}}
	broken := &stubAdaptor{id: "bme280", err: errors.New("bus stuck")}

	s := &Service{Adaptors: []Adaptor{broken, ok}, Ring: ring}
	got := s.Run(context.Background())

	if got.InsideTemp == nil {
		t.Error("healthy adaptor should still contribute")
	}
	if got.OutsideTemp != nil {
		t.Error("failed adaptor must not contribute")
	}
	if ring.Len() != 1 {
		t.Fatalf("ring len = %d, want 1 warning", ring.Len())
	}
	var e retention.Entry
	ring.EntryAt(0, &e)
	if e.Level != retention.LevelWarn || e.Module != retention.ModSense {
		t.Errorf("log record = level %d module %d", e.Level, e.Module)
	}
}

func TestRunTimesOutSlowAdaptor(t *testing.T) {
	ring := retention.NewLogRing()
	ring.Begin()

	slow := &stubAdaptor{id: "hung", block: true}
	s := &Service{Adaptors: []Adaptor{slow}, Ring: ring, SampleTimeout: 10 * time.Millisecond}

	done := make(chan types.EnvSample, 1)
	go func() { done <- s.Run(context.Background()) }()
	select {
	case got := <-done:
		if got.InsideTemp != nil {
			t.Error("timed-out adaptor must not contribute")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return; per-adaptor timeout not applied")
	}
	if ring.Len() != 1 {
		t.Fatalf("ring len = %d, want 1 timeout warning", ring.Len())
	}
	var e retention.Entry
	ring.EntryAt(0, &e)
	if e.MessageString() == "" || e.Level != retention.LevelWarn {
		t.Errorf("timeout record = %q level %d", e.MessageString(), e.Level)
	}
}

func TestCommitWritesOnlyPresentFields(t *testing.T) {
	st := retention.NewStore()
	st.InitializeOrResume(nil)
	st.SetLastOutsideTempF(50) // retained from an earlier wake

	Commit(st, types.EnvSample{
		InsideTemp: &types.TemperatureValue{DeciC: 225}, // 22.5C = 72.5F
		InsideRH:   &types.HumidityValue{RHx100: 4550},
		Battery:    &types.BatteryValue{Percent: 91},
	})

	if got := st.LastInsideTempF(); math.Abs(float64(got)-72.5) > 0.01 {
		t.Errorf("inside temp = %v, want 72.5", got)
	}
	if st.LastInsideRH() != 455 {
		t.Errorf("inside rh = %d, want 455", st.LastInsideRH())
	}
	if st.LastBatteryPct() != 91 {
		t.Errorf("battery = %d, want 91", st.LastBatteryPct())
	}
	// Absent fields keep the retained values.
	if st.LastOutsideTempF() != 50 {
		t.Errorf("outside temp = %v, should keep retained value", st.LastOutsideTempF())
	}
	if st.LastOutsideRH() != retention.RHUnknown {
		t.Error("outside rh should stay at the sentinel")
	}
}

type stubADC struct {
	mv  uint16
	err error
}

func (a stubADC) ReadMilliVolts() (uint16, error) { return a.mv, a.err }

func TestBatteryAdaptor(t *testing.T) {
	a := NewBatteryAdaptor("batt", stubADC{mv: 3750})
	got, err := a.Sample(context.Background())
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if got.Battery == nil || got.Battery.Percent != 50 || got.Battery.MilliVolts != 3750 {
		t.Errorf("battery = %+v", got.Battery)
	}

	if _, err := NewBatteryAdaptor("batt", stubADC{err: errors.New("adc")}).Sample(context.Background()); err == nil {
		t.Error("adc failure should surface")
	}
}

func TestPercentFromMilliVolts(t *testing.T) {
	cases := []struct {
		mv   uint16
		want int8
	}{
		{3300, 0},
		{4200, 100},
		{3000, 0},   // clamped below empty
		{4400, 100}, // clamped above full
		{3750, 50},
	}
	for _, tc := range cases {
		if got := PercentFromMilliVolts(tc.mv); got != tc.want {
			t.Errorf("PercentFromMilliVolts(%d) = %d, want %d", tc.mv, got, tc.want)
		}
	}
}
