//go:build !rp2040 && !rp2350

package main

import (
	"context"
	"math"
	"os"

	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/retention"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/services/config"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/services/sense"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/types"
)

// Host builds keep the retention domain in a file and run bench sensors:
// there is no I2C bus, so the adaptors synthesize a slow diurnal drift
// that lets change detection and refresh cadence be watched end to end.
// The real driver roster is wired in node_rp2.go.

func newBacking() retention.Backing {
	path := os.Getenv("NODE_RETENTION_PATH")
	if path == "" {
		path = "node-retention.bin"
	}
	return retention.NewFileBacking(path)
}

func adaptors(_ config.Node, wake uint32) []sense.Adaptor {
	return []sense.Adaptor{
		&benchEnv{id: "bench-env", wake: wake},
		sense.NewBatteryAdaptor("battery", &benchADC{wake: wake}),
	}
}

type benchEnv struct {
	id   string
	wake uint32
}

func (b *benchEnv) ID() string { return b.id }

func (b *benchEnv) Sample(ctx context.Context) (types.EnvSample, error) {
	phase := float64(b.wake) / 20 * 2 * math.Pi
	inT := int16(225 + 10*math.Sin(phase))    // deci-°C around 22.5
	outT := int16(180 + 40*math.Sin(phase/3)) // wider outdoor swing
	inRH := uint16(4500 + 300*math.Cos(phase))
	outRH := uint16(5500 + 900*math.Cos(phase/3))
	press := 10132 + int32(6*math.Sin(phase/5))
	return types.EnvSample{
		InsideTemp:  &types.TemperatureValue{DeciC: inT},
		InsideRH:    &types.HumidityValue{RHx100: inRH},
		OutsideTemp: &types.TemperatureValue{DeciC: outT},
		OutsideRH:   &types.HumidityValue{RHx100: outRH},
		Pressure:    &types.PressureValue{DeciHPa: press},
	}, nil
}

type benchADC struct {
	wake uint32
}

func (b *benchADC) ReadMilliVolts() (uint16, error) {
	// Pack drains a couple of millivolts per wake.
	mv := 4150 - int32(b.wake)*2
	if mv < 3300 {
		mv = 3300
	}
	return uint16(mv), nil
}
