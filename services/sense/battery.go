package sense

import (
	"context"

	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/types"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/x/mathx"
)

// VoltageReader reads the battery divider. On target this is an ADC
// channel; tests script it.
type VoltageReader interface {
	ReadMilliVolts() (uint16, error)
}

// LiPo discharge window for the percent estimate. A flat linear map is
// crude but monotonic, which is all the display needs.
const (
	battEmptyMV = 3300
	battFullMV  = 4200
)

// BatteryAdaptor estimates state of charge from pack voltage.
type BatteryAdaptor struct {
	id  string
	adc VoltageReader
}

func NewBatteryAdaptor(id string, adc VoltageReader) *BatteryAdaptor {
	return &BatteryAdaptor{id: id, adc: adc}
}

func (a *BatteryAdaptor) ID() string { return a.id }

func (a *BatteryAdaptor) Sample(ctx context.Context) (types.EnvSample, error) {
	mv, err := a.adc.ReadMilliVolts()
	if err != nil {
		return types.EnvSample{}, err
	}
	return types.EnvSample{
		Battery: &types.BatteryValue{Percent: PercentFromMilliVolts(mv), MilliVolts: mv},
	}, nil
}

// PercentFromMilliVolts maps pack voltage onto 0..100, clamped at the
// window edges.
func PercentFromMilliVolts(mv uint16) int8 {
	return int8(mathx.MapU16(mv, battEmptyMV, battFullMV, 0, 100))
}
