package sense

import (
	"context"

	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/types"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/x/mathx"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/shtc3"
)

// SHTC3Adaptor reads the inside temperature/humidity pair. The SHTC3 is
// kept asleep between reads; one wake episode costs one wake/read/sleep
// cycle on the part.
type SHTC3Adaptor struct {
	id  string
	drv shtc3.Device
}

func NewSHTC3Adaptor(id string, bus drivers.I2C) *SHTC3Adaptor {
	return &SHTC3Adaptor{id: id, drv: shtc3.New(bus)}
}

func (a *SHTC3Adaptor) ID() string { return a.id }

func (a *SHTC3Adaptor) Sample(ctx context.Context) (types.EnvSample, error) {
	if err := a.drv.WakeUp(); err != nil {
		return types.EnvSample{}, err
	}
	defer func() { _ = a.drv.Sleep() }()

	tmc, rhx100, err := a.drv.ReadTemperatureHumidity()
	if err != nil {
		return types.EnvSample{}, err
	}
	return shtc3Sample(tmc, int32(rhx100)), nil
}

// shtc3Sample converts the driver's milli-°C / hundredths-%RH pair into
// the fixed-point payload, clamped to the wire widths.
func shtc3Sample(tmc, rhx100 int32) types.EnvSample {
	decic := mathx.Clamp(tmc/100, -32768, 32767)
	rhx100 = mathx.Clamp(rhx100, 0, 10000)
	return types.EnvSample{
		InsideTemp: &types.TemperatureValue{DeciC: int16(decic)},
		InsideRH:   &types.HumidityValue{RHx100: uint16(rhx100)},
	}
}
