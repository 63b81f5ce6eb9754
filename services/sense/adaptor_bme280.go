package sense

import (
	"context"
	"errors"

	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/types"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/x/mathx"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/bme280"
)

var errBME280Absent = errors.New("bme280: not connected")

// BME280Adaptor reads the outside temperature/humidity and barometric
// pressure from the weatherproof probe.
type BME280Adaptor struct {
	id         string
	drv        bme280.Device
	configured bool
}

func NewBME280Adaptor(id string, bus drivers.I2C) *BME280Adaptor {
	return &BME280Adaptor{id: id, drv: bme280.New(bus)}
}

func (a *BME280Adaptor) ID() string { return a.id }

func (a *BME280Adaptor) Sample(ctx context.Context) (types.EnvSample, error) {
	if !a.configured {
		a.drv.Configure()
		if !a.drv.Connected() {
			return types.EnvSample{}, errBME280Absent
		}
		a.configured = true
	}

	tmc, err := a.drv.ReadTemperature() // milli-°C
	if err != nil {
		return types.EnvSample{}, err
	}
	mpa, err := a.drv.ReadPressure() // milli-Pa
	if err != nil {
		return types.EnvSample{}, err
	}
	rhx100, err := a.drv.ReadHumidity() // hundredths of %RH
	if err != nil {
		return types.EnvSample{}, err
	}
	return bme280Sample(tmc, mpa, rhx100), nil
}

// bme280Sample converts the driver's milli-°C / milli-Pa / hundredths-%RH
// readings into the fixed-point payload, clamped to the wire widths.
func bme280Sample(tmc, mpa, rhx100 int32) types.EnvSample {
	decic := mathx.Clamp(tmc/100, -32768, 32767)
	rhx100 = mathx.Clamp(rhx100, 0, 10000)
	return types.EnvSample{
		OutsideTemp: &types.TemperatureValue{DeciC: int16(decic)},
		OutsideRH:   &types.HumidityValue{RHx100: uint16(rhx100)},
		Pressure:    &types.PressureValue{DeciHPa: mpa / 10000},
	}
}
