package types

// ------------------------
// Environmental readings
// ------------------------

// Sensor values travel as fixed point; floats appear only at the
// display/retention edge where °F with one decimal is the house unit.

type TemperatureValue struct {
	// Tenths of °C (e.g. 231 => 23.1°C).
	DeciC int16 `json:"deci_c"`
}

// DegF converts to °F.
func (t TemperatureValue) DegF() float32 {
	return float32(t.DeciC)/10*9/5 + 32
}

type HumidityValue struct {
	// Hundredths of %RH (0..10000 for 0..100.00%).
	RHx100 uint16 `json:"rh_x100"`
}

// DeciRH converts to tenths of %RH, the width the retention store keeps.
func (h HumidityValue) DeciRH() int16 {
	return int16(h.RHx100 / 10)
}

type PressureValue struct {
	// Tenths of hPa (e.g. 10132 => 1013.2 hPa).
	DeciHPa int32 `json:"deci_hpa"`
}

func (p PressureValue) HPa() float32 {
	return float32(p.DeciHPa) / 10
}

type BatteryValue struct {
	Percent    int8   `json:"percent"` // -1 = unknown
	MilliVolts uint16 `json:"mv"`
}

// EnvSample is one wake episode's worth of observations. Nil pointers
// mean the sensor did not produce a reading this wake; the previous
// retained value stays authoritative.
type EnvSample struct {
	InsideTemp  *TemperatureValue
	InsideRH    *HumidityValue
	OutsideTemp *TemperatureValue
	OutsideRH   *HumidityValue
	Pressure    *PressureValue
	Battery     *BatteryValue
}
