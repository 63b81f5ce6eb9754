package sense

import "tinygo.org/x/drivers"

// Roster builds the adaptor set for a configured sensor roster. Names
// come from the node config; an unknown or empty name is skipped rather
// than failing the boot, so a node with a miswired config still wakes,
// logs, and renders whatever it can read. A nil adc drops the battery
// gauge the same way.
func Roster(inside, outside string, bus drivers.I2C, adc VoltageReader) []Adaptor {
	var out []Adaptor
	if inside == "shtc3" {
		out = append(out, NewSHTC3Adaptor(inside, bus))
	}
	if outside == "bme280" {
		out = append(out, NewBME280Adaptor(outside, bus))
	}
	if adc != nil {
		out = append(out, NewBatteryAdaptor("battery", adc))
	}
	return out
}
