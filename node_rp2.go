//go:build rp2040 || rp2350

package main

import (
	"machine"

	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/retention"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/services/config"
	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/services/sense"
)

// RP2 builds hold the domain image in RAM: the retention region stays
// powered through dormant sleep, so one MemBacking for the lifetime of
// the node is the checkpoint target.
var domainImage retention.MemBacking

func newBacking() retention.Backing { return &domainImage }

// adaptors wires the configured sensor roster over i2c0 at board-default
// pins, plus the VSYS battery gauge.
func adaptors(cfg config.Node, _ uint32) []sense.Adaptor {
	bus := machine.I2C0
	_ = bus.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	})
	return sense.Roster(cfg.InsideSensor, cfg.OutsideSensor, bus, newVSYSReader())
}

// vsysReader samples the pack voltage. On the Pico boards VSYS reaches
// GP29/ADC3 through an on-board divide-by-3.
type vsysReader struct {
	ch machine.ADC
}

func newVSYSReader() *vsysReader {
	machine.InitADC()
	ch := machine.ADC{Pin: machine.GPIO29}
	ch.Configure(machine.ADCConfig{})
	return &vsysReader{ch: ch}
}

func (r *vsysReader) ReadMilliVolts() (uint16, error) {
	raw := uint32(r.ch.Get()) // 16-bit against the 3.3V reference
	return uint16(raw * 3300 / 65535 * 3), nil
}
