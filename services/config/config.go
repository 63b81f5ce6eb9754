// Package config resolves the node's embedded configuration: wake
// cadence, refresh budget and sensor roster. Configs are compiled into
// the binary per device id; there is no filesystem format and no
// runtime reload — a node reads its config once per boot.
package config

import (
	"errors"

	"github.com/andreyvit/tinyjson"
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// Node is the resolved configuration.
type Node struct {
	Device            string
	WakeIntervalS     int    // seconds between wake episodes
	MaxPartialUpdates uint16 // partial refreshes before a forced full
	InsideSensor      string // e.g. "shtc3"
	OutsideSensor     string // e.g. "bme280"
}

var (
	ErrUnknownDevice = errors.New("config: no embedded config for device")
	ErrNotObject     = errors.New("config: embedded config is not a JSON object")
)

// Load parses the embedded config for the device, filling defaults for
// anything the config omits.
func Load(device string) (Node, error) {
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return Node{}, ErrUnknownDevice
	}

	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return Node{}, ErrNotObject
	}

	n := Node{
		Device:            device,
		WakeIntervalS:     150,
		MaxPartialUpdates: 10,
		InsideSensor:      "shtc3",
		OutsideSensor:     "bme280",
	}
	if v, ok := numField(m, "wake_interval_s"); ok && v > 0 {
		n.WakeIntervalS = int(v)
	}
	if v, ok := numField(m, "max_partial_updates"); ok && v > 0 && v < 1<<16 {
		n.MaxPartialUpdates = uint16(v)
	}
	if v, ok := m["inside_sensor"].(string); ok && v != "" {
		n.InsideSensor = v
	}
	if v, ok := m["outside_sensor"].(string); ok && v != "" {
		n.OutsideSensor = v
	}
	return n, nil
}

func numField(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
