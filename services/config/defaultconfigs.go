package config

// Embedded per-device configs. The build for a fleet adds entries here;
// "default" is the bench node.
var embeddedConfigs = map[string][]byte{
	"default": []byte(`{
		"wake_interval_s": 150,
		"max_partial_updates": 10,
		"inside_sensor": "shtc3",
		"outside_sensor": "bme280"
	}`),
	"porch-node": []byte(`{
		"wake_interval_s": 300,
		"max_partial_updates": 6,
		"inside_sensor": "shtc3",
		"outside_sensor": "bme280"
	}`),
}
