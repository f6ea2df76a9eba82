// Package common provides constants shared by the adthand daemon and
// its command line client.
package common

// Environment variable names for configuration.
const (
	// ConfigPathEnv overrides the location of the YAML config file.
	ConfigPathEnv = "ADTHAND_CONFIG"

	// DebugEnv enables client side debug logging when set to "1".
	DebugEnv = "ADTHAND_DEBUG"
)
