package hunt

import (
	"fmt"
	"strings"
)

// Environment tells the completion workflow which coordinate policy runs.
type Environment int

const (
	// EnvDevice is a real host with live sensors.
	EnvDevice Environment = iota
	// EnvSandbox is a simulated deployment without a trustworthy GPS
	// signal; completions pin a deterministic fallback coordinate instead
	// of consulting the live provider.
	EnvSandbox
)

// String returns the configuration name of the environment.
func (e Environment) String() string {
	switch e {
	case EnvSandbox:
		return "sandbox"
	default:
		return "device"
	}
}

// ParseEnvironment maps a configuration value onto an Environment. The
// empty string means EnvDevice.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "device":
		return EnvDevice, nil
	case "sandbox":
		return EnvSandbox, nil
	default:
		return 0, fmt.Errorf("hunt: unknown environment %q", s)
	}
}
