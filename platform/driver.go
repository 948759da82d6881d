package platform

import (
	"fmt"
	"strings"

	"github.com/carlosrabelo/storecheck/domain/entities"
	"github.com/carlosrabelo/storecheck/domain/ports"
	"github.com/carlosrabelo/storecheck/platform/ios"
)

// AutoDetect is the platform name that asks Detect to probe the device.
const AutoDetect = "auto"

// SwitchDriver defines the behaviour required to support a switching platform.
type SwitchDriver interface {
	Name() string
	Detect(repo ports.SwitchRepository) (bool, error)

	// LoginSequence returns the prompts this platform shows during login and elevation
	LoginSequence(username, password, enablePassword string) entities.LoginSequence

	// Parse converts raw command output into the representation selected by mode
	Parse(command string, mode entities.ParseMode, raw string) (*entities.CommandOutput, error)
	Supports(command string) bool
}

var registry = []SwitchDriver{
	ios.New(),
}

// Get returns a driver by normalized platform name.
func Get(name string) (SwitchDriver, error) {
	normalized := normalizeName(name)
	for _, driver := range registry {
		if driver.Name() == normalized {
			return driver, nil
		}
	}
	return nil, fmt.Errorf("unknown switch platform: %s", name)
}

// Available returns all registered drivers.
func Available() []SwitchDriver {
	out := make([]SwitchDriver, len(registry))
	copy(out, registry)
	return out
}

// Detect tries all registered drivers until one matches.
func Detect(repo ports.SwitchRepository) (SwitchDriver, error) {
	var lastErr error
	for _, driver := range registry {
		matched, err := driver.Detect(repo)
		if err != nil {
			lastErr = err
			continue
		}
		if matched {
			return driver, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("unable to detect switch platform")
}

// Resolve returns the named driver, probing the device when name is "auto".
func Resolve(name string, repo ports.SwitchRepository) (SwitchDriver, error) {
	if normalizeName(name) == AutoDetect {
		return Detect(repo)
	}
	return Get(name)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
