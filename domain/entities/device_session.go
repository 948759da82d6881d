package entities

import (
	"strings"
	"time"
)

// DeviceSession identifies one physical device and how to reach it.
// It carries connection parameters only; nothing about it is persisted.
type DeviceSession struct {
	Target         string
	Transport      string
	Port           int
	Username       string
	Password       string
	EnablePassword string
	Platform       string
	Enable         bool
	Timeout        time.Duration
	VerbosityLevel int
}

// IsDebugEnabled returns true if debug logs are enabled
func (ds DeviceSession) IsDebugEnabled() bool {
	return ds.VerbosityLevel == 1 || ds.VerbosityLevel == 3
}

// IsRawOutputEnabled returns true if raw switch output is enabled
func (ds DeviceSession) IsRawOutputEnabled() bool {
	return ds.VerbosityLevel == 2 || ds.VerbosityLevel == 3
}

// PlatformID returns the normalized platform identifier, defaulting to ios
func (ds DeviceSession) PlatformID() string {
	platform := strings.ToLower(strings.TrimSpace(ds.Platform))
	if platform == "" {
		return "ios"
	}
	return platform
}

// ReadTimeout returns the per-read deadline used by transports
func (ds DeviceSession) ReadTimeout() time.Duration {
	if ds.Timeout <= 0 {
		return DefaultTimeout
	}
	return ds.Timeout
}

// DefaultTimeout bounds every blocking read from a device.
const DefaultTimeout = 120 * time.Second
