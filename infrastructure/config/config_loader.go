package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"github.com/carlosrabelo/storecheck/domain/entities"
	"github.com/carlosrabelo/storecheck/domain/standards"
	"github.com/carlosrabelo/storecheck/infrastructure/transport"
)

// Defaults applied when the configuration leaves a value empty
const (
	DefaultTransport  = "ssh"
	DefaultPlatform   = "ios"
	DefaultHostSuffix = "X01"
	DefaultOutputDir  = "."
	DefaultSNMPPort   = 161
	DefaultCommunity  = "public"
)

// SNMPConfig drives the reachability probe
type SNMPConfig struct {
	Community string        `yaml:"community"`
	Port      int           `yaml:"port"`
	Timeout   time.Duration `yaml:"timeout"`
	Retries   int           `yaml:"retries"`
}

// SlackConfig drives the run summary notification
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	Channel    string `yaml:"channel"`
}

// Config defines the global configuration
type Config struct {
	Platform       string        `yaml:"platform"`
	Transport      string        `yaml:"transport"`
	Port           int           `yaml:"port"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	EnablePassword string        `yaml:"enable_password"`
	Enable         bool          `yaml:"enable"`
	Timeout        time.Duration `yaml:"timeout"`
	HostSuffix     string        `yaml:"host_suffix"`
	OutputDir      string        `yaml:"output_dir"`
	StandardsFile  string        `yaml:"standards_file"`
	SkipProbe      bool          `yaml:"skip_probe"`
	VerbosityLevel int           `yaml:"verbosity"`
	SNMP           SNMPConfig    `yaml:"snmp"`
	Slack          SlackConfig   `yaml:"slack"`
}

// Overrides carries values collected from flags and environment variables.
// Empty fields leave the loaded value untouched.
type Overrides struct {
	Username       string
	Password       string
	EnablePassword string
	OutputDir      string
	SlackWebhook   string
	SNMPCommunity  string
	Verbose        bool
	SkipProbe      bool
}

func validatePlatform(platform string) error {
	switch platform {
	case "ios", "auto":
		return nil
	default:
		return fmt.Errorf("platform %s is invalid, must be 'ios' or 'auto'", platform)
	}
}

func validateTransport(transportName string) error {
	switch transportName {
	case "ssh", "telnet":
		return nil
	default:
		return fmt.Errorf("transport %s is invalid, must be 'ssh' or 'telnet'", transportName)
	}
}

// Load reads the YAML file at path and applies defaults. A missing file yields a
// default configuration so that credentials can come from the environment alone.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.V(1).Infof("config file %s not found, using defaults", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read YAML file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML: %w", err)
			}
		}
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log.V(1).Infof("global values: Platform=%s, Transport=%s, Port=%d, Timeout=%s, OutputDir=%s", cfg.Platform, cfg.Transport, cfg.Port, cfg.Timeout, cfg.OutputDir)
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Platform = strings.ToLower(strings.TrimSpace(c.Platform))
	if c.Platform == "" {
		c.Platform = DefaultPlatform
	}
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	if c.Transport == "" {
		c.Transport = DefaultTransport
	}
	if c.Port == 0 {
		c.Port = transport.DefaultSSHPort
		if c.Transport == "telnet" {
			c.Port = transport.DefaultTelnetPort
		}
	}
	if c.Timeout <= 0 {
		c.Timeout = entities.DefaultTimeout
	}
	if c.HostSuffix == "" {
		c.HostSuffix = DefaultHostSuffix
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.SNMP.Community == "" {
		c.SNMP.Community = DefaultCommunity
	}
	if c.SNMP.Port == 0 {
		c.SNMP.Port = DefaultSNMPPort
	}
	if c.SNMP.Timeout <= 0 {
		c.SNMP.Timeout = 2 * time.Second
	}
}

func (c *Config) validate() error {
	if err := validatePlatform(c.Platform); err != nil {
		return err
	}
	if err := validateTransport(c.Transport); err != nil {
		return err
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d is invalid, must be between 1 and 65535", c.Port)
	}
	if c.VerbosityLevel < 0 || c.VerbosityLevel > 3 {
		return fmt.Errorf("verbosity %d is invalid, must be between 0 and 3", c.VerbosityLevel)
	}
	if c.SNMP.Retries < 0 {
		return fmt.Errorf("snmp retries %d is invalid", c.SNMP.Retries)
	}
	return nil
}

// ApplyOverrides merges flag and environment values, then checks that credentials are present
func (c *Config) ApplyOverrides(o Overrides) error {
	if o.Username != "" {
		c.Username = o.Username
	}
	if o.Password != "" {
		c.Password = o.Password
	}
	if o.EnablePassword != "" {
		c.EnablePassword = o.EnablePassword
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.SlackWebhook != "" {
		c.Slack.WebhookURL = o.SlackWebhook
	}
	if o.SNMPCommunity != "" {
		c.SNMP.Community = o.SNMPCommunity
	}
	if o.Verbose && c.VerbosityLevel == 0 {
		c.VerbosityLevel = 1
	}
	if o.SkipProbe {
		c.SkipProbe = true
	}

	if c.Username == "" {
		return fmt.Errorf("username is required (set AD_USERNAME or username in the config file)")
	}
	if c.Password == "" {
		return fmt.Errorf("password is required (set AD_PASSWORD or password in the config file)")
	}
	if c.Enable && c.EnablePassword == "" {
		return fmt.Errorf("enable_password is required when enable is set")
	}
	return nil
}

// Hostname derives the access-switch hostname of a store
func (c *Config) Hostname(store string) string {
	return strings.TrimSpace(store) + c.HostSuffix
}

// Session builds the connection parameters for one device
func (c *Config) Session(hostname string) entities.DeviceSession {
	return entities.DeviceSession{
		Target:         hostname,
		Transport:      c.Transport,
		Port:           c.Port,
		Username:       c.Username,
		Password:       c.Password,
		EnablePassword: c.EnablePassword,
		Platform:       c.Platform,
		Enable:         c.Enable,
		Timeout:        c.Timeout,
		VerbosityLevel: c.VerbosityLevel,
	}
}

// Standards returns the standards table named by standards_file, or the embedded one
func (c *Config) Standards() (*standards.Table, error) {
	if c.StandardsFile == "" {
		return standards.Default()
	}
	return standards.Load(c.StandardsFile)
}

// ReportPath names the report file of a store run started at t
func (c *Config) ReportPath(store string, t time.Time) string {
	name := fmt.Sprintf("%s_%s_store_test_results.xlsx", strings.TrimSpace(store), t.Format("2006-01-02_15-04-05"))
	return filepath.Join(c.OutputDir, name)
}
