// Package standards holds the expected values an access-switch stack is certified against.
package standards

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed access_switch.yaml
var accessSwitchYAML []byte

// PSU evaluation policies
const (
	PSUEvaluateAll   = "all"
	PSUEvaluateFirst = "first"
)

type document struct {
	OSVersion      string   `yaml:"os_version"`
	StackMembers   int      `yaml:"stack_members"`
	StackMode      string   `yaml:"stack_mode"`
	PlatformModels []string `yaml:"platform_models"`
	PlatformInfo   string   `yaml:"platform_info"`
	LicensePackage string   `yaml:"license_package"`
	SystemImage    string   `yaml:"system_image"`
	CDPMin         int      `yaml:"cdp_min_neighbors"`
	CellularRouter struct {
		Interface string   `yaml:"interface"`
		Models    []string `yaml:"models"`
	} `yaml:"cellular_router"`
	PSU struct {
		Status     string `yaml:"status"`
		SysPwr     string `yaml:"sys_pwr"`
		Evaluation string `yaml:"evaluation"`
	} `yaml:"psu"`
	StatusInterfaces      []string          `yaml:"status_interfaces"`
	DescriptionInterfaces []string          `yaml:"description_interfaces"`
	Descriptions          map[string]string `yaml:"interface_descriptions"`
}

// Table is the immutable standards reference. Accessors hand out copies.
type Table struct {
	doc document
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the embedded access-switch standard, parsed once per process
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(accessSwitchYAML)
	})
	return defaultTable, defaultErr
}

// MustDefault is Default for callers that cannot continue without the embedded table
func MustDefault() *Table {
	table, err := Default()
	if err != nil {
		panic(err)
	}
	return table
}

// Load reads a standards table from a YAML file
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read standards file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a standards document
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse standards YAML: %w", err)
	}
	if doc.OSVersion == "" {
		return nil, fmt.Errorf("standards: os_version is required")
	}
	if doc.StackMembers < 1 {
		return nil, fmt.Errorf("standards: stack_members must be at least 1")
	}
	if doc.StackMode == "" {
		return nil, fmt.Errorf("standards: stack_mode is required")
	}
	if len(doc.PlatformModels) == 0 {
		return nil, fmt.Errorf("standards: platform_models must not be empty")
	}
	if doc.CDPMin < 1 {
		return nil, fmt.Errorf("standards: cdp_min_neighbors must be at least 1")
	}
	doc.PSU.Evaluation = strings.ToLower(strings.TrimSpace(doc.PSU.Evaluation))
	if doc.PSU.Evaluation == "" {
		doc.PSU.Evaluation = PSUEvaluateAll
	}
	if doc.PSU.Evaluation != PSUEvaluateAll && doc.PSU.Evaluation != PSUEvaluateFirst {
		return nil, fmt.Errorf("standards: psu.evaluation %s is invalid, must be 'all' or 'first'", doc.PSU.Evaluation)
	}
	for _, iface := range doc.DescriptionInterfaces {
		if _, ok := doc.Descriptions[iface]; !ok {
			return nil, fmt.Errorf("standards: no expected description for %s", iface)
		}
	}
	return &Table{doc: doc}, nil
}

func (t *Table) OSVersion() string      { return t.doc.OSVersion }
func (t *Table) StackMembers() int      { return t.doc.StackMembers }
func (t *Table) StackMode() string      { return t.doc.StackMode }
func (t *Table) PlatformInfo() string   { return t.doc.PlatformInfo }
func (t *Table) LicensePackage() string { return t.doc.LicensePackage }
func (t *Table) SystemImage() string    { return t.doc.SystemImage }

// CDPMinNeighbors is the smallest neighbor count that passes
func (t *Table) CDPMinNeighbors() int { return t.doc.CDPMin }

// PlatformModels returns the accepted platform model substrings
func (t *Table) PlatformModels() []string {
	return append([]string(nil), t.doc.PlatformModels...)
}

// CellularRouterInterface is the switch port the cellular router hangs off
func (t *Table) CellularRouterInterface() string { return t.doc.CellularRouter.Interface }

// CellularRouterModels returns the accepted cellular router model substrings
func (t *Table) CellularRouterModels() []string {
	return append([]string(nil), t.doc.CellularRouter.Models...)
}

func (t *Table) PSUStatus() string     { return t.doc.PSU.Status }
func (t *Table) PSUSysPwr() string     { return t.doc.PSU.SysPwr }
func (t *Table) PSUEvaluation() string { return t.doc.PSU.Evaluation }

// StatusInterfaces lists the ports whose line/protocol state is checked, in plan order
func (t *Table) StatusInterfaces() []string {
	return append([]string(nil), t.doc.StatusInterfaces...)
}

// DescriptionInterfaces lists the ports whose description is checked, in plan order
func (t *Table) DescriptionInterfaces() []string {
	return append([]string(nil), t.doc.DescriptionInterfaces...)
}

// Description returns the expected description of iface
func (t *Table) Description(iface string) (string, bool) {
	desc, ok := t.doc.Descriptions[iface]
	return desc, ok
}

// Descriptions returns a copy of the whole per-port description map
func (t *Table) Descriptions() map[string]string {
	out := make(map[string]string, len(t.doc.Descriptions))
	for iface, desc := range t.doc.Descriptions {
		out[iface] = desc
	}
	return out
}
