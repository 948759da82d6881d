package ios

import (
	"fmt"
	"strings"

	"github.com/carlosrabelo/storecheck/domain/entities"
	"github.com/carlosrabelo/storecheck/domain/ports"
)

const driverName = "ios"

type commandParser struct {
	template string
	tree     func(output string) (entities.Tree, error)
}

var parsers = map[string]commandParser{
	"show version":                {template: templateShowVersion, tree: parseVersion},
	"show platform":               {template: templateShowPlatform, tree: parsePlatform},
	"show ip interface brief":     {template: templateShowIPInterfaceBrief, tree: parseIPInterfaceBrief},
	"show interfaces description": {template: templateShowInterfacesDescription, tree: parseInterfacesDescription},
	"show cdp neighbors":          {template: templateShowCDPNeighbors, tree: parseCDPNeighbors},
	"show environment power all":  {template: templateShowEnvironmentPowerAll, tree: parsePowerSupplies},
}

var commandAliases = map[string]string{
	"show cdp neighbor":          "show cdp neighbors",
	"show interface description": "show interfaces description",
	"show ip int brief":          "show ip interface brief",
	"show ver":                   "show version",
}

// Driver implements the SwitchDriver behaviour for Cisco IOS and IOS-XE switches.
type Driver struct{}

// New creates a new IOS driver instance.
func New() *Driver {
	return &Driver{}
}

// Name returns the canonical platform identifier.
func (d *Driver) Name() string {
	return driverName
}

// Detect inspects the device to determine whether it is running IOS.
func (d *Driver) Detect(repo ports.SwitchRepository) (bool, error) {
	if !repo.IsConnected() {
		if err := repo.Connect(); err != nil {
			return false, err
		}
	}
	output, err := repo.ExecuteCommand("show version")
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(output), "cisco ios"), nil
}

// LoginSequence returns the prompts IOS shows on login and on enable.
func (d *Driver) LoginSequence(username, password, enablePassword string) entities.LoginSequence {
	return entities.LoginSequence{
		Auth: []entities.AuthPrompt{
			{WaitFor: "Username:", SendCmd: username + "\n"},
			{WaitFor: "Password:", SendCmd: password + "\n", Secret: true},
		},
		Enable: []entities.AuthPrompt{
			{WaitFor: ">", SendCmd: "enable\n"},
			{WaitFor: "Password:", SendCmd: enablePassword + "\n", Secret: true},
		},
		Setup: []string{"terminal length 0", "terminal width 511"},
	}
}

// Parse turns raw command output into the representation selected by mode.
func (d *Driver) Parse(command string, mode entities.ParseMode, raw string) (*entities.CommandOutput, error) {
	out := &entities.CommandOutput{Command: command, Mode: mode, Raw: raw}
	if mode == entities.ParseNone {
		return out, nil
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %s", entities.ErrInvalidParser, mode)
	}

	parser, ok := parsers[normalizeCommand(command)]
	if !ok {
		return nil, &entities.ExecError{Command: command, Mode: mode, Err: errNoTemplate}
	}
	if isIOSCommandError(raw) {
		return nil, &entities.ExecError{Command: command, Mode: mode, Err: fmt.Errorf("device rejected command: %s", firstLine(raw))}
	}

	switch mode {
	case entities.ParseGenie:
		tree, err := parser.tree(raw)
		if err != nil {
			return nil, &entities.ExecError{Command: command, Mode: mode, Err: err}
		}
		out.Tree = tree
	case entities.ParseTextFSM:
		rows, err := runTemplate(parser.template, raw)
		if err != nil {
			return nil, &entities.ExecError{Command: command, Mode: mode, Err: err}
		}
		out.Rows = rows
	}
	return out, nil
}

// Supports reports whether a structured parser exists for command.
func (d *Driver) Supports(command string) bool {
	_, ok := parsers[normalizeCommand(command)]
	return ok
}

func normalizeCommand(command string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(command), " "))
	if alias, ok := commandAliases[normalized]; ok {
		return alias
	}
	return normalized
}

func firstLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
