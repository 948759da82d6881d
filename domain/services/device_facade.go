package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/carlosrabelo/storecheck/domain/entities"
	"github.com/carlosrabelo/storecheck/domain/ports"
)

const (
	cmdShowVersion             = "show version"
	cmdShowPlatform            = "show platform"
	cmdShowIPInterfaceBrief    = "show ip interface brief"
	cmdShowInterfacesDesc      = "show interfaces description"
	cmdShowCDPNeighbors        = "show cdp neighbors"
	cmdShowEnvironmentPowerAll = "show environment power all"
)

var errNoTree = errors.New("parser returned no structured result")

// DeviceFacade exposes named device facts. Every getter runs its command again;
// nothing is cached between calls.
type DeviceFacade struct {
	exec ports.CommandExecutor
}

// NewDeviceFacade creates a facade over a command executor
func NewDeviceFacade(exec ports.CommandExecutor) *DeviceFacade {
	return &DeviceFacade{exec: exec}
}

func (f *DeviceFacade) tree(command string) (entities.Tree, error) {
	out, err := f.exec.Execute(command, entities.ParseGenie)
	if err != nil {
		return nil, err
	}
	if out.Tree == nil {
		return nil, &entities.ExecError{Command: command, Mode: entities.ParseGenie, Err: errNoTree}
	}
	return out.Tree, nil
}

func (f *DeviceFacade) versionField(field string) (string, error) {
	tree, err := f.tree(cmdShowVersion)
	if err != nil {
		return "", err
	}
	return tree.String("version", field)
}

// ShowVersion returns the whole structured show version result
func (f *DeviceFacade) ShowVersion() (entities.Tree, error) {
	return f.tree(cmdShowVersion)
}

func (f *DeviceFacade) OSVersion() (string, error)    { return f.versionField("version") }
func (f *DeviceFacade) Chassis() (string, error)      { return f.versionField("chassis") }
func (f *DeviceFacade) ImageID() (string, error)      { return f.versionField("image_id") }
func (f *DeviceFacade) PlatformInfo() (string, error) { return f.versionField("platform") }

// stackMembers returns the switch_num mapping; a standalone switch has none
func (f *DeviceFacade) stackMembers() (entities.Tree, error) {
	tree, err := f.tree(cmdShowVersion)
	if err != nil {
		return nil, err
	}
	members, err := tree.Subtree("version", "switch_num")
	if errors.Is(err, entities.ErrNotFound) {
		if _, verr := tree.Subtree("version"); verr != nil {
			return nil, verr
		}
		return entities.Tree{}, nil
	}
	return members, err
}

// StackMemberCount returns the number of switches in the stack
func (f *DeviceFacade) StackMemberCount() (int, error) {
	members, err := f.stackMembers()
	if err != nil {
		return 0, err
	}
	return len(members), nil
}

// StackMemberModes maps every stack member id to its boot mode
func (f *DeviceFacade) StackMemberModes() (map[string]string, error) {
	members, err := f.stackMembers()
	if err != nil {
		return nil, err
	}
	modes := make(map[string]string, len(members))
	for _, id := range members.SortedKeys() {
		mode, err := members.String(id, "mode")
		if err != nil {
			return nil, err
		}
		modes[id] = mode
	}
	return modes, nil
}

// PlatformSlots returns, per hardware slot in slot order, the route-processor models found there
func (f *DeviceFacade) PlatformSlots() ([][]string, error) {
	tree, err := f.tree(cmdShowPlatform)
	if err != nil {
		return nil, err
	}
	slots, err := tree.Subtree("slot")
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(slots))
	for _, slot := range slots.SortedKeys() {
		rp, err := slots.Subtree(slot, "rp")
		if err != nil {
			return nil, err
		}
		out = append(out, rp.SortedKeys())
	}
	return out, nil
}

// InterfaceDescription returns the configured description of iface, verbatim
func (f *DeviceFacade) InterfaceDescription(iface string) (string, error) {
	if strings.TrimSpace(iface) == "" {
		return "", fmt.Errorf("%w: interface", entities.ErrMissingArgument)
	}
	tree, err := f.tree(cmdShowInterfacesDesc)
	if err != nil {
		return "", err
	}
	return tree.String("interfaces", iface, "description")
}

// InterfaceState returns line and protocol state of iface from show ip interface brief
func (f *DeviceFacade) InterfaceState(iface string) (entities.InterfaceState, error) {
	if strings.TrimSpace(iface) == "" {
		return entities.InterfaceState{}, fmt.Errorf("%w: interface", entities.ErrMissingArgument)
	}
	tree, err := f.tree(cmdShowIPInterfaceBrief)
	if err != nil {
		return entities.InterfaceState{}, err
	}
	entry, err := tree.Subtree("interface", iface)
	if err != nil {
		return entities.InterfaceState{}, err
	}
	status, err := entry.String("status")
	if err != nil {
		return entities.InterfaceState{}, err
	}
	protocol, err := entry.String("protocol")
	if err != nil {
		return entities.InterfaceState{}, err
	}
	return entities.InterfaceState{Interface: iface, Status: status, Protocol: protocol}, nil
}

// CDPNeighbors returns the neighbor table in index order
func (f *DeviceFacade) CDPNeighbors() ([]entities.CDPNeighbor, error) {
	tree, err := f.tree(cmdShowCDPNeighbors)
	if err != nil {
		return nil, err
	}
	index, err := tree.Subtree("cdp", "index")
	if err != nil {
		return nil, err
	}
	neighbors := make([]entities.CDPNeighbor, 0, len(index))
	for _, key := range index.SortedKeys() {
		entry, err := index.Subtree(key)
		if err != nil {
			return nil, err
		}
		field := func(name string) string {
			value, _ := entry.String(name)
			return value
		}
		neighbors = append(neighbors, entities.CDPNeighbor{
			DeviceID:       field("device_id"),
			LocalInterface: field("local_interface"),
			HoldTime:       field("hold_time"),
			Capability:     field("capability"),
			Platform:       field("platform"),
			PortID:         field("port_id"),
		})
	}
	return neighbors, nil
}

// PowerSupplies returns the installed power supplies, one per textfsm record
func (f *DeviceFacade) PowerSupplies() ([]entities.PowerSupply, error) {
	out, err := f.exec.Execute(cmdShowEnvironmentPowerAll, entities.ParseTextFSM)
	if err != nil {
		return nil, err
	}
	supplies := make([]entities.PowerSupply, 0, len(out.Rows))
	for _, row := range out.Rows {
		supplies = append(supplies, entities.PowerSupply{
			Slot:   row["sw"],
			Model:  row["pid"],
			Serial: row["serial"],
			Status: row["status"],
			SysPwr: row["sys_pwr"],
			PoEPwr: row["poe_pwr"],
			Watts:  row["watts"],
		})
	}
	return supplies, nil
}

// Privileged reports whether the session sits at a privileged prompt
func (f *DeviceFacade) Privileged() (bool, error) {
	return f.exec.ProbePrivilegeLevel()
}

// Raw runs any command and returns its unparsed output
func (f *DeviceFacade) Raw(command string) (string, error) {
	out, err := f.exec.Execute(command, entities.ParseNone)
	if err != nil {
		return "", err
	}
	return out.Raw, nil
}
