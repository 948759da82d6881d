package services

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/golang/glog"

	"github.com/carlosrabelo/storecheck/domain/entities"
	"github.com/carlosrabelo/storecheck/domain/standards"
)

// Report names of the access-switch checks
const (
	NameOSVersion       = "Platform OS Test"
	NameStackCount      = "Switch Stack Member Count Test"
	NameStackModes      = "Device Mode Test."
	NameCDPNeighbors    = "Number of CDP Neighbor per device."
	NameCellularRouter  = "Switch Stack POLR connection Test"
	NamePlatform        = "Switch Platform Test"
	NameAAA             = "Device AAA Configuration Test"
	NamePSUStatus       = "Device PSU Status Test"
	NameNumberOfPSU     = "Device Active PSU Number Test"
	nameInterfaceStatus = "Device Interface %s Status Test."
	nameDescription     = "%s description test"
)

// Check is one step of a validation plan. Title only labels progress output.
type Check struct {
	Title string
	Run   func() (entities.CheckOutcome, error)
}

// AccessSwitchSuite compares a live access-switch stack against a standards table.
// It holds no mutable state; running a check twice against an unchanged device
// yields the same outcome.
type AccessSwitchSuite struct {
	device *DeviceFacade
	table  *standards.Table
}

// NewAccessSwitchSuite creates a suite for one device
func NewAccessSwitchSuite(device *DeviceFacade, table *standards.Table) *AccessSwitchSuite {
	return &AccessSwitchSuite{device: device, table: table}
}

// Plan returns every check of a store certification run in execution order
func (s *AccessSwitchSuite) Plan() []Check {
	plan := []Check{
		{Title: "System OS Version Test", Run: s.CheckOSVersion},
		{Title: "Switch CDP Neighbor Number Test", Run: s.CheckCDPNeighborNumber},
		{Title: "Switch POLR Interface Test", Run: s.CheckCDPCellularRouterInterface},
		{Title: "Switch Platform Test", Run: s.CheckPlatform},
		{Title: "Switch Stack Member Count", Run: s.CheckNumberOfSwPerStack},
		{Title: "Switch Stack Mode Test", Run: s.CheckModesOfSwStack},
	}
	for _, iface := range s.table.StatusInterfaces() {
		iface := iface
		plan = append(plan, Check{
			Title: "Switch Interface Status Test - " + iface,
			Run:   func() (entities.CheckOutcome, error) { return s.CheckDeviceInterfaceStatus(iface) },
		})
	}
	for _, iface := range s.table.DescriptionInterfaces() {
		iface := iface
		plan = append(plan, Check{
			Title: "Interface Description Test - " + iface,
			Run:   func() (entities.CheckOutcome, error) { return s.CheckInterfaceDescription(iface) },
		})
	}
	return append(plan,
		Check{Title: NameAAA, Run: s.CheckAAAConfiguration},
		Check{Title: NamePSUStatus, Run: s.CheckPSUStatus},
		Check{Title: NameNumberOfPSU, Run: s.CheckNumberOfPSU},
	)
}

// CheckOSVersion compares the running OS version with the standard
func (s *AccessSwitchSuite) CheckOSVersion() (entities.CheckOutcome, error) {
	version, err := s.device.OSVersion()
	if err != nil {
		return entities.CheckOutcome{}, err
	}
	return entities.NewOutcome(NameOSVersion, version, version == s.table.OSVersion()), nil
}

// CheckNumberOfSwPerStack compares the stack member count with the standard
func (s *AccessSwitchSuite) CheckNumberOfSwPerStack() (entities.CheckOutcome, error) {
	count, err := s.device.StackMemberCount()
	if err != nil {
		return entities.CheckOutcome{}, err
	}
	return entities.NewOutcome(NameStackCount, strconv.Itoa(count), count == s.table.StackMembers()), nil
}

// CheckModesOfSwStack requires every stack member to boot in the standard mode.
// A stack that reports no members fails.
func (s *AccessSwitchSuite) CheckModesOfSwStack() (entities.CheckOutcome, error) {
	modes, err := s.device.StackMemberModes()
	if err != nil {
		return entities.CheckOutcome{}, err
	}
	passed := len(modes) > 0
	for _, mode := range modes {
		if mode != s.table.StackMode() {
			passed = false
		}
	}
	return entities.NewOutcome(NameStackModes, fmt.Sprint(modes), passed), nil
}

// CheckDeviceInterfaceStatus passes when iface is up with protocol up
func (s *AccessSwitchSuite) CheckDeviceInterfaceStatus(iface string) (entities.CheckOutcome, error) {
	state, err := s.device.InterfaceState(iface)
	if err != nil {
		return entities.CheckOutcome{}, err
	}
	response := fmt.Sprintf("Status: %s  -   Protocol : %s", state.Status, state.Protocol)
	return entities.NewOutcome(fmt.Sprintf(nameInterfaceStatus, iface), response, state.Up()), nil
}

// CheckCDPNeighborNumber requires at least the standard number of CDP neighbors (3)
func (s *AccessSwitchSuite) CheckCDPNeighborNumber() (entities.CheckOutcome, error) {
	neighbors, err := s.device.CDPNeighbors()
	if err != nil {
		return entities.CheckOutcome{}, err
	}
	count := len(neighbors)
	return entities.NewOutcome(NameCDPNeighbors, strconv.Itoa(count), count >= s.table.CDPMinNeighbors()), nil
}

// CheckCDPCellularRouterInterface looks for a cellular router behind the POLR port
func (s *AccessSwitchSuite) CheckCDPCellularRouterInterface() (entities.CheckOutcome, error) {
	neighbors, err := s.device.CDPNeighbors()
	if err != nil {
		return entities.CheckOutcome{}, err
	}
	iface := s.table.CellularRouterInterface()
	for _, neighbor := range neighbors {
		if neighbor.LocalInterface != iface {
			continue
		}
		if containsAny(neighbor.Platform, s.table.CellularRouterModels()) {
			log.V(1).Infof("cellular router %s (%s) found on %s", neighbor.DeviceID, neighbor.Platform, iface)
			return entities.NewOutcome(NameCellularRouter, iface+" is connected to Cellular Router", true), nil
		}
	}
	return entities.NewOutcome(NameCellularRouter, iface+" is not connected to Cellular Router", false), nil
}

// CheckPlatform evaluates the first model of the lowest-numbered slot only
func (s *AccessSwitchSuite) CheckPlatform() (entities.CheckOutcome, error) {
	slots, err := s.device.PlatformSlots()
	if err != nil {
		return entities.CheckOutcome{}, err
	}
	passed := len(slots) > 0 && len(slots[0]) > 0 && containsAny(slots[0][0], s.table.PlatformModels())
	return entities.NewOutcome(NamePlatform, fmt.Sprint(slots), passed), nil
}

// CheckInterfaceDescription compares the live description of iface with the standard, verbatim
func (s *AccessSwitchSuite) CheckInterfaceDescription(iface string) (entities.CheckOutcome, error) {
	if strings.TrimSpace(iface) == "" {
		return entities.CheckOutcome{}, fmt.Errorf("%w: interface", entities.ErrMissingArgument)
	}
	expected, ok := s.table.Description(iface)
	if !ok {
		return entities.CheckOutcome{}, fmt.Errorf("%w: no standard description for %s", entities.ErrNotFound, iface)
	}
	description, err := s.device.InterfaceDescription(iface)
	if err != nil {
		return entities.CheckOutcome{}, err
	}
	return entities.NewOutcome(fmt.Sprintf(nameDescription, iface), description, description == expected), nil
}

// CheckAAAConfiguration passes when the login landed on a privileged prompt
func (s *AccessSwitchSuite) CheckAAAConfiguration() (entities.CheckOutcome, error) {
	privileged, err := s.device.Privileged()
	if err != nil {
		return entities.CheckOutcome{}, err
	}
	return entities.NewOutcome(NameAAA, strconv.FormatBool(privileged), privileged), nil
}

// CheckPSUStatus requires installed supplies to report the standard status and system power.
// With the "first" policy only the first reported supply is evaluated.
func (s *AccessSwitchSuite) CheckPSUStatus() (entities.CheckOutcome, error) {
	supplies, err := s.device.PowerSupplies()
	if err != nil {
		return entities.CheckOutcome{}, err
	}
	if len(supplies) == 0 {
		return entities.NewOutcome(NamePSUStatus, "No PSU entries reported", false), nil
	}
	if s.table.PSUEvaluation() == standards.PSUEvaluateFirst {
		supplies = supplies[:1]
	}
	for _, psu := range supplies {
		if psu.Status != s.table.PSUStatus() || psu.SysPwr != s.table.PSUSysPwr() {
			log.V(1).Infof("power supply %s reports %s / %s", psu.Slot, psu.Status, psu.SysPwr)
			return entities.NewOutcome(NamePSUStatus, "PSU statuses are NOT OK", false), nil
		}
	}
	return entities.NewOutcome(NamePSUStatus, "All the PSU statuses are OK", true), nil
}

// CheckNumberOfPSU expects one installed supply per stack member
func (s *AccessSwitchSuite) CheckNumberOfPSU() (entities.CheckOutcome, error) {
	supplies, err := s.device.PowerSupplies()
	if err != nil {
		return entities.CheckOutcome{}, err
	}
	members, err := s.device.StackMemberCount()
	if err != nil {
		return entities.CheckOutcome{}, err
	}
	response := fmt.Sprintf("Active PSU number is %d", len(supplies))
	return entities.NewOutcome(NameNumberOfPSU, response, len(supplies) == members), nil
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
