package entities

// InterfaceState is the line and protocol state of one interface
type InterfaceState struct {
	Interface string
	Status    string
	Protocol  string
}

// Up reports whether both line and protocol are up
func (s InterfaceState) Up() bool {
	return s.Status == "up" && s.Protocol == "up"
}

// CDPNeighbor is one entry of the CDP neighbor table
type CDPNeighbor struct {
	DeviceID       string
	LocalInterface string
	HoldTime       string
	Capability     string
	Platform       string
	PortID         string
}

// PowerSupply is one installed power supply as reported by the environment table
type PowerSupply struct {
	Slot   string
	Model  string
	Serial string
	Status string
	SysPwr string
	PoEPwr string
	Watts  string
}
