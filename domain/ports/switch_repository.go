package ports

// SwitchRepository defines the port for network switch interaction
type SwitchRepository interface {
	Connect() error
	Disconnect()
	ExecuteCommand(cmd string) (string, error)
	// Prompt returns the CLI prompt the device currently shows, e.g. "SW-STORE#"
	Prompt() (string, error)
	IsConnected() bool
}
