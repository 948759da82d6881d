package ports

import "github.com/carlosrabelo/storecheck/domain/entities"

// CommandExecutor runs one command on a device and optionally parses the output
type CommandExecutor interface {
	Execute(command string, mode entities.ParseMode) (*entities.CommandOutput, error)
	ProbePrivilegeLevel() (bool, error)
}
