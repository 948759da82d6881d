package transport

import (
	"github.com/carlosrabelo/storecheck/domain/entities"
)

// SwitchAdapter implements the SwitchRepository port on top of a transport client
type SwitchAdapter struct {
	client Client
}

// NewSwitchAdapter creates a new switch adapter
func NewSwitchAdapter(client Client) *SwitchAdapter {
	return &SwitchAdapter{
		client: client,
	}
}

// Connect connects to the switch
func (s *SwitchAdapter) Connect() error {
	return s.client.Connect()
}

// Disconnect disconnects from the switch
func (s *SwitchAdapter) Disconnect() {
	s.client.Disconnect()
}

// ExecuteCommand executes a command on the switch
func (s *SwitchAdapter) ExecuteCommand(cmd string) (string, error) {
	return s.client.ExecuteCommand(cmd)
}

// Prompt returns the prompt currently shown by the switch
func (s *SwitchAdapter) Prompt() (string, error) {
	return s.client.Prompt()
}

// IsConnected checks if connected
func (s *SwitchAdapter) IsConnected() bool {
	return s.client.IsConnected()
}

// ConfigureLogin hands a platform login sequence to clients that accept one
func (s *SwitchAdapter) ConfigureLogin(seq entities.LoginSequence) bool {
	configurable, ok := s.client.(LoginConfigurable)
	if !ok {
		return false
	}
	configurable.SetLoginSequence(seq)
	return true
}

// Client is a connected CLI session to one switch
type Client interface {
	Connect() error
	Disconnect()
	ExecuteCommand(cmd string) (string, error)
	Prompt() (string, error)
	IsConnected() bool
}

// LoginConfigurable allows setting login prompts after client creation
type LoginConfigurable interface {
	SetLoginSequence(seq entities.LoginSequence)
}
