package transport

import (
	"errors"
	"testing"

	"github.com/carlosrabelo/storecheck/domain/entities"
)

// MockClient implements the Client interface for testing
type MockClient struct {
	connected    bool
	connectError error
	prompt       string
	executedCmds []string
	cmdResponses map[string]string
	cmdErrors    map[string]error
	sequence     *entities.LoginSequence
}

func (m *MockClient) Connect() error {
	if m.connectError != nil {
		return m.connectError
	}
	m.connected = true
	return nil
}

func (m *MockClient) Disconnect() {
	m.connected = false
}

func (m *MockClient) ExecuteCommand(cmd string) (string, error) {
	m.executedCmds = append(m.executedCmds, cmd)
	if err, exists := m.cmdErrors[cmd]; exists {
		return "", err
	}
	if resp, exists := m.cmdResponses[cmd]; exists {
		return resp, nil
	}
	return "mock response", nil
}

func (m *MockClient) Prompt() (string, error) {
	return m.prompt, nil
}

func (m *MockClient) IsConnected() bool {
	return m.connected
}

// loginMockClient also accepts a login sequence
type loginMockClient struct {
	MockClient
}

func (m *loginMockClient) SetLoginSequence(seq entities.LoginSequence) {
	m.sequence = &seq
}

func TestNewSwitchAdapter(t *testing.T) {
	mockClient := &MockClient{}
	adapter := NewSwitchAdapter(mockClient)

	if adapter.client != mockClient {
		t.Error("NewSwitchAdapter() did not set client correctly")
	}
}

func TestSwitchAdapter_Connect(t *testing.T) {
	tests := []struct {
		name       string
		connectErr error
		expectErr  bool
		expectConn bool
	}{
		{name: "successful connection", expectConn: true},
		{name: "connection error", connectErr: entities.ErrConnection, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &MockClient{connectError: tt.connectErr}
			adapter := NewSwitchAdapter(mockClient)

			err := adapter.Connect()

			if (err != nil) != tt.expectErr {
				t.Errorf("Connect() error = %v, expectErr %v", err, tt.expectErr)
			}
			if adapter.IsConnected() != tt.expectConn {
				t.Errorf("IsConnected() = %v, want %v", adapter.IsConnected(), tt.expectConn)
			}
		})
	}
}

func TestSwitchAdapter_Disconnect(t *testing.T) {
	mockClient := &MockClient{connected: true}
	adapter := NewSwitchAdapter(mockClient)

	adapter.Disconnect()

	if mockClient.connected {
		t.Error("Disconnect() did not disconnect the client")
	}
}

func TestSwitchAdapter_ExecuteCommand(t *testing.T) {
	failure := errors.New("command failed")
	tests := []struct {
		name        string
		cmd         string
		cmdResponse string
		cmdError    error
		expectErr   bool
		expectResp  string
	}{
		{name: "successful command", cmd: "show version", cmdResponse: "Cisco IOS Software", expectResp: "Cisco IOS Software"},
		{name: "command error", cmd: "show platform", cmdError: failure, expectErr: true},
		{name: "no response configured", cmd: "show clock", expectResp: "mock response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &MockClient{
				cmdResponses: map[string]string{},
				cmdErrors:    map[string]error{},
			}
			if tt.cmdResponse != "" {
				mockClient.cmdResponses[tt.cmd] = tt.cmdResponse
			}
			if tt.cmdError != nil {
				mockClient.cmdErrors[tt.cmd] = tt.cmdError
			}
			adapter := NewSwitchAdapter(mockClient)

			resp, err := adapter.ExecuteCommand(tt.cmd)

			if (err != nil) != tt.expectErr {
				t.Errorf("ExecuteCommand() error = %v, expectErr %v", err, tt.expectErr)
			}
			if resp != tt.expectResp {
				t.Errorf("ExecuteCommand() response = %v, expectResp %v", resp, tt.expectResp)
			}
			if len(mockClient.executedCmds) != 1 || mockClient.executedCmds[0] != tt.cmd {
				t.Errorf("ExecuteCommand() executed %v, want [%s]", mockClient.executedCmds, tt.cmd)
			}
		})
	}
}

func TestSwitchAdapter_Prompt(t *testing.T) {
	adapter := NewSwitchAdapter(&MockClient{prompt: "NKE1234X01#"})
	prompt, err := adapter.Prompt()
	if err != nil || prompt != "NKE1234X01#" {
		t.Errorf("Prompt() = %q, %v", prompt, err)
	}
}

func TestSwitchAdapter_ConfigureLogin(t *testing.T) {
	seq := entities.LoginSequence{Setup: []string{"terminal length 0"}}

	if NewSwitchAdapter(&MockClient{}).ConfigureLogin(seq) {
		t.Error("ConfigureLogin() should report false for clients without login support")
	}

	client := &loginMockClient{}
	if !NewSwitchAdapter(client).ConfigureLogin(seq) {
		t.Fatal("ConfigureLogin() = false for a login-configurable client")
	}
	if client.sequence == nil || client.sequence.Setup[0] != "terminal length 0" {
		t.Errorf("login sequence not handed over: %+v", client.sequence)
	}
}
