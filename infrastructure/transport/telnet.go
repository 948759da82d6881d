package transport

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/ziutek/telnet"

	"github.com/carlosrabelo/storecheck/domain/entities"
)

const (
	DefaultTelnetPort = 23
	DefaultSSHPort    = 22
)

type telnetDialer func(addr string, timeout time.Duration) (io.ReadWriteCloser, error)

func dialTelnet(addr string, timeout time.Duration) (io.ReadWriteCloser, error) {
	conn, err := telnet.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// TelnetClient manages a Telnet connection to a switch
type TelnetClient struct {
	conn     io.ReadWriteCloser
	stream   *stream
	config   entities.DeviceSession
	sequence entities.LoginSequence
	dial     telnetDialer
}

// NewTelnetClient creates a new Telnet client with the given configuration
func NewTelnetClient(cfg entities.DeviceSession) *TelnetClient {
	return &TelnetClient{config: cfg, sequence: defaultLoginSequence(cfg), dial: dialTelnet}
}

// SetLoginSequence configures the login prompts for this client
func (tc *TelnetClient) SetLoginSequence(seq entities.LoginSequence) {
	tc.sequence = seq
}

// Connect establishes a Telnet connection to the switch and logs in
func (tc *TelnetClient) Connect() error {
	if tc.stream != nil {
		return nil
	}
	port := tc.config.Port
	if port == 0 {
		port = DefaultTelnetPort
	}
	addr := net.JoinHostPort(tc.config.Target, strconv.Itoa(port))
	conn, err := tc.dial(addr, tc.config.ReadTimeout())
	if err != nil {
		return fmt.Errorf("%w: failed to connect to %s: %v", entities.ErrConnection, tc.config.Target, err)
	}
	tc.conn = conn
	tc.stream = newStream(conn, conn, tc.config)
	tc.stream.debugf("Connected to %s", tc.config.Target)

	if err := tc.stream.login(tc.sequence, true); err != nil {
		tc.Disconnect()
		return fmt.Errorf("%w: login to %s failed: %v", entities.ErrConnection, tc.config.Target, err)
	}
	return nil
}

// Disconnect closes the Telnet connection
func (tc *TelnetClient) Disconnect() {
	if tc.stream != nil {
		tc.stream.close()
		tc.stream.debugf("Disconnected from %s", tc.config.Target)
		tc.stream = nil
	}
	if tc.conn != nil {
		tc.conn.Close()
		tc.conn = nil
	}
}

func (tc *TelnetClient) IsConnected() bool {
	return tc.stream != nil
}

// ExecuteCommand sends a command to the switch and returns its output
func (tc *TelnetClient) ExecuteCommand(cmd string) (string, error) {
	if tc.stream == nil {
		return "", fmt.Errorf("%w: not connected to %s", entities.ErrConnection, tc.config.Target)
	}
	output, err := tc.stream.execute(cmd)
	if err != nil {
		return "", fmt.Errorf("%w: error executing %s: %v", entities.ErrConnection, cmd, err)
	}
	return output, nil
}

// Prompt returns the prompt the switch shows right now
func (tc *TelnetClient) Prompt() (string, error) {
	if tc.stream == nil {
		return "", fmt.Errorf("%w: not connected to %s", entities.ErrConnection, tc.config.Target)
	}
	prompt, err := tc.stream.currentPrompt()
	if err != nil {
		return "", fmt.Errorf("%w: reading prompt: %v", entities.ErrConnection, err)
	}
	return prompt, nil
}
