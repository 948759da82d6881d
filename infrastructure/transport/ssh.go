package transport

import (
	"fmt"
	"net"
	"strconv"

	"golang.org/x/crypto/ssh"

	"github.com/carlosrabelo/storecheck/domain/entities"
)

// SSHClient manages an interactive SSH shell on a switch
type SSHClient struct {
	config   entities.DeviceSession
	sequence entities.LoginSequence
	client   *ssh.Client
	session  *ssh.Session
	stream   *stream
}

// NewSSHClient creates a new SSH client with the given configuration
func NewSSHClient(cfg entities.DeviceSession) *SSHClient {
	return &SSHClient{config: cfg, sequence: defaultLoginSequence(cfg)}
}

// SetLoginSequence configures the enable and setup steps; SSH authenticates on its own
func (sc *SSHClient) SetLoginSequence(seq entities.LoginSequence) {
	sc.sequence = seq
}

func (sc *SSHClient) clientConfig() *ssh.ClientConfig {
	password := sc.config.Password
	return &ssh.ClientConfig{
		User: sc.config.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         sc.config.ReadTimeout(),
	}
}

func (sc *SSHClient) Connect() error {
	if sc.IsConnected() {
		return nil
	}
	port := sc.config.Port
	if port == 0 {
		port = DefaultSSHPort
	}
	addr := net.JoinHostPort(sc.config.Target, strconv.Itoa(port))

	client, err := ssh.Dial("tcp", addr, sc.clientConfig())
	if err != nil {
		return fmt.Errorf("%w: failed to connect to %s via SSH: %v", entities.ErrConnection, sc.config.Target, err)
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return fmt.Errorf("%w: failed to create SSH session for %s: %v", entities.ErrConnection, sc.config.Target, err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 9600,
		ssh.TTY_OP_OSPEED: 9600,
	}
	if err := session.RequestPty("vt100", 80, 40, modes); err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("%w: failed to request PTY for %s: %v", entities.ErrConnection, sc.config.Target, err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("%w: failed to get stdin pipe for %s: %v", entities.ErrConnection, sc.config.Target, err)
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("%w: failed to get stdout pipe for %s: %v", entities.ErrConnection, sc.config.Target, err)
	}

	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("%w: failed to start shell for %s: %v", entities.ErrConnection, sc.config.Target, err)
	}

	sc.client = client
	sc.session = session
	sc.stream = newStream(stdout, stdin, sc.config)
	sc.stream.debugf("Connected to %s via SSH", sc.config.Target)

	if err := sc.stream.login(sc.sequence, false); err != nil {
		sc.Disconnect()
		return fmt.Errorf("%w: login to %s failed: %v", entities.ErrConnection, sc.config.Target, err)
	}
	return nil
}

func (sc *SSHClient) Disconnect() {
	if sc.stream != nil {
		sc.stream.close()
		sc.stream = nil
	}
	if sc.session != nil {
		sc.session.Close()
		sc.session = nil
	}
	if sc.client != nil {
		sc.client.Close()
		sc.client = nil
	}
}

func (sc *SSHClient) IsConnected() bool {
	return sc.stream != nil && sc.session != nil && sc.client != nil
}

func (sc *SSHClient) ExecuteCommand(cmd string) (string, error) {
	if !sc.IsConnected() {
		return "", fmt.Errorf("%w: not connected to %s", entities.ErrConnection, sc.config.Target)
	}
	output, err := sc.stream.execute(cmd)
	if err != nil {
		return "", fmt.Errorf("%w: error executing %s: %v", entities.ErrConnection, cmd, err)
	}
	return output, nil
}

func (sc *SSHClient) Prompt() (string, error) {
	if !sc.IsConnected() {
		return "", fmt.Errorf("%w: not connected to %s", entities.ErrConnection, sc.config.Target)
	}
	prompt, err := sc.stream.currentPrompt()
	if err != nil {
		return "", fmt.Errorf("%w: reading prompt: %v", entities.ErrConnection, err)
	}
	return prompt, nil
}
