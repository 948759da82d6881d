package transport

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"

	log "github.com/golang/glog"

	"github.com/carlosrabelo/storecheck/domain/entities"
)

const BufferSize = 4096

var (
	promptRegex     = regexp.MustCompile(`^[A-Za-z0-9_\-\.\/:\(\)@]+[#>]$`)
	errStreamClosed = errors.New("connection closed by device")
)

// stream is a prompt-driven CLI conversation over any byte transport.
// A pump goroutine moves device output into chunks so reads can time out
// without touching the underlying connection.
type stream struct {
	w      io.Writer
	cfg    entities.DeviceSession
	chunks chan []byte
	done   chan struct{}
	once   sync.Once
	err    error
	prompt string
}

func newStream(r io.Reader, w io.Writer, cfg entities.DeviceSession) *stream {
	s := &stream{
		w:      w,
		cfg:    cfg,
		chunks: make(chan []byte, 64),
		done:   make(chan struct{}),
	}
	go s.pump(r)
	return s
}

func (s *stream) pump(r io.Reader) {
	defer close(s.chunks)
	buffer := make([]byte, BufferSize)
	for {
		n, err := r.Read(buffer)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buffer[:n])
			select {
			case s.chunks <- chunk:
			case <-s.done:
				return
			}
		}
		if err != nil {
			s.err = err
			return
		}
	}
}

func (s *stream) close() {
	s.once.Do(func() { close(s.done) })
}

func (s *stream) debugf(format string, args ...any) {
	if s.cfg.IsDebugEnabled() {
		log.Infof("DEBUG: "+format, args...)
		return
	}
	log.V(1).Infof(format, args...)
}

func (s *stream) send(data string) error {
	_, err := s.w.Write([]byte(data))
	return err
}

// readUntil accumulates device output until match accepts it or the read timeout expires
func (s *stream) readUntil(match func(text string) bool, what string) (string, error) {
	timer := time.NewTimer(s.cfg.ReadTimeout())
	defer timer.Stop()

	var output strings.Builder
	output.Grow(BufferSize)
	for {
		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				cause := s.err
				if cause == nil || errors.Is(cause, io.EOF) {
					cause = errStreamClosed
				}
				return output.String(), fmt.Errorf("read error waiting for %s: %w", what, cause)
			}
			output.Write(chunk)
			if s.cfg.IsRawOutputEnabled() {
				log.Infof("Switch output: Read: %s", chunk)
			}
			if match(output.String()) {
				return output.String(), nil
			}
		case <-timer.C:
			return output.String(), fmt.Errorf("timeout waiting for %s", what)
		}
	}
}

// answer replays prompt/response pairs; pending is output already read that may hold the first prompt
func (s *stream) answer(prompts []entities.AuthPrompt, pending string) error {
	for _, p := range prompts {
		if !strings.Contains(pending, p.WaitFor) {
			output, err := s.readUntil(func(text string) bool {
				return strings.Contains(text, p.WaitFor)
			}, p.WaitFor)
			if err != nil {
				return fmt.Errorf("failed to wait for %s: %w, output: %s", p.WaitFor, err, output)
			}
		}
		pending = ""
		if p.SendCmd == "" {
			continue
		}
		if err := s.send(p.SendCmd); err != nil {
			return fmt.Errorf("failed to answer %s: %w", p.WaitFor, err)
		}
		if p.Secret {
			s.debugf("Sent <secret> for prompt %s", p.WaitFor)
		} else {
			s.debugf("Sent %s for prompt %s", strings.TrimSpace(p.SendCmd), p.WaitFor)
		}
	}
	return nil
}

func (s *stream) waitForPrompt(pending string) (string, error) {
	if prompt, ok := findPrompt(pending); ok {
		return prompt, nil
	}
	output, err := s.readUntil(func(text string) bool {
		_, ok := findPrompt(text)
		return ok
	}, "CLI prompt")
	if err != nil {
		return "", err
	}
	prompt, _ := findPrompt(output)
	return prompt, nil
}

// login brings a freshly opened stream to a usable prompt. Auth prompts are only
// replayed when the transport has no authentication of its own.
func (s *stream) login(seq entities.LoginSequence, replayAuth bool) error {
	if replayAuth {
		if err := s.answer(seq.Auth, ""); err != nil {
			return err
		}
	}
	prompt, err := s.waitForPrompt("")
	if err != nil {
		return err
	}
	s.prompt = prompt

	if s.cfg.Enable && strings.HasSuffix(prompt, ">") && len(seq.Enable) > 0 {
		s.debugf("Elevating to privileged mode on %s", s.cfg.Target)
		if err := s.answer(seq.Enable, prompt); err != nil {
			return err
		}
		if prompt, err = s.waitForPrompt(""); err != nil {
			return err
		}
		if !strings.HasSuffix(prompt, "#") {
			return fmt.Errorf("enable rejected on %s, prompt is %s", s.cfg.Target, prompt)
		}
		s.prompt = prompt
	}

	for _, cmd := range seq.Setup {
		if _, err := s.execute(cmd); err != nil {
			return fmt.Errorf("failed to send %s: %w", cmd, err)
		}
	}
	return nil
}

// execute sends one command and returns its output without echo and trailing prompt
func (s *stream) execute(cmd string) (string, error) {
	s.debugf("Executing: %s", cmd)
	if err := s.send(cmd + "\n"); err != nil {
		return "", err
	}
	prompt := s.prompt
	output, err := s.readUntil(func(text string) bool {
		return lastLine(text) == prompt
	}, prompt)
	if err != nil {
		return "", err
	}
	output = cleanOutput(output, cmd, prompt)
	if s.cfg.IsRawOutputEnabled() {
		log.Infof("Switch output for '%s':\n%s", cmd, output)
	}
	return output, nil
}

// currentPrompt asks the device for a fresh prompt and remembers it
func (s *stream) currentPrompt() (string, error) {
	if err := s.send("\n"); err != nil {
		return "", err
	}
	prompt, err := s.waitForPrompt("")
	if err != nil {
		return "", err
	}
	s.prompt = prompt
	return prompt, nil
}

func lastLine(text string) string {
	text = strings.TrimRight(text, "\r\n")
	if idx := strings.LastIndexAny(text, "\r\n"); idx >= 0 {
		text = text[idx+1:]
	}
	return strings.TrimSpace(text)
}

func findPrompt(text string) (string, bool) {
	line := lastLine(text)
	if promptRegex.MatchString(line) {
		return line, true
	}
	return "", false
}

func cleanOutput(raw, cmd, prompt string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == prompt {
		lines = lines[:n-1]
	}
	if len(lines) > 0 && strings.HasSuffix(strings.TrimSpace(lines[0]), strings.TrimSpace(cmd)) {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}
