package services

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/golang/glog"
	"github.com/kr/pretty"

	"github.com/carlosrabelo/storecheck/domain/entities"
	"github.com/carlosrabelo/storecheck/domain/ports"
)

// OutputParser turns raw device output into the representation selected by mode.
// platform.SwitchDriver satisfies it.
type OutputParser interface {
	Parse(command string, mode entities.ParseMode, raw string) (*entities.CommandOutput, error)
}

// CommandExecutor runs commands on one device session and parses what comes back.
// The session is opened on first use and kept for the whole device run.
type CommandExecutor struct {
	repo   ports.SwitchRepository
	parser OutputParser
}

// NewCommandExecutor creates an executor over a switch repository
func NewCommandExecutor(repo ports.SwitchRepository, parser OutputParser) *CommandExecutor {
	return &CommandExecutor{repo: repo, parser: parser}
}

func (e *CommandExecutor) ensureConnected() error {
	if e.repo.IsConnected() {
		return nil
	}
	if err := e.repo.Connect(); err != nil {
		if errors.Is(err, entities.ErrConnection) {
			return err
		}
		return fmt.Errorf("%w: %v", entities.ErrConnection, err)
	}
	return nil
}

// Execute runs command and parses its output with mode
func (e *CommandExecutor) Execute(command string, mode entities.ParseMode) (*entities.CommandOutput, error) {
	if strings.TrimSpace(command) == "" {
		return nil, entities.ErrEmptyCommand
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", entities.ErrInvalidParser, string(mode))
	}
	if err := e.ensureConnected(); err != nil {
		return nil, err
	}

	log.V(1).Infof("executing %q (parser %s)", command, mode)
	raw, err := e.repo.ExecuteCommand(command)
	if err != nil {
		if errors.Is(err, entities.ErrConnection) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", entities.ErrConnection, command, err)
	}

	out, err := e.parser.Parse(command, mode, raw)
	if err != nil {
		var execErr *entities.ExecError
		if errors.As(err, &execErr) || errors.Is(err, entities.ErrInvalidParser) {
			return nil, err
		}
		return nil, &entities.ExecError{Command: command, Mode: mode, Err: err}
	}
	if out.Tree != nil && log.V(2) {
		log.Infof("%s parsed:\n%# v", command, pretty.Formatter(out.Tree))
	}
	return out, nil
}

// ProbePrivilegeLevel reports whether the session sits at a privileged ('#') prompt
func (e *CommandExecutor) ProbePrivilegeLevel() (bool, error) {
	if err := e.ensureConnected(); err != nil {
		return false, err
	}
	prompt, err := e.repo.Prompt()
	if err != nil {
		return false, err
	}
	prompt = strings.TrimSpace(prompt)
	switch {
	case strings.HasSuffix(prompt, "#"):
		return true, nil
	case strings.HasSuffix(prompt, ">"):
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", entities.ErrUnexpectedPrompt, prompt)
}
