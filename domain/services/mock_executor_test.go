package services

import (
	"strconv"

	"github.com/carlosrabelo/storecheck/domain/entities"
)

// mockExecutor implements ports.CommandExecutor for testing
type mockExecutor struct {
	outputs    map[string]*entities.CommandOutput
	errors     map[string]error
	prompt     string
	promptErr  error
	executions []string
}

func newMockExecutor() *mockExecutor {
	return &mockExecutor{
		outputs: map[string]*entities.CommandOutput{},
		errors:  map[string]error{},
		prompt:  "NKE1234X01#",
	}
}

func (m *mockExecutor) Execute(command string, mode entities.ParseMode) (*entities.CommandOutput, error) {
	m.executions = append(m.executions, command)
	if err, exists := m.errors[command]; exists {
		return nil, err
	}
	out, exists := m.outputs[command]
	if !exists {
		return &entities.CommandOutput{Command: command, Mode: mode}, nil
	}
	copied := *out
	copied.Mode = mode
	return &copied, nil
}

func (m *mockExecutor) ProbePrivilegeLevel() (bool, error) {
	if m.promptErr != nil {
		return false, m.promptErr
	}
	switch {
	case len(m.prompt) > 0 && m.prompt[len(m.prompt)-1] == '#':
		return true, nil
	case len(m.prompt) > 0 && m.prompt[len(m.prompt)-1] == '>':
		return false, nil
	}
	return false, entities.ErrUnexpectedPrompt
}

func (m *mockExecutor) setTree(command string, tree entities.Tree) {
	m.outputs[command] = &entities.CommandOutput{Command: command, Tree: tree}
}

func (m *mockExecutor) setRows(command string, rows []entities.Row) {
	m.outputs[command] = &entities.CommandOutput{Command: command, Rows: rows}
}

func versionTree(modes map[string]string) entities.Tree {
	members := entities.Tree{}
	for id, mode := range modes {
		members[id] = entities.Tree{"model": "C9300-48U", "mode": mode}
	}
	return entities.Tree{"version": entities.Tree{
		"version":    "17.3.5",
		"chassis":    "C9300-48U",
		"image_id":   "CAT9K_IOSXE",
		"platform":   "Catalyst L3 Switch",
		"switch_num": members,
	}}
}

func healthyStack() map[string]string {
	return map[string]string{"1": "INSTALL", "2": "INSTALL", "3": "INSTALL"}
}

func psuRow(sw, status, sysPwr string) entities.Row {
	return entities.Row{"sw": sw, "pid": "PWR-C1-1100WAC", "serial": "DCB2137H0B" + sw, "status": status, "sys_pwr": sysPwr, "poe_pwr": "Good", "watts": "1100"}
}

func cdpTree(entries ...entities.Tree) entities.Tree {
	index := entities.Tree{}
	for i, entry := range entries {
		index[strconv.Itoa(i+1)] = entry
	}
	return entities.Tree{"cdp": entities.Tree{"index": index}}
}
