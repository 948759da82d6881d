package entities

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseMode selects how raw command output is turned into data
type ParseMode string

const (
	// ParseNone returns the raw text only
	ParseNone ParseMode = ""
	// ParseGenie returns a nested string-keyed mapping
	ParseGenie ParseMode = "genie"
	// ParseTextFSM returns a flat list of records
	ParseTextFSM ParseMode = "textfsm"
)

// Valid reports whether the mode is one of the recognized parse modes
func (m ParseMode) Valid() bool {
	switch m {
	case ParseNone, ParseGenie, ParseTextFSM:
		return true
	}
	return false
}

func (m ParseMode) String() string {
	if m == ParseNone {
		return "none"
	}
	return string(m)
}

// Tree is a structured command result keyed by strings at every level
type Tree map[string]any

// Row is one record produced by a template-driven parser
type Row map[string]string

// CommandOutput is the result of one command execution
type CommandOutput struct {
	Command string
	Mode    ParseMode
	Raw     string
	Tree    Tree
	Rows    []Row
}

// Lookup walks the tree along path and returns the value found there
func (t Tree) Lookup(path ...string) (any, error) {
	var current any = t
	for i, key := range path {
		node, ok := asTree(current)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a mapping", ErrNotFound, strings.Join(path[:i], "."))
		}
		next, exists := node[key]
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(path[:i+1], "."))
		}
		current = next
	}
	return current, nil
}

// String returns the string found at path
func (t Tree) String(path ...string) (string, error) {
	value, err := t.Lookup(path...)
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is not a string", ErrNotFound, strings.Join(path, "."))
	}
	return s, nil
}

// Subtree returns the mapping found at path
func (t Tree) Subtree(path ...string) (Tree, error) {
	value, err := t.Lookup(path...)
	if err != nil {
		return nil, err
	}
	node, ok := asTree(value)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a mapping", ErrNotFound, strings.Join(path, "."))
	}
	return node, nil
}

// SortedKeys returns the keys of the tree, numeric keys in numeric order first
func (t Tree) SortedKeys() []string {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

func asTree(value any) (Tree, bool) {
	switch v := value.(type) {
	case Tree:
		return v, true
	case map[string]any:
		return Tree(v), true
	}
	return nil, false
}
