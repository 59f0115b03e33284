// Package state records the file operations of each run so they can be
// undone and redone.
package state

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tsepang/aisplit/internal/fs"
	"github.com/tsepang/aisplit/internal/ui"
)

const (
	stateDirName  = ".aisplit"
	stateFileName = "state"
	TrashDir      = "trash"
)

// Operation is a single file operation performed by a run.
type Operation struct {
	Path     string // absolute target path
	Action   string // fs.ActionCreate or fs.ActionOverwrite
	PreHash  string // SHA256 of the previous content ("" for create)
	PostHash string // SHA256 of the written content
	Slot     string // trash subdirectory holding this run's pre-images
}

// HistoryEntry is one complete run of the tool.
type HistoryEntry struct {
	Timestamp  int64
	Operations []Operation
}

// State is the persisted history plus the undo cursor.
type State struct {
	History      []HistoryEntry
	CurrentIndex int
}

// Manager handles the lifecycle of the state file.
type Manager struct {
	statePath string
	state     *State
	StateDir  string
	Root      string
}

// findGitRoot finds the root of the enclosing git repository.
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// New creates and loads a state manager rooted at the git root, falling
// back to the current working directory.
func New() (*Manager, error) {
	rootDir, err := findGitRoot()
	if err != nil {
		rootDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get current working directory: %w", err)
		}
	}
	return NewAt(rootDir)
}

// NewAt creates and loads a state manager rooted at rootDir.
func NewAt(rootDir string) (*Manager, error) {
	stateDir := filepath.Join(rootDir, stateDirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create state directory: %w", err)
	}
	m := &Manager{
		statePath: filepath.Join(stateDir, stateFileName),
		StateDir:  stateDir,
		Root:      rootDir,
	}
	if err := m.load(); err != nil {
		// Keep the unreadable file around instead of overwriting it on
		// the next save.
		ui.Warning("History file is unreadable, starting fresh: %v", err)
		os.Rename(m.statePath, m.statePath+".corrupt")
		m.state = &State{CurrentIndex: -1}
	}
	return m, nil
}

// TrashPath returns the directory holding pre-images of overwritten and
// undone files.
func (m *Manager) TrashPath() string {
	return filepath.Join(m.StateDir, TrashDir)
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = &State{CurrentIndex: -1}
			return nil
		}
		return err
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	sections := strings.Split(content, "\n\n")
	if len(sections) == 0 || strings.TrimSpace(sections[0]) == "" {
		m.state = &State{CurrentIndex: -1}
		return nil
	}

	index, err := strconv.Atoi(strings.TrimSpace(sections[0]))
	if err != nil {
		return fmt.Errorf("invalid state file: could not parse current index: %w", err)
	}
	m.state = &State{CurrentIndex: index}

	for _, section := range sections[1:] {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		lines := strings.Split(section, "\n")

		ts, err := strconv.ParseInt(lines[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid state file: could not parse timestamp %q: %w", lines[0], err)
		}
		entry := HistoryEntry{Timestamp: ts}

		for _, opLine := range lines[1:] {
			// One tab-separated record per line; empty fields stay empty
			// without ever producing a blank line that would split the
			// entry in two.
			fields := strings.Split(opLine, "\t")
			if len(fields) != 5 {
				return fmt.Errorf("invalid state file: malformed operation record %q", opLine)
			}
			entry.Operations = append(entry.Operations, Operation{
				Action:   fields[0],
				Path:     fields[1],
				PreHash:  fields[2],
				PostHash: fields[3],
				Slot:     fields[4],
			})
		}
		m.state.History = append(m.state.History, entry)
	}
	return nil
}

func (m *Manager) save() error {
	sections := []string{strconv.Itoa(m.state.CurrentIndex)}

	for _, entry := range m.state.History {
		lines := []string{strconv.FormatInt(entry.Timestamp, 10)}
		for _, op := range entry.Operations {
			record := []string{op.Action, op.Path, op.PreHash, op.PostHash, op.Slot}
			lines = append(lines, strings.Join(record, "\t"))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	content := strings.Join(sections, "\n\n")
	return fs.WriteFile(m.statePath, []byte(content))
}

// Write records a new run, dropping any entries past the undo cursor.
func (m *Manager) Write(operations []Operation) error {
	if m.state.CurrentIndex < len(m.state.History)-1 {
		m.state.History = m.state.History[:m.state.CurrentIndex+1]
	}
	m.state.History = append(m.state.History, HistoryEntry{
		Timestamp:  time.Now().UTC().Unix(),
		Operations: operations,
	})
	m.state.CurrentIndex++
	return m.save()
}

// OperationsToUndo returns the operations of the current entry and moves
// the cursor back. Returns nil when there is nothing to undo.
func (m *Manager) OperationsToUndo() []Operation {
	if m.state.CurrentIndex < 0 {
		return nil
	}
	ops := m.state.History[m.state.CurrentIndex].Operations
	m.state.CurrentIndex--
	m.save()
	return ops
}

// OperationsToRedo returns the operations of the next entry and moves
// the cursor forward. Returns nil when there is nothing to redo.
func (m *Manager) OperationsToRedo() []Operation {
	next := m.state.CurrentIndex + 1
	if next >= len(m.state.History) {
		return nil
	}
	m.state.CurrentIndex = next
	ops := m.state.History[next].Operations
	m.save()
	return ops
}
