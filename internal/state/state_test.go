package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tsepang/aisplit/internal/fs"
	"github.com/tsepang/aisplit/internal/ui"
)

func newTestManager(t *testing.T, root string) *Manager {
	t.Helper()
	m, err := NewAt(root)
	if err != nil {
		t.Fatalf("NewAt failed: %v", err)
	}
	return m
}

func TestWriteAndReload(t *testing.T) {
	root := t.TempDir()
	m := newTestManager(t, root)

	// The create carries no PreHash; the empty field must survive a
	// round trip through the state file intact.
	ops := []Operation{
		{Path: "/p/a.txt", Action: fs.ActionCreate, PostHash: "h1", Slot: "1700000001"},
		{Path: "/p/b.txt", Action: fs.ActionOverwrite, PreHash: "h2", PostHash: "h3", Slot: "1700000001"},
	}
	if err := m.Write(ops); err != nil {
		t.Fatal(err)
	}

	// A fresh manager must see the persisted history.
	m2 := newTestManager(t, root)
	got := m2.OperationsToUndo()
	if len(got) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(got))
	}
	if got[0] != ops[0] || got[1] != ops[1] {
		t.Fatalf("reloaded operations differ: %+v", got)
	}
}

func TestUnreadableStateFileIsPreserved(t *testing.T) {
	ui.SetQuiet(true)
	root := t.TempDir()
	statePath := filepath.Join(root, stateDirName, stateFileName)
	if err := os.MkdirAll(filepath.Dir(statePath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(statePath, []byte("not a number\n\ngarbage"), 0644); err != nil {
		t.Fatal(err)
	}

	m := newTestManager(t, root)
	if ops := m.OperationsToUndo(); ops != nil {
		t.Fatalf("expected empty history after reset, got %v", ops)
	}
	// The broken file is set aside, not silently clobbered.
	if _, err := os.Stat(statePath + ".corrupt"); err != nil {
		t.Fatalf("unreadable state file was not preserved: %v", err)
	}
}

func TestUndoRedoCursor(t *testing.T) {
	root := t.TempDir()
	m := newTestManager(t, root)

	if ops := m.OperationsToUndo(); ops != nil {
		t.Fatalf("empty history: expected nil undo, got %v", ops)
	}
	if ops := m.OperationsToRedo(); ops != nil {
		t.Fatalf("empty history: expected nil redo, got %v", ops)
	}

	first := []Operation{{Path: "/p/1", Action: fs.ActionCreate, PostHash: "a"}}
	second := []Operation{{Path: "/p/2", Action: fs.ActionCreate, PostHash: "b"}}
	if err := m.Write(first); err != nil {
		t.Fatal(err)
	}
	if err := m.Write(second); err != nil {
		t.Fatal(err)
	}

	if ops := m.OperationsToUndo(); len(ops) != 1 || ops[0].Path != "/p/2" {
		t.Fatalf("first undo should yield the latest run, got %v", ops)
	}
	if ops := m.OperationsToUndo(); len(ops) != 1 || ops[0].Path != "/p/1" {
		t.Fatalf("second undo should yield the first run, got %v", ops)
	}
	if ops := m.OperationsToUndo(); ops != nil {
		t.Fatalf("expected nil after undoing everything, got %v", ops)
	}

	if ops := m.OperationsToRedo(); len(ops) != 1 || ops[0].Path != "/p/1" {
		t.Fatalf("redo should replay the first run, got %v", ops)
	}
	if ops := m.OperationsToRedo(); len(ops) != 1 || ops[0].Path != "/p/2" {
		t.Fatalf("redo should replay the second run, got %v", ops)
	}
	if ops := m.OperationsToRedo(); ops != nil {
		t.Fatalf("expected nil after redoing everything, got %v", ops)
	}
}

func TestWriteDropsRedoTail(t *testing.T) {
	root := t.TempDir()
	m := newTestManager(t, root)

	if err := m.Write([]Operation{{Path: "/p/1", Action: fs.ActionCreate}}); err != nil {
		t.Fatal(err)
	}
	if err := m.Write([]Operation{{Path: "/p/2", Action: fs.ActionCreate}}); err != nil {
		t.Fatal(err)
	}
	m.OperationsToUndo()

	// Writing after an undo discards the undone entry.
	if err := m.Write([]Operation{{Path: "/p/3", Action: fs.ActionCreate}}); err != nil {
		t.Fatal(err)
	}
	if ops := m.OperationsToUndo(); len(ops) != 1 || ops[0].Path != "/p/3" {
		t.Fatalf("expected /p/3 on top of history, got %v", ops)
	}
	if ops := m.OperationsToUndo(); len(ops) != 1 || ops[0].Path != "/p/1" {
		t.Fatalf("expected /p/1 below, got %v", ops)
	}
}
