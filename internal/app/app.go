// Package app wires the source, parser, materializer, and history
// together.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/tsepang/aisplit/blocks"
	"github.com/tsepang/aisplit/internal/cli"
	"github.com/tsepang/aisplit/internal/fs"
	"github.com/tsepang/aisplit/internal/markdown"
	"github.com/tsepang/aisplit/internal/model"
	"github.com/tsepang/aisplit/internal/nvim"
	"github.com/tsepang/aisplit/internal/source"
	"github.com/tsepang/aisplit/internal/state"
	"github.com/tsepang/aisplit/internal/ui"
)

// App orchestrates the entire application logic.
type App struct {
	cfg            *cli.Config
	stateManager   *state.Manager
	sourceProvider *source.Provider
	outputRoot     string
	out            io.Writer
}

// Plan is the set of changes a run would perform, computed before
// anything touches the filesystem.
type Plan struct {
	Blocks  []blocks.FileBlock
	Targets []string // absolute target path per block, same order
	Actions map[string]string
	Dirs    map[string]struct{}
	Skipped map[string]bool // targets declined at the overwrite prompt
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

// New creates a new App instance.
func New(cfg *cli.Config) (*App, error) {
	stateManager, err := state.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize state manager: %w", err)
	}
	outputRoot, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("invalid output directory %q: %w", cfg.OutputDir, err)
	}

	return &App{
		cfg:            cfg,
		stateManager:   stateManager,
		sourceProvider: source.New(cfg.Input),
		outputRoot:     outputRoot,
		out:            os.Stdout,
	}, nil
}

// Plan reads the source, parses it, and computes the changes to make.
// It performs no writes. A nil plan with a nil error means the source
// was empty.
func (a *App) Plan() (*Plan, error) {
	content, err := a.sourceProvider.GetContent()
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, nil
	}

	fileBlocks, err := a.parseBlocks(content)
	if err != nil {
		return nil, err
	}

	fileBlocks = filterByExtension(fileBlocks, a.cfg.Extensions)
	if len(fileBlocks) == 0 {
		return nil, nil
	}

	targets := make([]string, len(fileBlocks))
	for i, b := range fileBlocks {
		targets[i] = b.Path.Abs(a.outputRoot)
	}
	actions, dirs := fs.PlanActions(targets)

	return &Plan{
		Blocks:  fileBlocks,
		Targets: targets,
		Actions: actions,
		Dirs:    dirs,
		Skipped: make(map[string]bool),
	}, nil
}

// parseBlocks runs the strict block parser, falling back to markdown
// extraction in --markdown mode when the input carries no FILE blocks.
func (a *App) parseBlocks(content string) ([]blocks.FileBlock, error) {
	fileBlocks, err := blocks.Parse(content)
	if err == nil {
		return fileBlocks, nil
	}

	var perr *blocks.ParseError
	if a.cfg.Markdown && errors.As(err, &perr) && perr.Kind == blocks.EmptyInput {
		found, skipped, merr := markdown.Extract([]byte(content))
		if merr != nil {
			return nil, fmt.Errorf("markdown extraction failed: %w", merr)
		}
		for _, raw := range skipped {
			ui.Warning("Skipping markdown block with unsafe path: %s", raw)
		}
		if len(found) > 0 {
			return found, nil
		}
	}
	return nil, err
}

// ConfirmOverwrites prompts for every target that already exists and
// marks declined ones as skipped. No-op under --force or --dry-run.
func (a *App) ConfirmOverwrites(plan *Plan) {
	if a.cfg.Force || a.cfg.DryRun {
		return
	}
	for _, target := range plan.Targets {
		if plan.Actions[target] != fs.ActionOverwrite {
			continue
		}
		rel := a.displayPath(target)
		ui.Warning("File exists: %s", rel)
		if !ui.Confirm("Overwrite %s? [y/N]: ", rel) {
			plan.Skipped[target] = true
		}
	}
}

// DryRun prints what the plan would do without touching the filesystem.
// Each block is echoed to stdout in its wire form as a preview of the
// exact content that would land on disk.
func (a *App) DryRun(plan *Plan) model.Summary {
	summary := model.Summary{Message: "Dry run: no files were written."}
	for i, b := range plan.Blocks {
		target := plan.Targets[i]
		rel := a.displayPath(target)
		switch plan.Actions[target] {
		case fs.ActionOverwrite:
			ui.Info("Would overwrite: %s (%d bytes)", rel, len(b.Content))
			summary.Modified = append(summary.Modified, rel)
		default:
			ui.Info("Would create: %s (%d bytes)", rel, len(b.Content))
			summary.Created = append(summary.Created, rel)
		}
		fmt.Fprint(a.out, b.Render())
	}
	return summary
}

// Apply materializes the plan and records the run in the history.
func (a *App) Apply(plan *Plan) (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	if a.cfg.Nvim {
		return a.applyViaNvim(plan)
	}

	if err := fs.CreateDirs(plan.Dirs); err != nil {
		return model.Summary{}, fmt.Errorf("failed to create directories: %w", err)
	}

	// Each run gets its own trash slot so the pre-images of earlier runs
	// touching the same files survive for their own undo.
	slot := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	runTrash := filepath.Join(a.stateManager.TrashPath(), slot)

	var ops []state.Operation
	for i, b := range plan.Blocks {
		target := plan.Targets[i]
		rel := a.displayPath(target)

		if plan.Skipped[target] {
			summary.Skipped = append(summary.Skipped, rel)
			continue
		}

		action := plan.Actions[target]
		op := state.Operation{Path: target, Action: action, Slot: slot}

		if action == fs.ActionOverwrite {
			preHash, herr := fs.FileSHA256(target)
			if herr != nil {
				ui.Error("Failed to read %s: %v", rel, herr)
				summary.Failed = append(summary.Failed, rel)
				continue
			}
			op.PreHash = preHash
			// Keep the pre-image so --undo can restore it.
			if terr := fs.TrashFile(target, runTrash, a.stateManager.Root); terr != nil {
				ui.Error("Failed to back up %s: %v", rel, terr)
				summary.Failed = append(summary.Failed, rel)
				continue
			}
		}

		if werr := fs.WriteFile(target, []byte(b.Content)); werr != nil {
			ui.Error("Failed to create %s: %v", rel, werr)
			summary.Failed = append(summary.Failed, rel)
			continue
		}

		postHash, herr := fs.FileSHA256(target)
		if herr == nil {
			op.PostHash = postHash
		}
		ops = append(ops, op)

		if action == fs.ActionOverwrite {
			summary.Modified = append(summary.Modified, rel)
		} else {
			summary.Created = append(summary.Created, rel)
		}
	}

	if len(ops) > 0 {
		if serr := a.stateManager.Write(ops); serr != nil {
			ui.Warning("Could not record history: %v", serr)
		}
	}
	return summary, nil
}

// applyViaNvim loads planned contents into a running Neovim instance.
func (a *App) applyViaNvim(plan *Plan) (model.Summary, error) {
	manager, err := nvim.New()
	if err != nil {
		return model.Summary{}, err
	}
	defer manager.Close()

	applied := make([]blocks.FileBlock, 0, len(plan.Blocks))
	var summary model.Summary
	for i, b := range plan.Blocks {
		if plan.Skipped[plan.Targets[i]] {
			summary.Skipped = append(summary.Skipped, a.displayPath(plan.Targets[i]))
			continue
		}
		applied = append(applied, b)
	}

	updated, failed := manager.ApplyBlocks(applied, a.outputRoot)
	if err := manager.SaveAllBuffers(); err != nil {
		return model.Summary{}, fmt.Errorf("failed to save Neovim buffers: %w", err)
	}

	for _, path := range updated {
		if plan.Actions[path] == fs.ActionOverwrite {
			summary.Modified = append(summary.Modified, a.displayPath(path))
		} else {
			summary.Created = append(summary.Created, a.displayPath(path))
		}
	}
	for _, path := range failed {
		summary.Failed = append(summary.Failed, a.displayPath(path))
	}
	return summary, nil
}

// Undo reverts the most recent run.
func (a *App) Undo() (model.Summary, error) {
	ops := a.stateManager.OperationsToUndo()
	if len(ops) == 0 {
		return model.Summary{Message: "No operation to undo."}, nil
	}

	var summary model.Summary
	summary.Message = "Undid last operation."
	trash := a.stateManager.TrashPath()
	root := a.stateManager.Root

	for _, op := range ops {
		rel := a.displayPath(op.Path)
		if !a.undoOp(op, trash, root) {
			summary.Failed = append(summary.Failed, rel)
			continue
		}
		summary.Modified = append(summary.Modified, rel)
	}
	return summary, nil
}

func (a *App) undoOp(op state.Operation, trash, root string) bool {
	slotTrash := filepath.Join(trash, op.Slot)

	currentHash, err := fs.FileSHA256(op.Path)
	if err != nil {
		// A missing file means the create is already undone.
		return op.Action == fs.ActionCreate && os.IsNotExist(err)
	}
	// The file changed since the run; refuse to clobber the edit.
	if currentHash != op.PostHash {
		return false
	}

	switch op.Action {
	case fs.ActionCreate:
		// Keep the file in the trash so --redo can bring it back.
		if err := fs.TrashFile(op.Path, slotTrash, root); err != nil {
			return false
		}
		parentDir := filepath.Dir(op.Path)
		if isEmpty, _ := fs.IsEmpty(parentDir); isEmpty {
			os.Remove(parentDir)
		}
		return true
	case fs.ActionOverwrite:
		if err := fs.SwapWithTrash(op.Path, slotTrash, root); err != nil {
			return false
		}
		// The trash slot must have held the recorded pre-image; swap back
		// rather than leave the wrong content in place.
		restored, err := fs.FileSHA256(op.Path)
		if err != nil || restored != op.PreHash {
			fs.SwapWithTrash(op.Path, slotTrash, root)
			return false
		}
		return true
	default:
		return false
	}
}

// Redo re-applies the most recently undone run.
func (a *App) Redo() (model.Summary, error) {
	ops := a.stateManager.OperationsToRedo()
	if len(ops) == 0 {
		return model.Summary{Message: "No operation to redo."}, nil
	}

	var summary model.Summary
	summary.Message = "Redid last undone operation."
	trash := a.stateManager.TrashPath()
	root := a.stateManager.Root

	for _, op := range ops {
		rel := a.displayPath(op.Path)
		if !a.redoOp(op, trash, root) {
			summary.Failed = append(summary.Failed, rel)
			continue
		}
		summary.Modified = append(summary.Modified, rel)
	}
	return summary, nil
}

func (a *App) redoOp(op state.Operation, trash, root string) bool {
	slotTrash := filepath.Join(trash, op.Slot)

	switch op.Action {
	case fs.ActionCreate:
		if err := fs.RestoreFromTrash(op.Path, slotTrash, root); err != nil {
			return false
		}
		currentHash, err := fs.FileSHA256(op.Path)
		return err == nil && currentHash == op.PostHash
	case fs.ActionOverwrite:
		currentHash, err := fs.FileSHA256(op.Path)
		if err != nil || currentHash != op.PreHash {
			return false
		}
		if err := fs.SwapWithTrash(op.Path, slotTrash, root); err != nil {
			return false
		}
		applied, err := fs.FileSHA256(op.Path)
		if err != nil || applied != op.PostHash {
			fs.SwapWithTrash(op.Path, slotTrash, root)
			return false
		}
		return true
	default:
		return false
	}
}

// displayPath converts an absolute path to one relative to the working
// directory for cleaner output.
func (a *App) displayPath(abs string) string {
	wd, err := os.Getwd()
	if err != nil {
		return abs
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil {
		return abs
	}
	return rel
}

// filterByExtension keeps only blocks whose filename carries one of the
// allowed extensions. An empty list means "no filter".
func filterByExtension(fileBlocks []blocks.FileBlock, extensions []string) []blocks.FileBlock {
	if len(extensions) == 0 {
		return fileBlocks
	}
	var kept []blocks.FileBlock
	for _, b := range fileBlocks {
		ext := filepath.Ext(b.Path.String())
		for _, allowed := range extensions {
			if ext == allowed {
				kept = append(kept, b)
				break
			}
		}
	}
	return kept
}
