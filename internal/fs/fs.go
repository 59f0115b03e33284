// Package fs materializes parsed file blocks on disk and provides the
// filesystem helpers shared by the history manager.
package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Action classifies what writing a target path will do.
const (
	ActionCreate    = "create"
	ActionOverwrite = "overwrite"
)

// PlanActions determines which targets are new vs. overwritten and which
// directories need to be created first.
func PlanActions(targetPaths []string) (actions map[string]string, dirsToCreate map[string]struct{}) {
	actions = make(map[string]string)
	dirsToCreate = make(map[string]struct{})

	for _, path := range targetPaths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			actions[path] = ActionCreate
			dir := filepath.Dir(path)
			if dir != "." && dir != "/" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					dirsToCreate[dir] = struct{}{}
				}
			}
		} else {
			actions[path] = ActionOverwrite
		}
	}
	return actions, dirsToCreate
}

// CreateDirs creates all planned directories.
func CreateDirs(dirs map[string]struct{}) error {
	sorted := make([]string, 0, len(dirs))
	for dir := range dirs {
		sorted = append(sorted, dir)
	}
	sort.Strings(sorted)

	for _, dir := range sorted {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes data atomically: a temporary file next to the target
// is synced and renamed over the destination, so a crash mid-write never
// leaves a truncated file behind.
func WriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// FileSHA256 returns the hex SHA256 of the file at path.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// TrashFile moves path into trashDir, preserving its path relative to
// root so a later restore puts it back in place.
func TrashFile(path, trashDir, root string) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	dst := filepath.Join(trashDir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.Rename(path, dst)
}

// RestoreFromTrash moves a trashed file back to its original path.
func RestoreFromTrash(path, trashDir, root string) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	src := filepath.Join(trashDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.Rename(src, path)
}

// SwapWithTrash exchanges the live file with its trashed counterpart.
// Undoing an overwrite swaps the pre-image back in; redoing the same
// operation swaps the post-image back again.
func SwapWithTrash(path, trashDir, root string) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	trashed := filepath.Join(trashDir, rel)
	tmp := trashed + ".swap"

	if err := os.Rename(trashed, tmp); err != nil {
		return err
	}
	if err := os.Rename(path, trashed); err != nil {
		os.Rename(tmp, trashed)
		return err
	}
	return os.Rename(tmp, path)
}

// IsEmpty reports whether a directory contains no entries.
func IsEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	return false, err
}
