// Package nvim loads materialized file contents into a running Neovim
// instance instead of writing them to disk directly.
package nvim

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/neovim/go-client/nvim"

	"github.com/tsepang/aisplit/blocks"
)

// Manager handles the connection and interaction with a Neovim instance.
type Manager struct {
	nvim *nvim.Nvim
}

// New connects to the Neovim instance advertised by $NVIM or
// $NVIM_LISTEN_ADDRESS.
func New() (*Manager, error) {
	addr := os.Getenv("NVIM")
	if addr == "" {
		addr = os.Getenv("NVIM_LISTEN_ADDRESS")
	}
	if addr == "" {
		return nil, fmt.Errorf("no running Neovim instance found ($NVIM is not set)")
	}

	v, err := nvim.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Neovim at %s: %w", addr, err)
	}
	return &Manager{nvim: v}, nil
}

// Close disconnects from Neovim.
func (m *Manager) Close() {
	if m.nvim != nil {
		m.nvim.Close()
	}
}

// ApplyBlocks opens one buffer per block under root and replaces its
// contents. Buffers are not written until SaveAllBuffers.
func (m *Manager) ApplyBlocks(fileBlocks []blocks.FileBlock, root string) (updated, failed []string) {
	for _, block := range fileBlocks {
		path := block.Path.Abs(root)
		if m.updateBuffer(path, block.Content) {
			updated = append(updated, path)
		} else {
			failed = append(failed, path)
		}
	}
	return updated, failed
}

func (m *Manager) updateBuffer(filePath, content string) bool {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return false
	}

	lines := strings.Split(content, "\n")
	byteContent := make([][]byte, len(lines))
	for i, s := range lines {
		byteContent[i] = []byte(s)
	}

	b := m.nvim.NewBatch()
	b.Command(fmt.Sprintf("edit %s", absPath))
	b.SetBufferLines(0, 0, -1, true, byteContent)

	return b.Execute() == nil
}

// SaveAllBuffers writes all modified buffers to disk.
func (m *Manager) SaveAllBuffers() error {
	return m.nvim.Command("wa!")
}
