// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileTransport writes each payload to a file, replacing the previous one.
// Paths ending in .yaml or .yml are written as YAML, anything else as JSON.
type FileTransport struct {
	path   string
	mu     sync.Mutex
	closed bool
}

func NewFileTransport(path string) (*FileTransport, error) {
	if path == "" {
		return nil, errors.New("file transport: output path required")
	}
	logger.Infof("writing schedules to %s", path)
	return &FileTransport{path: path}, nil
}

func (ft *FileTransport) Path() string { return ft.path }

func (ft *FileTransport) encode(data any) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(ft.path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(data)
	default:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
}

// Send encodes data and atomically replaces the output file.
func (ft *FileTransport) Send(data any) error {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	if ft.closed {
		return ErrClosed
	}

	payload, err := ft.encode(data)
	if err != nil {
		return fmt.Errorf("encoding %T for %s: %w", data, ft.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(ft.path), "."+filepath.Base(ft.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", ft.path, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting permissions on %s: %w", tmp.Name(), err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), ft.path); err != nil {
		return fmt.Errorf("replacing %s: %w", ft.path, err)
	}

	logger.Debugf("wrote %d bytes to %s", len(payload), ft.path)
	return nil
}

func (ft *FileTransport) Close() error {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.closed = true
	return nil
}

var _ Transport = (*FileTransport)(nil)
