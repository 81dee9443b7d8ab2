// Package workspace writes generated files into a project directory and
// reports what changed.
package workspace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Status is the outcome of writing one file.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
)

// FileAction describes one write.
type FileAction struct {
	Path   string // slash separated, relative to the root
	Status Status
	Diff   string // unified diff, only filled by writers built WithDiffs
}

// ErrOutsideRoot is returned for paths escaping the writer root.
var ErrOutsideRoot = errors.New("path escapes workspace root")

// Writer writes files under a root directory. It is safe for concurrent use;
// callers writing the same path concurrently get last-writer-wins.
type Writer struct {
	root  string
	diffs bool
	mu    sync.Mutex
}

// Option configures a Writer.
type Option func(*Writer)

// WithDiffs makes Write fill FileAction.Diff for created and updated files.
func WithDiffs(enabled bool) Option {
	return func(w *Writer) { w.diffs = enabled }
}

// NewWriter returns a writer rooted at root.
func NewWriter(root string, opts ...Option) *Writer {
	w := &Writer{root: root}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Root returns the directory files are written under.
func (w *Writer) Root() string { return w.root }

// Write stores data at rel, creating parent directories. Identical content
// is left untouched.
func (w *Writer) Write(rel string, data []byte) (FileAction, error) {
	abs, slash, err := w.resolve(rel)
	if err != nil {
		return FileAction{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	old, err := os.ReadFile(abs)
	existed := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return FileAction{}, fmt.Errorf("read %s: %w", slash, err)
	}

	action := FileAction{Path: slash, Status: StatusCreated}
	if existed {
		if bytes.Equal(old, data) {
			action.Status = StatusUnchanged
			return action, nil
		}
		action.Status = StatusUpdated
	}
	if w.diffs {
		if !existed {
			old = nil
		}
		action.Diff = Diff(slash, old, data)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return FileAction{}, fmt.Errorf("create dir for %s: %w", slash, err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return FileAction{}, fmt.Errorf("write %s: %w", slash, err)
	}
	return action, nil
}

// WriteJSON writes v as two-space indented JSON.
func (w *Writer) WriteJSON(rel string, v any) (FileAction, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return FileAction{}, fmt.Errorf("encode %s: %w", rel, err)
	}
	return w.Write(rel, data)
}

// Read returns the content at rel, or nil when the file does not exist.
func (w *Writer) Read(rel string) ([]byte, error) {
	abs, _, err := w.resolve(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (w *Writer) resolve(rel string) (abs, slash string, err error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimSpace(rel)))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%w: %q", ErrOutsideRoot, rel)
	}
	return filepath.Join(w.root, clean), filepath.ToSlash(clean), nil
}
