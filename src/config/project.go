package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileName is the project config file, kept in the project root.
const FileName = ".compoderrc"

// Version is written into new project configs.
const Version = "0.0.1"

var (
	ErrNotInitialized = errors.New(FileName + " not found, run 'compoder init' first")
	ErrInvalidConfig  = errors.New("invalid " + FileName + ": 'codegen' and 'aiClients' are required")
)

// ProjectConfig is the content of .compoderrc.
type ProjectConfig struct {
	Codegen   string   `json:"codegen"`
	AIClients []string `json:"aiClients"`
	Version   string   `json:"version"`
}

// Validate checks the fields update relies on.
func (c ProjectConfig) Validate() error {
	if c.Codegen == "" || len(c.AIClients) == 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ProjectPath returns the .compoderrc path inside dir.
func ProjectPath(dir string) string {
	return filepath.Join(dir, FileName)
}

// ProjectExists reports whether dir already has a .compoderrc.
func ProjectExists(dir string) bool {
	_, err := os.Stat(ProjectPath(dir))
	return err == nil
}

// LoadProject reads and validates dir/.compoderrc.
func LoadProject(dir string) (ProjectConfig, error) {
	data, err := os.ReadFile(ProjectPath(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return ProjectConfig{}, ErrNotInitialized
	}
	if err != nil {
		return ProjectConfig{}, fmt.Errorf("read %s: %w", FileName, err)
	}

	var cfg ProjectConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ProjectConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return ProjectConfig{}, err
	}
	return cfg, nil
}
