package rules

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/Protocol-Lattice/compoder/src/api"
)

// Client is an AI coding client compoder can configure.
type Client string

const (
	ClientCursor     Client = "cursor"
	ClientClaudeCode Client = "claude-code"
)

// Clients lists the supported clients in prompt order.
var Clients = []Client{ClientCursor, ClientClaudeCode}

// ParseClient validates a client id read from config or flags.
func ParseClient(s string) (Client, error) {
	for _, c := range Clients {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown AI client %q", s)
}

// Label is the human readable client name.
func (c Client) Label() string {
	switch c {
	case ClientCursor:
		return "Cursor"
	case ClientClaudeCode:
		return "Claude Code"
	}
	return string(c)
}

// MCPConfigPath is where the client reads MCP server registrations,
// relative to the project root.
func (c Client) MCPConfigPath() string {
	if c == ClientCursor {
		return filepath.Join(".cursor", "mcp.json")
	}
	return ".mcp.json"
}

// RulesDir is the folder holding the rule files of one codegen.
func (c Client) RulesDir(slug string) string {
	if c == ClientCursor {
		return filepath.Join(".cursor", "rules", "compoder", slug)
	}
	return filepath.Join(".claude", "skills", slug)
}

// File is a rendered file, Path relative to the project root.
type File struct {
	Path    string
	Content []byte
}

// Files renders the entry, step1 and step2 files of codegenName for c.
func Files(c Client, codegenName string, rules []api.Rule) ([]File, error) {
	slug := Slugify(codegenName)
	dir := c.RulesDir(slug)

	var (
		entryName string
		entry     string
		err       error
	)
	switch c {
	case ClientCursor:
		entryName = "index.mdc"
		entry, err = IndexMDC(codegenName, slug)
	case ClientClaudeCode:
		entryName = "SKILL.md"
		entry, err = SkillMD(codegenName, slug)
	default:
		return nil, fmt.Errorf("unknown AI client %q", c)
	}
	if err != nil {
		return nil, err
	}

	step1, err := Step1(rules, codegenName)
	if err != nil {
		return nil, err
	}
	step2, err := Step2(rules, codegenName)
	if err != nil {
		return nil, err
	}

	return []File{
		{Path: filepath.Join(dir, entryName), Content: []byte(entry)},
		{Path: filepath.Join(dir, "step1.md"), Content: []byte(step1)},
		{Path: filepath.Join(dir, "step2.md"), Content: []byte(step2)},
	}, nil
}

// ServerEntry is one entry of an MCP client's mcpServers map.
type ServerEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// Registration is the compoder server entry serving codegenName.
func Registration(codegenName, apiBaseURL string) ServerEntry {
	return ServerEntry{
		Command: "compoder",
		Args:    []string{"mcp", "server", codegenName, "--api-base-url", apiBaseURL},
	}
}

// MergeMCPConfig sets mcpServers.compoder in an existing client config and
// keeps every other key. Empty or unparsable input starts a fresh config.
func MergeMCPConfig(existing []byte, entry ServerEntry) (map[string]any, error) {
	cfg := map[string]any{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &cfg); err != nil || cfg == nil {
			cfg = map[string]any{}
		}
	}

	servers, _ := cfg["mcpServers"].(map[string]any)
	if servers == nil {
		servers = map[string]any{}
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil, err
	}
	servers["compoder"] = asMap
	cfg["mcpServers"] = servers
	return cfg, nil
}
