// Package config holds process settings and the per-project .compoderrc.
package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL = "http://localhost:3000"
	DefaultMCPHost    = "localhost"
	DefaultMCPPort    = 3001
	DefaultTimeout    = 30 * time.Second
)

// Settings is the process configuration. It is built once in main and
// passed down; nothing else reads the environment.
type Settings struct {
	APIBaseURL string
	MCPHost    string
	MCPPort    int
	Timeout    time.Duration
	Debug      bool
}

// Load reads an optional .env file and then the environment.
func Load() Settings {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds settings from getenv, falling back to defaults for unset
// or malformed values.
func FromEnv(getenv func(string) string) Settings {
	s := Settings{
		APIBaseURL: firstNonEmpty(strings.TrimSpace(getenv("COMPODER_API_URL")), DefaultAPIBaseURL),
		MCPHost:    firstNonEmpty(strings.TrimSpace(getenv("COMPODER_MCP_HOST")), DefaultMCPHost),
		MCPPort:    DefaultMCPPort,
		Timeout:    DefaultTimeout,
		Debug:      strings.TrimSpace(getenv("DEBUG")) != "",
	}
	if raw := strings.TrimSpace(getenv("COMPODER_MCP_PORT")); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port > 0 && port < 65536 {
			s.MCPPort = port
		}
	}
	if raw := strings.TrimSpace(getenv("COMPODER_TIMEOUT")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			s.Timeout = d
		} else if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			s.Timeout = time.Duration(secs) * time.Second
		}
	}
	return s
}

// MCPAddr is the listen address for the MCP HTTP transport.
func (s Settings) MCPAddr() string {
	return net.JoinHostPort(s.MCPHost, strconv.Itoa(s.MCPPort))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
