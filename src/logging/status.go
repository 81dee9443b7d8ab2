package logging

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	infoGlyph    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")).Render("ℹ")
	successGlyph = lipgloss.NewStyle().Foreground(lipgloss.Color("#3DDC97")).Bold(true).Render("✓")
	warnGlyph    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")).Render("⚠")
	errorGlyph   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5C5C")).Bold(true).Render("✗")
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
)

// Status prints one-line progress messages for humans. Lines from
// concurrent goroutines never interleave.
type Status struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStatus returns a status printer writing to w.
func NewStatus(w io.Writer) *Status {
	return &Status{w: w}
}

func (s *Status) Info(format string, args ...any)    { s.line(infoGlyph, format, args...) }
func (s *Status) Success(format string, args ...any) { s.line(successGlyph, format, args...) }
func (s *Status) Warn(format string, args ...any)    { s.line(warnGlyph, format, args...) }
func (s *Status) Error(format string, args ...any)   { s.line(errorGlyph, format, args...) }

// Plain prints text without a glyph, dimmed.
func (s *Status) Plain(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, subtleStyle.Render(fmt.Sprintf(format, args...)))
}

func (s *Status) line(glyph, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%s %s\n", glyph, fmt.Sprintf(format, args...))
}
