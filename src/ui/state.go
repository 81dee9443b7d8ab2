package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
)

// Mode is the phase of a generation session.
type Mode int

const (
	ModeThinking Mode = iota
	ModeStreaming
	ModeDone
	ModeFailed
)

// State contains all the data required to render the generation view.
// This decouples the renderer from the program that feeds it.
type State struct {
	Mode       Mode
	Source     string
	Bytes      int64
	Files      int
	ArtifactID string
	Err        string

	// Bubble Tea models
	Viewport viewport.Model
	Spinner  spinner.Model
}
