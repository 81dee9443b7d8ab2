package ui

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted is returned when the user leaves a prompt without answering.
var ErrAborted = errors.New("prompt aborted")

// Prompter asks the interactive questions of the init flow.
type Prompter interface {
	Select(title string, choices []Choice) (Choice, error)
	MultiSelect(title string, choices []Choice, validate func([]Choice) error) ([]Choice, error)
	Confirm(question string, def bool) (bool, error)
}

// TeaPrompter runs each question as a small bubbletea program.
type TeaPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p TeaPrompter) Select(title string, choices []Choice) (Choice, error) {
	if len(choices) == 0 {
		return Choice{}, errors.New("nothing to select")
	}
	m, err := p.run(newSelectModel(title, choices))
	if err != nil {
		return Choice{}, err
	}
	sm := m.(selectModel)
	if sm.aborted || !sm.done {
		return Choice{}, ErrAborted
	}
	return sm.chosen, nil
}

func (p TeaPrompter) MultiSelect(title string, choices []Choice, validate func([]Choice) error) ([]Choice, error) {
	m, err := p.run(newMultiSelectModel(title, choices, validate))
	if err != nil {
		return nil, err
	}
	mm := m.(multiSelectModel)
	if mm.aborted || !mm.done {
		return nil, ErrAborted
	}
	return mm.Selected(), nil
}

func (p TeaPrompter) Confirm(question string, def bool) (bool, error) {
	m, err := p.run(newConfirmModel(question, def))
	if err != nil {
		return false, err
	}
	cm := m.(confirmModel)
	if cm.aborted || !cm.done {
		return false, ErrAborted
	}
	return cm.answer, nil
}

func (p TeaPrompter) run(m tea.Model) (tea.Model, error) {
	var opts []tea.ProgramOption
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("run prompt: %w", err)
	}
	return final, nil
}
