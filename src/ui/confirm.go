package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type confirmModel struct {
	question string
	def      bool
	answer   bool
	done     bool
	aborted  bool
	styles   Styles
}

func newConfirmModel(question string, def bool) confirmModel {
	return confirmModel{question: question, def: def, styles: NewStyles()}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	case "y", "Y":
		m.answer, m.done = true, true
	case "n", "N":
		m.answer, m.done = false, true
	case "enter":
		m.answer, m.done = m.def, true
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m confirmModel) View() string {
	hint := "(y/N)"
	if m.def {
		hint = "(Y/n)"
	}
	line := m.styles.Question.Render(m.question) + " " + m.styles.Help.Render(hint)
	if m.done {
		answer := "No"
		if m.answer {
			answer = "Yes"
		}
		line += " " + m.styles.ListSelected.Render(answer)
	}
	return line + "\n"
}
