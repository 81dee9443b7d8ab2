package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type multiSelectModel struct {
	title    string
	choices  []Choice
	cursor   int
	validate func([]Choice) error
	errMsg   string
	done     bool
	aborted  bool
	styles   Styles
}

func newMultiSelectModel(title string, choices []Choice, validate func([]Choice) error) multiSelectModel {
	cs := make([]Choice, len(choices))
	copy(cs, choices)
	return multiSelectModel{title: title, choices: cs, validate: validate, styles: NewStyles()}
}

// Selected returns the checked choices in display order.
func (m multiSelectModel) Selected() []Choice {
	var out []Choice
	for _, c := range m.choices {
		if c.Checked {
			out = append(out, c)
		}
	}
	return out
}

func (m multiSelectModel) Init() tea.Cmd { return nil }

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case " ", "x":
		if len(m.choices) > 0 {
			m.choices[m.cursor].Checked = !m.choices[m.cursor].Checked
			m.errMsg = ""
		}
	case "a":
		all := len(m.Selected()) < len(m.choices)
		for i := range m.choices {
			m.choices[i].Checked = all
		}
		m.errMsg = ""
	case "enter":
		if m.validate != nil {
			if err := m.validate(m.Selected()); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
		}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m multiSelectModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Question.Render(m.title))

	if m.done {
		var labels []string
		for _, c := range m.Selected() {
			labels = append(labels, c.Label)
		}
		b.WriteString(" " + m.styles.ListSelected.Render(strings.Join(labels, ", ")) + "\n")
		return b.String()
	}
	b.WriteString("\n")

	for i, c := range m.choices {
		pointer := "  "
		if i == m.cursor {
			pointer = m.styles.Accent.Render("❯ ")
		}
		box := "◯"
		if c.Checked {
			box = m.styles.Checked.Render("◉")
		}
		label := c.Label
		if i == m.cursor {
			label = m.styles.ListSelected.Render(label)
		}
		b.WriteString(pointer + box + " " + label + "\n")
	}
	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render("✗ "+m.errMsg) + "\n")
	}
	b.WriteString(m.styles.Help.Render("space: toggle | a: all | enter: confirm") + "\n")
	return b.String()
}
