package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type selectModel struct {
	list    list.Model
	chosen  Choice
	done    bool
	aborted bool
}

func newSelectModel(title string, choices []Choice) selectModel {
	styles := NewStyles()
	items := make([]list.Item, len(choices))
	for i, c := range choices {
		items[i] = c
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(colorPick).BorderForeground(colorPick)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(colorSubtle).BorderForeground(colorPick)

	l := list.New(items, delegate, 80, min(len(items)*3+6, 20))
	l.Title = title
	l.Styles.Title = styles.Question
	l.SetShowStatusBar(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return selectModel{list: l}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		case "q":
			if m.list.FilterState() != list.Filtering {
				m.aborted = true
				return m, tea.Quit
			}
		case "esc":
			// esc clears an applied filter first
			if m.list.FilterState() == list.Unfiltered {
				m.aborted = true
				return m, tea.Quit
			}
		case "enter":
			if m.list.FilterState() == list.Filtering {
				break
			}
			if c, ok := m.list.SelectedItem().(Choice); ok {
				m.chosen, m.done = c, true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.done {
		styles := NewStyles()
		return lipgloss.JoinHorizontal(lipgloss.Top,
			styles.Question.Render(m.list.Title+" "),
			styles.ListSelected.Render(m.chosen.Label),
		) + "\n"
	}
	return m.list.View()
}
