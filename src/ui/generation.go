package ui

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Protocol-Lattice/compoder/src/artifact"
)

// UpdateMsg carries one consumer update into the generation view.
type UpdateMsg artifact.Update

// DoneMsg ends the session with the consumer's outcome.
type DoneMsg struct {
	Outcome artifact.Outcome
	Err     error
}

// GenerationModel renders a generation stream as it arrives.
type GenerationModel struct {
	state  State
	styles Styles

	outcome     artifact.Outcome
	err         error
	finished    bool
	interrupted bool
}

func NewGenerationModel(source string) GenerationModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return GenerationModel{
		state: State{
			Mode:     ModeThinking,
			Source:   source,
			Viewport: viewport.New(80, 20),
			Spinner:  sp,
		},
		styles: NewStyles(),
	}
}

func (m GenerationModel) Init() tea.Cmd { return m.state.Spinner.Tick }

func (m GenerationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.interrupted = !m.finished
			return m, tea.Quit
		case "q", "esc":
			if m.finished {
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.state.Viewport.Width = max(msg.Width-4, 20)
		m.state.Viewport.Height = max(msg.Height-12, 5)
		return m, nil
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd
	case UpdateMsg:
		m.apply(artifact.Update(msg))
		return m, nil
	case DoneMsg:
		m.finish(msg)
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.state.Viewport, cmd = m.state.Viewport.Update(msg)
	return m, cmd
}

func (m *GenerationModel) apply(u artifact.Update) {
	if u.Content != "" {
		m.state.Mode = ModeStreaming
	}
	m.state.Bytes = int64(len(u.Content))
	m.state.Files = len(u.Result.Files())
	m.state.Viewport.SetContent(u.Result.Markdown())
	m.state.Viewport.GotoBottom()
}

func (m *GenerationModel) finish(d DoneMsg) {
	m.finished = true
	m.outcome, m.err = d.Outcome, d.Err

	res := d.Outcome.Result
	var genErr *artifact.GenerationError
	switch {
	case errors.As(d.Err, &genErr):
		m.state.Mode = ModeFailed
		m.state.Err = genErr.Message
		res = genErr.Result
	case d.Err != nil:
		m.state.Mode = ModeFailed
		m.state.Err = d.Err.Error()
	default:
		m.state.Mode = ModeDone
		m.state.ArtifactID = d.Outcome.ArtifactID
	}
	m.state.Files = len(res.Files())
	m.state.Viewport.SetContent(res.Markdown())
	m.state.Viewport.GotoBottom()
}

func (m GenerationModel) View() string { return Render(m.state, m.styles) }

// Mode reports the current phase.
func (m GenerationModel) Mode() Mode { return m.state.Mode }

// Interrupted reports whether the user quit before the stream ended.
func (m GenerationModel) Interrupted() bool { return m.interrupted }

// RunGeneration drains r through c while showing the live view on out.
// Keyboard input is read from in; pass nil when the stream itself comes
// from stdin.
func RunGeneration(ctx context.Context, c *artifact.Consumer, r io.Reader, source string, in io.Reader, out io.Writer) (artifact.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewGenerationModel(source),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	prev := c.OnUpdate
	c.OnUpdate = func(u artifact.Update) {
		if prev != nil {
			prev(u)
		}
		p.Send(UpdateMsg(u))
	}

	type result struct {
		o   artifact.Outcome
		err error
	}
	done := make(chan result, 1)
	go func() {
		o, err := c.Consume(ctx, r)
		done <- result{o, err}
		p.Send(DoneMsg{Outcome: o, Err: err})
	}()

	final, runErr := p.Run()
	if m, ok := final.(GenerationModel); ok && m.Interrupted() {
		cancel()
		return artifact.Outcome{}, context.Canceled
	}
	res := <-done
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) && res.err == nil {
		return res.o, runErr
	}
	return res.o, res.err
}
