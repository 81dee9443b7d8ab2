package ui

import (
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Protocol-Lattice/compoder/src/artifact"
)

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestRenderThinkingThenCoding(t *testing.T) {
	m := NewGenerationModel("gen.txt")
	assert.Contains(t, m.View(), "Compoder is thinking...")
	assert.Contains(t, m.View(), "SOURCE: gen.txt")

	content := "<ComponentArtifact><ComponentFile fileName=\"App.tsx\" isEntryFile=\"true\">export default 1"
	next, _ := m.Update(UpdateMsg{Content: content, Result: artifact.Parse(content)})
	m = next.(GenerationModel)

	assert.Equal(t, ModeStreaming, m.Mode())
	view := m.View()
	assert.Contains(t, view, "Compoder is coding...")
	assert.Contains(t, view, "1 files")
}

func TestGenerationDone(t *testing.T) {
	m := NewGenerationModel("")
	next, cmd := m.Update(DoneMsg{Outcome: artifact.Outcome{ArtifactID: "abc123"}})
	m = next.(GenerationModel)

	require.NotNil(t, cmd)
	assert.Equal(t, ModeDone, m.Mode())
	assert.Contains(t, m.View(), "Generated artifact abc123")
	assert.Contains(t, m.View(), "SOURCE: stdin")
	assert.False(t, m.Interrupted())
}

func TestGenerationFailed(t *testing.T) {
	m := NewGenerationModel("x")
	next, _ := m.Update(DoneMsg{Err: &artifact.GenerationError{Message: "quota exceeded"}})
	m = next.(GenerationModel)
	assert.Equal(t, ModeFailed, m.Mode())
	assert.Contains(t, m.View(), "Generation failed: quota exceeded")

	m = NewGenerationModel("x")
	next, _ = m.Update(DoneMsg{Err: errors.New("read generation stream: reset")})
	assert.Contains(t, next.View(), "read generation stream: reset")
}

func TestGenerationCtrlCBeforeEndIsInterrupt(t *testing.T) {
	m := NewGenerationModel("x")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, next.(GenerationModel).Interrupted())

	// q does nothing while streaming
	_, cmd = m.Update(keyRunes("q"))
	assert.Nil(t, cmd)
}

func TestRenderFooterContainsQuit(t *testing.T) {
	assert.Contains(t, NewGenerationModel("x").View(), "ctrl+c: quit")
}

func TestHumanSize(t *testing.T) {
	cases := map[int64]string{
		0:           "0 B",
		512:         "512 B",
		1024:        "1.0 KB",
		1536:        "1.5 KB",
		1024 * 1024: "1.0 MB",
	}
	for in, want := range cases {
		assert.Equal(t, want, humanSize(in))
	}
}

func TestMultiSelect(t *testing.T) {
	validate := func(cs []Choice) error {
		if len(cs) == 0 {
			return errors.New("Please select at least one AI client")
		}
		return nil
	}
	var m tea.Model = newMultiSelectModel("Clients?", []Choice{
		{Label: "Cursor", Value: "cursor", Checked: true},
		{Label: "Claude Code", Value: "claude-code"},
	}, validate)

	// uncheck cursor, then enter is refused
	m, _ = m.Update(keyRunes(" "))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Please select at least one AI client")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(keyRunes("x"))
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	got := m.(multiSelectModel).Selected()
	require.Len(t, got, 1)
	assert.Equal(t, "claude-code", got[0].Value)
}

func TestMultiSelectToggleAll(t *testing.T) {
	var m tea.Model = newMultiSelectModel("?", []Choice{{Value: "a"}, {Value: "b", Checked: true}}, nil)
	m, _ = m.Update(keyRunes("a"))
	assert.Len(t, m.(multiSelectModel).Selected(), 2)
	m, _ = m.Update(keyRunes("a"))
	assert.Empty(t, m.(multiSelectModel).Selected())
}

func TestConfirm(t *testing.T) {
	cases := []struct {
		key  tea.KeyMsg
		def  bool
		want bool
	}{
		{keyRunes("y"), false, true},
		{keyRunes("N"), true, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, false, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, true, true},
	}
	for _, tc := range cases {
		m, cmd := newConfirmModel("Overwrite?", tc.def).Update(tc.key)
		require.NotNil(t, cmd)
		assert.Equal(t, tc.want, m.(confirmModel).answer)
	}

	m, cmd := newConfirmModel("Overwrite?", false).Update(keyRunes("z"))
	assert.Nil(t, cmd)
	assert.False(t, m.(confirmModel).done)

	m, _ = newConfirmModel("Overwrite?", false).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.(confirmModel).aborted)
}

func TestSelectPicksHighlightedChoice(t *testing.T) {
	var m tea.Model = newSelectModel("Codegen?", []Choice{
		{Label: "Landing Page - Marketing pages", Value: "Landing Page"},
		{Label: "Admin - Dashboards", Value: "Admin"},
	})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	sm := m.(selectModel)
	assert.Equal(t, "Admin", sm.chosen.Value)
	assert.Contains(t, sm.View(), "Admin - Dashboards")
}

func TestSelectQuitKeysAbort(t *testing.T) {
	choices := []Choice{{Label: "Landing Page", Value: "Landing Page"}}

	for _, key := range []tea.KeyMsg{keyRunes("q"), {Type: tea.KeyEsc}} {
		m, cmd := newSelectModel("Codegen?", choices).Update(key)
		require.NotNil(t, cmd, key.String())
		sm := m.(selectModel)
		assert.True(t, sm.aborted, key.String())
		assert.False(t, sm.done, key.String())
	}

	p := TeaPrompter{In: strings.NewReader("q"), Out: io.Discard}
	c, err := p.Select("Codegen?", choices)
	assert.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, c.Value)
}

func TestSelectTypesQIntoFilter(t *testing.T) {
	var m tea.Model = newSelectModel("Codegen?", []Choice{
		{Label: "Landing Page", Value: "Landing Page"},
		{Label: "Admin", Value: "Admin"},
	})
	m, _ = m.Update(keyRunes("/"))
	m, _ = m.Update(keyRunes("q"))
	assert.False(t, m.(selectModel).aborted, "q while filtering is filter text")
}
