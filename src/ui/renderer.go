package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const Logo = `
 ┏━╸┏━┓┏┳┓┏━┓┏━┓╺┳┓┏━╸┏━┓
 ┃  ┃ ┃┃┃┃┣━┛┃ ┃ ┃┃┣╸ ┣┳┛
 ┗━╸┗━┛╹ ╹╹  ┗━┛╺┻┛┗━╸╹┗╸`

// Render generates the full generation view for s.
func Render(s State, styles Styles) string {
	header := renderHeader(styles)
	body := renderBody(s, styles)
	footer := renderFooter(s, styles)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func renderHeader(styles Styles) string {
	subtitle := styles.Subtitle.Render("AI component codegen")
	return lipgloss.JoinVertical(lipgloss.Left, styles.Header.Render(Logo), subtitle)
}

func renderFooter(s State, styles Styles) string {
	help := "ctrl+c: quit"
	if s.Mode == ModeDone || s.Mode == ModeFailed {
		help += " | q: close"
	} else {
		help += " | ↑/↓: scroll"
	}
	return styles.Footer.Render(help)
}

func renderBody(s State, styles Styles) string {
	source := s.Source
	if source == "" {
		source = "stdin"
	}
	status := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Status.Render(fmt.Sprintf("SOURCE: %s", source)),
		styles.StatusRight.Render(fmt.Sprintf("RECV: %s · %d files", humanSize(s.Bytes), s.Files)),
	)

	return styles.Container.Render(lipgloss.JoinVertical(lipgloss.Left,
		s.Viewport.View(),
		status,
		renderProgress(s, styles),
	))
}

func renderProgress(s State, styles Styles) string {
	switch s.Mode {
	case ModeThinking:
		return styles.Thinking.Render(fmt.Sprintf("%s Compoder is thinking...", s.Spinner.View()))
	case ModeStreaming:
		return styles.Thinking.Render(fmt.Sprintf("%s Compoder is coding...", s.Spinner.View()))
	case ModeFailed:
		return styles.Error.Render("✗ Generation failed: " + s.Err)
	case ModeDone:
		if s.ArtifactID != "" {
			return styles.Success.Render("✓ Generated artifact " + s.ArtifactID)
		}
		return styles.Success.Render("✓ Generation finished")
	default:
		return ""
	}
}

func humanSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
