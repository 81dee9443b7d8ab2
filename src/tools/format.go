package tools

import (
	"strings"

	"github.com/Protocol-Lattice/compoder/src/api"
)

// FormatComponentDetail renders component docs as Markdown, one section per
// component in name order.
func FormatComponentDetail(library string, resp *api.ComponentDetailResponse) string {
	var b strings.Builder
	b.WriteString("# Component Details for " + library + "\n\n")
	for _, name := range resp.ComponentNames() {
		doc := resp.Components[name]
		b.WriteString("## " + name + "\n\n")
		b.WriteString("**Description:** " + doc.Description + "\n\n")
		b.WriteString("**API Documentation:**\n\n")
		b.WriteString("```\n" + doc.API + "\n```\n\n")
	}
	return strings.TrimSpace(b.String())
}
