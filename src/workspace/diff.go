package workspace

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const diffContext = 3

// Diff returns a git-style unified diff of old and new for rel, or "" when
// they are equal. A nil old renders as a diff against an empty file.
func Diff(rel string, oldB, newB []byte) string {
	if bytes.Equal(oldB, newB) {
		return ""
	}

	from := "a/" + rel
	if oldB == nil {
		from = "/dev/null"
	}
	body, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(oldB),
		B:        splitLines(newB),
		FromFile: from,
		ToFile:   "b/" + rel,
		Context:  diffContext,
	})
	if err != nil || body == "" {
		return ""
	}

	var out strings.Builder
	fmt.Fprintf(&out, "diff --git a/%s b/%s\n", rel, rel)
	fmt.Fprintf(&out, "index %s..%s 100644\n", shortSHA(oldB), shortSHA(newB))
	out.WriteString(body)
	return out.String()
}

// splitLines returns newline-terminated lines, the form difflib expects.
// A missing final newline is not reported as a change of its own.
func splitLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	s := strings.ReplaceAll(string(b), "\r\n", "\n")
	lines := strings.SplitAfter(strings.TrimSuffix(s, "\n"), "\n")
	lines[len(lines)-1] += "\n"
	return lines
}

func shortSHA(b []byte) string {
	h := sha1.Sum(b)
	return fmt.Sprintf("%x", h[:3])
}
