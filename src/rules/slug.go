package rules

import (
	"regexp"
	"strings"
)

var (
	slugDropRe  = regexp.MustCompile(`[^\w\s-]`)
	slugSpaceRe = regexp.MustCompile(`[\s_]+`)
	slugEdgeRe  = regexp.MustCompile(`^-+|-+$`)
)

// Slugify turns a codegen name into a folder name:
// "Landing Page Codegen" becomes "landing-page-codegen". Different names may
// map to the same slug.
func Slugify(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = slugDropRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	return slugEdgeRe.ReplaceAllString(s, "")
}
