package tools

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	codegenNameRe   = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]+$`)
	componentNameRe = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)
)

// ValidationError reports bad tool input. It is raised before any network
// call and its message is shown to the caller as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ValidCodegenName reports whether name may be used as a codegen name:
// letters, digits, whitespace, '-' and '_', not blank.
func ValidCodegenName(name string) bool {
	return codegenNameRe.MatchString(name) && strings.TrimSpace(name) != ""
}

// ValidComponentName reports whether name may be used as a component name.
func ValidComponentName(name string) bool {
	return componentNameRe.MatchString(name)
}

// componentNames accepts a JSON array of strings or a comma separated string.
// Blank entries are dropped.
func componentNames(v any) ([]string, error) {
	var raw []string
	switch x := v.(type) {
	case nil:
	case string:
		raw = strings.Split(x, ",")
	case []string:
		raw = x
	case []any:
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, invalid("Invalid component name format: %v", item)
			}
			raw = append(raw, s)
		}
	default:
		return nil, invalid("At least one component name is required")
	}

	names := make([]string, 0, len(raw))
	for _, n := range raw {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names, nil
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
