package template

import (
	"regexp"
	"strings"
)

// variablePattern matches {{name}} placeholders. The identifier may contain
// anything except a closing brace; surrounding whitespace is ignored.
var variablePattern = regexp.MustCompile(`\{\{([^}]*)\}\}`)

// Render substitutes {{variable}} placeholders in tpl with values from
// params. Unresolved placeholders are left verbatim. An empty template or
// empty parameter set returns the input unchanged.
//
// Substitution happens in a single pass over the original template, so
// braces inside substituted values are never re-expanded and rendering an
// already-rendered string is a no-op.
func Render(tpl string, params map[string]string) string {
	if tpl == "" || len(params) == 0 {
		return tpl
	}

	return variablePattern.ReplaceAllStringFunc(tpl, func(token string) string {
		name := strings.TrimSpace(token[2 : len(token)-2])
		if value, ok := params[name]; ok {
			return value
		}
		return token
	})
}

// Validate reports whether every placeholder in tpl has a non-empty
// identifier. An empty template is invalid.
func Validate(tpl string) bool {
	if tpl == "" {
		return false
	}

	for _, match := range variablePattern.FindAllStringSubmatch(tpl, -1) {
		if strings.TrimSpace(match[1]) == "" {
			return false
		}
	}
	return true
}
