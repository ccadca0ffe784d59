package share

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Delimiter marks placeholders in templates, e.g. @{SDK_VERSION}
const Delimiter = "@"

// Placeholders are either braced "@{NAME}" or bare "@NAME",
// "@@" is an escaped delimiter
var placeholderRegexp = regexp.MustCompile(
	`@(?:(@)|\{([_a-zA-Z][_a-zA-Z0-9]*)\}|([_a-zA-Z][_a-zA-Z0-9]*))`)

// Substitute replaces placeholders in text with values from vars.
// A delimiter that does not start a placeholder is kept as is.
// Placeholders without a value in vars are an error
func Substitute(text string, vars map[string]string) (string, error) {
	var missing []string
	s := placeholderRegexp.ReplaceAllStringFunc(text, func(match string) string {
		m := placeholderRegexp.FindStringSubmatch(match)
		if m[1] != "" {
			return Delimiter
		}
		name := m[2]
		if name == "" {
			name = m[3]
		}
		value, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	if len(missing) > 0 {
		return s, errors.Wrapf(ErrMissingSubstitute, "%s", strings.Join(missing, ", "))
	}
	return s, nil
}

// Placeholders returns the names referenced by text, in order of appearance.
// Names are not repeated
func Placeholders(text string) (names []string) {
	names = make([]string, 0)
	seen := make(map[string]bool)
	for _, m := range placeholderRegexp.FindAllStringSubmatch(text, -1) {
		name := m[2]
		if name == "" {
			name = m[3]
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
