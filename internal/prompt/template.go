// Package prompt renders the file-selection and commit-message prompts from templates.
package prompt

import (
	"strconv"
	"strings"
)

// IndentToken is always recognized, independent of the configured placeholder names.
const IndentToken = "{indent}"

// Placeholders names the literal tokens replaced in templates.
type Placeholders struct {
	ChangesSummary   string
	ChangesText      string
	IndentSize       string
	MaxMessageLength string
	MinFiles         string
	MaxFiles         string
}

// DefaultPlaceholders returns the token names used by the built-in templates.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		ChangesSummary:   "{changes_summary}",
		ChangesText:      "{changes_text}",
		IndentSize:       "{indent_size}",
		MaxMessageLength: "{max_message_length}",
		MinFiles:         "{min_files}",
		MaxFiles:         "{max_files}",
	}
}

// Replacement binds a placeholder token to its value.
type Replacement struct {
	Token string
	Value string
}

// Render substitutes every token in a single pass. Substituted values are never rescanned,
// empty tokens are ignored, and tokens absent from the template are left alone.
func Render(template string, replacements []Replacement) string {
	pairs := make([]string, 0, len(replacements)*2)
	for _, replacement := range replacements {
		if replacement.Token == "" {
			continue
		}
		pairs = append(pairs, replacement.Token, replacement.Value)
	}
	if len(pairs) == 0 {
		return template
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Indent returns a run of size spaces.
func Indent(size int) string {
	if size <= 0 {
		return ""
	}
	return strings.Repeat(" ", size)
}

func indentReplacement(size int) Replacement {
	return Replacement{Token: IndentToken, Value: Indent(size)}
}

func numberReplacement(token string, value int) Replacement {
	return Replacement{Token: token, Value: strconv.Itoa(value)}
}
