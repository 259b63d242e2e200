// Package message turns an extracted commit message into its final form.
package message

import (
	"fmt"
	"strings"

	"github.com/temirov/commitgen/internal/response"
)

const (
	typedMessageFormat     = "%s: %s"
	emojiMessageFormat     = "%s %s"
	descriptionSeparator   = "\n\n"
	referenceSeparator     = "\n"
	issueReferenceFormat   = "Fixes issue #%d"
	pullRequestRefFormat   = "Related to PR #%d"
	typeKeyDelimiter       = ":"
	defaultEmoji           = "🔨"
	fallbackConventionType = "chore"
)

// Conventional commit types.
const (
	TypeFeat     = "feat"
	TypeFix      = "fix"
	TypeDocs     = "docs"
	TypeStyle    = "style"
	TypeRefactor = "refactor"
	TypeTest     = "test"
	TypeChore    = "chore"
)

var recognizedPrefixes = []string{"feat:", "fix:", "docs:", "style:", "refactor:", "test:", "chore:"}

type keywordRule struct {
	keywords   []string
	commitType string
}

// The order of the ladder decides messages matching several keywords.
var typeLadder = []keywordRule{
	{keywords: []string{"fix", "bug"}, commitType: TypeFix},
	{keywords: []string{"add", "new", "feat"}, commitType: TypeFeat},
	{keywords: []string{"doc"}, commitType: TypeDocs},
	{keywords: []string{"style"}, commitType: TypeStyle},
	{keywords: []string{"refactor"}, commitType: TypeRefactor},
	{keywords: []string{"test"}, commitType: TypeTest},
}

var emojiByType = map[string]string{
	TypeFeat:     "✨",
	TypeFix:      "🐛",
	TypeDocs:     "📚",
	TypeStyle:    "💄",
	TypeRefactor: "♻️",
	TypeTest:     "✅",
	TypeChore:    "🔨",
}

// Style selects the post-processing steps.
type Style struct {
	Conventional bool
	Emoji        bool
}

// HasTypePrefix reports whether a recognized type prefix appears anywhere in the message.
func HasTypePrefix(message string) bool {
	for _, prefix := range recognizedPrefixes {
		if strings.Contains(message, prefix) {
			return true
		}
	}
	return false
}

// DetectType picks a commit type from keywords in the lower-cased message.
func DetectType(message string) string {
	lowered := strings.ToLower(message)
	for _, rule := range typeLadder {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.commitType
			}
		}
	}
	return fallbackConventionType
}

// InferType prefixes the message with a detected type unless it already carries one.
func InferType(message string) string {
	if HasTypePrefix(message) {
		return message
	}
	return fmt.Sprintf(typedMessageFormat, DetectType(message), message)
}

// EmojiFor maps a type key to its emoji. Unknown keys map to the default.
func EmojiFor(typeKey string) string {
	if emoji, found := emojiByType[typeKey]; found {
		return emoji
	}
	return defaultEmoji
}

// TypeKey returns the text before the first colon, or the whole message when there is none.
func TypeKey(message string) string {
	key, _, _ := strings.Cut(message, typeKeyDelimiter)
	return key
}

// AddEmoji prepends the emoji for the message's type key.
func AddEmoji(message string) string {
	return fmt.Sprintf(emojiMessageFormat, EmojiFor(TypeKey(message)), message)
}

// Finalize applies type inference and emoji annotation, then appends the description.
func Finalize(commit response.Commit, style Style) string {
	final := commit.Message
	if style.Conventional {
		final = InferType(final)
	}
	if style.Emoji {
		final = AddEmoji(final)
	}
	if commit.HasDescription() {
		final = final + descriptionSeparator + commit.Description
	}
	return final
}

// AppendReferences adds issue and pull request references after a blank line.
// Non-positive numbers are ignored.
func AppendReferences(message string, issue, pullRequest int) string {
	var references []string
	if issue > 0 {
		references = append(references, fmt.Sprintf(issueReferenceFormat, issue))
	}
	if pullRequest > 0 {
		references = append(references, fmt.Sprintf(pullRequestRefFormat, pullRequest))
	}
	if len(references) == 0 {
		return message
	}
	return message + descriptionSeparator + strings.Join(references, referenceSeparator)
}
