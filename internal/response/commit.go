package response

import (
	"strings"
)

const (
	commitOpenTag       = "<commit>"
	commitCloseTag      = "</commit>"
	messageOpenTag      = "<message>"
	messageCloseTag     = "</message>"
	descriptionOpenTag  = "<description>"
	descriptionCloseTag = "</description>"
)

// Commit is the parsed commit-generation response.
type Commit struct {
	// Raw is the trimmed model text wrapped in <commit> tags when they were missing.
	Raw         string
	Message     string
	Description string
}

// HasDescription reports whether a non-empty description was found.
func (commit Commit) HasDescription() bool {
	return commit.Description != ""
}

// ParseCommit extracts the message and optional description.
//
// With both message tags present the message is their trimmed content. Without an opening tag,
// or with an opening tag but no closing tag, the message is the whole trimmed model text.
// The description is kept only when both of its tags are present and the content is not blank.
func ParseCommit(text string) Commit {
	trimmed := strings.TrimSpace(text)

	raw := trimmed
	if !strings.HasPrefix(raw, commitOpenTag) {
		raw = commitOpenTag + lineSeparator + raw
	}
	if !strings.HasSuffix(raw, commitCloseTag) {
		raw = raw + lineSeparator + commitCloseTag
	}

	message := trimmed
	if inner, found := between(trimmed, messageOpenTag, messageCloseTag); found {
		message = strings.TrimSpace(inner)
	}

	var description string
	if inner, found := between(trimmed, descriptionOpenTag, descriptionCloseTag); found {
		description = strings.TrimSpace(inner)
	}

	return Commit{
		Raw:         raw,
		Message:     message,
		Description: description,
	}
}
