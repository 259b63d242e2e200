// Package response recovers structured content from tag-delimited model output.
// Every function degrades to best-effort text and never fails.
package response

import (
	"sort"
	"strings"
)

const (
	filesOpenTag  = "<files>"
	filesCloseTag = "</files>"
	fileOpenTag   = "<file>"
	fileCloseTag  = "</file>"
	lineSeparator = "\n"
)

// FileSet is a set of selected file paths.
type FileSet map[string]struct{}

// NewFileSet builds a set from paths.
func NewFileSet(paths ...string) FileSet {
	set := make(FileSet, len(paths))
	for _, path := range paths {
		set.Add(path)
	}
	return set
}

// Add inserts a path.
func (set FileSet) Add(path string) {
	set[path] = struct{}{}
}

// Contains reports membership.
func (set FileSet) Contains(path string) bool {
	_, found := set[path]
	return found
}

// Sorted returns the members in ascending order.
func (set FileSet) Sorted() []string {
	paths := make([]string, 0, len(set))
	for path := range set {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// ExtractFiles reads the paths listed as <file>...</file> lines inside a <files> block.
// Missing wrapper tags are synthesized; the wrapped text is returned alongside the set.
func ExtractFiles(text string) (FileSet, string) {
	wrapped := strings.TrimSpace(text)
	if !strings.HasPrefix(wrapped, filesOpenTag) {
		wrapped = filesOpenTag + lineSeparator + wrapped
	}
	if !strings.HasSuffix(wrapped, filesCloseTag) {
		wrapped = wrapped + lineSeparator + filesCloseTag
	}

	files := make(FileSet)
	region, found := between(wrapped, filesOpenTag, filesCloseTag)
	if !found {
		return files, wrapped
	}
	for _, line := range strings.Split(region, lineSeparator) {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, fileOpenTag) || !strings.HasSuffix(trimmed, fileCloseTag) {
			continue
		}
		if len(trimmed) < len(fileOpenTag)+len(fileCloseTag) {
			continue
		}
		path := strings.TrimSpace(trimmed[len(fileOpenTag) : len(trimmed)-len(fileCloseTag)])
		if path == "" {
			continue
		}
		files.Add(path)
	}
	return files, wrapped
}

// WrapFiles renders paths in the canonical <files> form understood by ExtractFiles.
func WrapFiles(paths []string) string {
	var builder strings.Builder
	builder.WriteString(filesOpenTag)
	builder.WriteString(lineSeparator)
	for _, path := range paths {
		builder.WriteString(fileOpenTag)
		builder.WriteString(path)
		builder.WriteString(fileCloseTag)
		builder.WriteString(lineSeparator)
	}
	builder.WriteString(filesCloseTag)
	return builder.String()
}

// between returns the text after the first openTag and before the first closeTag that follows it.
func between(text, openTag, closeTag string) (string, bool) {
	start := strings.Index(text, openTag)
	if start < 0 {
		return "", false
	}
	contentStart := start + len(openTag)
	end := strings.Index(text[contentStart:], closeTag)
	if end < 0 {
		return "", false
	}
	return text[contentStart : contentStart+end], true
}
