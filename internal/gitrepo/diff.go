package gitrepo

import (
	"strings"
)

const (
	fileHeaderPrefix  = "diff --git "
	hunkHeaderPrefix  = "@@"
	noNewlineMarker   = `\ No newline at end of file`
	diffLineDelimiter = "\n"
)

// FilterDiff keeps only the added, removed, and context lines of hunks in git patch output.
// File headers, index lines, and hunk headers are dropped.
func FilterDiff(patch string) string {
	var builder strings.Builder
	insideHunk := false
	for _, line := range strings.Split(patch, diffLineDelimiter) {
		switch {
		case strings.HasPrefix(line, fileHeaderPrefix):
			insideHunk = false
			continue
		case strings.HasPrefix(line, hunkHeaderPrefix):
			insideHunk = true
			continue
		case !insideHunk, line == noNewlineMarker, line == "":
			continue
		}
		switch line[0] {
		case '+', '-', ' ':
			builder.WriteString(line)
			builder.WriteString(diffLineDelimiter)
		}
	}
	return builder.String()
}
