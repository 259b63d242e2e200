// Package selection decides which changed files receive a detailed diff in the commit prompt.
package selection

import (
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"go.uber.org/zap"

	"github.com/temirov/commitgen/internal/changes"
	"github.com/temirov/commitgen/internal/response"
)

const (
	sourceDirectoryPrefix = "src/"
	testPathMarker        = "test"
)

// Criteria bounds the selection. MaxFiles is guidance for the model and is not enforced here.
type Criteria struct {
	MinFiles         int
	MaxFiles         int
	MinChanges       int
	PrioritizeSource bool
	ExcludeTests     bool
	ExcludePatterns  []string
}

// Selector applies Criteria to a model response.
type Selector struct {
	criteria Criteria
	matchers []patternMatcher
	logger   *zap.Logger
}

type patternMatcher struct {
	pattern string
	glob    glob.Glob
}

func (matcher patternMatcher) matches(path string) bool {
	if strings.Contains(path, matcher.pattern) {
		return true
	}
	return matcher.glob != nil && matcher.glob.Match(path)
}

// NewSelector compiles the exclusion patterns. Patterns that are not valid globs still match as substrings.
func NewSelector(criteria Criteria, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	matchers := make([]patternMatcher, 0, len(criteria.ExcludePatterns))
	for _, pattern := range criteria.ExcludePatterns {
		if pattern == "" {
			continue
		}
		matcher := patternMatcher{pattern: pattern}
		if compiled, compileError := glob.Compile(pattern, '/'); compileError == nil {
			matcher.glob = compiled
		} else {
			logger.Debug("exclusion pattern is not a glob", zap.String("pattern", pattern), zap.Error(compileError))
		}
		matchers = append(matchers, matcher)
	}
	return &Selector{criteria: criteria, matchers: matchers, logger: logger}
}

// Select returns the files named by the selection response, augmented from the change set
// when the model named fewer than MinFiles.
func (selector *Selector) Select(changeSet changes.ChangeSet, selectionResponse string) response.FileSet {
	selected, _ := response.ExtractFiles(selectionResponse)
	primaryCount := len(selected)
	if primaryCount >= selector.criteria.MinFiles {
		return selected
	}

	candidates := selector.candidates(changeSet, selected)
	needed := selector.criteria.MinFiles - primaryCount
	for _, candidate := range candidates {
		if needed == 0 {
			break
		}
		selected.Add(candidate)
		needed--
	}
	selector.logger.Debug("fallback selection",
		zap.Int("primary", primaryCount),
		zap.Int("candidates", len(candidates)),
		zap.Int("selected", len(selected)))
	return selected
}

// Excluded reports whether a path matches any exclusion pattern.
func (selector *Selector) Excluded(path string) bool {
	for _, matcher := range selector.matchers {
		if matcher.matches(path) {
			return true
		}
	}
	return false
}

// candidates lists eligible unselected paths, source files first when prioritized,
// then by diff length descending, then by path.
func (selector *Selector) candidates(changeSet changes.ChangeSet, selected response.FileSet) []string {
	var eligible []string
	for _, path := range changeSet.Paths() {
		change := changeSet.Files[path]
		switch {
		case selected.Contains(path):
		case !change.HasDiff():
		case change.LineCount < selector.criteria.MinChanges:
		case selector.criteria.ExcludeTests && strings.Contains(path, testPathMarker):
		case selector.Excluded(path):
		default:
			eligible = append(eligible, path)
		}
	}

	sort.SliceStable(eligible, func(left, right int) bool {
		leftPath, rightPath := eligible[left], eligible[right]
		if selector.criteria.PrioritizeSource {
			leftSource := strings.HasPrefix(leftPath, sourceDirectoryPrefix)
			rightSource := strings.HasPrefix(rightPath, sourceDirectoryPrefix)
			if leftSource != rightSource {
				return leftSource
			}
		}
		leftLength := len(changeSet.Files[leftPath].Diff)
		rightLength := len(changeSet.Files[rightPath].Diff)
		if leftLength != rightLength {
			return leftLength > rightLength
		}
		return leftPath < rightPath
	})
	return eligible
}
