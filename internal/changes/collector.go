package changes

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Kind classifies one side (index or worktree) of a path's status.
type Kind int

const (
	// KindNone means the side is unmodified.
	KindNone Kind = iota
	// KindAdded means the path is new on this side (untracked on the worktree side).
	KindAdded
	// KindModified means the path content changed.
	KindModified
	// KindDeleted means the path was removed.
	KindDeleted
	// KindOther covers renames, copies, and unmerged entries.
	KindOther
)

const (
	defaultDiffConcurrency = 4
	statusErrorFormat      = "read repository status: %w"
)

// Entry is one path reported by a repository status query.
type Entry struct {
	Path     string
	Staged   Kind
	Unstaged Kind
}

// Repository is the read-only view of a version-controlled working copy.
type Repository interface {
	Status(ctx context.Context) ([]Entry, error)
	Diff(ctx context.Context, path string, staged bool) (string, error)
}

// Options selects which change classes are collected.
type Options struct {
	IncludeStaged   bool
	IncludeUnstaged bool
	// DiffConcurrency bounds the number of simultaneous diff reads.
	DiffConcurrency int
}

type pendingDiff struct {
	path   string
	staged bool
}

// Collect queries the repository status and retrieves a diff for each collected path.
// Diff failures are not fatal: the affected path keeps an empty diff.
func Collect(ctx context.Context, repository Repository, options Options, logger *zap.Logger) (ChangeSet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, statusError := repository.Status(ctx)
	if statusError != nil {
		return ChangeSet{}, fmt.Errorf(statusErrorFormat, statusError)
	}
	sort.Slice(entries, func(left, right int) bool {
		return entries[left].Path < entries[right].Path
	})

	var staged []string
	var unstaged []string
	statuses := make(map[string]FileStatus)
	var pending []pendingDiff

	for _, entry := range entries {
		label := statusLabel(entry)
		var recorded FileStatus

		if options.IncludeStaged && isCollectable(entry.Staged) {
			staged = append(staged, Label(entry.Path, label))
			recorded = label
			pending = append(pending, pendingDiff{path: entry.Path, staged: true})
		}

		if options.IncludeUnstaged && isCollectable(entry.Unstaged) {
			unstaged = append(unstaged, Label(entry.Path, label))
			if recorded == "" {
				recorded = label
				pending = append(pending, pendingDiff{path: entry.Path, staged: false})
			}
		}

		if recorded != "" {
			statuses[entry.Path] = recorded
		}
	}

	diffs := fetchDiffs(ctx, repository, pending, options.DiffConcurrency, logger)

	files := make(map[string]FileChange, len(statuses))
	for path, status := range statuses {
		diff := diffs[path]
		files[path] = FileChange{
			Status:    status,
			Diff:      diff,
			LineCount: CountLines(diff),
		}
	}

	logger.Debug("collected changes",
		zap.Int("staged", len(staged)),
		zap.Int("unstaged", len(unstaged)),
		zap.Int("files", len(files)))

	return ChangeSet{
		Staged:   staged,
		Unstaged: unstaged,
		Files:    files,
		Summary:  BuildSummary(staged, unstaged),
	}, nil
}

func fetchDiffs(ctx context.Context, repository Repository, pending []pendingDiff, concurrency int, logger *zap.Logger) map[string]string {
	if concurrency <= 0 {
		concurrency = defaultDiffConcurrency
	}
	results := make([]string, len(pending))
	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for index, request := range pending {
		index, request := index, request
		group.Go(func() error {
			diff, diffError := repository.Diff(groupContext, request.path, request.staged)
			if diffError != nil {
				logger.Debug("diff unavailable",
					zap.String("path", request.path),
					zap.Bool("staged", request.staged),
					zap.Error(diffError))
				return nil
			}
			results[index] = diff
			return nil
		})
	}
	_ = group.Wait()

	diffs := make(map[string]string, len(pending))
	for index, request := range pending {
		diffs[request.path] = results[index]
	}
	return diffs
}

func isCollectable(kind Kind) bool {
	return kind == KindAdded || kind == KindModified || kind == KindDeleted
}

// statusLabel derives a single label from both sides; added wins over modified wins over deleted.
func statusLabel(entry Entry) FileStatus {
	switch {
	case entry.Staged == KindAdded || entry.Unstaged == KindAdded:
		return StatusAdded
	case entry.Staged == KindModified || entry.Unstaged == KindModified:
		return StatusModified
	case entry.Staged == KindDeleted || entry.Unstaged == KindDeleted:
		return StatusDeleted
	default:
		return StatusUnknown
	}
}
