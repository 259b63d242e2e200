// Package gitrepo adapts a git working copy to the change collector and creates commits.
package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"

	"github.com/temirov/commitgen/internal/changes"
)

const (
	defaultGitExecutable   = "git"
	// literalPathspecsOption keeps names such as pages/[id].tsx from matching other paths as globs.
	literalPathspecsOption = "--literal-pathspecs"
	filesystemRoot         = "/"

	openRepositoryErrorFormat = "open repository at %s: %w"
	openWorktreeErrorFormat   = "open worktree: %w"
	worktreeStatusErrorFormat = "worktree status: %w"
	diffCommandErrorFormat    = "git diff %s: %v: %s"
)

// ErrRepositoryNotFound indicates that no repository encloses the requested path.
var ErrRepositoryNotFound = errors.New("not a git repository")

// Repository is a go-git backed working copy. Diff text is produced by the git executable.
type Repository struct {
	repository    *git.Repository
	worktree      *git.Worktree
	rootDirectory string
	gitExecutable string
	logger        *zap.Logger
}

// Option customizes a Repository.
type Option func(*Repository)

// WithGitExecutable overrides the git binary used for diff text.
func WithGitExecutable(executable string) Option {
	return func(repository *Repository) {
		if strings.TrimSpace(executable) != "" {
			repository.gitExecutable = executable
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(repository *Repository) {
		if logger != nil {
			repository.logger = logger
		}
	}
}

// Open locates the repository enclosing path, walking up parent directories.
func Open(path string, options ...Option) (*Repository, error) {
	gitRepository, openError := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf(openRepositoryErrorFormat, path, ErrRepositoryNotFound)
		}
		return nil, fmt.Errorf(openRepositoryErrorFormat, path, openError)
	}
	worktree, worktreeError := gitRepository.Worktree()
	if worktreeError != nil {
		return nil, fmt.Errorf(openWorktreeErrorFormat, worktreeError)
	}
	repository := &Repository{
		repository:    gitRepository,
		worktree:      worktree,
		rootDirectory: worktree.Filesystem.Root(),
		gitExecutable: defaultGitExecutable,
		logger:        zap.NewNop(),
	}
	for _, option := range options {
		option(repository)
	}
	repository.loadExcludes()
	return repository, nil
}

// loadExcludes adds the core.excludesFile patterns of the user and system git configuration,
// which go-git does not read on its own. Unreadable configuration is logged and skipped.
func (repository *Repository) loadExcludes() {
	rootFilesystem := osfs.New(filesystemRoot)
	loaders := []struct {
		scope string
		load  func(fs billy.Filesystem) ([]gitignore.Pattern, error)
	}{
		{scope: "global", load: gitignore.LoadGlobalPatterns},
		{scope: "system", load: gitignore.LoadSystemPatterns},
	}
	for _, loader := range loaders {
		patterns, loadError := loader.load(rootFilesystem)
		if loadError != nil {
			repository.logger.Debug("skipping git excludes", zap.String("scope", loader.scope), zap.Error(loadError))
			continue
		}
		repository.worktree.Excludes = append(repository.worktree.Excludes, patterns...)
	}
}

// Root returns the top-level directory of the working copy.
func (repository *Repository) Root() string {
	return repository.rootDirectory
}

// Status reports the index and worktree kind of every changed path, untracked files included.
func (repository *Repository) Status(ctx context.Context) ([]changes.Entry, error) {
	if contextError := ctx.Err(); contextError != nil {
		return nil, contextError
	}
	status, statusError := repository.worktree.Status()
	if statusError != nil {
		return nil, fmt.Errorf(worktreeStatusErrorFormat, statusError)
	}
	entries := make([]changes.Entry, 0, len(status))
	for path, fileStatus := range status {
		if fileStatus == nil {
			continue
		}
		entry := changes.Entry{
			Path:     path,
			Staged:   stagingKind(fileStatus.Staging),
			Unstaged: worktreeKind(fileStatus.Worktree),
		}
		if entry.Staged == changes.KindNone && entry.Unstaged == changes.KindNone {
			continue
		}
		entries = append(entries, entry)
	}
	repository.logger.Debug("repository status", zap.Int("entries", len(entries)))
	return entries, nil
}

// Diff returns the filtered unified diff of one path against the index (staged) or the worktree.
// The path is matched literally.
func (repository *Repository) Diff(ctx context.Context, path string, staged bool) (string, error) {
	arguments := []string{literalPathspecsOption, "diff"}
	if staged {
		arguments = append(arguments, "--cached")
	}
	arguments = append(arguments, "--no-color", "--no-ext-diff", "-U3", "--abbrev=7", "--", path)

	command := exec.CommandContext(ctx, repository.gitExecutable, arguments...)
	command.Dir = repository.rootDirectory
	var standardOutput bytes.Buffer
	var standardError bytes.Buffer
	command.Stdout = &standardOutput
	command.Stderr = &standardError
	if runError := command.Run(); runError != nil {
		return "", fmt.Errorf(diffCommandErrorFormat, path, runError, strings.TrimSpace(standardError.String()))
	}
	return FilterDiff(standardOutput.String()), nil
}

func stagingKind(code git.StatusCode) changes.Kind {
	switch code {
	case git.Added:
		return changes.KindAdded
	case git.Modified:
		return changes.KindModified
	case git.Deleted:
		return changes.KindDeleted
	case git.Unmodified, git.Untracked:
		return changes.KindNone
	default:
		return changes.KindOther
	}
}

func worktreeKind(code git.StatusCode) changes.Kind {
	switch code {
	case git.Untracked:
		return changes.KindAdded
	case git.Modified:
		return changes.KindModified
	case git.Deleted:
		return changes.KindDeleted
	case git.Unmodified:
		return changes.KindNone
	default:
		return changes.KindOther
	}
}
