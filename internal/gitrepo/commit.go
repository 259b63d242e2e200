package gitrepo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	stageChangesErrorFormat = "stage changes: %w"
	readConfigErrorFormat   = "read git configuration: %w"
	authorDateErrorFormat   = "author date: %w"
	commitDateErrorFormat   = "committer date: %w"
	createCommitErrorFormat = "create commit: %w"
)

// ErrMissingIdentity indicates that user.name or user.email is not configured.
var ErrMissingIdentity = errors.New("git user.name and user.email must be configured")

// CommitOptions controls commit creation.
type CommitOptions struct {
	Message string
	// Date applies to both author and committer unless the specific date is set.
	Date          string
	AuthorDate    string
	CommitterDate string
	Amend         bool
	// Now anchors relative dates and defaults to the current time.
	Now time.Time
}

// Commit stages every change in the working copy and records a commit, or amends HEAD.
func (repository *Repository) Commit(options CommitOptions) (plumbing.Hash, error) {
	now := options.Now
	if now.IsZero() {
		now = time.Now()
	}

	author, committer, signatureError := repository.signatures(options, now)
	if signatureError != nil {
		return plumbing.ZeroHash, signatureError
	}

	if addError := repository.worktree.AddWithOptions(&git.AddOptions{All: true}); addError != nil {
		return plumbing.ZeroHash, fmt.Errorf(stageChangesErrorFormat, addError)
	}

	hash, commitError := repository.worktree.Commit(options.Message, &git.CommitOptions{
		Author:    author,
		Committer: committer,
		Amend:     options.Amend,
	})
	if commitError != nil {
		return plumbing.ZeroHash, fmt.Errorf(createCommitErrorFormat, commitError)
	}
	return hash, nil
}

func (repository *Repository) signatures(options CommitOptions, now time.Time) (*object.Signature, *object.Signature, error) {
	configuration, configurationError := repository.repository.ConfigScoped(gitconfig.GlobalScope)
	if configurationError != nil {
		return nil, nil, fmt.Errorf(readConfigErrorFormat, configurationError)
	}
	name := strings.TrimSpace(configuration.User.Name)
	email := strings.TrimSpace(configuration.User.Email)
	if name == "" || email == "" {
		return nil, nil, ErrMissingIdentity
	}

	authorWhen, authorError := resolveDate(firstNonEmpty(options.AuthorDate, options.Date), now)
	if authorError != nil {
		return nil, nil, fmt.Errorf(authorDateErrorFormat, authorError)
	}
	committerWhen, committerError := resolveDate(firstNonEmpty(options.CommitterDate, options.Date), now)
	if committerError != nil {
		return nil, nil, fmt.Errorf(commitDateErrorFormat, committerError)
	}

	author := &object.Signature{Name: name, Email: email, When: authorWhen}
	committer := &object.Signature{Name: name, Email: email, When: committerWhen}
	return author, committer, nil
}

func resolveDate(value string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return now, nil
	}
	return ParseDate(value, now)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
