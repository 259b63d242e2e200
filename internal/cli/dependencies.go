package cli

import (
	"io"
	"os"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"

	"github.com/temirov/commitgen/internal/changes"
	"github.com/temirov/commitgen/internal/confirm"
	"github.com/temirov/commitgen/internal/gitrepo"
	"github.com/temirov/commitgen/internal/llm"
	"github.com/temirov/commitgen/internal/services/clipboard"
)

// commitRepository is the repository surface used by the generate command.
type commitRepository interface {
	changes.Repository
	Root() string
	Commit(options gitrepo.CommitOptions) (plumbing.Hash, error)
}

// dependencies holds the collaborators the commands are built from.
type dependencies struct {
	logger           *zap.Logger
	level            zap.AtomicLevel
	stdout           io.Writer
	stderr           io.Writer
	workingDirectory func() (string, error)
	// homeDirectory overrides the user's home directory when set.
	homeDirectory  string
	openRepository func(path string, logger *zap.Logger) (commitRepository, error)
	newClient      func(configuration llm.Configuration, logger *zap.Logger) (llm.Client, error)
	newPrompter    func() confirm.Prompter
	copier         clipboard.Copier
	now            func() time.Time
}

func newSystemDependencies(logger *zap.Logger, level zap.AtomicLevel) dependencies {
	if logger == nil {
		logger = zap.NewNop()
	}
	return dependencies{
		logger:           logger,
		level:            level,
		stdout:           os.Stdout,
		stderr:           os.Stderr,
		workingDirectory: os.Getwd,
		openRepository: func(path string, logger *zap.Logger) (commitRepository, error) {
			return gitrepo.Open(path, gitrepo.WithLogger(logger))
		},
		newClient: func(configuration llm.Configuration, logger *zap.Logger) (llm.Client, error) {
			return llm.New(configuration, llm.WithLogger(logger))
		},
		newPrompter: func() confirm.Prompter {
			return confirm.New(os.Stdin, os.Stderr)
		},
		copier: clipboard.NewService(),
		now:    time.Now,
	}
}
