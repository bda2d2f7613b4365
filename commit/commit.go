package commit

import (
	"errors"
	"fmt"
	"log"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/MathJSLab/mathjslab-www/config"
)

// Helper stages and commits build output in a working repository
type Helper struct {
	cfg config.CommitConfig
}

// NewHelper creates a commit helper
func NewHelper(cfg config.CommitConfig) *Helper {
	return &Helper{cfg: cfg}
}

// Commit stages everything under dir and commits it. A clean work tree is
// a no-op. With message empty, a timestamped message is used. Pushes to
// the configured remote when enabled.
func (h *Helper) Commit(dir, message string) error {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(dir, false)
		if err != nil {
			return fmt.Errorf("failed to initialize repository: %w", err)
		}
		log.Printf("✓ Git repository initialized: %s", dir)
	} else if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("failed to get worktree status: %w", err)
	}
	if status.IsClean() {
		log.Printf("ℹ️  No changes to commit")
		return nil
	}

	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}

	if message == "" {
		message = fmt.Sprintf("Deploy: %s", time.Now().Format("2006-01-02 15:04:05"))
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  h.cfg.AuthorName,
			Email: h.cfg.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	log.Printf("✓ Committed %s: %s", hash.String()[:8], message)

	if h.cfg.Push {
		err := repo.Push(&git.PushOptions{RemoteName: h.cfg.Remote})
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			log.Printf("ℹ️  Remote already up to date")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to push: %w", err)
		}
		log.Printf("✓ Pushed to %s", h.cfg.Remote)
	}

	return nil
}
