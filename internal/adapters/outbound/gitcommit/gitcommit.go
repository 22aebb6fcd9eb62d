package gitcommit

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrIndexNotClean is returned when the index already holds staged changes
// for other paths. Committing would sweep them into the node commit.
var ErrIndexNotClean = errors.New("index has staged changes for other paths")

// Committer records single-file commits in the git repository enclosing a
// content root.
type Committer struct {
	name  string
	email string
	now   func() time.Time
}

func New(authorName, authorEmail string) *Committer {
	return &Committer{name: authorName, email: authorEmail, now: time.Now}
}

// IsGitRepo reports whether dir is inside a git work tree.
func IsGitRepo(dir string) bool {
	_, err := open(dir)
	return err == nil
}

// CommitFile stages file (an absolute path inside the work tree) and commits
// it alone with message. It returns the new commit hash, or ErrIndexNotClean
// when anything other than file is staged.
func (c *Committer) CommitFile(file, message string) (string, error) {
	repo, err := open(filepath.Dir(file))
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	rel, err := filepath.Rel(wt.Filesystem.Root(), file)
	if err != nil {
		return "", fmt.Errorf("resolving %s in worktree: %w", file, err)
	}
	rel = filepath.ToSlash(rel)

	status, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("reading worktree status: %w", err)
	}
	if staged := stagedExcept(status, rel); len(staged) > 0 {
		return "", fmt.Errorf("committing %s: %w: %s", rel, ErrIndexNotClean, strings.Join(staged, ", "))
	}

	if _, err := wt.Add(rel); err != nil {
		return "", fmt.Errorf("staging %s: %w", rel, err)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: c.name, Email: c.email, When: c.now()},
	})
	if err != nil {
		return "", fmt.Errorf("committing %s: %w", rel, err)
	}
	return hash.String(), nil
}

func stagedExcept(status git.Status, rel string) []string {
	var staged []string
	for path, st := range status {
		if path == rel {
			continue
		}
		if st.Staging != git.Unmodified && st.Staging != git.Untracked {
			staged = append(staged, path)
		}
	}
	sort.Strings(staged)
	return staged
}

func open(dir string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
}
