package gitcommit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/contentmod/internal/adapters/outbound/gitcommit"
)

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return dir, repo
}

func TestIsGitRepo_True(t *testing.T) {
	dir, _ := initRepo(t)
	assert.True(t, gitcommit.IsGitRepo(dir))

	nested := filepath.Join(dir, "content", "site")
	require.NoError(t, os.MkdirAll(nested, 0755))
	assert.True(t, gitcommit.IsGitRepo(nested), "subdirectories of a work tree count")
}

func TestIsGitRepo_False(t *testing.T) {
	assert.False(t, gitcommit.IsGitRepo(t.TempDir()))
}

func TestCommitFile_CommitsOnlyThatFile(t *testing.T) {
	dir, repo := initRepo(t)

	target := filepath.Join(dir, "content", "a", ".content.yaml")
	other := filepath.Join(dir, "content", "b", ".content.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(t, os.MkdirAll(filepath.Dir(other), 0755))
	require.NoError(t, os.WriteFile(target, []byte("title: new\n"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("title: untouched\n"), 0644))

	c := gitcommit.New("Content Bot", "bot@example.com")
	hash, err := c.CommitFile(target, "contentmod: update title on /a")
	require.NoError(t, err)
	assert.Len(t, hash, 40, "should be a full SHA-1 hash")

	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "contentmod: update title on /a", commit.Message)
	assert.Equal(t, "Content Bot", commit.Author.Name)
	assert.Equal(t, "bot@example.com", commit.Author.Email)

	tree, err := commit.Tree()
	require.NoError(t, err)
	_, err = tree.File("content/a/.content.yaml")
	assert.NoError(t, err)
	_, err = tree.File("content/b/.content.yaml")
	assert.Error(t, err, "unrelated files are not committed")
}

func TestCommitFile_NotGitRepo(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "x.yaml")
	require.NoError(t, os.WriteFile(f, []byte("a: b\n"), 0644))

	_, err := gitcommit.New("a", "b").CommitFile(f, "msg")
	assert.Error(t, err)
}

func TestCommitFile_RefusesOtherStagedChanges(t *testing.T) {
	dir, repo := initRepo(t)

	target := filepath.Join(dir, "content", "a", ".content.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(t, os.WriteFile(target, []byte("title: new\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("wip\n"), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("unrelated.txt")
	require.NoError(t, err)

	_, err = gitcommit.New("Content Bot", "bot@example.com").CommitFile(target, "contentmod: update title on /a")
	require.ErrorIs(t, err, gitcommit.ErrIndexNotClean)
	assert.Contains(t, err.Error(), "unrelated.txt")

	_, err = repo.Head()
	assert.Error(t, err, "no commit should have been created")

	status, err := wt.Status()
	require.NoError(t, err)
	assert.Equal(t, git.Added, status.File("unrelated.txt").Staging, "the user's staged change is left alone")
}
