package vcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	path := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(path, []byte("# test\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "tester",
			Email: "tester@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return dir
}

func TestDescribe(t *testing.T) {
	dir := initRepo(t)

	info, err := Describe(dir)
	require.NoError(t, err)

	assert.Len(t, info.Commit, 7)
	assert.NotEmpty(t, info.Branch)
	assert.False(t, info.Dirty)
}

func TestDescribeDirty(t *testing.T) {
	dir := initRepo(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.txt"), []byte("uncommitted\n"), 0o644))

	info, err := Describe(dir)
	require.NoError(t, err)
	assert.True(t, info.Dirty)
}

func TestDescribeNotARepo(t *testing.T) {
	_, err := Describe(t.TempDir())
	assert.Error(t, err)
}

func TestDescribeOrEmpty(t *testing.T) {
	info := DescribeOrEmpty(t.TempDir())
	require.NotNil(t, info)
	assert.Empty(t, info.Commit)
	assert.Empty(t, info.Branch)
}
