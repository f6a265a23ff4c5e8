// Package vcs reads git metadata for snapshot attribution.
package vcs

import (
	"github.com/go-git/go-git/v5"
)

// Info is the repository state recorded alongside a snapshot.
type Info struct {
	Commit string
	Branch string
	Dirty  bool
}

// Describe opens the repository containing path (detecting .git in parent
// directories) and reports its current state. A short commit SHA is
// returned; detached HEAD yields an empty branch.
func Describe(path string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, err
	}

	info := &Info{
		Commit: head.Hash().String()[:7],
	}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree; report clean.
		return info, nil
	}
	status, err := wt.Status()
	if err != nil {
		return info, nil
	}
	info.Dirty = !status.IsClean()
	return info, nil
}

// DescribeOrEmpty is Describe with failures collapsed to an empty Info.
// Used where git metadata is nice to have but never required.
func DescribeOrEmpty(path string) *Info {
	info, err := Describe(path)
	if err != nil {
		return &Info{}
	}
	return info
}
