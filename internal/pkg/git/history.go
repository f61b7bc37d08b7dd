package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

func (c *DefaultClient) openRepo() (*gogit.Repository, error) {
	dir := c.workDir
	if dir == "" {
		dir = "."
	}
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, apperrors.NewGitError(fmt.Errorf("open repository: %w", err), "")
	}
	return repo, nil
}

func (c *DefaultClient) resolve(repo *gogit.Repository, ref string) (*object.Commit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = "HEAD"
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, apperrors.NewUnknownCommitError(ref, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, apperrors.NewUnknownCommitError(ref, err)
	}
	return commit, nil
}

// ResolveCommit returns the metadata of ref. Diff and Files are left empty.
func (c *DefaultClient) ResolveCommit(ctx context.Context, ref string) (CommitInfo, error) {
	repo, err := c.openRepo()
	if err != nil {
		return CommitInfo{}, err
	}
	commit, err := c.resolve(repo, ref)
	if err != nil {
		return CommitInfo{}, err
	}
	return newCommitInfo(commit), nil
}

// DiffForCommit returns the patch of ref against its first parent. A root
// commit is diffed against the empty tree.
func (c *DefaultClient) DiffForCommit(ctx context.Context, ref string) (string, error) {
	repo, err := c.openRepo()
	if err != nil {
		return "", err
	}
	commit, err := c.resolve(repo, ref)
	if err != nil {
		return "", err
	}
	patch, err := commitPatch(ctx, commit)
	if err != nil {
		return "", err
	}
	return patch.String(), nil
}

// LastNCommits returns up to n commits reachable from HEAD, newest first,
// with their diffs. A repository without commits yields none.
func (c *DefaultClient) LastNCommits(ctx context.Context, n int) ([]CommitInfo, error) {
	if n < 1 {
		return nil, apperrors.NewUsageError(fmt.Sprintf("commit count must be at least 1, got %d", n))
	}
	repo, err := c.openRepo()
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewGitError(err, "")
	}

	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, apperrors.NewGitError(err, "")
	}
	defer iter.Close()

	commits := make([]CommitInfo, 0, n)
	err = iter.ForEach(func(commit *object.Commit) error {
		if len(commits) >= n {
			return storer.ErrStop
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		patch, err := commitPatch(ctx, commit)
		if err != nil {
			return err
		}
		info := newCommitInfo(commit)
		info.Diff = patch.String()
		for _, stat := range patch.Stats() {
			info.Files = append(info.Files, FileStat{Path: stat.Name, Additions: stat.Addition, Deletions: stat.Deletion})
		}
		commits = append(commits, info)
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.NewGitError(err, "")
	}
	return commits, nil
}

func newCommitInfo(commit *object.Commit) CommitInfo {
	author := commit.Author.Name
	if commit.Author.Email != "" {
		author = fmt.Sprintf("%s <%s>", commit.Author.Name, commit.Author.Email)
	}
	return CommitInfo{
		Hash:    commit.Hash.String(),
		Message: strings.TrimRight(commit.Message, "\n"),
		Author:  author,
		Date:    commit.Author.When,
	}
}

func commitPatch(ctx context.Context, commit *object.Commit) (*object.Patch, error) {
	if commit.NumParents() == 0 {
		tree, err := commit.Tree()
		if err != nil {
			return nil, apperrors.NewGitError(err, "")
		}
		changes, err := object.DiffTreeWithOptions(ctx, nil, tree, object.DefaultDiffTreeOptions)
		if err != nil {
			return nil, apperrors.NewGitError(err, "")
		}
		patch, err := changes.PatchContext(ctx)
		if err != nil {
			return nil, apperrors.NewGitError(err, "")
		}
		return patch, nil
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return nil, apperrors.NewGitError(err, "")
	}
	patch, err := parent.PatchContext(ctx, commit)
	if err != nil {
		return nil, apperrors.NewGitError(err, "")
	}
	return patch, nil
}
