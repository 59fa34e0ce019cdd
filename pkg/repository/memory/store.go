package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/codergate/pkg/domain/interfaces"
	"github.com/secmon-lab/codergate/pkg/domain/model"
	"github.com/secmon-lab/codergate/pkg/domain/types"
	"github.com/secmon-lab/codergate/pkg/repository"
)

type repoData struct {
	repo     *model.Repository
	branches map[types.BranchURL]*model.Branch
}

type analysisData struct {
	analysis *model.Analysis
}

type Client struct {
	mu       sync.RWMutex
	repos    map[types.RepoID]*repoData
	analyses map[types.RepoID][]*analysisData
}

var (
	_ interfaces.Store         = (*Client)(nil)
	_ interfaces.AnalysisStore = (*Client)(nil)
)

// Repository operations

func (r *Client) CreateOrUpdateRepository(ctx context.Context, repo *model.Repository) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.putRepository(repo)
	return nil
}

func (r *Client) BatchCreateRepositories(ctx context.Context, repos []*model.Repository) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, repo := range repos {
		if repo == nil || repo.ID == 0 {
			return goerr.Wrap(repository.ErrInvalidInput, "repository in batch has no ID")
		}
	}

	// Validation above makes the batch all-or-nothing: nothing has been
	// written when any record is rejected.
	for _, repo := range repos {
		r.putRepository(repo)
	}

	return nil
}

// putRepository assumes the write lock is held.
func (r *Client) putRepository(repo *model.Repository) {
	if data, exists := r.repos[repo.ID]; exists {
		data.repo = copyRepository(repo)
		return
	}
	r.repos[repo.ID] = &repoData{
		repo:     copyRepository(repo),
		branches: make(map[types.BranchURL]*model.Branch),
	}
}

func (r *Client) GetRepository(ctx context.Context, repoID types.RepoID) (*model.Repository, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.repos[repoID]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "repository not found",
			goerr.V("repoID", repoID),
		)
	}

	return copyRepository(data.repo), nil
}

func (r *Client) ListRepositoriesByUser(ctx context.Context, userID types.UserID) ([]*model.Repository, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var repos []*model.Repository
	for _, data := range r.repos {
		if data.repo.UserID == userID {
			repos = append(repos, copyRepository(data.repo))
		}
	}

	return repos, nil
}

func (r *Client) DeleteRepository(ctx context.Context, repoID types.RepoID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.repos, repoID)
	return nil
}

// Branch operations

func (r *Client) CreateOrUpdateBranch(ctx context.Context, branch *model.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.repos[branch.RepoID]
	if !exists {
		return goerr.Wrap(repository.ErrNotFound, "repository not found",
			goerr.V("repoID", branch.RepoID),
		)
	}

	data.branches[branch.URL] = copyBranch(branch)
	return nil
}

func (r *Client) ListBranches(ctx context.Context, repoID types.RepoID) ([]*model.Branch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.repos[repoID]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "repository not found",
			goerr.V("repoID", repoID),
		)
	}

	var branches []*model.Branch
	for _, branch := range data.branches {
		branches = append(branches, copyBranch(branch))
	}

	return branches, nil
}

// Analysis operations

func (r *Client) PutAnalysis(ctx context.Context, analysis *model.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if analysis == nil || analysis.RepoID == 0 {
		return goerr.Wrap(repository.ErrInvalidInput, "analysis has no repository ID")
	}

	r.analyses[analysis.RepoID] = append(r.analyses[analysis.RepoID], &analysisData{
		analysis: copyAnalysis(analysis),
	})
	return nil
}

func (r *Client) GetLatestAnalysis(ctx context.Context, repoID types.RepoID) (*model.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results, exists := r.analyses[repoID]
	if !exists || len(results) == 0 {
		return nil, goerr.Wrap(repository.ErrNotFound, "analysis not found",
			goerr.V("repoID", repoID),
		)
	}

	latest := results[0].analysis
	for _, data := range results[1:] {
		if data.analysis.Timestamp.After(latest.Timestamp) {
			latest = data.analysis
		}
	}

	return copyAnalysis(latest), nil
}

// Helper functions for deep copy

func copyRepository(repo *model.Repository) *model.Repository {
	if repo == nil {
		return nil
	}
	cpy := *repo
	return &cpy
}

func copyBranch(branch *model.Branch) *model.Branch {
	if branch == nil {
		return nil
	}
	cpy := *branch
	return &cpy
}

func copyAnalysis(analysis *model.Analysis) *model.Analysis {
	if analysis == nil {
		return nil
	}
	cpy := *analysis
	return &cpy
}
