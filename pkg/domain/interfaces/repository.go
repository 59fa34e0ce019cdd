package interfaces

import (
	"context"

	"github.com/secmon-lab/codergate/pkg/domain/model"
	"github.com/secmon-lab/codergate/pkg/domain/types"
)

// Store persists repository and branch records. The repository ID is the
// primary key: create-or-update operations overwrite an existing record as a
// whole, there is no partial patch at this layer.
type Store interface {
	// Repository operations
	CreateOrUpdateRepository(ctx context.Context, repo *model.Repository) error
	// BatchCreateRepositories persists the whole batch atomically; if any
	// record cannot be written, none of the batch becomes visible.
	BatchCreateRepositories(ctx context.Context, repos []*model.Repository) error
	GetRepository(ctx context.Context, repoID types.RepoID) (*model.Repository, error)
	ListRepositoriesByUser(ctx context.Context, userID types.UserID) ([]*model.Repository, error)
	// DeleteRepository removes the record by ID. Deleting an absent ID is
	// not an error.
	DeleteRepository(ctx context.Context, repoID types.RepoID) error

	// Branch operations (append-only)
	CreateOrUpdateBranch(ctx context.Context, branch *model.Branch) error
	ListBranches(ctx context.Context, repoID types.RepoID) ([]*model.Branch, error)
}

// AnalysisStore provides the latest code-quality result per repository.
type AnalysisStore interface {
	PutAnalysis(ctx context.Context, analysis *model.Analysis) error
	GetLatestAnalysis(ctx context.Context, repoID types.RepoID) (*model.Analysis, error)
}
