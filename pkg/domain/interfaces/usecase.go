package interfaces

import (
	"context"

	"github.com/secmon-lab/codergate/pkg/domain/model"
	"github.com/secmon-lab/codergate/pkg/domain/types"
)

// UseCase is the repository lifecycle manager consumed by the HTTP layer.
type UseCase interface {
	AddViaInstallation(ctx context.Context, repos []*model.RepositoryRef, userID types.UserID) ([]*model.RepositoryRef, error)
	AddViaPush(ctx context.Context, input *model.PushInput) (*model.Repository, error)
	GetRepositories(ctx context.Context, ids []types.RepoID) ([]*model.RepositoryRef, error)
	UpdateRepository(ctx context.Context, id types.RepoID, patch *model.RepositoryPatch) ([]*model.RepositoryRef, error)
	DeleteRepository(ctx context.Context, id types.RepoID) (bool, error)
	ListByUser(ctx context.Context, userID types.UserID) ([]*model.RepositoryRef, error)
	SummaryByUser(ctx context.Context, userID types.UserID) ([]*model.RepositorySummary, error)
	RecordAnalysis(ctx context.Context, analysis *model.Analysis) error
	ExchangeCode(ctx context.Context, code string) (string, error)
}
