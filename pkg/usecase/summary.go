package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/codergate/pkg/domain/model"
	"github.com/secmon-lab/codergate/pkg/domain/types"
	"github.com/secmon-lab/codergate/pkg/repository"
	"github.com/secmon-lab/codergate/pkg/utils/logging"
)

// SummaryByUser joins each repository of the user with its latest analysis
// and derives the health grade. A repository without any analysis yet is
// skipped with a log entry rather than failing the whole summary; any other
// provider failure aborts the operation.
func (x *UseCase) SummaryByUser(ctx context.Context, userID types.UserID) ([]*model.RepositorySummary, error) {
	repos, err := x.clients.Store().ListRepositoriesByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list repositories for summary", goerr.V("userID", userID))
	}

	summaries := make([]*model.RepositorySummary, 0, len(repos))
	for _, repo := range repos {
		if repo == nil {
			continue
		}

		analysis, err := x.clients.Analysis().GetLatestAnalysis(ctx, repo.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				logging.From(ctx).Warn("no analysis for repository, omitted from summary",
					slog.Int64("repoID", repo.ID.Int64()),
				)
				continue
			}
			return nil, goerr.Wrap(err, "failed to get latest analysis",
				goerr.V("repoID", repo.ID),
			)
		}

		summaries = append(summaries, &model.RepositorySummary{
			ID:        repo.ID,
			Name:      repo.Name,
			Timestamp: analysis.Timestamp,
			Grade:     model.GradeFromSmellDensity(analysis.CodeSmell),
		})
	}

	return summaries, nil
}

// RecordAnalysis stores a result reported by the analysis pipeline.
func (x *UseCase) RecordAnalysis(ctx context.Context, analysis *model.Analysis) error {
	if analysis == nil || analysis.RepoID == 0 {
		return goerr.Wrap(types.ErrValidation, "analysis needs a repository ID")
	}
	if analysis.Timestamp.IsZero() {
		return goerr.Wrap(types.ErrValidation, "analysis needs a timestamp")
	}

	if err := x.clients.Analysis().PutAnalysis(ctx, analysis); err != nil {
		return goerr.Wrap(err, "failed to store analysis",
			goerr.V("repoID", analysis.RepoID),
		)
	}

	return nil
}
