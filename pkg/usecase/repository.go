package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/codergate/pkg/domain/model"
	"github.com/secmon-lab/codergate/pkg/domain/types"
	"github.com/secmon-lab/codergate/pkg/repository"
	"github.com/secmon-lab/codergate/pkg/utils/errutil"
	"github.com/secmon-lab/codergate/pkg/utils/logging"
)

// AddViaInstallation reconciles an installation event batch into repository
// records owned by the given user. An empty batch is a defined no-op; a zero
// user ID rejects the whole batch before anything is written. The returned
// refs are re-read from the store, not echoed from the input.
func (x *UseCase) AddViaInstallation(ctx context.Context, repos []*model.RepositoryRef, userID types.UserID) ([]*model.RepositoryRef, error) {
	if len(repos) == 0 {
		logging.From(ctx).Warn("installation event without repositories, nothing to do")
		return nil, nil
	}
	if userID == 0 {
		return nil, goerr.Wrap(types.ErrValidation, "user ID is required for installation event")
	}

	now := time.Now().UTC()
	records := make([]*model.Repository, 0, len(repos))
	for _, ref := range repos {
		if ref == nil || ref.ID == 0 || ref.Name == "" {
			return nil, goerr.Wrap(types.ErrValidation, "repository in installation batch needs ID and name",
				goerr.V("repo", ref),
			)
		}
		// Installation events do not carry the installation ID down this
		// path; only the push path records it.
		records = append(records, model.NewRepository(ref.ID, ref.Name, userID, "", now))
	}

	if err := x.clients.Store().BatchCreateRepositories(ctx, records); err != nil {
		return nil, goerr.Wrap(err, "failed to persist installation batch",
			goerr.V("userID", userID),
			goerr.V("count", len(records)),
		)
	}

	// Round-trip through storage so that store-assigned defaults are
	// reflected in the response.
	result := make([]*model.RepositoryRef, 0, len(records))
	for _, record := range records {
		persisted, err := x.clients.Store().GetRepository(ctx, record.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read back persisted repository",
				goerr.V("repoID", record.ID),
			)
		}
		result = append(result, persisted.Ref())
	}

	for _, record := range records {
		if err := x.recordIngest(ctx, model.IngestSourceInstallation, record); err != nil {
			// The audit export is best-effort; the batch is already durable.
			errutil.HandleError(ctx, "failed to export ingest audit record", err)
		}
	}

	logging.From(ctx).Info("added repositories via installation event",
		slog.Int("count", len(result)),
		slog.Int64("userID", userID.Int64()),
	)

	return result, nil
}

// AddViaPush reconciles a push event into a repository record. All four
// required fields must be set; otherwise nothing is persisted. The returned
// record is the post-persist value read back from the store, matching the
// installation path.
func (x *UseCase) AddViaPush(ctx context.Context, input *model.PushInput) (*model.Repository, error) {
	if input == nil {
		return nil, goerr.Wrap(types.ErrValidation, "push input is nil")
	}
	if err := input.Validate(); err != nil {
		return nil, goerr.Wrap(err, "push event misses required fields",
			goerr.V("repoID", input.RepoID),
			goerr.V("userID", input.UserID),
		)
	}

	now := time.Now().UTC()
	record := model.NewRepository(input.RepoID, input.Name, input.UserID, input.InstallationID, now)

	if err := x.clients.Store().CreateOrUpdateRepository(ctx, record); err != nil {
		return nil, goerr.Wrap(err, "failed to persist repository from push event",
			goerr.V("repoID", input.RepoID),
		)
	}

	if input.BranchURL != "" {
		branch := &model.Branch{
			RepoID:    input.RepoID,
			URL:       input.BranchURL,
			CreatedAt: now,
		}
		if err := x.clients.Store().CreateOrUpdateBranch(ctx, branch); err != nil {
			return nil, goerr.Wrap(err, "failed to persist branch from push event",
				goerr.V("repoID", input.RepoID),
				goerr.V("branchURL", input.BranchURL),
			)
		}
	}

	persisted, err := x.clients.Store().GetRepository(ctx, input.RepoID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read back persisted repository",
			goerr.V("repoID", input.RepoID),
		)
	}

	if err := x.recordIngest(ctx, model.IngestSourcePush, persisted); err != nil {
		errutil.HandleError(ctx, "failed to export ingest audit record", err)
	}

	logging.From(ctx).Info("added repository via push event",
		slog.Int64("repoID", input.RepoID.Int64()),
		slog.Int64("userID", input.UserID.Int64()),
	)

	return persisted, nil
}

// GetRepositories looks up each ID and returns one ref per found record.
// Misses are logged and skipped, never surfaced as errors.
func (x *UseCase) GetRepositories(ctx context.Context, ids []types.RepoID) ([]*model.RepositoryRef, error) {
	var result []*model.RepositoryRef
	for _, id := range ids {
		repo, err := x.clients.Store().GetRepository(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				logging.From(ctx).Warn("repository not found", slog.Int64("repoID", id.Int64()))
				continue
			}
			return nil, goerr.Wrap(err, "failed to get repository", goerr.V("repoID", id))
		}
		result = append(result, repo.Ref())
	}
	return result, nil
}

// UpdateRepository applies the patch to an existing record and re-persists
// it. An absent ID is a soft miss returning nothing.
func (x *UseCase) UpdateRepository(ctx context.Context, id types.RepoID, patch *model.RepositoryPatch) ([]*model.RepositoryRef, error) {
	repo, err := x.clients.Store().GetRepository(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logging.From(ctx).Warn("repository to update not found", slog.Int64("repoID", id.Int64()))
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get repository for update", goerr.V("repoID", id))
	}

	if patch != nil {
		if patch.Name != nil {
			repo.Name = *patch.Name
		}
		if patch.InstallationID != nil {
			repo.InstallationID = *patch.InstallationID
		}
	}
	repo.UpdatedAt = time.Now().UTC()

	if err := x.clients.Store().CreateOrUpdateRepository(ctx, repo); err != nil {
		return nil, goerr.Wrap(err, "failed to persist updated repository", goerr.V("repoID", id))
	}

	return []*model.RepositoryRef{repo.Ref()}, nil
}

// DeleteRepository deletes by ID without an existence check: a non-zero ID
// reports success even when nothing was stored under it. A zero ID is a
// benign no-op reporting failure. Store errors propagate.
func (x *UseCase) DeleteRepository(ctx context.Context, id types.RepoID) (bool, error) {
	if id == 0 {
		return false, nil
	}

	if err := x.clients.Store().DeleteRepository(ctx, id); err != nil {
		return false, goerr.Wrap(err, "failed to delete repository", goerr.V("repoID", id))
	}

	logging.From(ctx).Info("deleted repository", slog.Int64("repoID", id.Int64()))
	return true, nil
}

// ListByUser returns the refs of all repositories owned by the user.
func (x *UseCase) ListByUser(ctx context.Context, userID types.UserID) ([]*model.RepositoryRef, error) {
	repos, err := x.clients.Store().ListRepositoriesByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list repositories", goerr.V("userID", userID))
	}

	result := make([]*model.RepositoryRef, 0, len(repos))
	for _, repo := range repos {
		if repo == nil {
			continue
		}
		result = append(result, repo.Ref())
	}
	return result, nil
}
