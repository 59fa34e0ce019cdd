package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/codergate/pkg/domain/interfaces"
	"github.com/secmon-lab/codergate/pkg/domain/model"
	"github.com/secmon-lab/codergate/pkg/domain/types"
	"github.com/secmon-lab/codergate/pkg/utils/errutil"
	"github.com/secmon-lab/codergate/pkg/utils/logging"
)

func handleGitHubAppEvent(uc interfaces.UseCase, secret types.GitHubAppSecret) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := github.ValidatePayload(r, []byte(secret))
		if err != nil {
			errutil.HandleError(r.Context(), "fail to validate GitHub App event", err)
			safeWrite(w, http.StatusBadRequest, []byte(err.Error()))
			return
		}

		event, err := github.ParseWebHook(github.WebHookType(r), payload)
		if err != nil {
			errutil.HandleError(r.Context(), "fail to parse GitHub App event", err)
			safeWrite(w, http.StatusBadRequest, []byte(err.Error()))
			return
		}

		logging.From(r.Context()).Info("Received GitHub App event",
			slog.String("type", github.WebHookType(r)),
		)

		if err := dispatchGitHubEvent(r.Context(), uc, event); err != nil {
			if errors.Is(err, types.ErrValidation) {
				errutil.HandleError(r.Context(), "invalid GitHub App event", err)
				safeWrite(w, http.StatusBadRequest, []byte(err.Error()))
				return
			}
			errutil.HandleError(r.Context(), "fail to handle GitHub App event", err)
			safeWrite(w, http.StatusInternalServerError, []byte(err.Error()))
			return
		}

		safeWrite(w, http.StatusOK, []byte(`{"status":"ok"}`))
	}
}

// dispatchGitHubEvent maps a parsed webhook event to lifecycle operations.
// Unsupported event types are ignored, not errors.
func dispatchGitHubEvent(ctx context.Context, uc interfaces.UseCase, event interface{}) error {
	switch ev := event.(type) {
	case *github.InstallationEvent:
		switch ev.GetAction() {
		case "created":
			return addRepositories(ctx, uc, ev.Repositories, ev.GetInstallation().GetAccount().GetID())
		case "deleted":
			return deleteRepositories(ctx, uc, ev.Repositories)
		default:
			logging.From(ctx).Debug("ignore installation event", slog.String("action", ev.GetAction()))
			return nil
		}

	case *github.InstallationRepositoriesEvent:
		switch ev.GetAction() {
		case "added":
			return addRepositories(ctx, uc, ev.RepositoriesAdded, ev.GetInstallation().GetAccount().GetID())
		case "removed":
			return deleteRepositories(ctx, uc, ev.RepositoriesRemoved)
		default:
			logging.From(ctx).Debug("ignore installation_repositories event", slog.String("action", ev.GetAction()))
			return nil
		}

	case *github.PushEvent:
		input := pushEventToInput(ev)
		if input == nil {
			logging.From(ctx).Warn("ignore push event without repository")
			return nil
		}
		if _, err := uc.AddViaPush(ctx, input); err != nil {
			return goerr.Wrap(err, "failed to handle push event")
		}
		return nil

	default:
		logging.From(ctx).Warn("unsupported event", slog.Any("event", fmt.Sprintf("%T", event)))
		return nil
	}
}

func addRepositories(ctx context.Context, uc interfaces.UseCase, repos []*github.Repository, accountID int64) error {
	refs := make([]*model.RepositoryRef, 0, len(repos))
	for _, repo := range repos {
		refs = append(refs, &model.RepositoryRef{
			ID:   types.RepoID(repo.GetID()),
			Name: repo.GetName(),
		})
	}

	if _, err := uc.AddViaInstallation(ctx, refs, types.UserID(accountID)); err != nil {
		return goerr.Wrap(err, "failed to add repositories from installation event")
	}
	return nil
}

func deleteRepositories(ctx context.Context, uc interfaces.UseCase, repos []*github.Repository) error {
	for _, repo := range repos {
		if _, err := uc.DeleteRepository(ctx, types.RepoID(repo.GetID())); err != nil {
			return goerr.Wrap(err, "failed to delete repository from installation event",
				goerr.V("repoID", repo.GetID()),
			)
		}
	}
	return nil
}

func refToBranch(v string) string {
	if ref := strings.SplitN(v, "/", 3); len(ref) == 3 && ref[0] == "refs" && ref[1] == "heads" {
		return ref[2]
	}
	return v
}

func pushEventToInput(ev *github.PushEvent) *model.PushInput {
	repo := ev.GetRepo()
	if repo == nil {
		return nil
	}

	var installID types.InstallationID
	if id := ev.GetInstallation().GetID(); id != 0 {
		installID = types.InstallationID(strconv.FormatInt(id, 10))
	}

	var branchURL types.BranchURL
	if branch := refToBranch(ev.GetRef()); branch != "" && repo.GetHTMLURL() != "" {
		branchURL = types.BranchURL(repo.GetHTMLURL() + "/tree/" + branch)
	}

	return &model.PushInput{
		RepoID:         types.RepoID(repo.GetID()),
		Name:           repo.GetName(),
		UserID:         types.UserID(repo.GetOwner().GetID()),
		InstallationID: installID,
		BranchURL:      branchURL,
	}
}
