package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/codergate/pkg/domain/interfaces"
	"github.com/secmon-lab/codergate/pkg/domain/model"
	"github.com/secmon-lab/codergate/pkg/domain/types"
	"github.com/secmon-lab/codergate/pkg/utils/errutil"
)

func parseRepoID(r *http.Request) (types.RepoID, error) {
	raw := chi.URLParam(r, "repoID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return types.RepoID(id), nil
}

func parseUserID(r *http.Request) (types.UserID, error) {
	raw := r.URL.Query().Get("user_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return types.UserID(id), nil
}

func handleListRepos(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := parseUserID(r)
		if err != nil {
			safeWrite(w, http.StatusBadRequest, []byte(`{"error":"user_id is required"}`))
			return
		}

		repos, err := uc.ListByUser(r.Context(), userID)
		if err != nil {
			errutil.HandleError(r.Context(), "fail to list repositories", err)
			safeWrite(w, http.StatusInternalServerError, []byte(`{"error":"internal error"}`))
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"repositories": repos})
	}
}

func handleRepoSummary(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := parseUserID(r)
		if err != nil {
			safeWrite(w, http.StatusBadRequest, []byte(`{"error":"user_id is required"}`))
			return
		}

		summaries, err := uc.SummaryByUser(r.Context(), userID)
		if err != nil {
			errutil.HandleError(r.Context(), "fail to build repository summary", err)
			safeWrite(w, http.StatusInternalServerError, []byte(`{"error":"internal error"}`))
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"repositories": summaries})
	}
}

func handleGetRepo(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repoID, err := parseRepoID(r)
		if err != nil {
			safeWrite(w, http.StatusBadRequest, []byte(`{"error":"invalid repository id"}`))
			return
		}

		repos, err := uc.GetRepositories(r.Context(), []types.RepoID{repoID})
		if err != nil {
			errutil.HandleError(r.Context(), "fail to get repository", err)
			safeWrite(w, http.StatusInternalServerError, []byte(`{"error":"internal error"}`))
			return
		}
		if len(repos) == 0 {
			safeWrite(w, http.StatusNotFound, []byte(`{"error":"repository not found"}`))
			return
		}

		writeJSON(w, http.StatusOK, repos[0])
	}
}

func handleUpdateRepo(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repoID, err := parseRepoID(r)
		if err != nil {
			safeWrite(w, http.StatusBadRequest, []byte(`{"error":"invalid repository id"}`))
			return
		}

		var patch model.RepositoryPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			safeWrite(w, http.StatusBadRequest, []byte(`{"error":"invalid patch body"}`))
			return
		}

		repos, err := uc.UpdateRepository(r.Context(), repoID, &patch)
		if err != nil {
			errutil.HandleError(r.Context(), "fail to update repository", err)
			safeWrite(w, http.StatusInternalServerError, []byte(`{"error":"internal error"}`))
			return
		}
		if len(repos) == 0 {
			safeWrite(w, http.StatusNotFound, []byte(`{"error":"repository not found"}`))
			return
		}

		writeJSON(w, http.StatusOK, repos[0])
	}
}

func handleDeleteRepo(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repoID, err := parseRepoID(r)
		if err != nil {
			safeWrite(w, http.StatusBadRequest, []byte(`{"error":"invalid repository id"}`))
			return
		}

		deleted, err := uc.DeleteRepository(r.Context(), repoID)
		if err != nil {
			errutil.HandleError(r.Context(), "fail to delete repository", err)
			safeWrite(w, http.StatusInternalServerError, []byte(`{"error":"internal error"}`))
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
	}
}

type analysisRequest struct {
	CodeSmell float64    `json:"code_smell"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

func handlePostAnalysis(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repoID, err := parseRepoID(r)
		if err != nil {
			safeWrite(w, http.StatusBadRequest, []byte(`{"error":"invalid repository id"}`))
			return
		}

		var req analysisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			safeWrite(w, http.StatusBadRequest, []byte(`{"error":"invalid analysis body"}`))
			return
		}

		ts := time.Now().UTC()
		if req.Timestamp != nil {
			ts = *req.Timestamp
		}

		err = uc.RecordAnalysis(r.Context(), &model.Analysis{
			RepoID:    repoID,
			CodeSmell: req.CodeSmell,
			Timestamp: ts,
		})
		if err != nil {
			if errors.Is(err, types.ErrValidation) {
				safeWrite(w, http.StatusBadRequest, []byte(err.Error()))
				return
			}
			errutil.HandleError(r.Context(), "fail to record analysis", err)
			safeWrite(w, http.StatusInternalServerError, []byte(`{"error":"internal error"}`))
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
	}
}
