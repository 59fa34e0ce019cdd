package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/codergate/pkg/controller/server"
	"github.com/secmon-lab/codergate/pkg/domain/model"
	"github.com/secmon-lab/codergate/pkg/domain/types"
	"github.com/secmon-lab/codergate/pkg/infra"
	"github.com/secmon-lab/codergate/pkg/infra/ghauth"
	"github.com/secmon-lab/codergate/pkg/repository/memory"
	"github.com/secmon-lab/codergate/pkg/usecase"
)

func TestHealth(t *testing.T) {
	srv, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	gt.V(t, rec.Code).Equal(http.StatusOK)
	gt.V(t, rec.Body.String()).Equal("ok")
}

func seedRepository(t *testing.T, store *memory.Client, id types.RepoID, name string, userID types.UserID) {
	t.Helper()
	repo := model.NewRepository(id, name, userID, "inst-1", time.Now().UTC())
	gt.NoError(t, store.CreateOrUpdateRepository(context.Background(), repo))
}

func TestRepositoryAPI(t *testing.T) {
	t.Run("list repositories by user", func(t *testing.T) {
		srv, store := newTestServer()
		seedRepository(t, store, 101, "repo-a", 7)
		seedRepository(t, store, 102, "repo-b", 7)
		seedRepository(t, store, 103, "repo-c", 8)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/repos?user_id=7", nil)
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusOK)

		var resp struct {
			Repositories []*model.RepositoryRef `json:"repositories"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		gt.N(t, len(resp.Repositories)).Equal(2)
	})

	t.Run("list without user_id is rejected", func(t *testing.T) {
		srv, _ := newTestServer()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/repos", nil)
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("get repository by ID", func(t *testing.T) {
		srv, store := newTestServer()
		seedRepository(t, store, 101, "repo-a", 7)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/repos/101", nil)
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusOK)

		var repo model.RepositoryRef
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &repo))
		gt.V(t, repo.ID).Equal(types.RepoID(101))
		gt.V(t, repo.Name).Equal("repo-a")
	})

	t.Run("get missing repository returns 404", func(t *testing.T) {
		srv, _ := newTestServer()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/repos/999", nil)
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("patch repository name", func(t *testing.T) {
		srv, store := newTestServer()
		seedRepository(t, store, 101, "repo-a", 7)

		body := []byte(`{"name": "renamed"}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/repos/101", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusOK)

		repo, err := store.GetRepository(context.Background(), 101)
		gt.NoError(t, err)
		gt.V(t, repo.Name).Equal("renamed")
	})

	t.Run("patch missing repository returns 404", func(t *testing.T) {
		srv, _ := newTestServer()

		req := httptest.NewRequest(http.MethodPatch, "/api/v1/repos/999", bytes.NewReader([]byte(`{"name":"x"}`)))
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("delete repository", func(t *testing.T) {
		srv, store := newTestServer()
		seedRepository(t, store, 101, "repo-a", 7)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/repos/101", nil)
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusOK)

		var resp map[string]bool
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		gt.V(t, resp["deleted"]).Equal(true)

		_, err := store.GetRepository(context.Background(), 101)
		gt.Error(t, err)
	})

	t.Run("delete repository ID zero reports not deleted", func(t *testing.T) {
		srv, _ := newTestServer()

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/repos/0", nil)
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusOK)

		var resp map[string]bool
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		gt.V(t, resp["deleted"]).Equal(false)
	})
}

func TestAnalysisAPI(t *testing.T) {
	t.Run("record analysis then read summary grade", func(t *testing.T) {
		srv, store := newTestServer()
		seedRepository(t, store, 101, "repo-a", 7)

		ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		body, err := json.Marshal(analysisBody{CodeSmell: 3.0, Timestamp: &ts})
		gt.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/repos/101/analysis", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)
		gt.V(t, rec.Code).Equal(http.StatusCreated)

		req = httptest.NewRequest(http.MethodGet, "/api/v1/repos/summary?user_id=7", nil)
		rec = httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)
		gt.V(t, rec.Code).Equal(http.StatusOK)

		var resp struct {
			Repositories []*model.RepositorySummary `json:"repositories"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		gt.N(t, len(resp.Repositories)).Equal(1)
		gt.V(t, resp.Repositories[0].Grade).Equal(types.GradeA)
	})

	t.Run("analysis without timestamp defaults to now", func(t *testing.T) {
		srv, store := newTestServer()
		seedRepository(t, store, 101, "repo-a", 7)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/repos/101/analysis", bytes.NewReader([]byte(`{"code_smell": 1.5}`)))
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)
		gt.V(t, rec.Code).Equal(http.StatusCreated)

		got, err := store.GetLatestAnalysis(context.Background(), 101)
		gt.NoError(t, err)
		gt.V(t, got.CodeSmell).Equal(1.5)
		gt.V(t, got.Timestamp.IsZero()).Equal(false)
	})
}

type analysisBody struct {
	CodeSmell float64    `json:"code_smell"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

func TestAccessToken(t *testing.T) {
	newSrvWithExchanger := func(t *testing.T, endpoint *httptest.Server) *server.Server {
		t.Helper()
		exchanger := gt.R1(ghauth.New("client-id", "client-secret", "https://example.com/callback",
			ghauth.WithEndpoint(endpoint.URL),
		)).NoError(t)

		store := memory.New()
		clients := infra.New(
			infra.WithStore(store),
			infra.WithAnalysis(store),
			infra.WithTokenExchanger(exchanger),
		)
		return server.New(usecase.New(clients))
	}

	t.Run("relays token response from identity provider", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.V(t, r.FormValue("code")).Equal("abc123")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"gho_token","token_type":"bearer"}`))
		}))
		defer upstream.Close()

		srv := newSrvWithExchanger(t, upstream)

		req := httptest.NewRequest(http.MethodGet, "/github/access-token?code=abc123", nil)
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusOK)

		var resp map[string]string
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		gt.V(t, resp["access_token"]).Equal("gho_token")
	})

	t.Run("missing code is rejected", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("exchange endpoint should not be called")
		}))
		defer upstream.Close()

		srv := newSrvWithExchanger(t, upstream)

		req := httptest.NewRequest(http.MethodGet, "/github/access-token", nil)
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("upstream failure maps to bad gateway", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer upstream.Close()

		srv := newSrvWithExchanger(t, upstream)

		req := httptest.NewRequest(http.MethodGet, "/github/access-token?code=abc123", nil)
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusBadGateway)
	})
}
