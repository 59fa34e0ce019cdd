package testhelper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/codergate/pkg/domain/interfaces"
	"github.com/secmon-lab/codergate/pkg/domain/model"
	"github.com/secmon-lab/codergate/pkg/domain/types"
	"github.com/secmon-lab/codergate/pkg/repository"
)

// Unique IDs across the suite so that backends with shared state (e.g. a
// real Firestore database) do not collide between test runs.
var idSeq int64 = time.Now().UnixNano() % 1_000_000_000

func newRepoID() types.RepoID {
	return types.RepoID(atomic.AddInt64(&idSeq, 1))
}

func newUserID() types.UserID {
	return types.UserID(atomic.AddInt64(&idSeq, 1))
}

func newRepoName() string {
	return fmt.Sprintf("repo-%s", uuid.New().String()[:8])
}

// TestAll runs the conformance suite against a Store and AnalysisStore
// implementation. This is the main entry point for testing any backend.
func TestAll(t *testing.T, store interfaces.Store, analysis interfaces.AnalysisStore) {
	t.Run("RepositoryCRUD", func(t *testing.T) {
		TestRepositoryCRUD(t, store)
	})
	t.Run("BatchCreate", func(t *testing.T) {
		TestBatchCreate(t, store)
	})
	t.Run("ListByUser", func(t *testing.T) {
		TestListByUser(t, store)
	})
	t.Run("Delete", func(t *testing.T) {
		TestDelete(t, store)
	})
	t.Run("Branches", func(t *testing.T) {
		TestBranches(t, store)
	})
	t.Run("Analyses", func(t *testing.T) {
		TestAnalyses(t, store, analysis)
	})
}

// TestRepositoryCRUD tests single-record create/get/overwrite behavior.
func TestRepositoryCRUD(t *testing.T, store interfaces.Store) {
	ctx := context.Background()

	repoID := newRepoID()
	userID := newUserID()
	now := time.Now().UTC()

	testRepo := model.NewRepository(repoID, newRepoName(), userID, "", now)
	gt.NoError(t, store.CreateOrUpdateRepository(ctx, testRepo))

	retrieved, err := store.GetRepository(ctx, repoID)
	gt.NoError(t, err)
	gt.V(t, retrieved.ID).Equal(testRepo.ID)
	gt.V(t, retrieved.Name).Equal(testRepo.Name)
	gt.V(t, retrieved.UserID).Equal(testRepo.UserID)
	gt.V(t, retrieved.InstallationID).Equal(types.InstallationID(""))

	// Overwrite with a new owner and installation ID: the record is fully
	// replaced, not merged.
	newOwner := newUserID()
	testRepo.UserID = newOwner
	testRepo.InstallationID = "inst-42"
	testRepo.UpdatedAt = time.Now().UTC()
	gt.NoError(t, store.CreateOrUpdateRepository(ctx, testRepo))

	retrieved, err = store.GetRepository(ctx, repoID)
	gt.NoError(t, err)
	gt.V(t, retrieved.UserID).Equal(newOwner)
	gt.V(t, retrieved.InstallationID).Equal(types.InstallationID("inst-42"))

	// Missing ID maps to ErrNotFound
	_, err = store.GetRepository(ctx, newRepoID())
	gt.True(t, errors.Is(err, repository.ErrNotFound))
}

// TestBatchCreate tests the atomic batch insert.
func TestBatchCreate(t *testing.T, store interfaces.Store) {
	ctx := context.Background()

	userID := newUserID()
	now := time.Now().UTC()
	repos := []*model.Repository{
		model.NewRepository(newRepoID(), newRepoName(), userID, "", now),
		model.NewRepository(newRepoID(), newRepoName(), userID, "", now),
		model.NewRepository(newRepoID(), newRepoName(), userID, "", now),
	}

	gt.NoError(t, store.BatchCreateRepositories(ctx, repos))

	for _, repo := range repos {
		retrieved, err := store.GetRepository(ctx, repo.ID)
		gt.NoError(t, err)
		gt.V(t, retrieved.Name).Equal(repo.Name)
	}

	t.Run("invalid record aborts whole batch", func(t *testing.T) {
		good := model.NewRepository(newRepoID(), newRepoName(), userID, "", now)
		bad := model.NewRepository(0, newRepoName(), userID, "", now)

		err := store.BatchCreateRepositories(ctx, []*model.Repository{good, bad})
		gt.Error(t, err)

		_, err = store.GetRepository(ctx, good.ID)
		gt.True(t, errors.Is(err, repository.ErrNotFound))
	})

	t.Run("re-running the batch overwrites, not duplicates", func(t *testing.T) {
		gt.NoError(t, store.BatchCreateRepositories(ctx, repos))

		listed, err := store.ListRepositoriesByUser(ctx, userID)
		gt.NoError(t, err)
		gt.N(t, len(listed)).Equal(3)
	})
}

// TestListByUser tests that listing is scoped to the stored owner.
func TestListByUser(t *testing.T, store interfaces.Store) {
	ctx := context.Background()

	userA := newUserID()
	userB := newUserID()
	now := time.Now().UTC()

	gt.NoError(t, store.CreateOrUpdateRepository(ctx, model.NewRepository(newRepoID(), newRepoName(), userA, "", now)))
	gt.NoError(t, store.CreateOrUpdateRepository(ctx, model.NewRepository(newRepoID(), newRepoName(), userA, "", now)))
	gt.NoError(t, store.CreateOrUpdateRepository(ctx, model.NewRepository(newRepoID(), newRepoName(), userB, "", now)))

	listed, err := store.ListRepositoriesByUser(ctx, userA)
	gt.NoError(t, err)
	gt.N(t, len(listed)).Equal(2)
	for _, repo := range listed {
		gt.V(t, repo.UserID).Equal(userA)
	}

	listed, err = store.ListRepositoriesByUser(ctx, newUserID())
	gt.NoError(t, err)
	gt.N(t, len(listed)).Equal(0)
}

// TestDelete tests deletion semantics including the no-existence-check rule.
func TestDelete(t *testing.T, store interfaces.Store) {
	ctx := context.Background()

	repoID := newRepoID()
	now := time.Now().UTC()
	gt.NoError(t, store.CreateOrUpdateRepository(ctx, model.NewRepository(repoID, newRepoName(), newUserID(), "", now)))

	gt.NoError(t, store.DeleteRepository(ctx, repoID))

	_, err := store.GetRepository(ctx, repoID)
	gt.True(t, errors.Is(err, repository.ErrNotFound))

	// Deleting an absent ID is not an error
	gt.NoError(t, store.DeleteRepository(ctx, repoID))
}

// TestBranches tests branch append and listing under the composite key.
func TestBranches(t *testing.T, store interfaces.Store) {
	ctx := context.Background()

	repoID := newRepoID()
	now := time.Now().UTC()
	gt.NoError(t, store.CreateOrUpdateRepository(ctx, model.NewRepository(repoID, newRepoName(), newUserID(), "inst-1", now)))

	urlMain := types.BranchURL(fmt.Sprintf("https://github.com/acme/%s/tree/main", uuid.New().String()[:8]))
	urlDev := types.BranchURL(fmt.Sprintf("https://github.com/acme/%s/tree/develop", uuid.New().String()[:8]))

	gt.NoError(t, store.CreateOrUpdateBranch(ctx, &model.Branch{RepoID: repoID, URL: urlMain, CreatedAt: now}))
	gt.NoError(t, store.CreateOrUpdateBranch(ctx, &model.Branch{RepoID: repoID, URL: urlDev, CreatedAt: now}))

	// Same (repo, URL) pair again: no duplicate
	gt.NoError(t, store.CreateOrUpdateBranch(ctx, &model.Branch{RepoID: repoID, URL: urlMain, CreatedAt: now}))

	branches, err := store.ListBranches(ctx, repoID)
	gt.NoError(t, err)
	gt.N(t, len(branches)).Equal(2)

	// Branch under an unknown repository is rejected
	err = store.CreateOrUpdateBranch(ctx, &model.Branch{RepoID: newRepoID(), URL: urlMain, CreatedAt: now})
	gt.True(t, errors.Is(err, repository.ErrNotFound))
}

// TestAnalyses tests latest-analysis retrieval.
func TestAnalyses(t *testing.T, store interfaces.Store, analysis interfaces.AnalysisStore) {
	ctx := context.Background()

	repoID := newRepoID()
	now := time.Now().UTC()
	gt.NoError(t, store.CreateOrUpdateRepository(ctx, model.NewRepository(repoID, newRepoName(), newUserID(), "", now)))

	_, err := analysis.GetLatestAnalysis(ctx, repoID)
	gt.True(t, errors.Is(err, repository.ErrNotFound))

	older := &model.Analysis{RepoID: repoID, CodeSmell: 6.0, Timestamp: now.Add(-time.Hour)}
	newer := &model.Analysis{RepoID: repoID, CodeSmell: 3.0, Timestamp: now}
	gt.NoError(t, analysis.PutAnalysis(ctx, older))
	gt.NoError(t, analysis.PutAnalysis(ctx, newer))

	latest, err := analysis.GetLatestAnalysis(ctx, repoID)
	gt.NoError(t, err)
	gt.V(t, latest.CodeSmell).Equal(3.0)
	gt.V(t, latest.Timestamp.Equal(newer.Timestamp)).Equal(true)
}
