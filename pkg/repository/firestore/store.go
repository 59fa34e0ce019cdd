package firestore

import (
	"context"
	"strconv"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/codergate/pkg/domain/interfaces"
	"github.com/secmon-lab/codergate/pkg/domain/model"
	"github.com/secmon-lab/codergate/pkg/domain/types"
	"github.com/secmon-lab/codergate/pkg/repository"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionRepo     = "repository"
	collectionBranch   = "branch"
	collectionAnalysis = "analysis"
)

type Client struct {
	client *firestore.Client
}

var (
	_ interfaces.Store         = (*Client)(nil)
	_ interfaces.AnalysisStore = (*Client)(nil)
)

func repoDocID(repoID types.RepoID) string {
	return strconv.FormatInt(int64(repoID), 10)
}

// branchDocID builds the document ID for the composite (repo, URL) branch
// key. "/" is replaced with ":" so that the URL path does not split the
// document path; the original URL is kept unchanged in the document itself.
func branchDocID(repoID types.RepoID, url types.BranchURL) string {
	return repoDocID(repoID) + ":" + strings.ReplaceAll(string(url), "/", ":")
}

// Repository operations

func (r *Client) CreateOrUpdateRepository(ctx context.Context, repo *model.Repository) error {
	if repo == nil || repo.ID == 0 {
		return goerr.Wrap(repository.ErrInvalidInput, "repository has no ID")
	}

	docRef := r.client.Collection(collectionRepo).Doc(repoDocID(repo.ID))
	if _, err := docRef.Set(ctx, repo); err != nil {
		return goerr.Wrap(err, "failed to create or update repository",
			goerr.V("repoID", repo.ID),
		)
	}

	return nil
}

func (r *Client) BatchCreateRepositories(ctx context.Context, repos []*model.Repository) error {
	for _, repo := range repos {
		if repo == nil || repo.ID == 0 {
			return goerr.Wrap(repository.ErrInvalidInput, "repository in batch has no ID")
		}
	}

	// A transaction keeps the batch all-or-nothing.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, repo := range repos {
			docRef := r.client.Collection(collectionRepo).Doc(repoDocID(repo.ID))
			if err := tx.Set(docRef, repo); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to batch create repositories",
			goerr.V("count", len(repos)),
		)
	}

	return nil
}

func (r *Client) GetRepository(ctx context.Context, repoID types.RepoID) (*model.Repository, error) {
	docRef := r.client.Collection(collectionRepo).Doc(repoDocID(repoID))
	snap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(repository.ErrNotFound, "repository not found",
				goerr.V("repoID", repoID),
			)
		}
		return nil, goerr.Wrap(err, "failed to get repository",
			goerr.V("repoID", repoID),
		)
	}

	var repo model.Repository
	if err := snap.DataTo(&repo); err != nil {
		return nil, goerr.Wrap(err, "failed to decode repository",
			goerr.V("repoID", repoID),
		)
	}

	return &repo, nil
}

func (r *Client) ListRepositoriesByUser(ctx context.Context, userID types.UserID) ([]*model.Repository, error) {
	query := r.client.Collection(collectionRepo).Where("UserID", "==", int64(userID))

	iter := query.Documents(ctx)
	defer iter.Stop()

	var repos []*model.Repository
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate repositories",
				goerr.V("userID", userID),
			)
		}

		var repo model.Repository
		if err := snap.DataTo(&repo); err != nil {
			return nil, goerr.Wrap(err, "failed to decode repository")
		}

		repos = append(repos, &repo)
	}

	return repos, nil
}

func (r *Client) DeleteRepository(ctx context.Context, repoID types.RepoID) error {
	docRef := r.client.Collection(collectionRepo).Doc(repoDocID(repoID))

	// Delete is unconditional; removing an absent document succeeds.
	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete repository",
			goerr.V("repoID", repoID),
		)
	}

	return nil
}

// Branch operations

func (r *Client) CreateOrUpdateBranch(ctx context.Context, branch *model.Branch) error {
	if branch == nil || branch.RepoID == 0 || branch.URL == "" {
		return goerr.Wrap(repository.ErrInvalidInput, "branch needs repository ID and URL")
	}

	// The owning repository must exist.
	if _, err := r.GetRepository(ctx, branch.RepoID); err != nil {
		return err
	}

	docRef := r.client.Collection(collectionBranch).Doc(branchDocID(branch.RepoID, branch.URL))
	if _, err := docRef.Set(ctx, branch); err != nil {
		return goerr.Wrap(err, "failed to create or update branch",
			goerr.V("repoID", branch.RepoID),
			goerr.V("url", branch.URL),
		)
	}

	return nil
}

func (r *Client) ListBranches(ctx context.Context, repoID types.RepoID) ([]*model.Branch, error) {
	if _, err := r.GetRepository(ctx, repoID); err != nil {
		return nil, err
	}

	query := r.client.Collection(collectionBranch).Where("RepoID", "==", int64(repoID))

	iter := query.Documents(ctx)
	defer iter.Stop()

	var branches []*model.Branch
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate branches",
				goerr.V("repoID", repoID),
			)
		}

		var branch model.Branch
		if err := snap.DataTo(&branch); err != nil {
			return nil, goerr.Wrap(err, "failed to decode branch")
		}

		branches = append(branches, &branch)
	}

	return branches, nil
}

// Analysis operations

func (r *Client) PutAnalysis(ctx context.Context, analysis *model.Analysis) error {
	if analysis == nil || analysis.RepoID == 0 {
		return goerr.Wrap(repository.ErrInvalidInput, "analysis has no repository ID")
	}

	docRef := r.client.Collection(collectionAnalysis).NewDoc()
	if _, err := docRef.Set(ctx, analysis); err != nil {
		return goerr.Wrap(err, "failed to put analysis",
			goerr.V("repoID", analysis.RepoID),
		)
	}

	return nil
}

func (r *Client) GetLatestAnalysis(ctx context.Context, repoID types.RepoID) (*model.Analysis, error) {
	query := r.client.Collection(collectionAnalysis).
		Where("RepoID", "==", int64(repoID)).
		OrderBy("Timestamp", firestore.Desc).
		Limit(1)

	iter := query.Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(repository.ErrNotFound, "analysis not found",
			goerr.V("repoID", repoID),
		)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query latest analysis",
			goerr.V("repoID", repoID),
		)
	}

	var analysis model.Analysis
	if err := snap.DataTo(&analysis); err != nil {
		return nil, goerr.Wrap(err, "failed to decode analysis",
			goerr.V("repoID", repoID),
		)
	}

	return &analysis, nil
}
