package model

import (
	"time"

	"github.com/secmon-lab/codergate/pkg/domain/types"
)

// Repository represents one tracked GitHub repository. A repository belongs
// to exactly one user at a time; re-inserting with the same ID overwrites the
// whole record, including the owner reference.
type Repository struct {
	ID             types.RepoID
	Name           string
	UserID         types.UserID
	InstallationID types.InstallationID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewRepository is the single constructor used by both the installation and
// push insertion paths. The push path is the only one that knows the
// installation ID; the installation path passes an empty value.
func NewRepository(id types.RepoID, name string, userID types.UserID, installID types.InstallationID, now time.Time) *Repository {
	return &Repository{
		ID:             id,
		Name:           name,
		UserID:         userID,
		InstallationID: installID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// RepositoryRef is the external shape of a repository exchanged with webhook
// payloads and API responses.
type RepositoryRef struct {
	ID   types.RepoID `json:"id"`
	Name string       `json:"name"`
}

// Ref projects the persisted record back to its external shape.
func (x *Repository) Ref() *RepositoryRef {
	return &RepositoryRef{
		ID:   x.ID,
		Name: x.Name,
	}
}

// RepositoryPatch carries the mutable fields of a repository update. Nil
// fields are left unchanged.
type RepositoryPatch struct {
	Name           *string               `json:"name,omitempty"`
	InstallationID *types.InstallationID `json:"installation_id,omitempty"`
}

// PushInput is the normalized form of a push event. BranchURL is optional;
// the four other fields are required.
type PushInput struct {
	RepoID         types.RepoID
	Name           string
	UserID         types.UserID
	InstallationID types.InstallationID
	BranchURL      types.BranchURL
}

// Validate reports whether all required fields are set.
func (x *PushInput) Validate() error {
	if x.RepoID == 0 || x.Name == "" || x.UserID == 0 || x.InstallationID == "" {
		return types.ErrValidation
	}
	return nil
}
