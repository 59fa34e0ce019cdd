package model

import (
	"time"

	"github.com/secmon-lab/codergate/pkg/domain/types"
)

// Branch identifies a branch within a repository. Its identity is the
// composite (RepoID, URL) pair; branches are append-only and the owning
// repository reference is never changed after creation.
type Branch struct {
	RepoID    types.RepoID
	URL       types.BranchURL
	CreatedAt time.Time
}
