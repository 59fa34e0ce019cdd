package model

import (
	"time"

	"github.com/secmon-lab/codergate/pkg/domain/types"
)

// Analysis is the latest result of the external code-quality pipeline for a
// repository. Only CodeSmell and Timestamp are consumed here; the pipeline
// itself is a black box.
type Analysis struct {
	RepoID    types.RepoID `json:"repo_id"`
	CodeSmell float64      `json:"code_smell"`
	Timestamp time.Time    `json:"timestamp"`
}

// RepositorySummary is a read-time projection of a repository joined with its
// latest analysis. It is recomputed on every read and never persisted.
type RepositorySummary struct {
	ID        types.RepoID      `json:"id"`
	Name      string            `json:"name"`
	Timestamp time.Time         `json:"timestamp"`
	Grade     types.HealthGrade `json:"grade"`
}
