package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/codergate/pkg/domain/types"
)

// Event sources for ingest-audit records.
const (
	IngestSourceInstallation = "installation"
	IngestSourcePush         = "push"
)

// IngestRecord is one audit entry of a repository mutation, exported to
// BigQuery when a client is configured.
type IngestRecord struct {
	ID             string
	Timestamp      time.Time
	Source         string
	RepoID         types.RepoID
	RepoName       string
	UserID         types.UserID
	InstallationID types.InstallationID
}

func NewIngestRecord(source string, repo *Repository, now time.Time) *IngestRecord {
	return &IngestRecord{
		ID:             uuid.NewString(),
		Timestamp:      now,
		Source:         source,
		RepoID:         repo.ID,
		RepoName:       repo.Name,
		UserID:         repo.UserID,
		InstallationID: repo.InstallationID,
	}
}

// IngestRawRecord is the BigQuery row shape: the timestamp is flattened to
// epoch microseconds for the TIMESTAMP column.
type IngestRawRecord struct {
	IngestRecord
	Timestamp int64
}
