package types

import "log/slog"

type (
	// RepoID is the platform-assigned repository identifier. It is stable
	// across installation and push events and is the primary key of a
	// repository record.
	RepoID int64

	// UserID identifies the account that owns a repository. GitHub reports
	// it as int on some payloads and int64 on others; it is normalized to
	// int64 everywhere in this codebase.
	UserID int64

	// InstallationID is the GitHub App installation identifier. It is kept
	// as a string because only the push path records it and it is never
	// used for arithmetic.
	InstallationID string

	BranchURL string

	GitHubAppSecret   string
	OAuthClientID     string
	OAuthClientSecret string

	GoogleProjectID string
	BQDatasetID     string
	BQTableID       string
)

func (x RepoID) Int64() int64   { return int64(x) }
func (x UserID) Int64() int64   { return int64(x) }
func (x GoogleProjectID) String() string { return string(x) }
func (x BQDatasetID) String() string     { return string(x) }
func (x BQTableID) String() string       { return string(x) }

func (x GitHubAppSecret) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x GitHubAppSecret) String() string {
	return "***********"
}

func (x OAuthClientSecret) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x OAuthClientSecret) String() string {
	return "***********"
}
