package interfaces

import (
	"context"

	"cloud.google.com/go/bigquery"
)

// TokenExchanger exchanges an OAuth authorization code for an access token
// against the hosting platform's identity endpoint. The returned string is
// the raw JSON response body; extracting the token is left to the caller.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (string, error)
}

// BigQuery is the sink for ingest-audit records.
type BigQuery interface {
	Insert(ctx context.Context, schema bigquery.Schema, data any) error

	GetMetadata(ctx context.Context) (*bigquery.TableMetadata, error)
	UpdateTable(ctx context.Context, md bigquery.TableMetadataToUpdate, eTag string) error
	CreateTable(ctx context.Context, md *bigquery.TableMetadata) error
}
