package usecase

import (
	"context"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/codergate/pkg/domain/interfaces"
	"github.com/secmon-lab/codergate/pkg/domain/model"
)

// recordIngest exports an audit record of a repository mutation to BigQuery.
// A nil BigQuery client disables the export.
func (x *UseCase) recordIngest(ctx context.Context, source string, repo *model.Repository) error {
	bq := x.clients.BigQuery()
	if bq == nil {
		return nil
	}

	record := model.NewIngestRecord(source, repo, time.Now().UTC())

	schema, err := createOrUpdateIngestTable(ctx, bq, record)
	if err != nil {
		return err
	}

	rawRecord := &model.IngestRawRecord{
		IngestRecord: *record,
		Timestamp:    record.Timestamp.UnixMicro(),
	}
	if err := bq.Insert(ctx, schema, rawRecord); err != nil {
		return goerr.Wrap(err, "failed to insert ingest record to BigQuery")
	}

	return nil
}

// createOrUpdateIngestTable infers the record schema, creates the table when
// missing, and merges the schema when it drifted.
func createOrUpdateIngestTable(ctx context.Context, bq interfaces.BigQuery, record *model.IngestRecord) (bigquery.Schema, error) {
	schema, err := bqs.Infer(record)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to infer ingest record schema")
	}

	metaData, err := bq.GetMetadata(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get BigQuery table metadata")
	}
	if metaData == nil {
		if err := bq.CreateTable(ctx, &bigquery.TableMetadata{
			Schema: schema,
		}); err != nil {
			return nil, goerr.Wrap(err, "failed to create BigQuery table")
		}

		return schema, nil
	}

	if bqs.Equal(metaData.Schema, schema) {
		return schema, nil
	}

	mergedSchema, err := bqs.Merge(metaData.Schema, schema)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to merge BigQuery schema")
	}
	if err := bq.UpdateTable(ctx, bigquery.TableMetadataToUpdate{
		Schema: mergedSchema,
	}, metaData.ETag); err != nil {
		return nil, goerr.Wrap(err, "failed to update BigQuery table")
	}

	return mergedSchema, nil
}
