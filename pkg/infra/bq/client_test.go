package bq_test

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/codergate/pkg/domain/model"
	"github.com/secmon-lab/codergate/pkg/domain/types"
	"github.com/secmon-lab/codergate/pkg/infra/bq"
)

func newTestClient(t *testing.T) *bq.Client {
	projectID := os.Getenv("TEST_BIGQUERY_PROJECT_ID")
	datasetID := os.Getenv("TEST_BIGQUERY_DATASET_ID")
	tableID := os.Getenv("TEST_BIGQUERY_TABLE_ID")

	if projectID == "" || datasetID == "" || tableID == "" {
		t.Skip("BigQuery credentials not configured (TEST_BIGQUERY_PROJECT_ID, TEST_BIGQUERY_DATASET_ID, TEST_BIGQUERY_TABLE_ID)")
	}

	ctx := context.Background()
	client, err := bq.New(ctx,
		types.GoogleProjectID(projectID),
		types.BQDatasetID(datasetID),
		types.BQTableID(tableID),
	)
	gt.NoError(t, err)
	return client
}

func TestInsertIngestRecord(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	now := time.Now().UTC()
	repo := model.NewRepository(101, "repo-a", 7, "inst-1", now)
	record := &model.IngestRawRecord{
		IngestRecord: *model.NewIngestRecord(model.IngestSourceInstallation, repo, now),
		Timestamp:    now.UnixMicro(),
	}

	schema, err := bqs.Infer(record)
	gt.NoError(t, err)

	md, err := client.GetMetadata(ctx)
	gt.NoError(t, err)
	if md == nil {
		gt.NoError(t, client.CreateTable(ctx, &bigquery.TableMetadata{Schema: schema}))
	}

	gt.NoError(t, client.Insert(ctx, schema, record))
}
