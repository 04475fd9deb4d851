package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vishalpokuri/inkle-task/app/store"
	"github.com/vishalpokuri/inkle-task/app/upstream"
)

// SyncRecordsTask fetches the full record collection and replaces the
// store's raw records. The sequence number is drawn before the request is
// issued so the store can discard responses overtaken by a later refresh.
type SyncRecordsTask struct {
	Task
	client upstream.ClientInterface
	store  store.RecordStore
}

func NewSyncRecordsTask(client upstream.ClientInterface, recordStore store.RecordStore) *SyncRecordsTask {
	return &SyncRecordsTask{
		Task:   NewTask(TaskTypeSyncRecords, "records"),
		client: client,
		store:  recordStore,
	}
}

func (t *SyncRecordsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	seq := t.store.BeginRecordsFetch()

	records, err := t.client.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch records: %w", err)
	}

	applied := t.store.ApplyRecords(seq, records)

	slog.Info("Task completed",
		"type", "SyncRecords",
		"duration", t.GetDuration(),
		"total", len(records),
		"applied", applied)

	return nil
}
