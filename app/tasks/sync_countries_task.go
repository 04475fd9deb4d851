package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vishalpokuri/inkle-task/app/store"
	"github.com/vishalpokuri/inkle-task/app/upstream"
)

// SyncCountriesTask fetches the country lookup table used for id-based
// country resolution.
type SyncCountriesTask struct {
	Task
	client upstream.ClientInterface
	store  store.RecordStore
}

func NewSyncCountriesTask(client upstream.ClientInterface, recordStore store.RecordStore) *SyncCountriesTask {
	return &SyncCountriesTask{
		Task:   NewTask(TaskTypeSyncCountries, "countries"),
		client: client,
		store:  recordStore,
	}
}

func (t *SyncCountriesTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	seq := t.store.BeginCountriesFetch()

	countries, err := t.client.ListCountries(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch countries: %w", err)
	}

	applied := t.store.ApplyCountries(seq, countries)

	slog.Info("Task completed",
		"type", "SyncCountries",
		"duration", t.GetDuration(),
		"total", len(countries),
		"applied", applied)

	return nil
}
