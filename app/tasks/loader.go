package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vishalpokuri/inkle-task/app/store"
	"github.com/vishalpokuri/inkle-task/app/upstream"
)

// Loader performs the initial load: records and countries are fetched
// concurrently and both must land before the canonical collection is first
// computed. There is no ordering dependency between the two requests.
type Loader struct {
	client upstream.ClientInterface
	store  store.RecordStore
}

func NewLoader(client upstream.ClientInterface, recordStore store.RecordStore) *Loader {
	return &Loader{
		client: client,
		store:  recordStore,
	}
}

func (l *Loader) Run(ctx context.Context) error {
	recordsSeq := l.store.BeginRecordsFetch()
	countriesSeq := l.store.BeginCountriesFetch()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := l.client.ListRecords(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch records: %w", err)
		}
		l.store.ApplyRecords(recordsSeq, records)
		slog.Debug("Initial records loaded", "count", len(records))
		return nil
	})

	g.Go(func() error {
		countries, err := l.client.ListCountries(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch countries: %w", err)
		}
		l.store.ApplyCountries(countriesSeq, countries)
		slog.Debug("Initial countries loaded", "count", len(countries))
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}

	return nil
}
