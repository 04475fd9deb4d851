package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
)

var (
	// ErrNameRequired is returned when the edited name is empty after
	// trimming. No upstream request is issued in that case.
	ErrNameRequired = errors.New("name must not be empty")

	// ErrEditInFlight is returned when a submit arrives while a previous
	// edit is still awaiting its upstream response.
	ErrEditInFlight = errors.New("another edit is already in progress")
)

// RecordUpdaterInterface issues the update call against the record source.
// Implemented by the upstream client.
type RecordUpdaterInterface interface {
	UpdateRecord(ctx context.Context, id string, update RecordUpdate) error
}

// RefresherInterface requests a full collection refresh (re-fetch and
// re-normalize). Implemented by the task scheduler.
type RefresherInterface interface {
	RequestRefresh() error
}

// Patch is the user-editable subset of a record.
type Patch struct {
	Name    string
	Country string
}

// Editor runs the edit pipeline: local validation, the upstream update
// carrying the full merged record, and a refresh request on success. The
// canonical collection is never patched optimistically; the table keeps
// showing the pre-edit value until the refresh lands.
type Editor struct {
	updater   RecordUpdaterInterface
	refresher RefresherInterface
	inFlight  atomic.Bool
}

func NewEditor(updater RecordUpdaterInterface, refresher RefresherInterface) *Editor {
	return &Editor{
		updater:   updater,
		refresher: refresher,
	}
}

func (e *Editor) Run(ctx context.Context, record CanonicalRecord, patch Patch) (CanonicalRecord, error) {
	name := strings.TrimSpace(patch.Name)
	if name == "" {
		return CanonicalRecord{}, ErrNameRequired
	}

	if !e.inFlight.CompareAndSwap(false, true) {
		return CanonicalRecord{}, ErrEditInFlight
	}
	defer e.inFlight.Store(false)

	merged := record
	merged.Name = name
	merged.Country = patch.Country

	update := RecordUpdate{
		Name:        merged.Name,
		Country:     merged.Country,
		CountryID:   merged.CountryID,
		Gender:      strings.ToLower(string(merged.Gender)),
		Entity:      merged.Entity,
		Tax:         merged.Tax,
		RequestDate: merged.RequestDate,
	}

	if err := e.updater.UpdateRecord(ctx, record.ID, update); err != nil {
		return CanonicalRecord{}, fmt.Errorf("failed to update record %s: %w", record.ID, err)
	}

	if e.refresher != nil {
		if err := e.refresher.RequestRefresh(); err != nil {
			slog.Warn("Failed to request refresh after edit", "record", record.ID, "error", err)
		}
	}

	return merged, nil
}
