package store

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/vishalpokuri/inkle-task/app/customer"
)

var _ RecordStore = (*Store)(nil)

// Store owns the raw collections fetched from the record source and the
// canonical collection derived from them. All state is guarded by a single
// RWMutex; snapshot accessors hand out copies so callers can never mutate
// store state.
//
// Each fetch draws a per-resource sequence number before the request is
// issued. A response carrying a sequence older than the latest issued one
// for its resource is discarded, so overlapping refreshes cannot apply out
// of order.
type Store struct {
	mu         sync.RWMutex
	normalizer *customer.Normalizer

	records   []customer.RawRecord
	countries []customer.CountryRef
	canonical []customer.CanonicalRecord

	recordsIssued   uint64
	countriesIssued uint64

	recordsLoadedAt   *time.Time
	countriesLoadedAt *time.Time
}

func NewStore(normalizer *customer.Normalizer) *Store {
	return &Store{normalizer: normalizer}
}

// BeginRecordsFetch reserves the sequence number for a records request.
// Must be called before the request is issued.
func (s *Store) BeginRecordsFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordsIssued++
	return s.recordsIssued
}

// BeginCountriesFetch reserves the sequence number for a countries request.
func (s *Store) BeginCountriesFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countriesIssued++
	return s.countriesIssued
}

// ApplyRecords replaces the raw record collection and rebuilds the
// canonical collection in full. Returns false when the response is stale
// (a newer records request was issued after this one), in which case
// nothing changes.
func (s *Store) ApplyRecords(seq uint64, records []customer.RawRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.recordsIssued {
		slog.Debug("Discarding stale records response", "seq", seq, "latest", s.recordsIssued)
		return false
	}

	now := time.Now().UTC()
	s.records = slices.Clone(records)
	s.recordsLoadedAt = &now
	s.rebuild()
	return true
}

// ApplyCountries replaces the country lookup table and rebuilds the
// canonical collection in full. Stale responses are discarded.
func (s *Store) ApplyCountries(seq uint64, countries []customer.CountryRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.countriesIssued {
		slog.Debug("Discarding stale countries response", "seq", seq, "latest", s.countriesIssued)
		return false
	}

	now := time.Now().UTC()
	s.countries = slices.Clone(countries)
	s.countriesLoadedAt = &now
	s.rebuild()
	return true
}

// rebuild recomputes the canonical collection once both inputs are present.
// No incremental patching: the derived collection is always rebuilt whole.
// Caller must hold the write lock.
func (s *Store) rebuild() {
	if len(s.records) == 0 || len(s.countries) == 0 {
		return
	}
	s.canonical = s.normalizer.Run(s.records, s.countries)
}

// Canonical returns a copy of the current canonical collection.
func (s *Store) Canonical() []customer.CanonicalRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.canonical)
}

// Countries returns a copy of the country lookup table.
func (s *Store) Countries() []customer.CountryRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.countries)
}

// GetRecord looks up a canonical record by id.
func (s *Store) GetRecord(id string) (customer.CanonicalRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.canonical {
		if record.ID == id {
			return record, true
		}
	}
	return customer.CanonicalRecord{}, false
}

// DistinctCountries returns the sorted set of country names present in the
// canonical collection, for the filter dropdown.
func (s *Store) DistinctCountries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return distinct(s.canonical, func(r customer.CanonicalRecord) string {
		return r.Country
	})
}

// DistinctGenders returns the sorted set of gender values present in the
// canonical collection.
func (s *Store) DistinctGenders() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return distinct(s.canonical, func(r customer.CanonicalRecord) string {
		return string(r.Gender)
	})
}

func distinct(records []customer.CanonicalRecord, value func(customer.CanonicalRecord) string) []string {
	seen := make(map[string]bool, len(records))
	values := make([]string, 0, len(records))
	for _, record := range records {
		v := value(record)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

// Loaded reports whether both source collections have arrived at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recordsLoadedAt != nil && s.countriesLoadedAt != nil
}

// Stats returns collection counts and load timestamps for monitoring.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		RecordCount:       len(s.records),
		CountryCount:      len(s.countries),
		CanonicalCount:    len(s.canonical),
		RecordsLoadedAt:   s.recordsLoadedAt,
		CountriesLoadedAt: s.countriesLoadedAt,
	}
}
