package store

import (
	"time"

	"github.com/vishalpokuri/inkle-task/app/customer"
)

type Stats struct {
	RecordCount       int
	CountryCount      int
	CanonicalCount    int
	RecordsLoadedAt   *time.Time
	CountriesLoadedAt *time.Time
}

// RecordStore is the store surface consumed by the API layer and the sync
// tasks.
type RecordStore interface {
	BeginRecordsFetch() uint64
	BeginCountriesFetch() uint64
	ApplyRecords(seq uint64, records []customer.RawRecord) bool
	ApplyCountries(seq uint64, countries []customer.CountryRef) bool

	Canonical() []customer.CanonicalRecord
	Countries() []customer.CountryRef
	GetRecord(id string) (customer.CanonicalRecord, bool)
	DistinctCountries() []string
	DistinctGenders() []string

	Loaded() bool
	Stats() Stats
}
