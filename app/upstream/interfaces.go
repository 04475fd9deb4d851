package upstream

import (
	"context"

	"github.com/vishalpokuri/inkle-task/app/customer"
)

// ClientInterface is the record source surface consumed by the sync tasks
// and the edit pipeline.
type ClientInterface interface {
	ListCountries(ctx context.Context) ([]customer.CountryRef, error)
	ListRecords(ctx context.Context) ([]customer.RawRecord, error)
	UpdateRecord(ctx context.Context, id string, update customer.RecordUpdate) error
}
