package api

import (
	"github.com/vishalpokuri/inkle-task/app/customer"
	"github.com/vishalpokuri/inkle-task/app/store"
	"github.com/vishalpokuri/inkle-task/app/tasks"
)

type Handler struct {
	store     store.RecordStore
	viewCache *customer.ViewCache
	editor    *customer.Editor
	scheduler tasks.TaskSchedulerInterface
}

// CustomerPageResponse is one visible page of the customer table plus
// pagination metadata.
type CustomerPageResponse struct {
	Records       []customer.CanonicalRecord `json:"records"`
	TotalRecords  int                        `json:"total_records"`
	TotalPages    int                        `json:"total_pages"`
	Page          int                        `json:"page"`
	PageSize      int                        `json:"page_size"`
	CanGoNext     bool                       `json:"can_go_next"`
	CanGoPrevious bool                       `json:"can_go_previous"`
}

// EditRequest is the user-editable subset of a record.
type EditRequest struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// FilterOptionsResponse lists the distinct values for the two multi-select
// column filters.
type FilterOptionsResponse struct {
	Countries []string `json:"countries"`
	Genders   []string `json:"genders"`
}
