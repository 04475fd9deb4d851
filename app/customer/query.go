package customer

import (
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type Sort struct {
	Column    string
	Direction SortDirection
}

// State is the combination of active search text, column filters, sort and
// current page/page-size. Mutators reset the page to 1 so a narrower result
// set never leaves the caller stranded on an out-of-range page.
type State struct {
	Search    string
	Countries []string
	Genders   []string
	Sort      *Sort
	Page      int
	PageSize  int
}

func NewState(view *View) State {
	return State{
		Page:     1,
		PageSize: view.Settings.DefaultPageSize,
	}
}

func (s *State) SetSearch(query string) {
	s.Search = query
	s.Page = 1
}

func (s *State) ToggleCountry(value string) {
	s.Countries = toggleValue(s.Countries, value)
	s.Page = 1
}

func (s *State) ToggleGender(value string) {
	s.Genders = toggleValue(s.Genders, value)
	s.Page = 1
}

func (s *State) ClearCountries() {
	s.Countries = nil
	s.Page = 1
}

func (s *State) ClearGenders() {
	s.Genders = nil
	s.Page = 1
}

func (s *State) SetPageSize(size int) {
	s.PageSize = size
	s.Page = 1
}

// ToggleSort cycles a sortable column through unsorted, ascending and
// descending. Clicks on non-sortable columns are a no-op; their header
// interaction belongs to the filter dropdowns.
func (s *State) ToggleSort(view *View, column string) {
	if !view.IsSortable(column) {
		return
	}

	switch {
	case s.Sort == nil || s.Sort.Column != column:
		s.Sort = &Sort{Column: column, Direction: SortAsc}
	case s.Sort.Direction == SortAsc:
		s.Sort = &Sort{Column: column, Direction: SortDesc}
	default:
		s.Sort = nil
	}
	s.Page = 1
}

func toggleValue(selected []string, value string) []string {
	if slices.Contains(selected, value) {
		result := make([]string, 0, len(selected)-1)
		for _, v := range selected {
			if v != value {
				result = append(result, v)
			}
		}
		return result
	}
	return append(slices.Clone(selected), value)
}

// Page is one visible page of a query result plus pagination metadata.
type Page struct {
	Records       []CanonicalRecord
	TotalRecords  int
	TotalPages    int
	Page          int
	PageSize      int
	CanGoNext     bool
	CanGoPrevious bool
}

// Engine composes filtering, sorting and pagination over a canonical
// collection. Run never mutates its input and is idempotent for a given
// collection and state.
type Engine struct {
	view *View
}

func NewEngine(view *View) *Engine {
	return &Engine{view: view}
}

func (e *Engine) Run(records []CanonicalRecord, state State) Page {
	filtered := e.filter(records, state)
	e.sortRecords(filtered, state.Sort)
	return e.paginate(filtered, state)
}

// filter applies the global search and the multi-select column filters. A
// record must pass all active filter types; within the global search any
// matching column is enough.
func (e *Engine) filter(records []CanonicalRecord, state State) []CanonicalRecord {
	search := strings.ToLower(strings.TrimSpace(state.Search))
	searchable := e.view.SearchableColumns()

	filtered := make([]CanonicalRecord, 0, len(records))
	for _, record := range records {
		if len(state.Countries) > 0 && !slices.Contains(state.Countries, record.Country) {
			continue
		}
		if len(state.Genders) > 0 && !slices.Contains(state.Genders, string(record.Gender)) {
			continue
		}
		if search != "" && !matchesSearch(record, searchable, search) {
			continue
		}
		filtered = append(filtered, record)
	}

	return filtered
}

func matchesSearch(record CanonicalRecord, columns []string, search string) bool {
	for _, column := range columns {
		if strings.Contains(strings.ToLower(columnValue(record, column)), search) {
			return true
		}
	}
	return false
}

// sortRecords sorts in place on the filtered copy. Stability is required:
// records with equal keys keep their original collection order.
func (e *Engine) sortRecords(records []CanonicalRecord, s *Sort) {
	if s == nil {
		return
	}

	column := s.Column
	sort.SliceStable(records, func(i, j int) bool {
		if s.Direction == SortDesc {
			return lessByColumn(records[j], records[i], column)
		}
		return lessByColumn(records[i], records[j], column)
	})
}

func lessByColumn(a, b CanonicalRecord, column string) bool {
	if column == "tax" {
		return taxValue(a) < taxValue(b)
	}
	return columnValue(a, column) < columnValue(b, column)
}

// taxValue orders records without a tax before any defined value, including
// negative ones.
func taxValue(record CanonicalRecord) float64 {
	if record.Tax == nil {
		return math.Inf(-1)
	}
	return *record.Tax
}

func columnValue(record CanonicalRecord, column string) string {
	switch column {
	case "id":
		return record.ID
	case "name":
		return record.Name
	case "country":
		return record.Country
	case "gender":
		return string(record.Gender)
	case "entity":
		return record.Entity
	case "tax":
		if record.Tax == nil {
			return ""
		}
		return strconv.FormatFloat(*record.Tax, 'f', -1, 64)
	case "requestDate":
		if record.RequestDate == nil {
			return ""
		}
		return *record.RequestDate
	case "createdAt":
		return record.CreatedAt
	case "date":
		return record.Date
	default:
		return ""
	}
}

func (e *Engine) paginate(filtered []CanonicalRecord, state State) Page {
	pageSize := state.PageSize
	if !e.view.IsPageSizeAllowed(pageSize) {
		pageSize = e.view.Settings.DefaultPageSize
	}

	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	// Navigating past the bounds is a no-op, never an error.
	page := state.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Page{
		Records:       filtered[start:end],
		TotalRecords:  len(filtered),
		TotalPages:    totalPages,
		Page:          page,
		PageSize:      pageSize,
		CanGoNext:     page < totalPages,
		CanGoPrevious: page > 1,
	}
}
