package customer

import (
	"encoding/json"
)

// Record processing types

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// CountryRef is a country entry from the upstream lookup table.
type CountryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RawRecord is a customer record exactly as delivered by the upstream
// source. Field shapes are untrusted: gender casing is inconsistent,
// requestDate arrives in several formats, and tax may be a number, a
// numeric string, an empty string, null, or missing entirely.
type RawRecord struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"createdAt"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	CountryID   string `json:"countryId,omitempty"`
	Gender      string `json:"gender"`
	RequestDate string `json:"requestDate,omitempty"`
	Entity      string `json:"entity,omitempty"`
	Date        string `json:"date,omitempty"`
	Tax         RawTax `json:"tax,omitempty"`
}

// RawTax preserves the distinction between a missing tax field, an explicit
// null, a string value, and a numeric value. Decoding never fails; malformed
// payloads degrade to the string form so normalization can coerce them.
type RawTax struct {
	Present  bool
	IsNull   bool
	IsString bool
	Str      string
	Num      float64
}

func (t *RawTax) UnmarshalJSON(data []byte) error {
	t.Present = true

	if string(data) == "null" {
		t.IsNull = true
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t.IsString = true
		t.Str = s
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		t.IsString = true
		t.Str = string(data)
		return nil
	}

	t.Num = n
	return nil
}

// CanonicalRecord is the only record shape consumed by querying, editing,
// and the API layer. Gender holds one of the two known constants for all
// recognized inputs; unrecognized values pass through title-cased.
type CanonicalRecord struct {
	ID          string   `json:"id"`
	CreatedAt   string   `json:"createdAt"`
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	Gender      Gender   `json:"gender"`
	RequestDate *string  `json:"requestDate"`
	CountryID   string   `json:"countryId,omitempty"`
	Entity      string   `json:"entity,omitempty"`
	Tax         *float64 `json:"tax,omitempty"`
	Date        string   `json:"date,omitempty"`
}

// RecordUpdate is the wire payload for an upstream record update. Gender is
// carried in the lowercased casing the source expects.
type RecordUpdate struct {
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	CountryID   string   `json:"countryId,omitempty"`
	Gender      string   `json:"gender"`
	Entity      string   `json:"entity,omitempty"`
	Tax         *float64 `json:"tax,omitempty"`
	RequestDate *string  `json:"requestDate"`
}

// View configuration types

type View struct {
	Name     string       // Derived from filename (without .yml extension)
	Title    string       `yaml:"title"`
	Columns  []ViewColumn `yaml:"columns"`
	Settings ViewSettings `yaml:"settings"`
}

type ViewColumn struct {
	Name       string `yaml:"name"`
	Label      string `yaml:"label"`
	Sortable   bool   `yaml:"sortable"`
	Filterable bool   `yaml:"filterable"`
	Searchable bool   `yaml:"searchable"`
}

type ViewSettings struct {
	PageSizes       []int `yaml:"page_sizes"`
	DefaultPageSize int   `yaml:"default_page_size"`
}

func (v *View) Column(name string) (ViewColumn, bool) {
	for _, col := range v.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ViewColumn{}, false
}

func (v *View) IsSortable(name string) bool {
	col, ok := v.Column(name)
	return ok && col.Sortable
}

func (v *View) IsPageSizeAllowed(size int) bool {
	for _, s := range v.Settings.PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// SearchableColumns returns the column names included in global search.
func (v *View) SearchableColumns() []string {
	names := make([]string, 0, len(v.Columns))
	for _, col := range v.Columns {
		if col.Searchable {
			names = append(names, col.Name)
		}
	}
	return names
}

// DefaultView mirrors the customer table the dashboard renders: the edit
// pseudo-column and the two filterable columns are not sortable, their
// header click being reserved for actions and filter dropdowns.
func DefaultView() *View {
	return &View{
		Name:  "customers",
		Title: "Customers",
		Columns: []ViewColumn{
			{Name: "id", Label: "ID", Sortable: true, Searchable: true},
			{Name: "name", Label: "Name", Sortable: true, Searchable: true},
			{Name: "country", Label: "Country", Filterable: true, Searchable: true},
			{Name: "gender", Label: "Gender", Filterable: true, Searchable: true},
			{Name: "entity", Label: "Entity", Sortable: true, Searchable: true},
			{Name: "tax", Label: "Tax", Sortable: true, Searchable: true},
			{Name: "requestDate", Label: "Request Date", Sortable: true, Searchable: true},
			{Name: "edit", Label: "Edit"},
		},
		Settings: ViewSettings{
			PageSizes:       []int{10, 20, 30, 40, 50},
			DefaultPageSize: 10,
		},
	}
}
