package customer

import (
	"encoding/json"
	"testing"
)

func TestNormalizer_TaxCoercion(t *testing.T) {
	normalizer := NewNormalizer()

	tests := []struct {
		name string
		tax  RawTax
		want *float64
	}{
		{name: "absent stays absent", tax: RawTax{}, want: nil},
		{name: "empty string becomes zero", tax: RawTax{Present: true, IsString: true, Str: ""}, want: floatPtr(0)},
		{name: "null becomes zero", tax: RawTax{Present: true, IsNull: true}, want: floatPtr(0)},
		{name: "numeric string is parsed", tax: RawTax{Present: true, IsString: true, Str: "12.5"}, want: floatPtr(12.5)},
		{name: "trailing garbage is ignored", tax: RawTax{Present: true, IsString: true, Str: "12.5abc"}, want: floatPtr(12.5)},
		{name: "signed prefix is parsed", tax: RawTax{Present: true, IsString: true, Str: "-3.5xyz"}, want: floatPtr(-3.5)},
		{name: "unparsable string becomes zero", tax: RawTax{Present: true, IsString: true, Str: "abc"}, want: floatPtr(0)},
		{name: "number passes through", tax: RawTax{Present: true, Num: 7}, want: floatPtr(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raws := []RawRecord{{ID: "1", Gender: "male", Tax: tt.tax}}
			records := normalizer.Run(raws, []CountryRef{{ID: "c1", Name: "Peru"}})

			if len(records) != 1 {
				t.Fatalf("Expected 1 record, got %d", len(records))
			}

			got := records[0].Tax
			if tt.want == nil {
				if got != nil {
					t.Errorf("Expected absent tax, got %v", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Expected tax %v, got absent", *tt.want)
			}
			if *got != *tt.want {
				t.Errorf("Expected tax %v, got %v", *tt.want, *got)
			}
		})
	}
}

func TestRawTax_UnmarshalNeverFails(t *testing.T) {
	payload := `[
		{"id":"1","gender":"male","tax":7},
		{"id":"2","gender":"male","tax":"12.5"},
		{"id":"3","gender":"male","tax":""},
		{"id":"4","gender":"male","tax":null},
		{"id":"5","gender":"male"}
	]`

	var raws []RawRecord
	if err := json.Unmarshal([]byte(payload), &raws); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !raws[0].Tax.Present || raws[0].Tax.Num != 7 {
		t.Errorf("Expected numeric tax 7, got %+v", raws[0].Tax)
	}
	if !raws[1].Tax.IsString || raws[1].Tax.Str != "12.5" {
		t.Errorf("Expected string tax '12.5', got %+v", raws[1].Tax)
	}
	if !raws[2].Tax.IsString || raws[2].Tax.Str != "" {
		t.Errorf("Expected empty string tax, got %+v", raws[2].Tax)
	}
	if !raws[3].Tax.Present || !raws[3].Tax.IsNull {
		t.Errorf("Expected null tax, got %+v", raws[3].Tax)
	}
	if raws[4].Tax.Present {
		t.Errorf("Expected absent tax, got %+v", raws[4].Tax)
	}
}

func TestNormalizer_GenderCaseInsensitive(t *testing.T) {
	normalizer := NewNormalizer()

	tests := []struct {
		raw  string
		want Gender
	}{
		{"MALE", GenderMale},
		{"male", GenderMale},
		{"Male", GenderMale},
		{"mAlE", GenderMale},
		{"FEMALE", GenderFemale},
		{"female", GenderFemale},
		// Unknown values pass through with only the first rune upper-cased,
		// never rejected
		{"OTHER", Gender("Other")},
		{"PREFER NOT TO SAY", Gender("Prefer not to say")},
	}

	for _, tt := range tests {
		raws := []RawRecord{{ID: "1", Gender: tt.raw}}
		records := normalizer.Run(raws, nil)

		if records[0].Gender != tt.want {
			t.Errorf("Gender %q: expected %q, got %q", tt.raw, tt.want, records[0].Gender)
		}
	}
}

func TestNormalizer_CountryResolution(t *testing.T) {
	normalizer := NewNormalizer()
	countries := []CountryRef{
		{ID: "c1", Name: "Perú"},
		{ID: "c2", Name: "India"},
	}

	raws := []RawRecord{
		{ID: "1", Gender: "male", Country: "Peru", CountryID: "c1"},
		{ID: "2", Gender: "male", Country: "Stale Name", CountryID: "c2"},
		{ID: "3", Gender: "male", Country: "Freetown", CountryID: "unknown"},
		{ID: "4", Gender: "male", Country: "Plaintext"},
	}

	records := normalizer.Run(raws, countries)

	// A matching countryId wins over the free-text name
	if records[0].Country != "Perú" {
		t.Errorf("Expected resolved country 'Perú', got %q", records[0].Country)
	}
	if records[1].Country != "India" {
		t.Errorf("Expected resolved country 'India', got %q", records[1].Country)
	}

	// An unresolvable or absent id falls back silently to the raw string
	if records[2].Country != "Freetown" {
		t.Errorf("Expected fallback country 'Freetown', got %q", records[2].Country)
	}
	if records[3].Country != "Plaintext" {
		t.Errorf("Expected fallback country 'Plaintext', got %q", records[3].Country)
	}
}

func TestNormalizer_RequestDate(t *testing.T) {
	normalizer := NewNormalizer()

	tests := []struct {
		name string
		raw  string
		want string // empty means nil expected
	}{
		{name: "ISO timestamp", raw: "2025-06-16T10:00:00Z", want: "2025-06-16T10:00:00Z"},
		{name: "human readable", raw: "Jun 16, 2025", want: "2025-06-16T00:00:00Z"},
		{name: "malformed degrades to nil", raw: "not-a-date", want: ""},
		{name: "absent stays nil", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raws := []RawRecord{{ID: "1", Gender: "male", RequestDate: tt.raw}}
			records := normalizer.Run(raws, nil)

			got := records[0].RequestDate
			if tt.want == "" {
				if got != nil {
					t.Errorf("Expected nil request date, got %q", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Expected request date %q, got nil", tt.want)
			}
			if *got != tt.want {
				t.Errorf("Expected request date %q, got %q", tt.want, *got)
			}
		})
	}
}

func TestNormalizer_EndToEnd(t *testing.T) {
	normalizer := NewNormalizer()

	raws := []RawRecord{{
		ID:        "1",
		Gender:    "female",
		Tax:       RawTax{Present: true, IsString: true, Str: ""},
		Country:   "Peru",
		CountryID: "c1",
	}}
	countries := []CountryRef{{ID: "c1", Name: "Perú"}}

	records := normalizer.Run(raws, countries)

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.ID != "1" {
		t.Errorf("Expected id '1', got %q", record.ID)
	}
	if record.Gender != GenderFemale {
		t.Errorf("Expected gender 'Female', got %q", record.Gender)
	}
	if record.Tax == nil || *record.Tax != 0 {
		t.Errorf("Expected tax 0, got %v", record.Tax)
	}
	if record.Country != "Perú" {
		t.Errorf("Expected country 'Perú', got %q", record.Country)
	}
}

func TestNormalizer_DoesNotMutateInputs(t *testing.T) {
	normalizer := NewNormalizer()

	raws := []RawRecord{{ID: "1", Gender: "MALE", Country: "Peru"}}
	countries := []CountryRef{{ID: "c1", Name: "Perú"}}

	normalizer.Run(raws, countries)

	if raws[0].Gender != "MALE" {
		t.Errorf("Run mutated its input: gender is now %q", raws[0].Gender)
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
