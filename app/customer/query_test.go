package customer

import (
	"fmt"
	"reflect"
	"testing"
)

func testRecords() []CanonicalRecord {
	return []CanonicalRecord{
		{ID: "1", Name: "Asha Rao", Country: "India", Gender: GenderFemale, Entity: "Acme", Tax: floatPtr(120)},
		{ID: "2", Name: "Ben Okafor", Country: "Kenya", Gender: GenderMale, Entity: "Globex", Tax: floatPtr(35)},
		{ID: "3", Name: "Carla Diaz", Country: "Peru", Gender: GenderFemale, Entity: "Initech", Tax: floatPtr(7)},
		{ID: "4", Name: "Dmitri Volkov", Country: "Peru", Gender: GenderMale, Entity: "Acme", Tax: nil},
		{ID: "5", Name: "Erik Hansen", Country: "Norway", Gender: GenderMale, Entity: "Umbrella", Tax: floatPtr(35)},
	}
}

func TestEngine_GlobalSearch(t *testing.T) {
	engine := NewEngine(DefaultView())
	state := NewState(DefaultView())

	// Case-insensitive substring, any column may match
	state.Search = "acme"
	page := engine.Run(testRecords(), state)
	if page.TotalRecords != 2 {
		t.Errorf("Expected 2 matches for 'acme', got %d", page.TotalRecords)
	}

	state.Search = "PERU"
	page = engine.Run(testRecords(), state)
	if page.TotalRecords != 2 {
		t.Errorf("Expected 2 matches for 'PERU', got %d", page.TotalRecords)
	}

	state.Search = "no-such-value"
	page = engine.Run(testRecords(), state)
	if page.TotalRecords != 0 {
		t.Errorf("Expected 0 matches, got %d", page.TotalRecords)
	}
}

func TestEngine_ColumnFilters(t *testing.T) {
	engine := NewEngine(DefaultView())

	// Empty selection means no filter applied
	state := NewState(DefaultView())
	page := engine.Run(testRecords(), state)
	if page.TotalRecords != 5 {
		t.Errorf("Expected all 5 records with no filters, got %d", page.TotalRecords)
	}

	state.Countries = []string{"Peru"}
	page = engine.Run(testRecords(), state)
	if page.TotalRecords != 2 {
		t.Errorf("Expected 2 records for Peru, got %d", page.TotalRecords)
	}

	// Filters combine with AND across filter types
	state.Genders = []string{"Female"}
	page = engine.Run(testRecords(), state)
	if page.TotalRecords != 1 {
		t.Errorf("Expected 1 record for Peru+Female, got %d", page.TotalRecords)
	}
	if page.Records[0].ID != "3" {
		t.Errorf("Expected record 3, got %s", page.Records[0].ID)
	}

	// Search combines with AND against active filters
	state.Genders = nil
	state.Search = "volkov"
	page = engine.Run(testRecords(), state)
	if page.TotalRecords != 1 {
		t.Errorf("Expected 1 record for Peru+volkov, got %d", page.TotalRecords)
	}
}

func TestEngine_FilterMonotonicity(t *testing.T) {
	engine := NewEngine(DefaultView())
	records := testRecords()

	unfiltered := engine.Run(records, NewState(DefaultView())).TotalRecords

	one := NewState(DefaultView())
	one.Countries = []string{"Peru"}
	oneCount := engine.Run(records, one).TotalRecords

	two := NewState(DefaultView())
	two.Countries = []string{"Peru", "Norway"}
	twoCount := engine.Run(records, two).TotalRecords

	// A non-empty selection never yields more than the unfiltered set,
	// and widening the selection never shrinks the result
	if oneCount > unfiltered || twoCount > unfiltered {
		t.Errorf("Filtered counts %d/%d exceed unfiltered %d", oneCount, twoCount, unfiltered)
	}
	if twoCount < oneCount {
		t.Errorf("Widening the selection shrank the result: %d < %d", twoCount, oneCount)
	}

	// Clearing the filter returns to the unfiltered count
	cleared := NewState(DefaultView())
	cleared.Countries = nil
	if got := engine.Run(records, cleared).TotalRecords; got != unfiltered {
		t.Errorf("Expected %d records after clearing, got %d", unfiltered, got)
	}
}

func TestEngine_SortStability(t *testing.T) {
	engine := NewEngine(DefaultView())

	// Records 2 and 5 share the same tax; their input order must survive
	state := NewState(DefaultView())
	state.Sort = &Sort{Column: "tax", Direction: SortAsc}
	page := engine.Run(testRecords(), state)

	var ids []string
	for _, r := range page.Records {
		ids = append(ids, r.ID)
	}

	// nil tax sorts first, then 7, then the 35s in input order, then 120
	want := []string{"4", "3", "2", "5", "1"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Expected ascending tax order %v, got %v", want, ids)
	}

	state.Sort = &Sort{Column: "tax", Direction: SortDesc}
	page = engine.Run(testRecords(), state)
	ids = nil
	for _, r := range page.Records {
		ids = append(ids, r.ID)
	}
	want = []string{"1", "2", "5", "3", "4"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Expected descending tax order %v, got %v", want, ids)
	}
}

func TestEngine_SortTaxIsNumeric(t *testing.T) {
	engine := NewEngine(DefaultView())

	records := []CanonicalRecord{
		{ID: "1", Gender: GenderMale, Tax: floatPtr(10)},
		{ID: "2", Gender: GenderMale, Tax: floatPtr(2)},
	}

	state := NewState(DefaultView())
	state.Sort = &Sort{Column: "tax", Direction: SortAsc}
	page := engine.Run(records, state)

	// Numeric comparison: 2 before 10, not "10" before "2"
	if page.Records[0].ID != "2" {
		t.Errorf("Expected numeric tax ordering, got %s first", page.Records[0].ID)
	}
}

func TestEngine_SortTaxAbsentBeforeNegative(t *testing.T) {
	engine := NewEngine(DefaultView())

	// Negative values pass through unvalidated; an absent tax still sorts
	// before every defined value
	records := []CanonicalRecord{
		{ID: "1", Gender: GenderMale, Tax: floatPtr(-1)},
		{ID: "2", Gender: GenderMale, Tax: nil},
		{ID: "3", Gender: GenderMale, Tax: floatPtr(-250)},
	}

	state := NewState(DefaultView())
	state.Sort = &Sort{Column: "tax", Direction: SortAsc}
	page := engine.Run(records, state)

	var ids []string
	for _, r := range page.Records {
		ids = append(ids, r.ID)
	}
	want := []string{"2", "3", "1"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Expected absent tax first then negatives ascending, want %v got %v", want, ids)
	}
}

func TestEngine_Pagination(t *testing.T) {
	engine := NewEngine(DefaultView())

	records := make([]CanonicalRecord, 0, 25)
	for i := 1; i <= 25; i++ {
		records = append(records, CanonicalRecord{ID: fmt.Sprintf("%02d", i), Gender: GenderMale})
	}

	state := NewState(DefaultView())
	state.PageSize = 10

	page := engine.Run(records, state)
	if len(page.Records) != 10 {
		t.Errorf("Expected 10 records on page 1, got %d", len(page.Records))
	}
	if page.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", page.TotalPages)
	}
	if !page.CanGoNext {
		t.Error("Expected CanGoNext on page 1")
	}
	if page.CanGoPrevious {
		t.Error("Did not expect CanGoPrevious on page 1")
	}

	state.Page = 3
	page = engine.Run(records, state)
	if len(page.Records) != 5 {
		t.Errorf("Expected 5 records on page 3, got %d", len(page.Records))
	}
	if page.CanGoNext {
		t.Error("Did not expect CanGoNext on last page")
	}
	if !page.CanGoPrevious {
		t.Error("Expected CanGoPrevious on last page")
	}

	// Out-of-range pages clamp instead of erroring
	state.Page = 99
	page = engine.Run(records, state)
	if page.Page != 3 {
		t.Errorf("Expected page clamped to 3, got %d", page.Page)
	}
	if len(page.Records) != 5 {
		t.Errorf("Expected 5 records after clamping, got %d", len(page.Records))
	}

	// An empty result still reports one page
	state = NewState(DefaultView())
	state.Search = "nothing-matches"
	page = engine.Run(records, state)
	if page.TotalPages != 1 {
		t.Errorf("Expected 1 page for empty result, got %d", page.TotalPages)
	}
}

func TestEngine_Idempotence(t *testing.T) {
	engine := NewEngine(DefaultView())
	records := testRecords()

	state := NewState(DefaultView())
	state.Countries = []string{"Peru"}
	state.Sort = &Sort{Column: "name", Direction: SortDesc}

	first := engine.Run(records, state)
	second := engine.Run(records, state)

	if !reflect.DeepEqual(first, second) {
		t.Error("Running the same state twice produced different pages")
	}

	// The input collection is never reordered or mutated
	if !reflect.DeepEqual(records, testRecords()) {
		t.Error("Run mutated the input collection")
	}
}

func TestState_MutatorsResetPage(t *testing.T) {
	view := DefaultView()

	state := NewState(view)
	state.Page = 5

	state.SetSearch("asha")
	if state.Page != 1 {
		t.Errorf("SetSearch should reset page to 1, got %d", state.Page)
	}

	state.Page = 5
	state.ToggleCountry("Peru")
	if state.Page != 1 {
		t.Errorf("ToggleCountry should reset page to 1, got %d", state.Page)
	}

	state.Page = 5
	state.ToggleGender("Male")
	if state.Page != 1 {
		t.Errorf("ToggleGender should reset page to 1, got %d", state.Page)
	}

	state.Page = 5
	state.SetPageSize(20)
	if state.Page != 1 {
		t.Errorf("SetPageSize should reset page to 1, got %d", state.Page)
	}

	state.Page = 5
	state.ToggleSort(view, "name")
	if state.Page != 1 {
		t.Errorf("ToggleSort should reset page to 1, got %d", state.Page)
	}
}

func TestState_ToggleSortCycle(t *testing.T) {
	view := DefaultView()
	state := NewState(view)

	state.ToggleSort(view, "name")
	if state.Sort == nil || state.Sort.Column != "name" || state.Sort.Direction != SortAsc {
		t.Errorf("Expected ascending name sort, got %+v", state.Sort)
	}

	state.ToggleSort(view, "name")
	if state.Sort == nil || state.Sort.Direction != SortDesc {
		t.Errorf("Expected descending name sort, got %+v", state.Sort)
	}

	state.ToggleSort(view, "name")
	if state.Sort != nil {
		t.Errorf("Expected sort cleared after third toggle, got %+v", state.Sort)
	}

	// Switching column restarts the cycle at ascending
	state.ToggleSort(view, "tax")
	state.ToggleSort(view, "name")
	if state.Sort == nil || state.Sort.Column != "name" || state.Sort.Direction != SortAsc {
		t.Errorf("Expected ascending name sort after column switch, got %+v", state.Sort)
	}
}

func TestState_ToggleSortIgnoresUnsortableColumns(t *testing.T) {
	view := DefaultView()
	state := NewState(view)

	// country and gender header clicks open the filter dropdowns; the
	// edit pseudo-column has no sort either
	for _, column := range []string{"country", "gender", "edit"} {
		state.ToggleSort(view, column)
		if state.Sort != nil {
			t.Errorf("Expected no sort for column %q, got %+v", column, state.Sort)
		}
	}
}

func TestState_ToggleFilterValues(t *testing.T) {
	state := NewState(DefaultView())

	state.ToggleCountry("Peru")
	state.ToggleCountry("India")
	if !reflect.DeepEqual(state.Countries, []string{"Peru", "India"}) {
		t.Errorf("Expected [Peru India], got %v", state.Countries)
	}

	state.ToggleCountry("Peru")
	if !reflect.DeepEqual(state.Countries, []string{"India"}) {
		t.Errorf("Expected [India] after toggling Peru off, got %v", state.Countries)
	}

	state.ClearCountries()
	if len(state.Countries) != 0 {
		t.Errorf("Expected empty selection after clear, got %v", state.Countries)
	}
}
