package customer

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalizer reconciles the inconsistent upstream record shape into
// CanonicalRecords. It is a total function over its inputs: malformed
// fields degrade to documented defaults and never produce an error.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Run(raws []RawRecord, countries []CountryRef) []CanonicalRecord {
	countryByID := make(map[string]string, len(countries))
	for _, c := range countries {
		countryByID[c.ID] = c.Name
	}

	// cases.Caser carries internal state and is not safe for reuse across
	// goroutines, so each run gets its own.
	titleCaser := cases.Title(language.English)

	records := make([]CanonicalRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, n.normalizeRecord(raw, countryByID, titleCaser))
	}

	return records
}

func (n *Normalizer) normalizeRecord(raw RawRecord, countryByID map[string]string, titleCaser cases.Caser) CanonicalRecord {
	return CanonicalRecord{
		ID:          raw.ID,
		CreatedAt:   raw.CreatedAt,
		Name:        raw.Name,
		Country:     n.resolveCountry(raw, countryByID),
		Gender:      n.normalizeGender(raw.Gender, titleCaser),
		RequestDate: n.normalizeRequestDate(raw.RequestDate),
		CountryID:   raw.CountryID,
		Entity:      raw.Entity,
		Tax:         n.normalizeTax(raw.Tax),
		Date:        raw.Date,
	}
}

// resolveCountry prefers an id-based lookup over the free-text country
// name, which may be stale. An unresolvable id falls back silently.
func (n *Normalizer) resolveCountry(raw RawRecord, countryByID map[string]string) string {
	if raw.CountryID != "" {
		if name, ok := countryByID[raw.CountryID]; ok {
			return name
		}
	}
	return raw.Country
}

// normalizeGender lower-cases the full value and upper-cases only the first
// rune, so multi-word unknown values keep the rest lower ("PREFER NOT TO
// SAY" becomes "Prefer not to say").
func (n *Normalizer) normalizeGender(raw string, titleCaser cases.Caser) Gender {
	lowered := strings.ToLower(raw)
	_, size := utf8.DecodeRuneInString(lowered)
	if size == 0 {
		return ""
	}
	return Gender(titleCaser.String(lowered[:size]) + lowered[size:])
}

// normalizeTax coerces the tax field: absent stays absent, empty string and
// null become 0, strings are prefix-parsed ("12.5abc" yields 12.5, values
// without a numeric prefix become 0), and numbers pass through unchanged.
func (n *Normalizer) normalizeTax(raw RawTax) *float64 {
	if !raw.Present {
		return nil
	}

	if raw.IsNull {
		zero := 0.0
		return &zero
	}

	if raw.IsString {
		value := leadingFloat(strings.TrimSpace(raw.Str))
		return &value
	}

	value := raw.Num
	return &value
}

// leadingFloat parses the longest leading numeric prefix of s, so trailing
// garbage after a valid number is ignored. Returns 0 when no prefix parses
// to a finite value.
func leadingFloat(s string) float64 {
	for end := len(s); end > 0; end-- {
		value, err := strconv.ParseFloat(s[:end], 64)
		if err == nil && !math.IsNaN(value) && !math.IsInf(value, 0) {
			return value
		}
	}
	return 0
}

// normalizeRequestDate accepts ISO 8601 and common human-readable forms,
// emitting RFC 3339 UTC on success and nil on absent or unparsable input.
func (n *Normalizer) normalizeRequestDate(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil
	}

	iso := parsed.UTC().Format(time.RFC3339)
	return &iso
}
