// Command mockapi emulates the remote customer record source for local
// development: GET /countries, GET /taxes and PUT /taxes/{id}. The seeded
// records are deliberately messy, reproducing the inconsistencies the
// normalizer has to absorb: mixed-case genders, tax values that may be
// numbers, numeric strings, empty strings or missing, request dates in
// several formats, and stale country names alongside authoritative ids.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/jessevdk/go-flags"
)

type options struct {
	Port  string `long:"port" env:"PORT" default:"9090" description:"HTTP server port"`
	Count int    `long:"count" env:"RECORD_COUNT" default:"60" description:"Number of seeded customer records"`
	Seed  int64  `long:"seed" env:"SEED" default:"0" description:"Random seed (0 for time-based)"`
}

type country struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// record mirrors the upstream wire shape; Tax is any so it can carry a
// number, a numeric string, an empty string, or be dropped when unset.
type record struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"createdAt"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	CountryID   string `json:"countryId,omitempty"`
	Gender      string `json:"gender"`
	RequestDate string `json:"requestDate,omitempty"`
	Entity      string `json:"entity,omitempty"`
	Tax         any    `json:"tax,omitempty"`
}

type dataset struct {
	mu        sync.RWMutex
	countries []country
	records   []record
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		log.Fatalf("Failed to parse configuration: %v", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(seed)
	rng := rand.New(rand.NewSource(seed))

	data := seedDataset(faker, rng, opts.Count)
	log.Printf("Seeded %d records and %d countries (seed %d)", opts.Count, len(data.countries), seed)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/countries", func(c *gin.Context) {
		data.mu.RLock()
		defer data.mu.RUnlock()
		c.JSON(http.StatusOK, data.countries)
	})

	r.GET("/taxes", func(c *gin.Context) {
		data.mu.RLock()
		defer data.mu.RUnlock()
		c.JSON(http.StatusOK, data.records)
	})

	r.PUT("/taxes/:id", func(c *gin.Context) {
		var update record
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		id := c.Param("id")
		data.mu.Lock()
		defer data.mu.Unlock()
		for i := range data.records {
			if data.records[i].ID != id {
				continue
			}
			update.ID = id
			update.CreatedAt = data.records[i].CreatedAt
			data.records[i] = update
			c.JSON(http.StatusOK, data.records[i])
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	})

	log.Printf("Mock record source listening on port %s", opts.Port)
	if err := r.Run(":" + opts.Port); err != nil {
		log.Fatal(err)
	}
}

func seedDataset(faker *gofakeit.Faker, rng *rand.Rand, count int) *dataset {
	countryNames := []string{
		"Peru", "India", "Germany", "Brazil", "Japan",
		"Canada", "Kenya", "Norway", "Chile", "Vietnam",
	}

	countries := make([]country, 0, len(countryNames))
	for i, name := range countryNames {
		countries = append(countries, country{ID: strconv.Itoa(i + 1), Name: name})
	}

	dateFormats := []string{
		time.RFC3339,
		"Jan 2, 2006",
		"06-01-02",
		"2006/01/02",
	}

	records := make([]record, 0, count)
	for i := 0; i < count; i++ {
		ref := countries[rng.Intn(len(countries))]

		rec := record{
			ID:        strconv.Itoa(i + 1),
			CreatedAt: faker.DateRange(time.Now().AddDate(-2, 0, 0), time.Now()).UTC().Format(time.RFC3339),
			Name:      faker.Name(),
			Gender:    messyGender(rng),
			Entity:    faker.Company(),
		}

		// Most records carry the authoritative id plus a possibly stale
		// free-text name; some only have the free text.
		if rng.Intn(10) < 8 {
			rec.CountryID = ref.ID
			if rng.Intn(4) == 0 {
				rec.Country = countries[rng.Intn(len(countries))].Name
			} else {
				rec.Country = ref.Name
			}
		} else {
			rec.Country = ref.Name
		}

		if rng.Intn(10) < 8 {
			format := dateFormats[rng.Intn(len(dateFormats))]
			rec.RequestDate = faker.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).Format(format)
		}
		if rng.Intn(12) == 0 {
			rec.RequestDate = "not-a-date"
		}

		switch rng.Intn(5) {
		case 0:
			// missing entirely
		case 1:
			rec.Tax = ""
		case 2:
			rec.Tax = fmt.Sprintf("%.2f", faker.Float64Range(0, 5000))
		default:
			rec.Tax = faker.Float64Range(0, 5000)
		}

		records = append(records, rec)
	}

	return &dataset{countries: countries, records: records}
}

func messyGender(rng *rand.Rand) string {
	variants := []string{"male", "Male", "MALE", "female", "Female", "FEMALE"}
	return variants[rng.Intn(len(variants))]
}
