// Package dataset serves the bundled country growth datasets: per-country
// growth summaries plus the GDP-per-capita and population series they were
// derived from.
package dataset

import (
	_ "embed"
	"encoding/json"
	"strings"
)

//go:embed data/summary.json
var summaryJSON []byte

//go:embed data/gdp.json
var gdpJSON []byte

//go:embed data/population.json
var populationJSON []byte

// Summary holds one country's annualized growth metrics. Metrics can be null
// for countries the source data does not cover.
type Summary struct {
	Country          string   `json:"Country"`
	GrowthGDP        *float64 `json:"growth_gdp"`
	GrowthPopulation *float64 `json:"growth_population"`
	GrowthTotal      *float64 `json:"growth_total"`
}

// Series is one country's yearly values keyed by year, alongside the
// "Country" name key, matching the source data shape.
type Series map[string]any

// Store holds the decoded datasets, loaded once at startup.
type Store struct {
	summaries  []Summary
	gdp        []Series
	population []Series
}

// Load decodes the embedded datasets.
func Load() (*Store, error) {
	s := &Store{}
	if err := json.Unmarshal(summaryJSON, &s.summaries); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(gdpJSON, &s.gdp); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(populationJSON, &s.population); err != nil {
		return nil, err
	}
	return s, nil
}

// Summaries returns the growth summary for every country.
func (s *Store) Summaries() []Summary {
	return s.summaries
}

// GDP returns the GDP-per-capita series for every country.
func (s *Store) GDP() []Series {
	return s.gdp
}

// Population returns the population series for every country.
func (s *Store) Population() []Series {
	return s.population
}

// FindCountry looks up one country's series and summary by name,
// case-insensitively. Missing entries come back nil.
func (s *Store) FindCountry(name string) (gdp, population Series, summary *Summary) {
	gdp = findSeries(s.gdp, name)
	population = findSeries(s.population, name)

	for i := range s.summaries {
		if strings.EqualFold(s.summaries[i].Country, name) {
			summary = &s.summaries[i]
			break
		}
	}
	return gdp, population, summary
}

func findSeries(series []Series, name string) Series {
	for _, entry := range series {
		if country, ok := entry["Country"].(string); ok && strings.EqualFold(country, name) {
			return entry
		}
	}
	return nil
}
