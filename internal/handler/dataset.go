package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/growthboard/growthboard-go/internal/dataset"
)

// DatasetHandler serves the bundled country growth datasets.
type DatasetHandler struct {
	store *dataset.Store
}

// NewDatasetHandler creates a new DatasetHandler.
func NewDatasetHandler(store *dataset.Store) *DatasetHandler {
	return &DatasetHandler{store: store}
}

// HandleSummary handles GET /countries requests.
func (h *DatasetHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Summaries())
}

// HandleCompare handles GET /compare requests.
func (h *DatasetHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"gdp":        h.store.GDP(),
		"population": h.store.Population(),
	})
}

// HandleCountry handles GET /countries/{country} requests. An unknown country
// yields null fields, not a 404.
func (h *DatasetHandler) HandleCountry(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "country")

	gdp, population, summary := h.store.FindCountry(name)
	writeJSON(w, http.StatusOK, map[string]any{
		"countryGDP":        gdp,
		"countryPopulation": population,
		"countrySummary":    summary,
	})
}
