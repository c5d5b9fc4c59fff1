package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/growthboard/growthboard-go/internal/middleware"
	"github.com/growthboard/growthboard-go/internal/model"
	"github.com/growthboard/growthboard-go/internal/service"
)

// SavedHandler handles HTTP requests for the saved-countries API.
type SavedHandler struct {
	service *service.SavedService
}

// NewSavedHandler creates a new SavedHandler.
func NewSavedHandler(svc *service.SavedService) *SavedHandler {
	return &SavedHandler{service: svc}
}

// HandleList handles GET /saved requests.
func (h *SavedHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Unauthorized"))
		return
	}

	countries, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("Failed to fetch saved countries"))
		return
	}

	writeJSON(w, http.StatusOK, model.SavedCountriesResponse{Countries: countries})
}

// HandleSaveUnsave handles POST /saved requests dispatching on the action field.
func (h *SavedHandler) HandleSaveUnsave(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.SaveCountryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	if req.Country == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("Country is required"))
		return
	}

	switch req.Action {
	case "save":
		if err := h.service.Save(r.Context(), user.ID, req); err != nil {
			if errors.Is(err, service.ErrCountryAlreadySaved) {
				writeJSON(w, http.StatusConflict, errorResponse("Country already saved"))
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse("Failed to save country"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Country saved"})

	case "unsave":
		if err := h.service.Unsave(r.Context(), user.ID, req.Country); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse("Failed to unsave country"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Country unsaved"})

	default:
		writeJSON(w, http.StatusBadRequest, errorResponse(`Invalid action. Use "save" or "unsave"`))
	}
}
