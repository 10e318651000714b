package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-art-gallery/internal/middleware"
	"go-art-gallery/internal/model"
	"go-art-gallery/internal/service"
	"go-art-gallery/pkg/apierror"
)

type ArtistHandler struct {
	service *service.ArtistService
}

func NewArtistHandler(service *service.ArtistService) *ArtistHandler {
	return &ArtistHandler{service: service}
}

// List handles GET /api/artist/.
func (h *ArtistHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, profiles)
}

// Get handles GET /api/artist/{artist_id}.
func (h *ArtistHandler) Get(w http.ResponseWriter, r *http.Request) {
	artistID := strings.TrimSpace(chi.URLParam(r, "artist_id"))
	if artistID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "artist_id is required", "", http.StatusBadRequest))
		return
	}

	profile, err := h.service.Get(r.Context(), artistID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, profile)
}

// Update handles PUT /api/artist/{artist_id}; only the authenticated
// artist can update their own account.
func (h *ArtistHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	caller, ok := middleware.ArtistFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	artistID := strings.TrimSpace(chi.URLParam(r, "artist_id"))

	var payload model.ArtistUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	profile, err := h.service.Update(r.Context(), caller.ID, artistID, payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusAccepted, profile)
}

// Delete handles DELETE /api/artist/{artist_id}; cascades the artist's
// artwork rows and sweeps their image files.
func (h *ArtistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.ArtistFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	artistID := strings.TrimSpace(chi.URLParam(r, "artist_id"))

	if err := h.service.Delete(r.Context(), caller.ID, artistID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
