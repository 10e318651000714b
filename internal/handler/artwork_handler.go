package handler

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-art-gallery/internal/middleware"
	"go-art-gallery/internal/service"
	"go-art-gallery/internal/storage"
	"go-art-gallery/pkg/apierror"
)

type ArtworkHandler struct {
	service       *service.ArtworkService
	images        *storage.ImageStore
	maxUploadSize int64
}

func NewArtworkHandler(service *service.ArtworkService, images *storage.ImageStore, maxUploadSize int64) *ArtworkHandler {
	return &ArtworkHandler{service: service, images: images, maxUploadSize: maxUploadSize}
}

// Create handles POST /api/artwork/: multipart form with name,
// description, and file fields, owned by the authenticated artist.
func (h *ArtworkHandler) Create(w http.ResponseWriter, r *http.Request) {
	artist, ok := middleware.ArtistFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	name, description, filename, file, err := h.parseUpload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	artwork, err := h.service.Create(r.Context(), artist.ID, name, description, filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, artwork)
}

// List handles GET /api/artwork/: only the caller's own artworks.
func (h *ArtworkHandler) List(w http.ResponseWriter, r *http.Request) {
	artist, ok := middleware.ArtistFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	artworks, err := h.service.List(r.Context(), artist.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, artworks)
}

// Get handles GET /api/artwork/{artwork_id}. Another artist's artwork id
// reads as not-found, never as forbidden.
func (h *ArtworkHandler) Get(w http.ResponseWriter, r *http.Request) {
	artist, ok := middleware.ArtistFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	artwork, err := h.service.Get(r.Context(), artist.ID, chi.URLParam(r, "artwork_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, artwork)
}

// Update handles PUT /api/artwork/{artwork_id}: multipart form replacing
// metadata and image together.
func (h *ArtworkHandler) Update(w http.ResponseWriter, r *http.Request) {
	artist, ok := middleware.ArtistFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	name, description, filename, file, err := h.parseUpload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	artwork, err := h.service.Update(r.Context(), artist.ID, chi.URLParam(r, "artwork_id"), name, description, filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusAccepted, artwork)
}

// Delete handles DELETE /api/artwork/{artwork_id}.
func (h *ArtworkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	artist, ok := middleware.ArtistFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	if err := h.service.Delete(r.Context(), artist.ID, chi.URLParam(r, "artwork_id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Download handles GET /api/artwork/download/{name}: streams the named
// file from the image root.
func (h *ArtworkHandler) Download(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		writeError(w, apierror.New("BAD_REQUEST", "file name is required", "", http.StatusBadRequest))
		return
	}

	file, info, err := h.images.Open(name)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), file)
}

// Thumbnail handles GET /api/artwork/{artwork_id}/thumbnail?size=N.
func (h *ArtworkHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	artist, ok := middleware.ArtistFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	size := parseIntOrDefault(r.URL.Query().Get("size"), 256)
	if size < 32 {
		size = 32
	}
	if size > 2048 {
		size = 2048
	}

	artworkID := chi.URLParam(r, "artwork_id")
	file, info, err := h.service.Thumbnail(r.Context(), artist.ID, artworkID, size)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	filename := artworkID + ".jpg"
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": filename}))
	http.ServeContent(w, r, filename, info.ModTime(), file)
}

// parseUpload pulls name, description, and the image file out of a
// multipart body, enforcing the configured upload size limit.
func (h *ArtworkHandler) parseUpload(w http.ResponseWriter, r *http.Request) (name string, description string, filename string, file multipart.File, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if parseErr := r.ParseMultipartForm(32 << 20); parseErr != nil {
		if isPayloadTooLarge(parseErr) {
			return "", "", "", nil, apierror.New("PAYLOAD_TOO_LARGE", "request body exceeds MAX_UPLOAD_SIZE", "MAX_UPLOAD_SIZE", http.StatusRequestEntityTooLarge)
		}
		return "", "", "", nil, apierror.New("BAD_REQUEST", "invalid multipart body", "", http.StatusBadRequest)
	}

	name = strings.TrimSpace(r.FormValue("name"))
	description = strings.TrimSpace(r.FormValue("description"))

	upload, header, formErr := r.FormFile("file")
	if formErr != nil {
		return "", "", "", nil, apierror.New("BAD_REQUEST", "multipart field 'file' is required", "file", http.StatusBadRequest)
	}

	return name, description, header.Filename, upload, nil
}

func isPayloadTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "request body too large")
}

func parseIntOrDefault(raw string, fallback int) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}

	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}

	return v
}
