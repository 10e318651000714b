package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-art-gallery/internal/model"
	"go-art-gallery/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError is the single place where the error taxonomy is flattened
// to HTTP. Everything above this function deals in typed errors only.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
		body.Details = err.Error()
	case errors.Is(err, model.ErrDuplicateUsername):
		status = http.StatusBadRequest
		body.Code = "DUPLICATE_USERNAME"
		body.Message = "Username is already taken"
	case errors.Is(err, model.ErrInvalidCredentials):
		// The token endpoint has always answered 404 here; kept for
		// client compatibility even though 401 would be more accurate.
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Invalid Credentials"
	case errors.Is(err, model.ErrTokenExpired):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Token expired"
	case errors.Is(err, model.ErrTokenMalformed):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid token"
	case errors.Is(err, model.ErrArtistNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Artist not found"
	case errors.Is(err, model.ErrArtworkNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Artwork not found"
	case errors.Is(err, model.ErrImageNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Image not found"
	case errors.Is(err, model.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
		body.Code = "STORAGE_UNAVAILABLE"
		body.Message = "Image storage is unavailable"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
