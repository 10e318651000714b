package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go-art-gallery/internal/model"
)

// Timeout bounds request handling under /api. The 503 body uses the
// standard response envelope so a timed-out client parses it like any
// other API failure.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	body, _ := json.Marshal(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "REQUEST_TIMEOUT",
			Message: "Request took too long to complete",
		},
	})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(body))
	}
}
