package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go-art-gallery/internal/model"
)

// artistAuthenticator resolves a bearer token to the artist it was
// issued for. Implemented by service.AuthService.
type artistAuthenticator interface {
	Authenticate(ctx context.Context, tokenString string) (model.Artist, error)
}

type contextKey string

const artistContextKey contextKey = "current_artist"

type AuthMiddleware struct {
	auth artistAuthenticator
}

func NewAuthMiddleware(auth artistAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireArtist rejects requests without a valid bearer token and stores
// the resolved artist in the request context.
func (m *AuthMiddleware) RequireArtist(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeUnauthorized(w, "missing or invalid authorization header")
			return
		}

		token := strings.TrimSpace(header[7:])
		artist, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, model.ErrTokenExpired) {
				writeUnauthorized(w, "token expired")
			} else {
				writeUnauthorized(w, "invalid token")
			}
			return
		}

		ctx := context.WithValue(r.Context(), artistContextKey, artist)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ArtistFromContext returns the artist RequireArtist stored for this
// request.
func ArtistFromContext(ctx context.Context) (model.Artist, bool) {
	artist, ok := ctx.Value(artistContextKey).(model.Artist)
	return artist, ok
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "UNAUTHORIZED",
			Message: message,
		},
	})
}
