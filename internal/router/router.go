package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-art-gallery/internal/config"
	"go-art-gallery/internal/handler"
	"go-art-gallery/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Artist  *handler.ArtistHandler
	Artwork *handler.ArtworkHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, handlers Handlers, imageRoot string) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/apihealthcheck", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"This art API is Live!"}`))
	})

	// Read-only static mount of the image root.
	r.Method(http.MethodGet, "/images/*",
		http.StripPrefix("/images/", http.FileServer(http.Dir(imageRoot))))

	r.Post("/token", handlers.Auth.Token)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/auth/", handlers.Auth.Register)

		api.Route("/artist", func(artist chi.Router) {
			artist.Get("/", handlers.Artist.List)
			artist.Get("/{artist_id}", handlers.Artist.Get)
			artist.With(authMiddleware.RequireArtist).Put("/{artist_id}", handlers.Artist.Update)
			artist.With(authMiddleware.RequireArtist).Delete("/{artist_id}", handlers.Artist.Delete)
		})

		api.Route("/artwork", func(artwork chi.Router) {
			artwork.Use(authMiddleware.RequireArtist)
			artwork.Post("/", handlers.Artwork.Create)
			artwork.Get("/", handlers.Artwork.List)
			artwork.Get("/download/{name}", handlers.Artwork.Download)
			artwork.Get("/{artwork_id}", handlers.Artwork.Get)
			artwork.Get("/{artwork_id}/thumbnail", handlers.Artwork.Thumbnail)
			artwork.Put("/{artwork_id}", handlers.Artwork.Update)
			artwork.Delete("/{artwork_id}", handlers.Artwork.Delete)
		})
	})

	return r
}
