package service

import (
	"context"

	"go-art-gallery/internal/model"
)

// ArtistStore is what the services need from artist persistence.
// Implemented by repository.ArtistRepository.
type ArtistStore interface {
	Create(ctx context.Context, a model.Artist) error
	FindByID(ctx context.Context, id string) (model.Artist, error)
	FindByUsername(ctx context.Context, username string) (model.Artist, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]model.Artist, error)
	Update(ctx context.Context, a model.Artist) error
	// Delete removes the artist and their artwork rows in one transaction
	// and returns the image references of the cascaded artworks.
	Delete(ctx context.Context, id string) ([]string, error)
}

// ArtworkStore is the owner-scoped artwork persistence contract.
// Implemented by repository.ArtworkRepository. There is deliberately no
// way to read or mutate a row without naming the owning artist.
type ArtworkStore interface {
	Create(ctx context.Context, a model.Artwork) error
	ListForArtist(ctx context.Context, artistID string) ([]model.Artwork, error)
	FindForArtist(ctx context.Context, id string, artistID string) (model.Artwork, error)
	UpdateForArtist(ctx context.Context, a model.Artwork) error
	DeleteForArtist(ctx context.Context, id string, artistID string) error
}
