package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go-art-gallery/internal/model"
	"go-art-gallery/internal/storage"
)

// ArtistService handles artist CRUD. Mutations are restricted to the
// authenticated artist's own account; targeting any other account reads
// as not-found so that account ids are never confirmed to outsiders.
type ArtistService struct {
	artists ArtistStore
	images  *storage.ImageStore
}

func NewArtistService(artists ArtistStore, images *storage.ImageStore) *ArtistService {
	return &ArtistService{artists: artists, images: images}
}

func (s *ArtistService) List(ctx context.Context) ([]model.ArtistProfile, error) {
	artists, err := s.artists.List(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]model.ArtistProfile, 0, len(artists))
	for _, a := range artists {
		profiles = append(profiles, a.Profile())
	}
	return profiles, nil
}

func (s *ArtistService) Get(ctx context.Context, id string) (model.ArtistProfile, error) {
	artist, err := s.artists.FindByID(ctx, id)
	if err != nil {
		return model.ArtistProfile{}, err
	}
	return artist.Profile(), nil
}

func (s *ArtistService) Update(ctx context.Context, callerID string, targetID string, username string, password string) (model.ArtistProfile, error) {
	if callerID != targetID {
		return model.ArtistProfile{}, model.ErrArtistNotFound
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.ArtistProfile{}, fmt.Errorf("%w: username and password are required", model.ErrValidation)
	}

	artist, err := s.artists.FindByID(ctx, targetID)
	if err != nil {
		return model.ArtistProfile{}, err
	}

	if artist.Username != username {
		exists, err := s.artists.ExistsByUsername(ctx, username)
		if err != nil {
			return model.ArtistProfile{}, err
		}
		if exists {
			return model.ArtistProfile{}, model.ErrDuplicateUsername
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.ArtistProfile{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	artist.Username = username
	artist.PasswordHash = string(hash)
	artist.UpdatedAt = &now

	if err := s.artists.Update(ctx, artist); err != nil {
		return model.ArtistProfile{}, err
	}

	return artist.Profile(), nil
}

// Delete removes the artist row; the FK cascade takes the artwork rows
// with it inside the same transaction. The backing image files are swept
// afterwards: a failed sweep leaves unreferenced files, never referenced
// rows, so it is logged rather than surfaced.
func (s *ArtistService) Delete(ctx context.Context, callerID string, targetID string) error {
	if callerID != targetID {
		return model.ErrArtistNotFound
	}

	imagePaths, err := s.artists.Delete(ctx, targetID)
	if err != nil {
		return err
	}

	for _, imagePath := range imagePaths {
		key := storage.KeyFromURL(imagePath)
		if err := s.images.Remove(key); err != nil {
			slog.Warn("orphaned image left after artist delete", "key", key, "error", err)
		}
	}

	return nil
}
