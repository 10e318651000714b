package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-art-gallery/internal/model"
)

// ArtworkRepository persists artwork rows. Every read and mutation is
// scoped to the owning artist; an unscoped variant is deliberately not
// part of the contract.
type ArtworkRepository struct {
	pool *pgxpool.Pool
}

func NewArtworkRepository(pool *pgxpool.Pool) *ArtworkRepository {
	return &ArtworkRepository{pool: pool}
}

func (r *ArtworkRepository) Create(ctx context.Context, a model.Artwork) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO artworks (id, name, description, image_url, width, height, artist_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.Name, a.Description, a.ImageURL, a.Width, a.Height, a.ArtistID, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create artwork: %w", err)
	}
	return nil
}

func (r *ArtworkRepository) ListForArtist(ctx context.Context, artistID string) ([]model.Artwork, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, image_url, width, height, artist_id, created_at, updated_at
		 FROM artworks WHERE artist_id = $1 ORDER BY created_at, id`, artistID)
	if err != nil {
		return nil, fmt.Errorf("list artworks: %w", err)
	}
	defer rows.Close()

	artworks := make([]model.Artwork, 0)
	for rows.Next() {
		var a model.Artwork
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.ImageURL, &a.Width, &a.Height,
			&a.ArtistID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan artwork: %w", err)
		}
		artworks = append(artworks, a)
	}
	return artworks, rows.Err()
}

func (r *ArtworkRepository) FindForArtist(ctx context.Context, id string, artistID string) (model.Artwork, error) {
	var a model.Artwork
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, image_url, width, height, artist_id, created_at, updated_at
		 FROM artworks WHERE id = $1 AND artist_id = $2`, id, artistID).
		Scan(&a.ID, &a.Name, &a.Description, &a.ImageURL, &a.Width, &a.Height,
			&a.ArtistID, &a.CreatedAt, &a.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Artwork{}, model.ErrArtworkNotFound
	}
	if err != nil {
		return model.Artwork{}, fmt.Errorf("find artwork: %w", err)
	}
	return a, nil
}

func (r *ArtworkRepository) UpdateForArtist(ctx context.Context, a model.Artwork) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE artworks
		 SET name = $3, description = $4, image_url = $5, width = $6, height = $7, updated_at = $8
		 WHERE id = $1 AND artist_id = $2`,
		a.ID, a.ArtistID, a.Name, a.Description, a.ImageURL, a.Width, a.Height, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update artwork: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrArtworkNotFound
	}
	return nil
}

func (r *ArtworkRepository) DeleteForArtist(ctx context.Context, id string, artistID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM artworks WHERE id = $1 AND artist_id = $2`, id, artistID)
	if err != nil {
		return fmt.Errorf("delete artwork: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrArtworkNotFound
	}
	return nil
}
