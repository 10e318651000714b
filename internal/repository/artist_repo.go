package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-art-gallery/internal/model"
)

const uniqueViolationCode = "23505"

type ArtistRepository struct {
	pool *pgxpool.Pool
}

func NewArtistRepository(pool *pgxpool.Pool) *ArtistRepository {
	return &ArtistRepository{pool: pool}
}

func (r *ArtistRepository) Create(ctx context.Context, a model.Artist) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO artists (id, username, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Username, a.PasswordHash, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return model.ErrDuplicateUsername
		}
		return fmt.Errorf("create artist: %w", err)
	}
	return nil
}

func (r *ArtistRepository) FindByID(ctx context.Context, id string) (model.Artist, error) {
	var a model.Artist
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at, updated_at
		 FROM artists WHERE id = $1`, id).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Artist{}, model.ErrArtistNotFound
	}
	if err != nil {
		return model.Artist{}, fmt.Errorf("find artist by id: %w", err)
	}
	return a, nil
}

func (r *ArtistRepository) FindByUsername(ctx context.Context, username string) (model.Artist, error) {
	var a model.Artist
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at, updated_at
		 FROM artists WHERE username = $1`, strings.TrimSpace(username)).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Artist{}, model.ErrArtistNotFound
	}
	if err != nil {
		return model.Artist{}, fmt.Errorf("find artist by username: %w", err)
	}
	return a, nil
}

func (r *ArtistRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM artists WHERE username = $1)`,
		strings.TrimSpace(username)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

func (r *ArtistRepository) List(ctx context.Context) ([]model.Artist, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, password_hash, created_at, updated_at
		 FROM artists ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	artists := make([]model.Artist, 0)
	for rows.Next() {
		var a model.Artist
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

func (r *ArtistRepository) Update(ctx context.Context, a model.Artist) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE artists SET username = $2, password_hash = $3, updated_at = $4 WHERE id = $1`,
		a.ID, a.Username, a.PasswordHash, a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return model.ErrDuplicateUsername
		}
		return fmt.Errorf("update artist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrArtistNotFound
	}
	return nil
}

// Delete removes an artist inside a single transaction and returns the
// image paths of the artworks the FK cascade took with it, so the caller
// can sweep the backing files afterwards.
func (r *ArtistRepository) Delete(ctx context.Context, id string) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin delete artist: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx,
		`SELECT image_url FROM artworks WHERE artist_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("list artwork images for artist: %w", err)
	}

	imagePaths := make([]string, 0)
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan artwork image path: %w", err)
		}
		imagePaths = append(imagePaths, path)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artwork image paths: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM artists WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("delete artist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, model.ErrArtistNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit delete artist: %w", err)
	}

	return imagePaths, nil
}
