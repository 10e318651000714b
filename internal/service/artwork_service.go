package service

import (
	"context"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"

	"go-art-gallery/internal/model"
	"go-art-gallery/internal/storage"
	"go-art-gallery/internal/util"
)

// ArtworkService binds every artwork mutation to the authenticated
// artist and keeps the backing image file consistent with the database
// row. File writes are staged before the row changes and superseded
// files are removed only after the replacement is durable; when a step
// fails, the completed steps are compensated.
type ArtworkService struct {
	artworks      ArtworkStore
	images        *storage.ImageStore
	thumbnailRoot string
}

func NewArtworkService(artworks ArtworkStore, images *storage.ImageStore, thumbnailRoot string) (*ArtworkService, error) {
	if strings.TrimSpace(thumbnailRoot) == "" {
		thumbnailRoot = "./state/thumbnails"
	}
	abs, err := filepath.Abs(thumbnailRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve thumbnail root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create thumbnail root: %w", err)
	}

	return &ArtworkService{artworks: artworks, images: images, thumbnailRoot: abs}, nil
}

func (s *ArtworkService) Create(ctx context.Context, artistID string, name string, description string, filename string, content io.Reader) (model.Artwork, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return model.Artwork{}, fmt.Errorf("%w: name and description are required", model.ErrValidation)
	}

	safeName, err := util.SanitizeFilename(filename)
	if err != nil {
		return model.Artwork{}, err
	}

	staged, width, height, err := s.stageImage(content)
	if err != nil {
		return model.Artwork{}, err
	}

	artworkID := uuid.NewString()
	key := s.images.Key(artistID, artworkID, safeName)
	if err := s.images.Promote(staged, key); err != nil {
		s.images.Discard(staged)
		return model.Artwork{}, fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
	}

	artwork := model.Artwork{
		ID:          artworkID,
		Name:        name,
		Description: description,
		ImageURL:    s.images.URL(key),
		Width:       width,
		Height:      height,
		ArtistID:    artistID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.artworks.Create(ctx, artwork); err != nil {
		// The row never existed; remove the file written for it.
		if removeErr := s.images.Remove(key); removeErr != nil {
			slog.Warn("orphaned image left after failed insert", "key", key, "error", removeErr)
		}
		return model.Artwork{}, err
	}

	return artwork, nil
}

func (s *ArtworkService) List(ctx context.Context, artistID string) ([]model.Artwork, error) {
	return s.artworks.ListForArtist(ctx, artistID)
}

func (s *ArtworkService) Get(ctx context.Context, artistID string, artworkID string) (model.Artwork, error) {
	return s.artworks.FindForArtist(ctx, artworkID, artistID)
}

// Update replaces both the metadata and the image of an owned artwork.
// The new file is written durably before the old one is touched, so the
// artwork is never left without a backing image.
func (s *ArtworkService) Update(ctx context.Context, artistID string, artworkID string, name string, description string, filename string, content io.Reader) (model.Artwork, error) {
	existing, err := s.artworks.FindForArtist(ctx, artworkID, artistID)
	if err != nil {
		return model.Artwork{}, err
	}

	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return model.Artwork{}, fmt.Errorf("%w: name and description are required", model.ErrValidation)
	}

	safeName, err := util.SanitizeFilename(filename)
	if err != nil {
		return model.Artwork{}, err
	}

	staged, width, height, err := s.stageImage(content)
	if err != nil {
		return model.Artwork{}, err
	}

	oldKey := storage.KeyFromURL(existing.ImageURL)
	newKey := s.images.Key(artistID, artworkID, safeName)
	now := time.Now().UTC()

	updated := existing
	updated.Name = name
	updated.Description = description
	updated.ImageURL = s.images.URL(newKey)
	updated.Width = width
	updated.Height = height
	updated.UpdatedAt = &now

	if newKey == oldKey {
		// Same storage location: commit the row first, then swap the
		// bytes with an atomic rename. If the swap fails, the row is
		// restored so its metadata never describes bytes that were
		// never written.
		if err := s.artworks.UpdateForArtist(ctx, updated); err != nil {
			s.images.Discard(staged)
			return model.Artwork{}, err
		}
		if err := s.images.Promote(staged, newKey); err != nil {
			s.images.Discard(staged)
			if restoreErr := s.artworks.UpdateForArtist(ctx, existing); restoreErr != nil {
				slog.Warn("row restore failed after image swap failure", "key", newKey, "error", restoreErr)
			}
			return model.Artwork{}, fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
		}
		s.dropThumbnails(artworkID)
		return updated, nil
	}

	if err := s.images.Promote(staged, newKey); err != nil {
		s.images.Discard(staged)
		return model.Artwork{}, fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
	}

	if err := s.artworks.UpdateForArtist(ctx, updated); err != nil {
		if removeErr := s.images.Remove(newKey); removeErr != nil {
			slog.Warn("orphaned image left after failed update", "key", newKey, "error", removeErr)
		}
		return model.Artwork{}, err
	}

	// The row now references the new file; the old one is superseded.
	if err := s.images.Remove(oldKey); err != nil {
		slog.Warn("superseded image left behind", "key", oldKey, "error", err)
	}
	s.dropThumbnails(artworkID)

	return updated, nil
}

// Delete removes the owned row and then its backing file. Losing the row
// first means a failed file removal leaves an unreferenced file rather
// than a referenced-but-missing one.
func (s *ArtworkService) Delete(ctx context.Context, artistID string, artworkID string) error {
	existing, err := s.artworks.FindForArtist(ctx, artworkID, artistID)
	if err != nil {
		return err
	}

	if err := s.artworks.DeleteForArtist(ctx, artworkID, artistID); err != nil {
		return err
	}

	key := storage.KeyFromURL(existing.ImageURL)
	if err := s.images.Remove(key); err != nil {
		slog.Warn("orphaned image left after artwork delete", "key", key, "error", err)
	}
	s.dropThumbnails(artworkID)

	return nil
}

// Thumbnail returns a cached JPEG thumbnail of an owned artwork, scaled
// so the longer edge is at most size pixels. The cache entry is rebuilt
// whenever the source image is newer.
func (s *ArtworkService) Thumbnail(ctx context.Context, artistID string, artworkID string, size int) (*os.File, fs.FileInfo, error) {
	artwork, err := s.artworks.FindForArtist(ctx, artworkID, artistID)
	if err != nil {
		return nil, nil, err
	}

	key := storage.KeyFromURL(artwork.ImageURL)
	src, srcInfo, err := s.images.Open(key)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	cachePath := filepath.Join(s.thumbnailRoot, fmt.Sprintf("%s_%d.jpg", artworkID, size))
	if cachedInfo, statErr := os.Stat(cachePath); statErr == nil && !cachedInfo.ModTime().Before(srcInfo.ModTime()) {
		cached, openErr := os.Open(cachePath)
		if openErr == nil {
			return cached, cachedInfo, nil
		}
	}

	decoded, _, err := image.Decode(src)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decode image for thumbnail: %v", model.ErrStorageUnavailable, err)
	}

	scaled := scaleToFit(decoded, size)

	tmp, err := os.CreateTemp(s.thumbnailRoot, ".thumb-*")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
	}
	if err := jpeg.Encode(tmp, scaled, &jpeg.Options{Quality: 85}); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, nil, fmt.Errorf("%w: encode thumbnail: %v", model.ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, nil, fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, nil, fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
	}

	cached, err := os.Open(cachePath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
	}
	info, err := cached.Stat()
	if err != nil {
		cached.Close()
		return nil, nil, fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
	}

	return cached, info, nil
}

// stageImage writes the upload to a staged file and verifies it decodes
// as a supported image, returning its dimensions.
func (s *ArtworkService) stageImage(content io.Reader) (staged string, width int, height int, err error) {
	staged, _, err = s.images.Stage(content)
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
	}

	file, err := os.Open(staged)
	if err != nil {
		s.images.Discard(staged)
		return "", 0, 0, fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
	}
	defer file.Close()

	sniff := make([]byte, 512)
	n, readErr := io.ReadFull(file, sniff)
	if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
		s.images.Discard(staged)
		return "", 0, 0, fmt.Errorf("%w: %v", model.ErrStorageUnavailable, readErr)
	}

	if !strings.HasPrefix(http.DetectContentType(sniff[:n]), "image/") {
		s.images.Discard(staged)
		return "", 0, 0, fmt.Errorf("%w: uploaded file is not an image", model.ErrValidation)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		s.images.Discard(staged)
		return "", 0, 0, fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
	}

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		s.images.Discard(staged)
		return "", 0, 0, fmt.Errorf("%w: unsupported image format", model.ErrValidation)
	}

	return staged, cfg.Width, cfg.Height, nil
}

// dropThumbnails removes every cached size for an artwork. Best effort;
// a stale cache entry is rebuilt on the next request anyway.
func (s *ArtworkService) dropThumbnails(artworkID string) {
	matches, err := filepath.Glob(filepath.Join(s.thumbnailRoot, artworkID+"_*.jpg"))
	if err != nil {
		return
	}
	for _, match := range matches {
		_ = os.Remove(match)
	}
}

func scaleToFit(src image.Image, size int) image.Image {
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= size && srcH <= size {
		return src
	}

	ratio := float64(size) / float64(srcW)
	if srcH > srcW {
		ratio = float64(size) / float64(srcH)
	}

	dstW := int(float64(srcW) * ratio)
	dstH := int(float64(srcH) * ratio)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
