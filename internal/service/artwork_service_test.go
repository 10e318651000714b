package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-art-gallery/internal/model"
	"go-art-gallery/internal/storage"
)

// pngBytes renders a solid-color PNG of the given dimensions.
func pngBytes(t *testing.T, width int, height int) *bytes.Buffer {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}

	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf
}

func newTestArtworkService(t *testing.T, artworks ArtworkStore) (*ArtworkService, *storage.ImageStore) {
	t.Helper()

	images, err := storage.New(t.TempDir())
	require.NoError(t, err)

	svc, err := NewArtworkService(artworks, images, t.TempDir())
	require.NoError(t, err)
	return svc, images
}

func TestArtworkCreate(t *testing.T) {
	t.Parallel()

	store := &mockArtworkStore{}
	store.On("Create", mock.Anything, mock.MatchedBy(func(a model.Artwork) bool {
		return a.Name == "Sunset" && a.ArtistID == "artist-1" && a.Width == 64 && a.Height == 48
	})).Return(nil)

	svc, images := newTestArtworkService(t, store)

	artwork, err := svc.Create(context.Background(), "artist-1", "Sunset", "oil on canvas", "sunset.png", pngBytes(t, 64, 48))
	require.NoError(t, err)

	assert.NotEmpty(t, artwork.ID)
	assert.Equal(t, "images/"+images.Key("artist-1", artwork.ID, "sunset.png"), artwork.ImageURL)
	assert.Equal(t, 64, artwork.Width)
	assert.Equal(t, 48, artwork.Height)
	assert.True(t, images.Exists(storage.KeyFromURL(artwork.ImageURL)))
	store.AssertExpectations(t)
}

func TestArtworkCreateValidation(t *testing.T) {
	t.Parallel()

	store := &mockArtworkStore{}
	svc, _ := newTestArtworkService(t, store)

	_, err := svc.Create(context.Background(), "artist-1", "", "desc", "a.png", pngBytes(t, 8, 8))
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Create(context.Background(), "artist-1", "name", "  ", "a.png", pngBytes(t, 8, 8))
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Create(context.Background(), "artist-1", "name", "desc", "../../etc/passwd", pngBytes(t, 8, 8))
	assert.ErrorIs(t, err, model.ErrValidation)

	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestArtworkCreateRejectsNonImage(t *testing.T) {
	t.Parallel()

	store := &mockArtworkStore{}
	svc, images := newTestArtworkService(t, store)

	_, err := svc.Create(context.Background(), "artist-1", "name", "desc", "a.png", bytes.NewBufferString("definitely not an image"))
	assert.ErrorIs(t, err, model.ErrValidation)

	// The staged file is discarded on rejection.
	entries, err := os.ReadDir(images.RootAbs())
	require.NoError(t, err)
	assert.Empty(t, entries)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestArtworkCreateCompensatesFailedInsert(t *testing.T) {
	t.Parallel()

	store := &mockArtworkStore{}
	store.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	svc, images := newTestArtworkService(t, store)

	_, err := svc.Create(context.Background(), "artist-1", "name", "desc", "a.png", pngBytes(t, 8, 8))
	require.Error(t, err)

	// The promoted file is removed when the row never lands.
	entries, err := os.ReadDir(images.RootAbs())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// A compensating remove after a failed insert must only touch the file
// written for that insert, never a sibling artwork's file.
func TestArtworkCreateCompensationSparesSiblings(t *testing.T) {
	t.Parallel()

	store := &mockArtworkStore{}
	store.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	store.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once()

	svc, images := newTestArtworkService(t, store)

	first, err := svc.Create(context.Background(), "artist-1", "First", "desc", "same.png", pngBytes(t, 8, 8))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "artist-1", "Second", "desc", "same.png", pngBytes(t, 8, 8))
	require.Error(t, err)

	assert.True(t, images.Exists(storage.KeyFromURL(first.ImageURL)))
}

func existingArtwork(artistID string) model.Artwork {
	return model.Artwork{
		ID:          "art-1",
		Name:        "Old Name",
		Description: "old description",
		ImageURL:    "images/" + artistID + "_art-1_old.png",
		Width:       8,
		Height:      8,
		ArtistID:    artistID,
		CreatedAt:   time.Now().UTC().Add(-time.Hour),
	}
}

func promoteFixture(t *testing.T, images *storage.ImageStore, key string) {
	t.Helper()
	staged, _, err := images.Stage(pngBytes(t, 8, 8))
	require.NoError(t, err)
	require.NoError(t, images.Promote(staged, key))
}

func TestArtworkUpdateReplacesImage(t *testing.T) {
	t.Parallel()

	existing := existingArtwork("artist-1")
	store := &mockArtworkStore{}
	store.On("FindForArtist", mock.Anything, "art-1", "artist-1").Return(existing, nil)
	store.On("UpdateForArtist", mock.Anything, mock.MatchedBy(func(a model.Artwork) bool {
		return a.ID == "art-1" && a.Name == "New Name" && a.ImageURL == "images/artist-1_art-1_new.png" && a.UpdatedAt != nil
	})).Return(nil)

	svc, images := newTestArtworkService(t, store)
	promoteFixture(t, images, "artist-1_art-1_old.png")

	updated, err := svc.Update(context.Background(), "artist-1", "art-1", "New Name", "new description", "new.png", pngBytes(t, 16, 16))
	require.NoError(t, err)

	assert.Equal(t, "images/artist-1_art-1_new.png", updated.ImageURL)
	assert.Equal(t, 16, updated.Width)
	assert.True(t, images.Exists("artist-1_art-1_new.png"))
	assert.False(t, images.Exists("artist-1_art-1_old.png"), "superseded image should be removed")
	store.AssertExpectations(t)
}

func TestArtworkUpdateSameFilename(t *testing.T) {
	t.Parallel()

	existing := existingArtwork("artist-1")
	store := &mockArtworkStore{}
	store.On("FindForArtist", mock.Anything, "art-1", "artist-1").Return(existing, nil)
	store.On("UpdateForArtist", mock.Anything, mock.Anything).Return(nil)

	svc, images := newTestArtworkService(t, store)
	promoteFixture(t, images, "artist-1_art-1_old.png")

	updated, err := svc.Update(context.Background(), "artist-1", "art-1", "New Name", "new description", "old.png", pngBytes(t, 32, 32))
	require.NoError(t, err)

	assert.Equal(t, "images/artist-1_art-1_old.png", updated.ImageURL)
	assert.Equal(t, 32, updated.Width)
	assert.True(t, images.Exists("artist-1_art-1_old.png"))
}

// When the same-key byte swap fails after the row was committed, the
// row is restored so its width/height never describe an image that was
// never written.
func TestArtworkUpdateSameFilenameSwapFailureRestoresRow(t *testing.T) {
	t.Parallel()

	existing := existingArtwork("artist-1")
	store := &mockArtworkStore{}
	store.On("FindForArtist", mock.Anything, "art-1", "artist-1").Return(existing, nil)
	store.On("UpdateForArtist", mock.Anything, mock.MatchedBy(func(a model.Artwork) bool {
		return a.Name == "New Name" && a.Width == 32
	})).Return(nil).Once()
	store.On("UpdateForArtist", mock.Anything, mock.MatchedBy(func(a model.Artwork) bool {
		return a.Name == "Old Name" && a.Width == 8
	})).Return(nil).Once()

	svc, images := newTestArtworkService(t, store)

	// A directory squatting on the target key makes the rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(images.RootAbs(), "artist-1_art-1_old.png"), 0o755))

	_, err := svc.Update(context.Background(), "artist-1", "art-1", "New Name", "new description", "old.png", pngBytes(t, 32, 32))
	assert.ErrorIs(t, err, model.ErrStorageUnavailable)
	store.AssertExpectations(t)
}

func TestArtworkUpdateCompensatesFailedRowUpdate(t *testing.T) {
	t.Parallel()

	existing := existingArtwork("artist-1")
	store := &mockArtworkStore{}
	store.On("FindForArtist", mock.Anything, "art-1", "artist-1").Return(existing, nil)
	store.On("UpdateForArtist", mock.Anything, mock.Anything).Return(errors.New("update failed"))

	svc, images := newTestArtworkService(t, store)
	promoteFixture(t, images, "artist-1_art-1_old.png")

	_, err := svc.Update(context.Background(), "artist-1", "art-1", "New Name", "new description", "new.png", pngBytes(t, 16, 16))
	require.Error(t, err)

	// The new file is rolled back and the referenced one survives.
	assert.False(t, images.Exists("artist-1_art-1_new.png"))
	assert.True(t, images.Exists("artist-1_art-1_old.png"))
}

func TestArtworkUpdateNotFound(t *testing.T) {
	t.Parallel()

	store := &mockArtworkStore{}
	store.On("FindForArtist", mock.Anything, "art-1", "artist-2").Return(model.Artwork{}, model.ErrArtworkNotFound)

	svc, _ := newTestArtworkService(t, store)

	_, err := svc.Update(context.Background(), "artist-2", "art-1", "name", "desc", "a.png", pngBytes(t, 8, 8))
	assert.ErrorIs(t, err, model.ErrArtworkNotFound)
	store.AssertNotCalled(t, "UpdateForArtist", mock.Anything, mock.Anything)
}

func TestArtworkDelete(t *testing.T) {
	t.Parallel()

	existing := existingArtwork("artist-1")
	store := &mockArtworkStore{}
	store.On("FindForArtist", mock.Anything, "art-1", "artist-1").Return(existing, nil)
	store.On("DeleteForArtist", mock.Anything, "art-1", "artist-1").Return(nil)

	svc, images := newTestArtworkService(t, store)
	promoteFixture(t, images, "artist-1_art-1_old.png")

	require.NoError(t, svc.Delete(context.Background(), "artist-1", "art-1"))
	assert.False(t, images.Exists("artist-1_art-1_old.png"))
	store.AssertExpectations(t)
}

func TestArtworkDeleteNotFound(t *testing.T) {
	t.Parallel()

	store := &mockArtworkStore{}
	store.On("FindForArtist", mock.Anything, "art-1", "artist-1").Return(model.Artwork{}, model.ErrArtworkNotFound)

	svc, _ := newTestArtworkService(t, store)

	err := svc.Delete(context.Background(), "artist-1", "art-1")
	assert.ErrorIs(t, err, model.ErrArtworkNotFound)
	store.AssertNotCalled(t, "DeleteForArtist", mock.Anything, mock.Anything, mock.Anything)
}

func TestArtworkThumbnail(t *testing.T) {
	t.Parallel()

	existing := existingArtwork("artist-1")
	store := &mockArtworkStore{}
	store.On("FindForArtist", mock.Anything, "art-1", "artist-1").Return(existing, nil)

	svc, images := newTestArtworkService(t, store)

	staged, _, err := images.Stage(pngBytes(t, 200, 100))
	require.NoError(t, err)
	require.NoError(t, images.Promote(staged, "artist-1_art-1_old.png"))

	thumb, info, err := svc.Thumbnail(context.Background(), "artist-1", "art-1", 64)
	require.NoError(t, err)
	defer thumb.Close()
	require.Greater(t, info.Size(), int64(0))

	decoded, err := jpeg.Decode(thumb)
	require.NoError(t, err)
	bounds := decoded.Bounds()
	assert.Equal(t, 64, bounds.Dx())
	assert.Equal(t, 32, bounds.Dy())

	// A second request is served from the cache.
	cached, _, err := svc.Thumbnail(context.Background(), "artist-1", "art-1", 64)
	require.NoError(t, err)
	cached.Close()
}

func TestScaleToFit(t *testing.T) {
	t.Parallel()

	small := image.NewRGBA(image.Rect(0, 0, 30, 20))
	assert.Equal(t, small.Bounds(), scaleToFit(small, 64).Bounds())

	tall := image.NewRGBA(image.Rect(0, 0, 100, 400))
	scaled := scaleToFit(tall, 64)
	assert.Equal(t, 16, scaled.Bounds().Dx())
	assert.Equal(t, 64, scaled.Bounds().Dy())
}
