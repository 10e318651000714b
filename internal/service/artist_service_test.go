package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-art-gallery/internal/model"
	"go-art-gallery/internal/storage"
)

func newTestArtistService(t *testing.T, artists ArtistStore) (*ArtistService, *storage.ImageStore) {
	t.Helper()

	images, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return NewArtistService(artists, images), images
}

func TestArtistList(t *testing.T) {
	t.Parallel()

	store := &mockArtistStore{}
	store.On("List", mock.Anything).Return([]model.Artist{
		{ID: "artist-1", Username: "alice", PasswordHash: "hash"},
		{ID: "artist-2", Username: "bob", PasswordHash: "hash"},
	}, nil)

	svc, _ := newTestArtistService(t, store)

	profiles, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "alice", profiles[0].Username)
	assert.Equal(t, "bob", profiles[1].Username)
}

func TestArtistUpdateScopedToCaller(t *testing.T) {
	t.Parallel()

	store := &mockArtistStore{}
	svc, _ := newTestArtistService(t, store)

	// Targeting another account reads as not-found, not forbidden.
	_, err := svc.Update(context.Background(), "artist-1", "artist-2", "alice", "newpw")
	assert.ErrorIs(t, err, model.ErrArtistNotFound)
	store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestArtistUpdate(t *testing.T) {
	t.Parallel()

	current := model.Artist{ID: "artist-1", Username: "alice", PasswordHash: "old-hash", CreatedAt: time.Now().UTC()}

	store := &mockArtistStore{}
	store.On("FindByID", mock.Anything, "artist-1").Return(current, nil)
	store.On("ExistsByUsername", mock.Anything, "alice2").Return(false, nil)
	store.On("Update", mock.Anything, mock.MatchedBy(func(a model.Artist) bool {
		if a.Username != "alice2" || a.UpdatedAt == nil {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("newpw")) == nil
	})).Return(nil)

	svc, _ := newTestArtistService(t, store)

	profile, err := svc.Update(context.Background(), "artist-1", "artist-1", "alice2", "newpw")
	require.NoError(t, err)
	assert.Equal(t, "alice2", profile.Username)
	store.AssertExpectations(t)
}

func TestArtistUpdateDuplicateUsername(t *testing.T) {
	t.Parallel()

	current := model.Artist{ID: "artist-1", Username: "alice", PasswordHash: "old-hash"}

	store := &mockArtistStore{}
	store.On("FindByID", mock.Anything, "artist-1").Return(current, nil)
	store.On("ExistsByUsername", mock.Anything, "bob").Return(true, nil)

	svc, _ := newTestArtistService(t, store)

	_, err := svc.Update(context.Background(), "artist-1", "artist-1", "bob", "newpw")
	assert.ErrorIs(t, err, model.ErrDuplicateUsername)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestArtistUpdateValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestArtistService(t, &mockArtistStore{})

	_, err := svc.Update(context.Background(), "artist-1", "artist-1", "", "newpw")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Update(context.Background(), "artist-1", "artist-1", "alice", "")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestArtistDeleteScopedToCaller(t *testing.T) {
	t.Parallel()

	store := &mockArtistStore{}
	svc, _ := newTestArtistService(t, store)

	err := svc.Delete(context.Background(), "artist-1", "artist-2")
	assert.ErrorIs(t, err, model.ErrArtistNotFound)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestArtistDeleteSweepsImages(t *testing.T) {
	t.Parallel()

	store := &mockArtistStore{}
	store.On("Delete", mock.Anything, "artist-1").Return([]string{
		"images/artist-1_a.png",
		"images/artist-1_b.png",
	}, nil)

	svc, images := newTestArtistService(t, store)
	for _, key := range []string{"artist-1_a.png", "artist-1_b.png"} {
		staged, _, err := images.Stage(strings.NewReader("bytes"))
		require.NoError(t, err)
		require.NoError(t, images.Promote(staged, key))
	}

	require.NoError(t, svc.Delete(context.Background(), "artist-1", "artist-1"))
	assert.False(t, images.Exists("artist-1_a.png"))
	assert.False(t, images.Exists("artist-1_b.png"))
	store.AssertExpectations(t)
}
