package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-art-gallery/internal/model"
)

func TestImageStoreStagePromote(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	staged, written, err := store.Stage(strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	require.Equal(t, int64(len("fake image bytes")), written)

	// Staged files live inside the root but are not addressable as keys.
	require.Equal(t, store.RootAbs(), filepath.Dir(staged))
	_, _, err = store.Open(filepath.Base(staged))
	require.Error(t, err)

	key := store.Key("artist-1", "art-1", "sunset.png")
	require.NoError(t, store.Promote(staged, key))

	file, info, err := store.Open(key)
	require.NoError(t, err)
	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(content))
	assert.Equal(t, int64(len(content)), info.Size())

	// The staged name is gone after promotion.
	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err))
}

func TestImageStoreKeysAreScoped(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	aliceKey := store.Key("alice-id", "art-1", "a.png")
	bobKey := store.Key("bob-id", "art-2", "a.png")
	require.NotEqual(t, aliceKey, bobKey)

	// The same artist reusing a filename across artworks gets distinct
	// keys too.
	require.NotEqual(t, aliceKey, store.Key("alice-id", "art-3", "a.png"))

	stagedAlice, _, err := store.Stage(strings.NewReader("alice bytes"))
	require.NoError(t, err)
	require.NoError(t, store.Promote(stagedAlice, aliceKey))

	stagedBob, _, err := store.Stage(strings.NewReader("bob bytes"))
	require.NoError(t, err)
	require.NoError(t, store.Promote(stagedBob, bobKey))

	file, _, err := store.Open(aliceKey)
	require.NoError(t, err)
	defer file.Close()
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "alice bytes", string(content))
}

func TestImageStoreResolveRejectsUnsafeKeys(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{
		"",
		"  ",
		"../escape.png",
		"..",
		".",
		"nested/name.png",
		`windows\name.png`,
		".hidden.png",
		".stage-123",
		"null\x00byte.png",
	} {
		_, err := store.Resolve(key)
		assert.ErrorIs(t, err, model.ErrValidation, "key %q should be rejected", key)
	}
}

func TestImageStoreRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	key := store.Key("artist-1", "art-1", "gone.png")
	staged, _, err := store.Stage(strings.NewReader("bytes"))
	require.NoError(t, err)
	require.NoError(t, store.Promote(staged, key))

	require.NoError(t, store.Remove(key))
	assert.False(t, store.Exists(key))

	// Removing a missing file is not an error.
	require.NoError(t, store.Remove(key))
}

func TestImageStoreOpenMissing(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Open("artist-1_missing.png")
	assert.True(t, errors.Is(err, model.ErrImageNotFound))
}

func TestImageStoreDiscard(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	staged, _, err := store.Stage(strings.NewReader("bytes"))
	require.NoError(t, err)

	store.Discard(staged)
	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err))
}

func TestKeyFromURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alice-id_art-1_a.png", KeyFromURL("images/alice-id_art-1_a.png"))
	assert.Equal(t, "bare.png", KeyFromURL("bare.png"))
}
