package storage

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go-art-gallery/internal/model"
)

// stagePrefix marks in-flight uploads. Keys never start with a dot, so a
// staged file can never be addressed through Resolve, Open, or the static
// image mount.
const stagePrefix = ".stage-"

// ImageStore keeps artwork images in a single flat directory. Uploads go
// through a stage/promote pair so a file only appears under its final key
// once it has been fully written.
type ImageStore struct {
	root string
}

func New(root string) (*ImageStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve image root: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create image root: %w", err)
	}

	return &ImageStore{root: abs}, nil
}

func (s *ImageStore) RootAbs() string {
	return s.root
}

// Key derives the storage name for an upload from the owning artist's
// id, the artwork's id, and the client-supplied filename. The artist id
// keeps tenants apart; the artwork id keeps two same-named uploads by
// one artist from sharing a file.
func (s *ImageStore) Key(artistID string, artworkID string, filename string) string {
	return artistID + "_" + artworkID + "_" + filename
}

// URL returns the reference stored in the database for a key. It doubles
// as the request path under the static image mount.
func (s *ImageStore) URL(key string) string {
	return "images/" + key
}

// KeyFromURL recovers the storage key from a stored image reference.
func KeyFromURL(imageURL string) string {
	return path.Base(imageURL)
}

// Resolve validates a key and returns its absolute path. Keys are flat
// filenames: separators, traversal components, and hidden names are
// rejected before the filesystem is touched.
func (s *ImageStore) Resolve(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty image key", model.ErrValidation)
	}

	if strings.ContainsAny(trimmed, `/\`) || strings.Contains(trimmed, "\x00") {
		return "", fmt.Errorf("%w: image key %q", model.ErrValidation, key)
	}

	if trimmed == "." || trimmed == ".." || strings.HasPrefix(trimmed, ".") {
		return "", fmt.Errorf("%w: image key %q", model.ErrValidation, key)
	}

	resolved := filepath.Join(s.root, trimmed)
	if filepath.Dir(resolved) != s.root {
		return "", fmt.Errorf("%w: image key %q escapes the image root", model.ErrValidation, key)
	}

	return resolved, nil
}

// Stage writes the reader to a temporary file inside the image root and
// returns its path. The caller either Promotes or Discards it.
func (s *ImageStore) Stage(r io.Reader) (string, int64, error) {
	tmp, err := os.CreateTemp(s.root, stagePrefix+"*")
	if err != nil {
		return "", 0, fmt.Errorf("create staged file: %w", err)
	}

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("write staged file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("sync staged file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("close staged file: %w", err)
	}

	return tmp.Name(), written, nil
}

// Promote moves a staged file to its final key. The rename is atomic, so
// an existing file under the same key is replaced without a window where
// neither version exists.
func (s *ImageStore) Promote(staged string, key string) error {
	resolved, err := s.Resolve(key)
	if err != nil {
		return err
	}

	if err := os.Chmod(staged, 0o644); err != nil {
		return fmt.Errorf("chmod staged file: %w", err)
	}

	if err := os.Rename(staged, resolved); err != nil {
		return fmt.Errorf("promote staged file to %q: %w", key, err)
	}

	return nil
}

// Discard removes a staged file. Best effort: the stage directory is the
// image root itself, so a leak is visible and harmless.
func (s *ImageStore) Discard(staged string) {
	_ = os.Remove(staged)
}

// Remove deletes the file under key. A missing file is not an error so
// that compensating deletes stay idempotent.
func (s *ImageStore) Remove(key string) error {
	resolved, err := s.Resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(resolved); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image %q: %w", key, err)
	}

	return nil
}

func (s *ImageStore) Open(key string) (*os.File, fs.FileInfo, error) {
	resolved, err := s.Resolve(key)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, model.ErrImageNotFound
		}
		return nil, nil, fmt.Errorf("open image %q: %w", key, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("stat image %q: %w", key, err)
	}

	return file, info, nil
}

// Exists reports whether a file is present under key.
func (s *ImageStore) Exists(key string) bool {
	resolved, err := s.Resolve(key)
	if err != nil {
		return false
	}

	_, err = os.Stat(resolved)
	return err == nil
}
