package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-art-gallery/internal/model"
)

type mockArtistStore struct {
	mock.Mock
}

func (m *mockArtistStore) Create(ctx context.Context, a model.Artist) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockArtistStore) FindByID(ctx context.Context, id string) (model.Artist, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Artist), args.Error(1)
}

func (m *mockArtistStore) FindByUsername(ctx context.Context, username string) (model.Artist, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.Artist), args.Error(1)
}

func (m *mockArtistStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockArtistStore) List(ctx context.Context) ([]model.Artist, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Artist), args.Error(1)
}

func (m *mockArtistStore) Update(ctx context.Context, a model.Artist) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockArtistStore) Delete(ctx context.Context, id string) ([]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockArtworkStore struct {
	mock.Mock
}

func (m *mockArtworkStore) Create(ctx context.Context, a model.Artwork) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockArtworkStore) ListForArtist(ctx context.Context, artistID string) ([]model.Artwork, error) {
	args := m.Called(ctx, artistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Artwork), args.Error(1)
}

func (m *mockArtworkStore) FindForArtist(ctx context.Context, id string, artistID string) (model.Artwork, error) {
	args := m.Called(ctx, id, artistID)
	return args.Get(0).(model.Artwork), args.Error(1)
}

func (m *mockArtworkStore) UpdateForArtist(ctx context.Context, a model.Artwork) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockArtworkStore) DeleteForArtist(ctx context.Context, id string, artistID string) error {
	args := m.Called(ctx, id, artistID)
	return args.Error(0)
}
