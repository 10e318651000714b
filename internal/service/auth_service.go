package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-art-gallery/internal/model"
)

const bcryptCost = 12

// AuthService owns registration, credential verification, and the
// lifecycle of bearer tokens. The signing secret is injected at
// construction; there is no process-global key.
type AuthService struct {
	artists   ArtistStore
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(jwtSecret string, tokenTTL time.Duration, artists ArtistStore) (*AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	return &AuthService{
		artists:   artists,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, username string, password string) (model.ArtistProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.ArtistProfile{}, fmt.Errorf("%w: username and password are required", model.ErrValidation)
	}

	exists, err := s.artists.ExistsByUsername(ctx, username)
	if err != nil {
		return model.ArtistProfile{}, err
	}
	if exists {
		return model.ArtistProfile{}, model.ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.ArtistProfile{}, fmt.Errorf("hash password: %w", err)
	}

	artist := model.Artist{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.artists.Create(ctx, artist); err != nil {
		return model.ArtistProfile{}, err
	}

	return artist.Profile(), nil
}

// Login exchanges a username and password for a signed bearer token.
// Unknown usernames and wrong passwords are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.TokenResponse, error) {
	artist, err := s.artists.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, model.ErrArtistNotFound) {
		return model.TokenResponse{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(artist.PasswordHash), []byte(password)); err != nil {
		return model.TokenResponse{}, model.ErrInvalidCredentials
	}

	token, err := s.IssueToken(artist)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		UserID:      artist.ID,
		Username:    artist.Username,
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}

// IssueToken signs an HS256 token binding the artist's username with an
// absolute expiry. Tokens carry no server-side state: validity is purely
// a function of the token bytes, the clock, and the secret.
func (s *AuthService) IssueToken(artist model.Artist) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": artist.Username,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a bearer token. Expired tokens are
// reported as ErrTokenExpired, every other failure (bad signature,
// garbage payload, missing subject) as ErrTokenMalformed.
func (s *AuthService) ValidateToken(tokenString string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", model.ErrTokenMalformed, err)
	}
	if !parsed.Valid {
		return nil, model.ErrTokenMalformed
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrTokenMalformed
	}

	claims := &model.AuthClaims{}
	claims.Username, _ = claimsMap["sub"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.Username == "" {
		return nil, fmt.Errorf("%w: missing subject", model.ErrTokenMalformed)
	}

	return claims, nil
}

// Authenticate resolves a bearer token to the artist it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (model.Artist, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return model.Artist{}, err
	}

	artist, err := s.artists.FindByUsername(ctx, claims.Username)
	if errors.Is(err, model.ErrArtistNotFound) {
		// Token outlived its subject, e.g. the account was renamed or
		// deleted after issuance.
		return model.Artist{}, fmt.Errorf("%w: unknown subject", model.ErrTokenMalformed)
	}
	if err != nil {
		return model.Artist{}, err
	}

	return artist, nil
}
