package model

import "time"

// Artist is the identity root: it owns the credentials used for token
// issuance and every artwork created under its account.
type Artist struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// ArtistProfile is the public view of an Artist. The password hash never
// leaves the service layer.
type ArtistProfile struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// Profile strips the credential material from an Artist.
func (a Artist) Profile() ArtistProfile {
	return ArtistProfile{
		ID:        a.ID,
		Username:  a.Username,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AuthClaims is the decoded content of a bearer token.
type AuthClaims struct {
	Username string `json:"sub"`
	TokenID  string `json:"jti"`
}
