package model

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ArtistUpdateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
