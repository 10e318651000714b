package model

import "time"

// Artwork is a single gallery piece. ImageURL points at the backing file
// under the image root; the file exists for as long as the row does.
type Artwork struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	ArtistID    string     `json:"artist_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
