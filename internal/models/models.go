package models

import (
	"time"

	"github.com/google/uuid"
)

// APIKey represents an API key for authentication
type APIKey struct {
	ID        uuid.UUID `json:"id"`
	KeyHash   string    `json:"-"`
	Status    string    `json:"status"` // active, disabled
	CreatedAt time.Time `json:"created_at"`
}

// PublicationRecord describes one published object in the visions bucket.
// URL is derived deterministically from the bucket and key.
type PublicationRecord struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	URL    string `json:"url"`
}

// OracleResponse is the final output contract: exactly these two fields, both
// always present. ImageURL is empty when the image could not be produced.
type OracleResponse struct {
	VisionText string `json:"vision_text"`
	ImageURL   string `json:"image_url"`
}

// Vision is a recorded oracle invocation
type Vision struct {
	ID          uuid.UUID `json:"id"`
	Query       string    `json:"query"`
	Themes      string    `json:"themes"`
	VisionText  string    `json:"vision_text"`
	ImageBucket string    `json:"-"`
	ImageKey    string    `json:"-"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateVisionRequest represents a request for a new vision
type CreateVisionRequest struct {
	Query string `json:"query"`
}
