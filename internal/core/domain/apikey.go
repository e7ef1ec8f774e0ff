package domain

import (
	"time"

	"github.com/google/uuid"
)

// APIKey identifies one issued API key. Only the SHA-256 hash of the raw
// key is retained; the raw key is shown to the caller exactly once.
type APIKey struct {
	ID        uuid.UUID `json:"key_id"`
	OwnerName string    `json:"owner_name"`
	KeyHash   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
