package shortener

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a link lives when the creator gives no expiry.
const DefaultTTL = 7 * 24 * time.Hour

// Link is a short code pointing at a long URL.
//
// IsActive only ever goes from true to false. Clicks never decreases.
type Link struct {
	ID        uuid.UUID
	ShortCode string
	LongURL   string
	OwnerID   string // empty when the link has no owner
	Clicks    int64
	ExpiresAt *time.Time
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
