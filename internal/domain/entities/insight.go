package entities

import (
	"time"
)

// Insight is a short AI-generated advisory about current availability,
// valid until its expiry timestamp. The server returns at most one active
// insight at a time.
type Insight struct {
	Text        string    `json:"insight_text"`
	GeneratedAt time.Time `json:"generated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}
