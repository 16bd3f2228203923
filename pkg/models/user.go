package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account in the skill tracking app. Accounts are created
// and authenticated by the external auth service; this engine only
// verifies tokens and owns the roadmap data keyed by user id.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
