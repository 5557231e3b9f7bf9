package account

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered username. The password is kept as given: accounts
// only scope links to a user, they do not protect anything.
type Account struct {
	ID        uuid.UUID
	Username  string
	Password  string
	CreatedAt time.Time
}
