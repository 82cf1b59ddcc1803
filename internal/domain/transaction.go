package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction records one checkout/return pair for a container. A row is
// opened when a checkout commits (ReturnAt nil) and closed exactly once when
// the matching return commits. Closed transactions are immutable.
type Transaction struct {
	ID           uuid.UUID  `json:"id"`
	ContainerID  string     `json:"container_id"`
	UserNetID    string     `json:"user_net_id"`
	CheckoutAt   time.Time  `json:"checkout_at"`
	ReturnAt     *time.Time `json:"return_at,omitempty"`
	LocationCode string     `json:"location_code"`
	WasLate      bool       `json:"was_late"`
	LateFeeCents *int32     `json:"late_fee_cents,omitempty"`
	CreatedOn    time.Time  `json:"created_on"`
}

// Open reports whether the transaction is still awaiting its return.
func (t *Transaction) Open() bool {
	return t.ReturnAt == nil
}
