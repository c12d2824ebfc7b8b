package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// StatusChange is one entry of the order audit trail. Placement is recorded
// with From set to Unknown.
type StatusChange struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	CustomerID string
	From       Status
	To         Status
	ActorRole  kernel.Role
	ChangedAt  time.Time
}

// IsPlacement reports whether the change records the creation of the order.
func (c StatusChange) IsPlacement() bool {
	return c.From == Unknown && c.To == Pending
}
