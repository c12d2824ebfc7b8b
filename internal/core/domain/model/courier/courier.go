package courier

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrUserIDIsRequired is returned when a courier has no backing user account.
	ErrUserIDIsRequired = errs.NewValueIsRequiredError("userId")
	// ErrVehicleIsRequired is returned when a courier registers without a vehicle descriptor.
	ErrVehicleIsRequired = errs.NewValueIsRequiredError("vehicle")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
	// ErrCourierIsNotAvailable is returned when a busy courier is offered a delivery.
	ErrCourierIsNotAvailable = errs.NewValueIsInvalidErrorWithCause(
		"courier", errors.New("courier is not available"))
)

// Courier is the delivery personnel profile. It is the source of courier
// identity for assignment and of the live position consumed by tracking.
//
// Business rules:
//   - only approved couriers may take deliveries or report positions
//   - a courier carries at most one delivery at a time
//   - each position report overwrites the previous one; no trail is kept
type Courier struct {
	id             kernel.UUID
	userID         string
	vehicle        string
	approvalStatus ApprovalStatus
	available      bool
	location       *kernel.Location
	locatedAt      *time.Time
	rating         float64
	deliveryCount  int
	createdAt      time.Time
	guard          guard.ConstructorGuard
}

// NewCourier registers a courier awaiting administrative review.
func NewCourier(id kernel.UUID, userID, vehicle string, now time.Time) (*Courier, error) {
	c := &Courier{
		approvalStatus: ApprovalPending,
		available:      true,
		createdAt:      now,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setUserID(userID),
		c.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreParams groups the persisted state of a courier.
type RestoreParams struct {
	ID             kernel.UUID
	UserID         string
	Vehicle        string
	ApprovalStatus ApprovalStatus
	Available      bool
	Location       *kernel.Location
	LocatedAt      *time.Time
	Rating         float64
	DeliveryCount  int
	CreatedAt      time.Time
}

// RestoreCourier rebuilds a courier from persistence.
func RestoreCourier(p RestoreParams) (*Courier, error) {
	c := &Courier{
		available:     p.Available,
		locatedAt:     p.LocatedAt,
		rating:        p.Rating,
		deliveryCount: p.DeliveryCount,
		createdAt:     p.CreatedAt,
		guard:         guard.NewConstructorGuard(),
	}

	_, statusErr := ParseApprovalStatus(string(p.ApprovalStatus))
	if err := errors.Join(
		c.setID(p.ID),
		c.setUserID(p.UserID),
		c.setVehicle(p.Vehicle),
		statusErr,
	); err != nil {
		return nil, err
	}
	if p.Location != nil {
		if err := p.Location.Validate(); err != nil {
			return nil, err
		}
		loc := *p.Location
		c.location = &loc
	}
	if p.DeliveryCount < 0 {
		return nil, errs.NewValueIsOutOfRangeError("deliveryCount", p.DeliveryCount, 0, "unbounded")
	}
	c.approvalStatus = p.ApprovalStatus

	return c, nil
}

// IsEqual compares couriers by identifier.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

// Validate ensures the courier was created through a constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) UserID() string {
	return c.userID
}

func (c *Courier) Vehicle() string {
	return c.vehicle
}

func (c *Courier) ApprovalStatus() ApprovalStatus {
	return c.approvalStatus
}

func (c *Courier) IsApproved() bool {
	return c.approvalStatus == ApprovalApproved
}

func (c *Courier) IsAvailable() bool {
	return c.available
}

// Location returns the last reported position and whether one exists.
func (c *Courier) Location() (kernel.Location, bool) {
	if c.location == nil {
		return kernel.Location{}, false
	}
	return *c.location, true
}

// LocatedAt is the time of the last position report, nil before the first one.
func (c *Courier) LocatedAt() *time.Time {
	return c.locatedAt
}

func (c *Courier) Rating() float64 {
	return c.rating
}

func (c *Courier) DeliveryCount() int {
	return c.deliveryCount
}

func (c *Courier) CreatedAt() time.Time {
	return c.createdAt
}

// Approve accepts a pending registration.
func (c *Courier) Approve() error {
	return c.review(ApprovalApproved)
}

// Reject declines a pending registration.
func (c *Courier) Reject() error {
	return c.review(ApprovalRejected)
}

// ReportLocation overwrites the current position.
func (c *Courier) ReportLocation(location kernel.Location, at time.Time) error {
	if err := location.Validate(); err != nil {
		return err
	}
	if !c.IsApproved() {
		return errs.NewForbiddenError(c.id.String(), "report location before approval")
	}

	c.location = &location
	c.locatedAt = &at
	return nil
}

// CanTakeDelivery reports why the courier cannot be bound to a delivery, or nil.
func (c *Courier) CanTakeDelivery() error {
	if !c.IsApproved() {
		return errs.NewValueIsInvalidErrorWithCause("courier",
			fmt.Errorf("courier %s is %s", c.id, c.approvalStatus))
	}
	if !c.available {
		return ErrCourierIsNotAvailable
	}
	return nil
}

// TakeDelivery marks the courier busy.
func (c *Courier) TakeDelivery() error {
	if err := c.CanTakeDelivery(); err != nil {
		return err
	}
	c.available = false
	return nil
}

// CompleteDelivery frees the courier and counts the finished delivery.
func (c *Courier) CompleteDelivery() {
	c.available = true
	c.deliveryCount++
}

// Release frees the courier without counting a delivery, used on
// cancellation and reassignment.
func (c *Courier) Release() {
	c.available = true
}

// DistanceTo returns the distance in kilometres from the last reported
// position to target. Couriers without a position are reported as not located.
func (c *Courier) DistanceTo(target kernel.Location) (float64, bool, error) {
	if c.location == nil {
		return 0, false, nil
	}
	d, err := c.location.Distance(target)
	if err != nil {
		return 0, false, err
	}
	return d, true, nil
}

func (c *Courier) review(to ApprovalStatus) error {
	if c.approvalStatus != ApprovalPending {
		return errs.NewInvalidTransitionError("courier", c.approvalStatus.String(), to.String())
	}
	c.approvalStatus = to
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setUserID(userID string) error {
	if userID == "" {
		return ErrUserIDIsRequired
	}
	c.userID = userID
	return nil
}

func (c *Courier) setVehicle(vehicle string) error {
	if vehicle == "" {
		return ErrVehicleIsRequired
	}
	c.vehicle = vehicle
	return nil
}
