package delivery

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")

	// ErrCourierAlreadyAssigned is returned when a courier is bound again
	// without an explicit re-assignment.
	ErrCourierAlreadyAssigned = errs.NewValueIsInvalidErrorWithCause(
		"courierId", errors.New("delivery already has a courier, use reassignment"))

	ErrCourierIsRequired = errs.NewValueIsRequiredError("courierId")
)

// Delivery is the fulfillment record bound 1:1 to an order. It references
// the order and the courier by id only.
type Delivery struct {
	id          kernel.UUID
	orderID     kernel.UUID
	customerID  string
	courierID   *kernel.UUID
	status      Status
	deliveredAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time

	// loadedStatus and loadedCourierID describe the row as it was read.
	loadedStatus    Status
	loadedCourierID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewDelivery(id, orderID kernel.UUID, customerID string, now time.Time) (*Delivery, error) {
	d := &Delivery{
		status:       Pending,
		loadedStatus: Pending,
		createdAt:    now,
		updatedAt:    now,
		guard:        guard.NewConstructorGuard(),
	}

	if err := d.setBase(id, orderID, customerID); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDelivery rebuilds a delivery from persistence and checks that the
// status agrees with the courier binding and the completion timestamp.
func RestoreDelivery(
	id, orderID kernel.UUID,
	customerID string,
	courierID *kernel.UUID,
	status Status,
	deliveredAt *time.Time,
	createdAt, updatedAt time.Time,
) (*Delivery, error) {
	d := &Delivery{
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(d.setBase(id, orderID, customerID), status.Validate()); err != nil {
		return nil, err
	}
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
		cid := *courierID
		d.courierID = &cid
	}
	if status.RequiresCourier() && d.courierID == nil {
		return nil, ErrCourierIsRequired
	}
	if (status == Delivered) != (deliveredAt != nil) {
		return nil, errs.NewValueIsInvalidError("deliveryTime")
	}
	d.status = status
	d.deliveredAt = deliveredAt
	d.loadedStatus = status
	d.loadedCourierID = d.courierID

	return d, nil
}

func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

func (d *Delivery) ID() kernel.UUID {
	return d.id
}

func (d *Delivery) OrderID() kernel.UUID {
	return d.orderID
}

func (d *Delivery) CustomerID() string {
	return d.customerID
}

// CourierID returns the bound courier, nil until assignment.
func (d *Delivery) CourierID() *kernel.UUID {
	return d.courierID
}

func (d *Delivery) Status() Status {
	return d.status
}

// DeliveredAt is set only once the delivery reaches Delivered.
func (d *Delivery) DeliveredAt() *time.Time {
	return d.deliveredAt
}

func (d *Delivery) CreatedAt() time.Time {
	return d.createdAt
}

func (d *Delivery) UpdatedAt() time.Time {
	return d.updatedAt
}

// Loaded returns the status and courier the delivery had when it was created
// or restored.
func (d *Delivery) Loaded() (Status, *kernel.UUID) {
	return d.loadedStatus, d.loadedCourierID
}

// HasLeft reports whether the courier has picked the order up.
func (d *Delivery) HasLeft() bool {
	return d.status == OutForDelivery || d.status == OnTheWay || d.status == Delivered
}

func (d *Delivery) IsOwnedBy(customerID string) bool {
	return customerID != "" && d.customerID == customerID
}

// Assign binds a courier.
//
// The first assignment moves a Pending delivery to Assigned. Binding a
// courier when one is already set requires reassign; the status is then
// kept, so a delivery en route stays en route under the new courier.
// Final deliveries cannot be assigned.
func (d *Delivery) Assign(courierID kernel.UUID, reassign bool, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if d.status.IsFinal() {
		return errs.NewInvalidTransitionError("delivery", d.status.String(), Assigned.String())
	}
	if d.courierID != nil && !reassign {
		return ErrCourierAlreadyAssigned
	}

	if d.status == Pending {
		d.status = Assigned
	}
	d.courierID = &courierID
	d.updatedAt = now
	return nil
}

// UpdateStatus moves the delivery along its edge table. Reaching Delivered
// stamps the completion time; no other status sets it.
func (d *Delivery) UpdateStatus(to Status, now time.Time) error {
	if to == Assigned {
		return errs.NewInvalidTransitionError("delivery", d.status.String(), to.String())
	}
	if err := d.status.ValidateTransition(to); err != nil {
		return err
	}
	if to.RequiresCourier() && d.courierID == nil {
		return ErrCourierIsRequired
	}

	d.status = to
	d.updatedAt = now
	if to == Delivered {
		at := now
		d.deliveredAt = &at
	}
	return nil
}

func (d *Delivery) setBase(id, orderID kernel.UUID, customerID string) error {
	var err error
	if customerID == "" {
		err = errs.NewValueIsRequiredError("customerId")
	}
	if err = errors.Join(err, id.Validate(), orderID.Validate()); err != nil {
		return err
	}
	d.id = id
	d.orderID = orderID
	d.customerID = customerID
	return nil
}
