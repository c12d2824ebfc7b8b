package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReportLocationCommandIsNotConstructed = errors.New(
	"ReportLocationCommand must be created via NewReportLocationCommand constructor",
)

// LocationSource tags where a position sample came from. It is recorded in
// logs only; both sources are stored identically.
type LocationSource string

const (
	LocationSourceLive      LocationSource = "live"
	LocationSourceSimulated LocationSource = "simulated"
)

type ReportLocationCommand struct { //nolint:recvcheck //using for validation
	courierID *kernel.UUID
	userID    string
	location  kernel.Location
	source    LocationSource

	guard guard.ConstructorGuard
}

// NewReportLocationCommand is issued by a courier for their own profile,
// identified by the authenticated user id.
func NewReportLocationCommand(actor kernel.Actor, location kernel.Location) (ReportLocationCommand, error) {
	if actor.Role != kernel.RoleDeliveryPersonnel {
		return ReportLocationCommand{}, errs.NewForbiddenError(actor.Role.String(), "report courier location")
	}
	if actor.ID == "" {
		return ReportLocationCommand{}, errs.NewValueIsRequiredError("userId")
	}
	if err := location.Validate(); err != nil {
		return ReportLocationCommand{}, err
	}

	return ReportLocationCommand{
		userID:   actor.ID,
		location: location,
		source:   LocationSourceLive,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// NewSimulatedLocationCommand feeds a synthesized sample for a courier.
func NewSimulatedLocationCommand(courierID kernel.UUID, location kernel.Location) (ReportLocationCommand, error) {
	if err := errors.Join(courierID.Validate(), location.Validate()); err != nil {
		return ReportLocationCommand{}, err
	}

	return ReportLocationCommand{
		courierID: &courierID,
		location:  location,
		source:    LocationSourceSimulated,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReportLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportLocationCommandIsNotConstructed)
}

// CourierID is set for simulated samples, UserID for live ones.
func (c ReportLocationCommand) CourierID() *kernel.UUID {
	return c.courierID
}

func (c ReportLocationCommand) UserID() string {
	return c.userID
}

func (c ReportLocationCommand) Location() kernel.Location {
	return c.location
}

func (c ReportLocationCommand) Source() LocationSource {
	return c.source
}
