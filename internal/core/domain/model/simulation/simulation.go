package simulation

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrSimulationIsNotConstructed = errors.New("Simulation must be created via NewSimulation constructor")

// Simulation synthesizes courier positions on the straight line between the
// restaurant and the delivery address, one step per tick. Step totalSteps is
// the destination itself.
type Simulation struct {
	id         kernel.UUID
	orderID    kernel.UUID
	courierID  kernel.UUID
	from       kernel.Location
	to         kernel.Location
	step       int
	totalSteps int
	createdAt  time.Time
	updatedAt  time.Time
	guard      guard.ConstructorGuard
}

// Params groups the persisted state of a simulation.
type Params struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	CourierID  kernel.UUID
	From       kernel.Location
	To         kernel.Location
	TotalSteps int
	CreatedAt  time.Time
}

func NewSimulation(p Params) (*Simulation, error) {
	return restore(p, 0, p.CreatedAt)
}

func RestoreSimulation(p Params, step int, updatedAt time.Time) (*Simulation, error) {
	return restore(p, step, updatedAt)
}

func restore(p Params, step int, updatedAt time.Time) (*Simulation, error) {
	var err error
	if p.TotalSteps < 1 {
		err = errs.NewValueIsOutOfRangeError("totalSteps", p.TotalSteps, 1, "unbounded")
	}
	if step < 0 || step > p.TotalSteps {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("step", step, 0, p.TotalSteps))
	}
	if err = errors.Join(err,
		p.ID.Validate(), p.OrderID.Validate(), p.CourierID.Validate(),
		p.From.Validate(), p.To.Validate(),
	); err != nil {
		return nil, err
	}

	return &Simulation{
		id:         p.ID,
		orderID:    p.OrderID,
		courierID:  p.CourierID,
		from:       p.From,
		to:         p.To,
		step:       step,
		totalSteps: p.TotalSteps,
		createdAt:  p.CreatedAt,
		updatedAt:  updatedAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (s *Simulation) Validate() error {
	if s == nil {
		return ErrSimulationIsNotConstructed
	}
	return s.guard.Validate(ErrSimulationIsNotConstructed)
}

func (s *Simulation) ID() kernel.UUID {
	return s.id
}

func (s *Simulation) OrderID() kernel.UUID {
	return s.orderID
}

func (s *Simulation) CourierID() kernel.UUID {
	return s.courierID
}

func (s *Simulation) From() kernel.Location {
	return s.from
}

func (s *Simulation) To() kernel.Location {
	return s.to
}

func (s *Simulation) Step() int {
	return s.step
}

func (s *Simulation) TotalSteps() int {
	return s.totalSteps
}

func (s *Simulation) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Simulation) UpdatedAt() time.Time {
	return s.updatedAt
}

func (s *Simulation) IsFinished() bool {
	return s.step >= s.totalSteps
}

// Stop finishes the simulation where it is. The courier is not moved to the
// destination.
func (s *Simulation) Stop(now time.Time) {
	if s.IsFinished() {
		return
	}
	s.step = s.totalSteps
	s.updatedAt = now
}

// Advance moves one step forward and returns the new position.
func (s *Simulation) Advance(now time.Time) (kernel.Location, error) {
	if s.IsFinished() {
		return kernel.Location{}, errs.NewInvalidTransitionError("simulation",
			fmt.Sprintf("step %d", s.step), fmt.Sprintf("step %d", s.step+1))
	}

	point, err := s.from.Interpolate(s.to, float64(s.step+1)/float64(s.totalSteps))
	if err != nil {
		return kernel.Location{}, err
	}

	s.step++
	s.updatedAt = now
	return point, nil
}
