package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// ListCouriers handles GET /api/v1/couriers?approval=pending.
func (s *Server) ListCouriers(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	query, err := queries.NewListCouriersQuery(c.QueryParam("approval"), actor)
	if err != nil {
		return err
	}
	list, err := s.h.ListCouriers.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, couriers(list))
}

// RegisterCourier handles POST /api/v1/couriers.
func (s *Server) RegisterCourier(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	var req RegisterCourierRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRegisterCourierCommand(actor, req.Vehicle)
	if err != nil {
		return err
	}
	id, err := s.h.RegisterCourier.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, IDResponse{ID: id.String()})
}

// ReviewCourier handles POST /api/v1/couriers/:id/review.
func (s *Server) ReviewCourier(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	courierID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req ReviewCourierRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewReviewCourierCommand(courierID, *req.Approve, actor)
	if err != nil {
		return err
	}
	if err = s.h.ReviewCourier.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ReportLocation handles PUT /api/v1/couriers/me/location.
func (s *Server) ReportLocation(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	var req LocationDTO
	if err = bind(c, &req); err != nil {
		return err
	}
	loc, err := req.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewReportLocationCommand(actor, loc)
	if err != nil {
		return err
	}
	if err = s.h.ReportLocation.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
