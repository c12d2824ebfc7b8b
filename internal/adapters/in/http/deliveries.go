package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// AssignCourier handles POST /api/v1/deliveries/:id/assign.
func (s *Server) AssignCourier(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	deliveryID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req AssignCourierRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignCourierCommand(deliveryID, courierID, actor, req.Reassign)
	if err != nil {
		return err
	}
	if err = s.h.AssignCourier.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// UpdateDeliveryStatus handles PATCH /api/v1/deliveries/:id/status.
func (s *Server) UpdateDeliveryStatus(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	deliveryID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req StatusRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	status, err := delivery.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateDeliveryStatusCommand(deliveryID, status, actor)
	if err != nil {
		return err
	}
	if err = s.h.UpdateDeliveryStatus.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// TrackDelivery handles GET /api/v1/deliveries/:id/track.
func (s *Server) TrackDelivery(c echo.Context) error {
	customerID, err := customerOf(c, "track deliveries")
	if err != nil {
		return err
	}
	deliveryID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	query, err := queries.NewTrackDeliveryQuery(deliveryID, customerID)
	if err != nil {
		return err
	}
	tracking, err := s.h.TrackDelivery.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, DeliveryTrackingResponse{
		DeliveryID:   tracking.DeliveryID.String(),
		Status:       tracking.Status,
		DeliveryTime: tracking.DeliveryTime,
	})
}
