package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	var req PlaceOrderRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	total, err := kernel.NewMoney(req.TotalPrice)
	if err != nil {
		return err
	}

	var location *kernel.Location
	if req.DeliveryAddress.Location != nil {
		loc, locErr := req.DeliveryAddress.Location.toDomain()
		if locErr != nil {
			return locErr
		}
		location = &loc
	}
	address, err := order.NewAddress(req.DeliveryAddress.Line, location)
	if err != nil {
		return err
	}

	cmd, err := commands.NewPlaceOrderCommand(actor, req.RestaurantID, req.items(), total,
		req.PaymentMethod, req.CardDetails, address)
	if err != nil {
		return err
	}

	id, err := s.h.PlaceOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, IDResponse{ID: id.String()})
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	query, err := queries.NewListOrdersQuery(actor, c.QueryParam("restaurantId"), limit)
	if err != nil {
		return err
	}

	orders, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderSummaries(orders))
}

// GetOrder handles GET /api/v1/orders/:id. Failed enrichment still answers
// 200 and lists the missing parts under "degraded".
func (s *Server) GetOrder(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderDetailQuery(id, actor)
	if err != nil {
		return err
	}

	detail, err := s.h.GetOrderDetail.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderDetail(detail))
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req StatusRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(id, status, actor)
	if err != nil {
		return err
	}
	if err = s.h.UpdateOrderStatus.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	customerID, err := customerOf(c, "cancel orders")
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelOrderCommand(id, customerID)
	if err != nil {
		return err
	}
	if err = s.h.CancelOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// TrackOrder handles GET /api/v1/orders/:id/track.
func (s *Server) TrackOrder(c echo.Context) error {
	customerID, err := customerOf(c, "track orders")
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	query, err := queries.NewTrackOrderQuery(id, customerID)
	if err != nil {
		return err
	}
	tracking, err := s.h.TrackOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderTracking(tracking))
}

// GetCourierLocation handles GET /api/v1/orders/:id/courier-location.
func (s *Server) GetCourierLocation(c echo.Context) error {
	customerID, err := customerOf(c, "follow couriers")
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	query, err := queries.NewGetCourierLocationQuery(id, customerID)
	if err != nil {
		return err
	}
	loc, err := s.h.GetCourierLocation.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, courierLocation(loc))
}

// SimulateMovement handles POST /api/v1/orders/:id/simulate.
func (s *Server) SimulateMovement(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewSimulateMovementCommand(id, actor)
	if err != nil {
		return err
	}
	simID, err := s.h.SimulateMovement.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, IDResponse{ID: simID.String()})
}
