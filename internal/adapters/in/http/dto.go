package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/shopspring/decimal"
)

type LocationDTO struct {
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
}

func (l LocationDTO) toDomain() (kernel.Location, error) {
	return kernel.NewLocation(*l.Longitude, *l.Latitude)
}

func locationDTO(loc *kernel.Location) *LocationDTO {
	if loc == nil {
		return nil
	}
	lng, lat := loc.Longitude(), loc.Latitude()
	return &LocationDTO{Longitude: &lng, Latitude: &lat}
}

type PlaceOrderItemRequest struct {
	MenuItemID string `json:"menuItemId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

type AddressRequest struct {
	Line     string       `json:"line" validate:"required"`
	Location *LocationDTO `json:"location" validate:"omitempty"`
}

type PlaceOrderRequest struct {
	RestaurantID    string                  `json:"restaurantId" validate:"required"`
	Items           []PlaceOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalPrice      decimal.Decimal         `json:"totalPrice"`
	PaymentMethod   string                  `json:"paymentMethod" validate:"required"`
	CardDetails     string                  `json:"cardDetails"`
	DeliveryAddress AddressRequest          `json:"deliveryAddress" validate:"required"`
}

func (r PlaceOrderRequest) items() []commands.PlaceOrderItem {
	out := make([]commands.PlaceOrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, commands.PlaceOrderItem{MenuItemID: it.MenuItemID, Quantity: it.Quantity})
	}
	return out
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type CreatePaymentRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
}

type AssignCourierRequest struct {
	CourierID string `json:"courierId" validate:"required,uuid"`
	Reassign  bool   `json:"reassign"`
}

type RegisterCourierRequest struct {
	Vehicle string `json:"vehicle" validate:"required,max=64"`
}

type ReviewCourierRequest struct {
	Approve *bool `json:"approve" validate:"required"`
}

type IDResponse struct {
	ID string `json:"id"`
}

type OrderSummaryResponse struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customerId"`
	RestaurantID string          `json:"restaurantId"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func orderSummaries(in []queries.OrderSummary) []OrderSummaryResponse {
	out := make([]OrderSummaryResponse, 0, len(in))
	for _, o := range in {
		out = append(out, OrderSummaryResponse{
			ID:           o.ID.String(),
			CustomerID:   o.CustomerID,
			RestaurantID: o.RestaurantID,
			TotalPrice:   o.TotalPrice,
			Status:       o.Status,
			CreatedAt:    o.CreatedAt,
		})
	}
	return out
}

type RestaurantResponse struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Location *LocationDTO `json:"location"`
}

type MenuItemResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
}

type OrderItemResponse struct {
	MenuItemID string            `json:"menuItemId"`
	Quantity   int               `json:"quantity"`
	MenuItem   *MenuItemResponse `json:"menuItem"`
}

type StatusHistoryResponse struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	ActorRole string    `json:"actorRole"`
	ChangedAt time.Time `json:"changedAt"`
}

type OrderDetailResponse struct {
	ID              string                  `json:"id"`
	CustomerID      string                  `json:"customerId"`
	RestaurantID    string                  `json:"restaurantId"`
	Restaurant      *RestaurantResponse     `json:"restaurant"`
	Items           []OrderItemResponse     `json:"items"`
	TotalPrice      decimal.Decimal         `json:"totalPrice"`
	Status          string                  `json:"status"`
	DeliveryAddress string                  `json:"deliveryAddress"`
	Location        *LocationDTO            `json:"location"`
	PaymentMethod   string                  `json:"paymentMethod"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
	History         []StatusHistoryResponse `json:"history"`
	Degraded        []string                `json:"degraded,omitempty"`
}

func restaurantResponse(r *ports.Restaurant) *RestaurantResponse {
	if r == nil {
		return nil
	}
	return &RestaurantResponse{ID: r.ID, Name: r.Name, Location: locationDTO(r.Location)}
}

func menuItemResponse(m *ports.MenuItem) *MenuItemResponse {
	if m == nil {
		return nil
	}
	return &MenuItemResponse{ID: m.ID, Name: m.Name, Price: m.Price.Decimal(), ImageURL: m.ImageURL}
}

func orderDetail(d queries.OrderDetail) OrderDetailResponse {
	resp := OrderDetailResponse{
		ID:              d.ID.String(),
		CustomerID:      d.CustomerID,
		RestaurantID:    d.RestaurantID,
		Restaurant:      restaurantResponse(d.Restaurant),
		Items:           make([]OrderItemResponse, 0, len(d.Items)),
		TotalPrice:      d.TotalPrice,
		Status:          d.Status,
		DeliveryAddress: d.AddressLine,
		Location:        locationDTO(d.Location),
		PaymentMethod:   d.PaymentMethod,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		History:         make([]StatusHistoryResponse, 0, len(d.History)),
	}
	for _, it := range d.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			MenuItemID: it.MenuItemID,
			Quantity:   it.Quantity,
			MenuItem:   menuItemResponse(it.MenuItem),
		})
	}
	for _, h := range d.History {
		resp.History = append(resp.History, StatusHistoryResponse(h))
	}
	for _, err := range d.Degraded {
		resp.Degraded = append(resp.Degraded, err.Error())
	}
	return resp
}

type OrderTrackingResponse struct {
	OrderID         string       `json:"orderId"`
	Status          string       `json:"status"`
	OrderStatus     string       `json:"orderStatus"`
	DeliveryStatus  string       `json:"deliveryStatus,omitempty"`
	CourierLocation *LocationDTO `json:"courierLocation"`
	LocatedAt       *time.Time   `json:"locatedAt"`
	DeliveryTime    *time.Time   `json:"deliveryTime"`
}

func orderTracking(t queries.OrderTracking) OrderTrackingResponse {
	return OrderTrackingResponse{
		OrderID:         t.OrderID.String(),
		Status:          t.Status,
		OrderStatus:     t.OrderStatus,
		DeliveryStatus:  t.DeliveryStatus,
		CourierLocation: locationDTO(t.CourierLocation),
		LocatedAt:       t.LocatedAt,
		DeliveryTime:    t.DeliveryTime,
	}
}

type CourierLocationResponse struct {
	CourierID string      `json:"courierId"`
	Location  LocationDTO `json:"location"`
	LocatedAt time.Time   `json:"locatedAt"`
}

func courierLocation(l queries.CourierLocation) CourierLocationResponse {
	return CourierLocationResponse{
		CourierID: l.CourierID.String(),
		Location:  *locationDTO(&l.Location),
		LocatedAt: l.LocatedAt,
	}
}

type PaymentIntentResponse struct {
	PaymentID    string          `json:"paymentId"`
	ClientSecret string          `json:"clientSecret"`
	CartAmount   decimal.Decimal `json:"cartAmount"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
	Status       string          `json:"status"`
}

func paymentIntent(r commands.PaymentIntentResult) PaymentIntentResponse {
	return PaymentIntentResponse{
		PaymentID:    r.PaymentID.String(),
		ClientSecret: r.ClientSecret,
		CartAmount:   r.CartAmount.Decimal(),
		DeliveryFee:  r.DeliveryFee.Decimal(),
		Total:        r.Total.Decimal(),
		Currency:     r.Currency,
		Status:       r.Status.String(),
	}
}

type PaymentStatusResponse struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"orderId"`
	CartAmount  decimal.Decimal `json:"cartAmount"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func paymentStatus(p queries.PaymentStatus) PaymentStatusResponse {
	return PaymentStatusResponse{
		ID:          p.ID.String(),
		OrderID:     p.OrderID.String(),
		CartAmount:  p.CartAmount,
		DeliveryFee: p.DeliveryFee,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type DeliveryTrackingResponse struct {
	DeliveryID   string     `json:"deliveryId"`
	Status       string     `json:"status"`
	DeliveryTime *time.Time `json:"deliveryTime"`
}

type CourierResponse struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId"`
	Vehicle        string       `json:"vehicle"`
	ApprovalStatus string       `json:"approvalStatus"`
	Available      bool         `json:"available"`
	Location       *LocationDTO `json:"location"`
	LocatedAt      *time.Time   `json:"locatedAt"`
	Rating         float64      `json:"rating"`
	DeliveryCount  int          `json:"deliveryCount"`
}

func couriers(in []queries.CourierView) []CourierResponse {
	out := make([]CourierResponse, 0, len(in))
	for _, c := range in {
		out = append(out, CourierResponse{
			ID:             c.ID.String(),
			UserID:         c.UserID,
			Vehicle:        c.Vehicle,
			ApprovalStatus: c.ApprovalStatus,
			Available:      c.Available,
			Location:       locationDTO(c.Location),
			LocatedAt:      c.LocatedAt,
			Rating:         c.Rating,
			DeliveryCount:  c.DeliveryCount,
		})
	}
	return out
}
