// Package orderrepo persists the Order aggregate: the order row, its
// immutable line items and the append-only status history.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID    string          `gorm:"size:64;not null;index"`
	RestaurantID  string          `gorm:"size:64;not null;index"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric;not null"`
	Status        int             `gorm:"not null;index"`
	AddressLine   string          `gorm:"not null"`
	AddressLng    *float64
	AddressLat    *float64
	PaymentMethod string         `gorm:"size:16;not null"`
	CardReference string         `gorm:"size:255"`
	CreatedAt     time.Time      `gorm:"not null;index"`
	UpdatedAt     time.Time      `gorm:"not null"`
	Items         []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type OrderItemDTO struct {
	ID         uint      `gorm:"primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Position   int       `gorm:"not null"`
	MenuItemID string    `gorm:"size:64;not null"`
	Quantity   int       `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// StatusHistoryDTO is one applied transition. The id is the StatusChange id,
// so re-inserting the same change is ignored.
type StatusHistoryDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus int       `gorm:"not null"`
	ToStatus   int       `gorm:"not null"`
	ActorRole  string    `gorm:"size:32;not null"`
	ChangedAt  time.Time `gorm:"not null;index"`
}

func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:            o.ID().Bytes(),
		CustomerID:    o.CustomerID(),
		RestaurantID:  o.RestaurantID(),
		TotalPrice:    o.TotalPrice().Decimal(),
		Status:        int(o.Status()),
		AddressLine:   o.DeliveryAddress().Line(),
		PaymentMethod: o.PaymentMethod().String(),
		CardReference: o.CardReference(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}

	if loc, ok := o.DeliveryAddress().Location(); ok {
		lng, lat := loc.Longitude(), loc.Latitude()
		dto.AddressLng = &lng
		dto.AddressLat = &lat
	}

	for i, item := range o.Items() {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:    dto.ID,
			Position:   i,
			MenuItemID: item.MenuItemID(),
			Quantity:   item.Quantity(),
		})
	}

	return dto
}

func historyFromDomain(changes []order.StatusChange) []StatusHistoryDTO {
	rows := make([]StatusHistoryDTO, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, StatusHistoryDTO{
			ID:         c.ID.Bytes(),
			OrderID:    c.OrderID.Bytes(),
			FromStatus: int(c.From),
			ToStatus:   int(c.To),
			ActorRole:  c.ActorRole.String(),
			ChangedAt:  c.ChangedAt,
		})
	}
	return rows
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, it := range dto.Items {
		item, itemErr := order.NewItem(it.MenuItemID, it.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var location *kernel.Location
	if dto.AddressLng != nil && dto.AddressLat != nil {
		loc, locErr := kernel.NewLocation(*dto.AddressLng, *dto.AddressLat)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}
	address, err := order.NewAddress(dto.AddressLine, location)
	if err != nil {
		return nil, err
	}

	method, err := order.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.TotalPrice)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.PlaceOrderParams{
		ID:              id,
		CustomerID:      dto.CustomerID,
		RestaurantID:    dto.RestaurantID,
		Items:           items,
		TotalPrice:      total,
		DeliveryAddress: address,
		PaymentMethod:   method,
		CardReference:   dto.CardReference,
		PlacedAt:        dto.CreatedAt,
	}, order.Status(dto.Status), dto.UpdatedAt)
}
