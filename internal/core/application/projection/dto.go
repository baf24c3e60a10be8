package projection

import (
	"fmt"
	"time"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/order"
	"shop/internal/core/ports"
	"shop/internal/pkg/errs"
)

type AddressDTO struct {
	City    string `json:"city"`
	Street  string `json:"street"`
	Zipcode string `json:"zipcode"`
}

type OrderItemDTO struct {
	ItemName   string `json:"itemName"`
	OrderPrice int    `json:"orderPrice"`
	Count      int    `json:"count"`
}

// OrderDTO is one order with its lines, as served by the orders endpoint.
type OrderDTO struct {
	OrderID     int64          `json:"orderId"`
	Name        string         `json:"name"`
	OrderDate   time.Time      `json:"orderDate"`
	OrderStatus string         `json:"orderStatus"`
	Address     AddressDTO     `json:"address"`
	OrderItems  []OrderItemDTO `json:"orderItems"`
}

// SimpleOrderDTO is one order without its lines.
type SimpleOrderDTO struct {
	OrderID     int64      `json:"orderId"`
	Name        string     `json:"name"`
	OrderDate   time.Time  `json:"orderDate"`
	OrderStatus string     `json:"orderStatus"`
	Address     AddressDTO `json:"address"`
}

func NewAddressDTO(a kernel.Address) AddressDTO {
	return AddressDTO{City: a.City(), Street: a.Street(), Zipcode: a.Zipcode()}
}

// NewSimpleOrderDTO maps an order whose member and delivery are resolved.
func NewSimpleOrderDTO(o *order.Order) (SimpleOrderDTO, error) {
	if err := o.Validate(); err != nil {
		return SimpleOrderDTO{}, err
	}

	m, err := o.Member()
	if err != nil {
		return SimpleOrderDTO{}, leaked(o, "member", "member.Member", err)
	}
	d, err := o.Delivery()
	if err != nil {
		return SimpleOrderDTO{}, leaked(o, "delivery", "delivery.Delivery", err)
	}

	return SimpleOrderDTO{
		OrderID:     o.ID(),
		Name:        m.Name(),
		OrderDate:   o.OrderDate(),
		OrderStatus: o.Status().String(),
		Address:     NewAddressDTO(d.Address()),
	}, nil
}

// NewOrderDTO maps a fully resolved order. An association the strategy did
// not load fails with EntityLeakedError: mapping it would need a query the
// plan never made.
func NewOrderDTO(o *order.Order) (OrderDTO, error) {
	head, err := NewSimpleOrderDTO(o)
	if err != nil {
		return OrderDTO{}, err
	}

	lines, err := o.OrderItems()
	if err != nil {
		return OrderDTO{}, leaked(o, "orderItems", "[]*order.OrderItem", err)
	}

	items := make([]OrderItemDTO, 0, len(lines))
	for i, line := range lines {
		it, itemErr := line.Item()
		if itemErr != nil {
			return OrderDTO{}, leaked(o, fmt.Sprintf("orderItems[%d].item", i), "item.Item", itemErr)
		}
		items = append(items, OrderItemDTO{
			ItemName:   it.Name(),
			OrderPrice: line.OrderPrice(),
			Count:      line.Count(),
		})
	}

	return withItems(head, items), nil
}

func newSimpleOrderDTOFromRow(row ports.OrderRow) SimpleOrderDTO {
	return SimpleOrderDTO{
		OrderID:     row.OrderID,
		Name:        row.Name,
		OrderDate:   row.OrderDate,
		OrderStatus: row.Status.String(),
		Address:     NewAddressDTO(row.Address),
	}
}

func newOrderItemDTOFromRow(row ports.OrderItemRow) OrderItemDTO {
	return OrderItemDTO{ItemName: row.ItemName, OrderPrice: row.OrderPrice, Count: row.Count}
}

func withItems(head SimpleOrderDTO, items []OrderItemDTO) OrderDTO {
	if items == nil {
		items = []OrderItemDTO{}
	}
	return OrderDTO{
		OrderID:     head.OrderID,
		Name:        head.Name,
		OrderDate:   head.OrderDate,
		OrderStatus: head.OrderStatus,
		Address:     head.Address,
		OrderItems:  items,
	}
}

func leaked(o *order.Order, field, typeName string, cause error) error {
	return errs.NewEntityLeakedErrorWithCause(fmt.Sprintf("order[%d].%s", o.ID(), field), typeName, cause)
}
