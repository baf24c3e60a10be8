package order

import (
	"errors"
	"fmt"

	"shop/internal/core/domain/model/item"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/pkg/errs"
)

// OrderItem is one line of an order: an item, the unit price charged when the
// order was placed, and a quantity. Its lifetime is bound to its order.
type OrderItem struct {
	kernel.Identity
	orderID    int64
	item       kernel.Ref[item.Item]
	orderPrice int
	count      int
}

// RestoreOrderItem rebuilds an order line with its item unresolved.
func RestoreOrderItem(id, orderID, itemID int64, orderPrice, count int) (*OrderItem, error) {
	identity, idErr := kernel.NewIdentity(id)

	var ownerErr, itemErr, priceErr, countErr error
	if orderID <= 0 {
		ownerErr = errs.NewValueIsRequiredError("order id")
	}
	if itemID <= 0 {
		itemErr = errs.NewValueIsRequiredError("item id")
	}
	if orderPrice < 0 {
		priceErr = errs.NewValueIsInvalidErrorWithCause("order price", fmt.Errorf("%d is negative", orderPrice))
	}
	if count <= 0 {
		countErr = errs.NewValueIsInvalidErrorWithCause("count", fmt.Errorf("%d is not greater than 0", count))
	}

	if err := errors.Join(idErr, ownerErr, itemErr, priceErr, countErr); err != nil {
		return nil, err
	}

	return &OrderItem{
		Identity:   identity,
		orderID:    orderID,
		item:       kernel.NewRef[item.Item]("item", itemID),
		orderPrice: orderPrice,
		count:      count,
	}, nil
}

// OrderID returns the key of the owning order.
func (oi *OrderItem) OrderID() int64 {
	return oi.orderID
}

// ItemRef returns the item association.
func (oi *OrderItem) ItemRef() kernel.Ref[item.Item] {
	return oi.item
}

// Item returns the ordered item, failing if it was not loaded.
func (oi *OrderItem) Item() (item.Item, error) {
	return oi.item.Get()
}

// ResolveItem attaches the loaded item.
func (oi *OrderItem) ResolveItem(it item.Item) error {
	return oi.item.Resolve(it)
}

// OrderPrice returns the unit price at the time of ordering.
func (oi *OrderItem) OrderPrice() int {
	return oi.orderPrice
}

// Count returns the ordered quantity.
func (oi *OrderItem) Count() int {
	return oi.count
}

// TotalPrice returns OrderPrice times Count.
func (oi *OrderItem) TotalPrice() int {
	return oi.orderPrice * oi.count
}
