package order

import (
	"errors"
	"fmt"
	"time"

	"shop/internal/core/domain/model/delivery"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/member"
	"shop/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via RestoreOrder constructor")
)

// Order is the root entity of the read graph.
//
// Order follows these invariants:
//   - Must have a valid identifier and a non-zero order date
//   - References exactly one member and exactly one delivery
//   - Order items all belong to this order
//
// The read side never creates or mutates orders; RestoreOrder rebuilds them
// from store rows with every association unresolved.
type Order struct {
	kernel.Identity

	orderDate time.Time
	status    Status

	member   kernel.Ref[member.Member]
	delivery kernel.Ref[delivery.Delivery]
	items    kernel.Collection[*OrderItem]

	isConstructed bool
}

// RestoreOrder rebuilds an order from persisted state.
//
// Example:
//
//	o, err := order.RestoreOrder(1, 10, 20, placedAt, order.Ordered)
//	if err != nil {
//	    return err
//	}
//	_, err = o.Member() // ReferenceIsUnresolvedError until ResolveMember is called
func RestoreOrder(id, memberID, deliveryID int64, orderDate time.Time, status Status) (*Order, error) {
	identity, idErr := kernel.NewIdentity(id)

	var memberErr, deliveryErr, dateErr error
	if memberID <= 0 {
		memberErr = errs.NewValueIsRequiredError("member id")
	}
	if deliveryID <= 0 {
		deliveryErr = errs.NewValueIsRequiredError("delivery id")
	}
	if orderDate.IsZero() {
		dateErr = errs.NewValueIsRequiredError("order date")
	}

	if err := errors.Join(idErr, memberErr, deliveryErr, dateErr, status.Validate()); err != nil {
		return nil, err
	}

	return &Order{
		Identity:      identity,
		orderDate:     orderDate,
		status:        status,
		member:        kernel.NewRef[member.Member]("member", memberID),
		delivery:      kernel.NewRef[delivery.Delivery]("delivery", deliveryID),
		items:         kernel.NewCollection[*OrderItem]("orderItems", id),
		isConstructed: true,
	}, nil
}

// Validate ensures the Order instance was properly constructed through RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// OrderDate returns when the order was placed.
func (o *Order) OrderDate() time.Time {
	return o.orderDate
}

// Status returns the order status.
func (o *Order) Status() Status {
	return o.status
}

// MemberRef returns the member association without loading it.
func (o *Order) MemberRef() kernel.Ref[member.Member] {
	return o.member
}

// DeliveryRef returns the delivery association without loading it.
func (o *Order) DeliveryRef() kernel.Ref[delivery.Delivery] {
	return o.delivery
}

// OrderItemsRef returns the order items association without loading it.
func (o *Order) OrderItemsRef() kernel.Collection[*OrderItem] {
	return o.items
}

// Member returns the ordering member, failing if it was not loaded.
func (o *Order) Member() (member.Member, error) {
	return o.member.Get()
}

// Delivery returns the delivery, failing if it was not loaded.
func (o *Order) Delivery() (delivery.Delivery, error) {
	return o.delivery.Get()
}

// OrderItems returns the order lines, failing if they were not loaded.
func (o *Order) OrderItems() ([]*OrderItem, error) {
	return o.items.All()
}

// ResolveMember attaches the loaded member.
func (o *Order) ResolveMember(m member.Member) error {
	return o.member.Resolve(m)
}

// ResolveDelivery attaches the loaded delivery.
func (o *Order) ResolveDelivery(d delivery.Delivery) error {
	return o.delivery.Resolve(d)
}

// ResolveOrderItems replaces the order lines. Every line must belong to this order.
func (o *Order) ResolveOrderItems(items []*OrderItem) error {
	if err := o.checkOwner(items); err != nil {
		return err
	}
	o.items.Resolve(items)
	return nil
}

// AppendOrderItems adds lines to the collection in the given order, as when
// rows of a to-many fetch join are merged into one root.
func (o *Order) AppendOrderItems(items ...*OrderItem) error {
	if err := o.checkOwner(items); err != nil {
		return err
	}
	o.items.Append(items...)
	return nil
}

// TotalPrice sums the lines. The order items must be loaded.
func (o *Order) TotalPrice() (int, error) {
	items, err := o.items.All()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, oi := range items {
		total += oi.TotalPrice()
	}
	return total, nil
}

func (o *Order) checkOwner(items []*OrderItem) error {
	for _, oi := range items {
		if oi.OrderID() != o.ID() {
			return errs.NewValueIsInvalidErrorWithCause(
				"order items",
				fmt.Errorf("order item %d belongs to order %d, not %d", oi.ID(), oi.OrderID(), o.ID()),
			)
		}
	}
	return nil
}
