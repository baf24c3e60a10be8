package ports

import (
	"context"
	"time"

	"shop/internal/core/domain/model/delivery"
	"shop/internal/core/domain/model/item"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/member"
	"shop/internal/core/domain/model/order"
)

// OrderRow is the projection of an order with its member name and delivery
// address. No entity is reachable from it.
type OrderRow struct {
	OrderID   int64
	Name      string
	OrderDate time.Time
	Status    order.Status
	Address   kernel.Address
}

// OrderItemRow is the projection of one order line with its item name.
type OrderItemRow struct {
	OrderID     int64
	OrderItemID int64
	ItemName    string
	OrderPrice  int
	Count       int
}

// OrderFlatRow is one row of the flat join of the whole graph: the order
// columns repeat for every line of the order.
type OrderFlatRow struct {
	OrderRow
	OrderItemID int64
	ItemName    string
	OrderPrice  int
	Count       int
}

// OrderGraphStore executes QueryDescriptors against the backing store. Each
// call is exactly one round trip; a call whose descriptor MatchesNothing may
// return without one.
//
// Ordering contract: rows come back ordered by root id, and rows of a to-many
// join ordered by order item id within the root.
//
// Implementations honor ctx cancellation by aborting the query and returning
// the context error. Store failures are returned unchanged; no method retries.
type OrderGraphStore interface {
	// FindOrders returns one order per result row. Fetch-joined to-one
	// associations come back resolved; others stay unresolved. With a fetch
	// join of AssocOrderItems an order repeats once per line, each copy
	// holding that single line.
	FindOrders(ctx context.Context, q QueryDescriptor) ([]*order.Order, error)

	// FindMembers returns members by key.
	FindMembers(ctx context.Context, q QueryDescriptor) ([]member.Member, error)

	// FindDeliveries returns deliveries by key.
	FindDeliveries(ctx context.Context, q QueryDescriptor) ([]delivery.Delivery, error)

	// FindOrderItems returns order lines by key or owner key, with item
	// resolved when AssocItem is fetch-joined.
	FindOrderItems(ctx context.Context, q QueryDescriptor) ([]*order.OrderItem, error)

	// FindItems returns items by key.
	FindItems(ctx context.Context, q QueryDescriptor) ([]item.Item, error)

	// ProjectOrders runs a ProjectOrderRows query.
	ProjectOrders(ctx context.Context, q QueryDescriptor) ([]OrderRow, error)

	// ProjectOrderItems runs a ProjectOrderItemRows query.
	ProjectOrderItems(ctx context.Context, q QueryDescriptor) ([]OrderItemRow, error)

	// ProjectOrderFlat runs a ProjectOrderFlatRows query.
	ProjectOrderFlat(ctx context.Context, q QueryDescriptor) ([]OrderFlatRow, error)
}
