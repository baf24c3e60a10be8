package graph

import (
	"context"

	"shop/internal/core/domain/model/order"
	"shop/internal/core/ports"
)

// RawResult is what a strategy produced, before projection. It is one of
// EntityGraph, LazyEntityGraph, EntityRows, ProjectedGraph or FlatRows.
type RawResult interface {
	isRawResult()
}

// EntityGraph holds distinct roots whose associations are already resolved.
type EntityGraph struct {
	Orders []*order.Order
}

// RootResolver loads the associations of a single root. Calling it is an
// explicit, per-root round trip.
type RootResolver interface {
	Resolve(ctx context.Context, o *order.Order) error
}

// LazyEntityGraph holds distinct roots with unresolved associations. The
// projector resolves each root through Resolver right before mapping it.
type LazyEntityGraph struct {
	Orders   []*order.Order
	Resolver RootResolver
}

// EntityRows holds one root per row of a to-many fetch join. The same root
// id repeats once per child, each copy carrying that single child.
type EntityRows struct {
	Orders []*order.Order
}

// ProjectedOrder is a root projection with its child projections attached.
type ProjectedOrder struct {
	Order ports.OrderRow
	Items []ports.OrderItemRow
}

// ProjectedGraph holds pre-shaped rows, one per root.
type ProjectedGraph struct {
	Orders []ProjectedOrder
}

// FlatRows holds the flat join, one row per order line.
type FlatRows struct {
	Rows []ports.OrderFlatRow
}

// SimpleRows holds root projections without children.
type SimpleRows struct {
	Orders []ports.OrderRow
}

func (EntityGraph) isRawResult()     {}
func (LazyEntityGraph) isRawResult() {}
func (EntityRows) isRawResult()      {}
func (ProjectedGraph) isRawResult()  {}
func (FlatRows) isRawResult()        {}
func (SimpleRows) isRawResult()      {}
