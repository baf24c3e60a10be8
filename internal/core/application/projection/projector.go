package projection

import (
	"context"
	"fmt"

	"shop/internal/core/application/graph"
	"shop/internal/core/domain/model/order"
	"shop/internal/core/ports"
	"shop/internal/pkg/errs"
)

// Projector maps raw strategy results to DTOs. It holds no state and issues
// no queries of its own, except through the resolver of a LazyEntityGraph.
type Projector struct{}

func NewProjector() Projector {
	return Projector{}
}

// Project maps raw into one OrderDTO per distinct root, in first-seen order.
func (p Projector) Project(ctx context.Context, raw graph.RawResult) ([]OrderDTO, error) {
	switch r := raw.(type) {
	case graph.EntityGraph:
		return mapOrders(r.Orders, NewOrderDTO)

	case graph.LazyEntityGraph:
		return mapLazy(ctx, r, NewOrderDTO)

	case graph.EntityRows:
		roots, err := mergeRoots(r.Orders)
		if err != nil {
			return nil, err
		}
		return mapOrders(roots, NewOrderDTO)

	case graph.ProjectedGraph:
		out := make([]OrderDTO, 0, len(r.Orders))
		for _, po := range r.Orders {
			items := make([]OrderItemDTO, 0, len(po.Items))
			for _, row := range po.Items {
				items = append(items, newOrderItemDTOFromRow(row))
			}
			out = append(out, withItems(newSimpleOrderDTOFromRow(po.Order), items))
		}
		return out, nil

	case graph.FlatRows:
		groups := graph.GroupByRoot(r.Rows, func(row ports.OrderFlatRow) int64 { return row.OrderID })
		out := make([]OrderDTO, 0, len(groups))
		for _, g := range groups {
			items := make([]OrderItemDTO, 0, len(g.Rows))
			for _, row := range g.Rows {
				items = append(items, OrderItemDTO{ItemName: row.ItemName, OrderPrice: row.OrderPrice, Count: row.Count})
			}
			out = append(out, withItems(newSimpleOrderDTOFromRow(g.Rows[0].OrderRow), items))
		}
		return out, nil
	}

	return nil, unsupported(raw)
}

// ProjectSimple maps raw into one SimpleOrderDTO per distinct root.
func (p Projector) ProjectSimple(ctx context.Context, raw graph.RawResult) ([]SimpleOrderDTO, error) {
	switch r := raw.(type) {
	case graph.EntityGraph:
		return mapOrders(r.Orders, NewSimpleOrderDTO)

	case graph.LazyEntityGraph:
		return mapLazy(ctx, r, NewSimpleOrderDTO)

	case graph.SimpleRows:
		out := make([]SimpleOrderDTO, 0, len(r.Orders))
		for _, row := range r.Orders {
			out = append(out, newSimpleOrderDTOFromRow(row))
		}
		return out, nil
	}

	return nil, unsupported(raw)
}

// mergeRoots collapses rows of a to-many fetch join into distinct roots. The
// first copy of each root keeps its identity and receives the children of the
// later copies in row order.
func mergeRoots(rows []*order.Order) ([]*order.Order, error) {
	groups := graph.GroupByRoot(rows, (*order.Order).ID)

	roots := make([]*order.Order, 0, len(groups))
	for _, g := range groups {
		root := g.Rows[0]
		for _, dup := range g.Rows[1:] {
			lines, err := dup.OrderItems()
			if err != nil {
				return nil, leaked(dup, "orderItems", "[]*order.OrderItem", err)
			}
			if err = root.AppendOrderItems(lines...); err != nil {
				return nil, err
			}
		}
		roots = append(roots, root)
	}
	return roots, nil
}

func mapOrders[T any](orders []*order.Order, mapper func(*order.Order) (T, error)) ([]T, error) {
	out := make([]T, 0, len(orders))
	for _, o := range orders {
		dto, err := mapper(o)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

func mapLazy[T any](ctx context.Context, r graph.LazyEntityGraph, mapper func(*order.Order) (T, error)) ([]T, error) {
	if r.Resolver == nil {
		return mapOrders(r.Orders, mapper)
	}

	out := make([]T, 0, len(r.Orders))
	for _, o := range r.Orders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.Resolver.Resolve(ctx, o); err != nil {
			return nil, err
		}
		dto, err := mapper(o)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

func unsupported(raw graph.RawResult) error {
	return errs.NewValueIsInvalidErrorWithCause("raw result", fmt.Errorf("%T cannot be projected to this shape", raw))
}
