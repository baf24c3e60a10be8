package graph

import (
	"context"
	"log/slog"

	"shop/internal/core/domain/model/fetch"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/order"
	"shop/internal/core/ports"
	"shop/internal/pkg/errs"
)

// Reader resolves the order graph from a store.
//
// Example:
//
//	reader := graph.NewReader(store, logger)
//	raw, err := reader.Fetch(ctx, fetch.OrderSearch{}, fetch.ProjectionBatched, &page)
//	if err != nil {
//	    return err
//	}
//	dtos, err := projection.NewProjector().Project(ctx, raw)
type Reader struct {
	store  ports.OrderGraphStore
	logger *slog.Logger
}

// NewReader creates a reader over store.
func NewReader(store ports.OrderGraphStore, logger *slog.Logger) *Reader {
	return &Reader{
		store:  store,
		logger: logger.With("component", "graph_reader"),
	}
}

// Fetch reads the roots matching search, with their member, delivery and
// order lines, using strategy. page is optional; it is refused for
// strategies that multiply rows before any query is sent.
func (r *Reader) Fetch(
	ctx context.Context,
	search fetch.OrderSearch,
	strategy fetch.Strategy,
	page *fetch.Page,
) (RawResult, error) {
	if err := strategy.Validate(); err != nil {
		return nil, err
	}
	if page != nil && !strategy.Paginable() {
		return nil, errs.NewPaginationIncompatibleError(strategy.Version())
	}

	var (
		raw RawResult
		err error
	)
	switch strategy {
	case fetch.NaiveEntity:
		raw, err = r.naiveEntity(ctx, search, page, true)
	case fetch.DTOPostMap:
		raw, err = r.lazyEntity(ctx, search, page, true)
	case fetch.FetchJoin:
		raw, err = r.fetchJoin(ctx, search)
	case fetch.SplitBatched:
		raw, err = r.splitBatched(ctx, search, page)
	case fetch.ProjectionLoop:
		raw, err = r.projectionLoop(ctx, search, page)
	case fetch.ProjectionBatched:
		raw, err = r.projectionBatched(ctx, search, page)
	case fetch.FlatProjection:
		raw, err = r.flatProjection(ctx, search)
	case fetch.Unknown:
		return nil, strategy.Validate()
	}
	if err != nil {
		return nil, err
	}

	r.logger.DebugContext(ctx, "order graph fetched", "strategy", strategy.Version())
	return raw, nil
}

// FetchSimple reads the roots matching search with their member and
// delivery only.
func (r *Reader) FetchSimple(
	ctx context.Context,
	search fetch.OrderSearch,
	strategy fetch.SimpleStrategy,
	page *fetch.Page,
) (RawResult, error) {
	switch strategy {
	case fetch.SimpleNaiveEntity:
		return r.naiveEntity(ctx, search, page, false)
	case fetch.SimpleDTOPostMap:
		return r.lazyEntity(ctx, search, page, false)
	case fetch.SimpleFetchJoin:
		return r.toOneFetchJoin(ctx, search, page)
	case fetch.SimpleProjection:
		rows, err := r.projectRoots(ctx, search, page)
		if err != nil {
			return nil, err
		}
		return SimpleRows{Orders: rows}, nil
	case fetch.SimpleUnknown:
	}
	return nil, strategy.Validate()
}

// naiveEntity selects the roots, then touches every association of every
// root: 1 + N * (2 + 1 + lines) round trips.
func (r *Reader) naiveEntity(ctx context.Context, search fetch.OrderSearch, page *fetch.Page, withItems bool) (RawResult, error) {
	orders, err := r.findRoots(ctx, search, page)
	if err != nil {
		return nil, err
	}

	resolver := entityResolver{store: r.store, withItems: withItems}
	for _, o := range orders {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if err = resolver.Resolve(ctx, o); err != nil {
			return nil, err
		}
	}

	return EntityGraph{Orders: orders}, nil
}

// lazyEntity selects the roots and leaves resolution to the projector, one
// root at a time. Same round trips as naiveEntity.
func (r *Reader) lazyEntity(ctx context.Context, search fetch.OrderSearch, page *fetch.Page, withItems bool) (RawResult, error) {
	orders, err := r.findRoots(ctx, search, page)
	if err != nil {
		return nil, err
	}

	return LazyEntityGraph{
		Orders:   orders,
		Resolver: entityResolver{store: r.store, withItems: withItems},
	}, nil
}

// fetchJoin joins the whole graph in one query. Roots repeat once per line.
func (r *Reader) fetchJoin(ctx context.Context, search fetch.OrderSearch) (RawResult, error) {
	q, err := ports.NewQueryDescriptor(ports.RootOrder,
		ports.WithSearch(search),
		ports.WithFetchJoin(ports.AssocMember),
		ports.WithFetchJoin(ports.AssocDelivery),
		ports.WithFetchJoin(ports.AssocOrderItems),
		ports.WithFetchJoin(ports.AssocOrderItemsItem),
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.store.FindOrders(ctx, q)
	if err != nil {
		return nil, err
	}

	return EntityRows{Orders: rows}, nil
}

// toOneFetchJoin fetch-joins member and delivery. No row multiplication, so
// the page applies to roots.
func (r *Reader) toOneFetchJoin(ctx context.Context, search fetch.OrderSearch, page *fetch.Page) (RawResult, error) {
	orders, err := r.findRootsWithToOne(ctx, search, page)
	if err != nil {
		return nil, err
	}
	return EntityGraph{Orders: orders}, nil
}

// splitBatched fetch-joins the to-one associations, then loads the lines of
// every root on the page with one grouped lookup: 2 round trips per page.
func (r *Reader) splitBatched(ctx context.Context, search fetch.OrderSearch, page *fetch.Page) (RawResult, error) {
	orders, err := r.findRootsWithToOne(ctx, search, page)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return EntityGraph{Orders: orders}, nil
	}

	pending := make([]int64, 0, len(orders))
	for _, o := range orders {
		pending = append(pending, o.ID())
	}

	q, err := ports.NewQueryDescriptor(ports.RootOrderItem,
		ports.WithOwnerIDs(pending...),
		ports.WithFetchJoin(ports.AssocItem),
	)
	if err != nil {
		return nil, err
	}

	lines, err := r.store.FindOrderItems(ctx, q)
	if err != nil {
		return nil, err
	}

	byOwner := IndexByOwner(lines, (*order.OrderItem).OrderID)
	for _, o := range orders {
		if err = o.ResolveOrderItems(byOwner[o.ID()]); err != nil {
			return nil, err
		}
	}

	return EntityGraph{Orders: orders}, nil
}

// projectionLoop projects the roots, then the lines of each root: 1 + N.
func (r *Reader) projectionLoop(ctx context.Context, search fetch.OrderSearch, page *fetch.Page) (RawResult, error) {
	rows, err := r.projectRoots(ctx, search, page)
	if err != nil {
		return nil, err
	}

	out := make([]ProjectedOrder, 0, len(rows))
	for _, row := range rows {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		items, itemsErr := r.projectLines(ctx, row.OrderID)
		if itemsErr != nil {
			return nil, itemsErr
		}
		out = append(out, ProjectedOrder{Order: row, Items: items})
	}

	return ProjectedGraph{Orders: out}, nil
}

// projectionBatched projects the roots, then the lines of all of them in one
// query grouped by owner: 1 + 1.
func (r *Reader) projectionBatched(ctx context.Context, search fetch.OrderSearch, page *fetch.Page) (RawResult, error) {
	rows, err := r.projectRoots(ctx, search, page)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return ProjectedGraph{Orders: []ProjectedOrder{}}, nil
	}

	pending := make([]int64, 0, len(rows))
	for _, row := range rows {
		pending = append(pending, row.OrderID)
	}

	items, err := r.projectLines(ctx, pending...)
	if err != nil {
		return nil, err
	}

	byOwner := IndexByOwner(items, func(it ports.OrderItemRow) int64 { return it.OrderID })
	out := make([]ProjectedOrder, 0, len(rows))
	for _, row := range rows {
		out = append(out, ProjectedOrder{Order: row, Items: byOwner[row.OrderID]})
	}

	return ProjectedGraph{Orders: out}, nil
}

// flatProjection projects the whole graph as one flat table.
func (r *Reader) flatProjection(ctx context.Context, search fetch.OrderSearch) (RawResult, error) {
	q, err := ports.NewQueryDescriptor(ports.RootOrder,
		ports.WithSearch(search),
		ports.WithJoin(ports.AssocMember, false),
		ports.WithJoin(ports.AssocDelivery, false),
		ports.WithJoin(ports.AssocOrderItems, false),
		ports.WithJoin(ports.AssocOrderItemsItem, false),
		ports.WithProjection(ports.ProjectOrderFlatRows),
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.store.ProjectOrderFlat(ctx, q)
	if err != nil {
		return nil, err
	}

	return FlatRows{Rows: rows}, nil
}

func (r *Reader) findRoots(ctx context.Context, search fetch.OrderSearch, page *fetch.Page) ([]*order.Order, error) {
	q, err := ports.NewQueryDescriptor(ports.RootOrder, rootOptions(search, page)...)
	if err != nil {
		return nil, err
	}
	return r.store.FindOrders(ctx, q)
}

func (r *Reader) findRootsWithToOne(ctx context.Context, search fetch.OrderSearch, page *fetch.Page) ([]*order.Order, error) {
	opts := append(rootOptions(search, page),
		ports.WithFetchJoin(ports.AssocMember),
		ports.WithFetchJoin(ports.AssocDelivery),
	)
	q, err := ports.NewQueryDescriptor(ports.RootOrder, opts...)
	if err != nil {
		return nil, err
	}
	return r.store.FindOrders(ctx, q)
}

func (r *Reader) projectRoots(ctx context.Context, search fetch.OrderSearch, page *fetch.Page) ([]ports.OrderRow, error) {
	opts := append(rootOptions(search, page),
		ports.WithJoin(ports.AssocMember, false),
		ports.WithJoin(ports.AssocDelivery, false),
		ports.WithProjection(ports.ProjectOrderRows),
	)
	q, err := ports.NewQueryDescriptor(ports.RootOrder, opts...)
	if err != nil {
		return nil, err
	}
	return r.store.ProjectOrders(ctx, q)
}

func (r *Reader) projectLines(ctx context.Context, orderIDs ...int64) ([]ports.OrderItemRow, error) {
	q, err := ports.NewQueryDescriptor(ports.RootOrderItem,
		ports.WithOwnerIDs(orderIDs...),
		ports.WithJoin(ports.AssocItem, false),
		ports.WithProjection(ports.ProjectOrderItemRows),
	)
	if err != nil {
		return nil, err
	}
	return r.store.ProjectOrderItems(ctx, q)
}

func rootOptions(search fetch.OrderSearch, page *fetch.Page) []ports.Option {
	opts := []ports.Option{ports.WithSearch(search)}
	if page != nil {
		opts = append(opts, ports.WithPage(*page))
	}
	return opts
}

// entityResolver loads the associations of one root with one query per
// association, and one per line for its item.
type entityResolver struct {
	store     ports.OrderGraphStore
	withItems bool
}

func (e entityResolver) Resolve(ctx context.Context, o *order.Order) error {
	memberID := o.MemberRef().ID()
	members, err := e.store.FindMembers(ctx, ports.MustQueryDescriptor(ports.RootMember, ports.WithIDs(memberID)))
	if err != nil {
		return err
	}
	m, err := single(members, "member", memberID)
	if err != nil {
		return err
	}
	if err = o.ResolveMember(m); err != nil {
		return err
	}

	deliveryID := o.DeliveryRef().ID()
	deliveries, err := e.store.FindDeliveries(ctx, ports.MustQueryDescriptor(ports.RootDelivery, ports.WithIDs(deliveryID)))
	if err != nil {
		return err
	}
	d, err := single(deliveries, "delivery", deliveryID)
	if err != nil {
		return err
	}
	if err = o.ResolveDelivery(d); err != nil {
		return err
	}

	if !e.withItems {
		return nil
	}

	lines, err := e.store.FindOrderItems(ctx, ports.MustQueryDescriptor(ports.RootOrderItem, ports.WithOwnerIDs(o.ID())))
	if err != nil {
		return err
	}
	for _, line := range lines {
		itemID := line.ItemRef().ID()
		items, findErr := e.store.FindItems(ctx, ports.MustQueryDescriptor(ports.RootItem, ports.WithIDs(itemID)))
		if findErr != nil {
			return findErr
		}
		it, findErr := single(items, "item", itemID)
		if findErr != nil {
			return findErr
		}
		if err = line.ResolveItem(it); err != nil {
			return err
		}
	}

	return o.ResolveOrderItems(lines)
}

func single[T kernel.Entity](rows []T, association string, id int64) (T, error) {
	for _, row := range rows {
		if row.ID() == id {
			return row, nil
		}
	}
	var zero T
	return zero, errs.NewObjectNotFoundError(association, id)
}
