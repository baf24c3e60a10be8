// Package memory is an OrderGraphStore held in process memory.
//
// It follows the same cost model as the relational store: every call that
// would be a round trip counts one query in the request counter, to-many
// joins repeat the root once per line, and joins are inner joins.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"shop/internal/adapters/out/demo"
	"shop/internal/core/domain/model/delivery"
	"shop/internal/core/domain/model/item"
	"shop/internal/core/domain/model/member"
	"shop/internal/core/domain/model/order"
	"shop/internal/core/ports"
	"shop/internal/pkg/querycount"
)

var _ ports.OrderGraphStore = &Store{}

// Store keeps the graph as plain tables. Rows handed out are fresh copies,
// so callers may resolve them freely.
type Store struct {
	mu sync.RWMutex

	members    map[int64]member.Member
	deliveries map[int64]delivery.Delivery
	items      map[int64]item.Item
	orders     []*order.Order
	orderItems []*order.OrderItem
}

// NewStore creates a store holding data.
func NewStore(data demo.Data) *Store {
	s := &Store{
		members:    make(map[int64]member.Member),
		deliveries: make(map[int64]delivery.Delivery),
		items:      make(map[int64]item.Item),
	}
	s.Load(data)
	return s
}

// Load adds data to the store, replacing rows with the same key.
func (s *Store) Load(data demo.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range data.Members {
		s.members[m.ID()] = m
	}
	for _, d := range data.Deliveries {
		s.deliveries[d.ID()] = d
	}
	for _, it := range data.Items {
		s.items[it.ID()] = it
	}

	s.orders = upsert(s.orders, data.Orders)
	s.orderItems = upsert(s.orderItems, data.OrderItems)
	slices.SortFunc(s.orderItems, func(a, b *order.OrderItem) int {
		return cmp.Or(cmp.Compare(a.OrderID(), b.OrderID()), cmp.Compare(a.ID(), b.ID()))
	})
}

func (s *Store) FindOrders(ctx context.Context, q ports.QueryDescriptor) ([]*order.Order, error) {
	if err := begin(ctx, q, ports.RootOrder, ports.ProjectEntities); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []*order.Order{}, nil
	}
	querycount.Inc(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*order.Order, 0)
	for _, tpl := range s.roots(q) {
		m, hasMember := s.members[tpl.MemberRef().ID()]
		d, hasDelivery := s.deliveries[tpl.DeliveryRef().ID()]
		if (q.Joins(ports.AssocMember) && !hasMember) || (q.Joins(ports.AssocDelivery) && !hasDelivery) {
			continue
		}

		build := func() (*order.Order, error) {
			o, err := copyOrder(tpl)
			if err != nil {
				return nil, err
			}
			if q.Fetches(ports.AssocMember) {
				if err = o.ResolveMember(m); err != nil {
					return nil, err
				}
			}
			if q.Fetches(ports.AssocDelivery) {
				if err = o.ResolveDelivery(d); err != nil {
					return nil, err
				}
			}
			return o, nil
		}

		if !q.Joins(ports.AssocOrderItems) {
			o, err := build()
			if err != nil {
				return nil, err
			}
			out = append(out, o)
			continue
		}

		for _, line := range s.linesOf(tpl.ID()) {
			if _, hasItem := s.items[line.ItemRef().ID()]; q.Joins(ports.AssocOrderItemsItem) && !hasItem {
				continue
			}

			o, err := build()
			if err != nil {
				return nil, err
			}
			if q.Fetches(ports.AssocOrderItems) {
				oi, lineErr := s.copyLine(line, q.Fetches(ports.AssocOrderItemsItem))
				if lineErr != nil {
					return nil, lineErr
				}
				if err = o.AppendOrderItems(oi); err != nil {
					return nil, err
				}
			}
			out = append(out, o)
		}
	}

	return out, nil
}

func (s *Store) FindMembers(ctx context.Context, q ports.QueryDescriptor) ([]member.Member, error) {
	if err := begin(ctx, q, ports.RootMember, ports.ProjectEntities); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []member.Member{}, nil
	}
	querycount.Inc(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return byKeys(s.members, q), nil
}

func (s *Store) FindDeliveries(ctx context.Context, q ports.QueryDescriptor) ([]delivery.Delivery, error) {
	if err := begin(ctx, q, ports.RootDelivery, ports.ProjectEntities); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []delivery.Delivery{}, nil
	}
	querycount.Inc(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return byKeys(s.deliveries, q), nil
}

func (s *Store) FindItems(ctx context.Context, q ports.QueryDescriptor) ([]item.Item, error) {
	if err := begin(ctx, q, ports.RootItem, ports.ProjectEntities); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []item.Item{}, nil
	}
	querycount.Inc(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return byKeys(s.items, q), nil
}

func (s *Store) FindOrderItems(ctx context.Context, q ports.QueryDescriptor) ([]*order.OrderItem, error) {
	if err := begin(ctx, q, ports.RootOrderItem, ports.ProjectEntities); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []*order.OrderItem{}, nil
	}
	querycount.Inc(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*order.OrderItem, 0)
	for _, line := range s.lines(q) {
		if _, ok := s.items[line.ItemRef().ID()]; q.Joins(ports.AssocItem) && !ok {
			continue
		}
		oi, err := s.copyLine(line, q.Fetches(ports.AssocItem))
		if err != nil {
			return nil, err
		}
		out = append(out, oi)
	}
	return out, nil
}

func (s *Store) ProjectOrders(ctx context.Context, q ports.QueryDescriptor) ([]ports.OrderRow, error) {
	if err := begin(ctx, q, ports.RootOrder, ports.ProjectOrderRows); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []ports.OrderRow{}, nil
	}
	querycount.Inc(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.OrderRow, 0)
	for _, o := range s.roots(q) {
		row, ok := s.orderRow(o)
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *Store) ProjectOrderItems(ctx context.Context, q ports.QueryDescriptor) ([]ports.OrderItemRow, error) {
	if err := begin(ctx, q, ports.RootOrderItem, ports.ProjectOrderItemRows); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []ports.OrderItemRow{}, nil
	}
	querycount.Inc(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.OrderItemRow, 0)
	for _, line := range s.lines(q) {
		it, ok := s.items[line.ItemRef().ID()]
		if !ok {
			continue
		}
		out = append(out, ports.OrderItemRow{
			OrderID:     line.OrderID(),
			OrderItemID: line.ID(),
			ItemName:    it.Name(),
			OrderPrice:  line.OrderPrice(),
			Count:       line.Count(),
		})
	}
	return out, nil
}

func (s *Store) ProjectOrderFlat(ctx context.Context, q ports.QueryDescriptor) ([]ports.OrderFlatRow, error) {
	if err := begin(ctx, q, ports.RootOrder, ports.ProjectOrderFlatRows); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []ports.OrderFlatRow{}, nil
	}
	querycount.Inc(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.OrderFlatRow, 0)
	for _, o := range s.roots(q) {
		row, ok := s.orderRow(o)
		if !ok {
			continue
		}
		for _, line := range s.linesOf(o.ID()) {
			it, hasItem := s.items[line.ItemRef().ID()]
			if !hasItem {
				continue
			}
			out = append(out, ports.OrderFlatRow{
				OrderRow:    row,
				OrderItemID: line.ID(),
				ItemName:    it.Name(),
				OrderPrice:  line.OrderPrice(),
				Count:       line.Count(),
			})
		}
	}
	return out, nil
}

// roots returns the stored orders passing the key, search and page filters
// of q, ordered by id.
func (s *Store) roots(q ports.QueryDescriptor) []*order.Order {
	ids, hasIDs := q.IDs()
	search := q.Search()

	matched := make([]*order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if hasIDs && !slices.Contains(ids, o.ID()) {
			continue
		}
		if search.Status != order.Unknown && o.Status() != search.Status {
			continue
		}
		if search.MemberName != "" {
			m, ok := s.members[o.MemberRef().ID()]
			if !ok || m.Name() != search.MemberName {
				continue
			}
		}
		matched = append(matched, o)
	}

	page, hasPage := q.Page()
	if !hasPage {
		return matched
	}
	start := min(page.Offset(), len(matched))
	end := min(start+page.Limit(), len(matched))
	return matched[start:end]
}

func (s *Store) lines(q ports.QueryDescriptor) []*order.OrderItem {
	ids, hasIDs := q.IDs()
	owners, hasOwners := q.OwnerIDs()

	out := make([]*order.OrderItem, 0)
	for _, line := range s.orderItems {
		if hasIDs && !slices.Contains(ids, line.ID()) {
			continue
		}
		if hasOwners && !slices.Contains(owners, line.OrderID()) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func (s *Store) linesOf(orderID int64) []*order.OrderItem {
	out := make([]*order.OrderItem, 0)
	for _, line := range s.orderItems {
		if line.OrderID() == orderID {
			out = append(out, line)
		}
	}
	return out
}

func (s *Store) orderRow(o *order.Order) (ports.OrderRow, bool) {
	m, hasMember := s.members[o.MemberRef().ID()]
	d, hasDelivery := s.deliveries[o.DeliveryRef().ID()]
	if !hasMember || !hasDelivery {
		return ports.OrderRow{}, false
	}
	return ports.OrderRow{
		OrderID:   o.ID(),
		Name:      m.Name(),
		OrderDate: o.OrderDate(),
		Status:    o.Status(),
		Address:   d.Address(),
	}, true
}

func (s *Store) copyLine(line *order.OrderItem, withItem bool) (*order.OrderItem, error) {
	oi, err := order.RestoreOrderItem(line.ID(), line.OrderID(), line.ItemRef().ID(), line.OrderPrice(), line.Count())
	if err != nil {
		return nil, err
	}
	if withItem {
		if err = oi.ResolveItem(s.items[line.ItemRef().ID()]); err != nil {
			return nil, err
		}
	}
	return oi, nil
}

func copyOrder(o *order.Order) (*order.Order, error) {
	return order.RestoreOrder(o.ID(), o.MemberRef().ID(), o.DeliveryRef().ID(), o.OrderDate(), o.Status())
}

func begin(ctx context.Context, q ports.QueryDescriptor, root ports.Root, p ports.Projection) error {
	if err := q.Expect(root, p); err != nil {
		return err
	}
	return ctx.Err()
}

type keyed interface {
	ID() int64
}

func byKeys[T keyed](table map[int64]T, q ports.QueryDescriptor) []T {
	ids, hasIDs := q.IDs()

	out := make([]T, 0)
	for id, row := range table {
		if hasIDs && !slices.Contains(ids, id) {
			continue
		}
		out = append(out, row)
	}
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(a.ID(), b.ID()) })
	return out
}

func upsert[T keyed](rows, incoming []T) []T {
	for _, in := range incoming {
		i := slices.IndexFunc(rows, func(r T) bool { return r.ID() == in.ID() })
		if i >= 0 {
			rows[i] = in
			continue
		}
		rows = append(rows, in)
	}
	slices.SortFunc(rows, func(a, b T) int { return cmp.Compare(a.ID(), b.ID()) })
	return rows
}
