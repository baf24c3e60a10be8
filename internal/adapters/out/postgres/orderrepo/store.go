package orderrepo

import (
	"context"
	"database/sql"
	"time"

	"shop/internal/core/domain/model/delivery"
	"shop/internal/core/domain/model/item"
	"shop/internal/core/domain/model/member"
	"shop/internal/core/domain/model/order"
	"shop/internal/core/ports"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var _ ports.OrderGraphStore = &GormOrderGraphStore{}

// GormOrderGraphStore implements OrderGraphStore over PostgreSQL.
type GormOrderGraphStore struct {
	db *gorm.DB
}

// NewGormOrderGraphStore creates a store. Round trips are counted only if db
// has the query counting plugin installed.
func NewGormOrderGraphStore(db *gorm.DB) *GormOrderGraphStore {
	return &GormOrderGraphStore{db: db}
}

// FindOrders runs one SELECT over orders with every join of q. A fetch join
// of the order lines yields one order per line.
func (r *GormOrderGraphStore) FindOrders(ctx context.Context, q ports.QueryDescriptor) ([]*order.Order, error) {
	if err := q.Expect(ports.RootOrder, ports.ProjectEntities); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []*order.Order{}, nil
	}

	s := orderRoot(q, false)
	s.column(orderColumns)
	fetchMember := q.Fetches(ports.AssocMember)
	fetchDelivery := q.Fetches(ports.AssocDelivery)
	fetchLines := q.Fetches(ports.AssocOrderItems)
	fetchItems := fetchLines && q.Fetches(ports.AssocOrderItemsItem)
	if fetchMember {
		s.column(memberColumns)
	}
	if fetchDelivery {
		s.column(deliveryColumns)
	}
	if fetchLines {
		s.column(lineColumns)
	}
	if fetchItems {
		s.column(itemColumns)
	}

	query, args := s.String()
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*order.Order, 0)
	for rows.Next() {
		var (
			o  OrderDTO
			m  MemberDTO
			d  DeliveryDTO
			oi OrderItemDTO
			it ItemDTO
		)
		targets := []any{&o.ID, &o.MemberID, &o.DeliveryID, &o.OrderDate, &o.Status}
		if fetchMember {
			targets = append(targets, &m.Name, &m.Address.City, &m.Address.Street, &m.Address.Zipcode)
		}
		if fetchDelivery {
			targets = append(targets, &d.Address.City, &d.Address.Street, &d.Address.Zipcode, &d.Status)
		}
		if fetchLines {
			targets = append(targets, &oi.ID, &oi.ItemID, &oi.OrderPrice, &oi.Count)
		}
		if fetchItems {
			targets = append(targets, itemTargets(&it)...)
		}
		if err = rows.Scan(targets...); err != nil {
			return nil, err
		}

		m.ID, d.ID, oi.OrderID, it.ID = o.MemberID, o.DeliveryID, o.ID, oi.ItemID
		result, mapErr := o.toDomain()
		if mapErr != nil {
			return nil, mapErr
		}
		if fetchMember {
			if err = resolveMember(result, m); err != nil {
				return nil, err
			}
		}
		if fetchDelivery {
			if err = resolveDelivery(result, d); err != nil {
				return nil, err
			}
		}
		if fetchLines {
			line, lineErr := lineToDomain(oi, it, fetchItems)
			if lineErr != nil {
				return nil, lineErr
			}
			if err = result.AppendOrderItems(line); err != nil {
				return nil, err
			}
		}
		orders = append(orders, result)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderGraphStore) FindMembers(ctx context.Context, q ports.QueryDescriptor) ([]member.Member, error) {
	if err := q.Expect(ports.RootMember, ports.ProjectEntities); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []member.Member{}, nil
	}

	var dtos []MemberDTO
	if err := byKeys(r.db.WithContext(ctx), q).Find(&dtos).Error; err != nil {
		return nil, err
	}
	return mapAll(dtos, MemberDTO.toDomain)
}

func (r *GormOrderGraphStore) FindDeliveries(ctx context.Context, q ports.QueryDescriptor) ([]delivery.Delivery, error) {
	if err := q.Expect(ports.RootDelivery, ports.ProjectEntities); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []delivery.Delivery{}, nil
	}

	var dtos []DeliveryDTO
	if err := byKeys(r.db.WithContext(ctx), q).Find(&dtos).Error; err != nil {
		return nil, err
	}
	return mapAll(dtos, DeliveryDTO.toDomain)
}

func (r *GormOrderGraphStore) FindItems(ctx context.Context, q ports.QueryDescriptor) ([]item.Item, error) {
	if err := q.Expect(ports.RootItem, ports.ProjectEntities); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []item.Item{}, nil
	}

	var dtos []ItemDTO
	if err := byKeys(r.db.WithContext(ctx), q).Find(&dtos).Error; err != nil {
		return nil, err
	}
	return mapAll(dtos, ItemDTO.toDomain)
}

// FindOrderItems loads lines by key or owner. A fetch join of the item is an
// inner join in the same statement.
func (r *GormOrderGraphStore) FindOrderItems(ctx context.Context, q ports.QueryDescriptor) ([]*order.OrderItem, error) {
	if err := q.Expect(ports.RootOrderItem, ports.ProjectEntities); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []*order.OrderItem{}, nil
	}

	tx := r.db.WithContext(ctx).Model(&OrderItemDTO{})
	if q.Joins(ports.AssocItem) {
		tx = tx.InnerJoins("Item")
	}
	if ids, ok := q.IDs(); ok {
		tx = tx.Where("order_items.id = ANY(?)", pq.Array(ids))
	}
	if owners, ok := q.OwnerIDs(); ok {
		tx = tx.Where("order_items.order_id = ANY(?)", pq.Array(owners))
	}

	var dtos []OrderItemDTO
	if err := tx.Order("order_items.order_id, order_items.id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	withItem := q.Fetches(ports.AssocItem)
	lines := make([]*order.OrderItem, 0, len(dtos))
	for _, dto := range dtos {
		line, err := lineToDomain(dto, dto.Item, withItem)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// ProjectOrders selects the order row shape straight from the joined tables.
func (r *GormOrderGraphStore) ProjectOrders(ctx context.Context, q ports.QueryDescriptor) ([]ports.OrderRow, error) {
	if err := q.Expect(ports.RootOrder, ports.ProjectOrderRows); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []ports.OrderRow{}, nil
	}

	s := orderRoot(q, true)
	s.column("o.id", "m.name", "o.order_date", "o.status", "d.city", "d.street", "d.zipcode")

	query, args := s.String()
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ports.OrderRow, 0)
	for rows.Next() {
		var head orderRowScan
		if err = rows.Scan(head.targets()...); err != nil {
			return nil, err
		}
		row, mapErr := head.toRow()
		if mapErr != nil {
			return nil, mapErr
		}
		out = append(out, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ProjectOrderItems selects the line row shape for the keys or owners of q.
func (r *GormOrderGraphStore) ProjectOrderItems(ctx context.Context, q ports.QueryDescriptor) ([]ports.OrderItemRow, error) {
	if err := q.Expect(ports.RootOrderItem, ports.ProjectOrderItemRows); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []ports.OrderItemRow{}, nil
	}

	s := lineRoot(q)
	s.column("oi.order_id", "oi.id", "i.name", "oi.order_price", "oi.count")

	query, args := s.String()
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ports.OrderItemRow, 0)
	for rows.Next() {
		var row ports.OrderItemRow
		if err = rows.Scan(&row.OrderID, &row.OrderItemID, &row.ItemName, &row.OrderPrice, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ProjectOrderFlat selects one row per order line with the order columns
// repeated.
func (r *GormOrderGraphStore) ProjectOrderFlat(ctx context.Context, q ports.QueryDescriptor) ([]ports.OrderFlatRow, error) {
	if err := q.Expect(ports.RootOrder, ports.ProjectOrderFlatRows); err != nil {
		return nil, err
	}
	if q.MatchesNothing() {
		return []ports.OrderFlatRow{}, nil
	}

	s := orderRoot(q, true)
	s.column("o.id", "m.name", "o.order_date", "o.status", "d.city", "d.street", "d.zipcode",
		"oi.id", "i.name", "oi.order_price", "oi.count")

	query, args := s.String()
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ports.OrderFlatRow, 0)
	for rows.Next() {
		var (
			head orderRowScan
			flat ports.OrderFlatRow
		)
		targets := append(head.targets(), &flat.OrderItemID, &flat.ItemName, &flat.OrderPrice, &flat.Count)
		if err = rows.Scan(targets...); err != nil {
			return nil, err
		}
		row, mapErr := head.toRow()
		if mapErr != nil {
			return nil, mapErr
		}
		flat.OrderRow = row
		out = append(out, flat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// orderRowScan receives the order row columns.
type orderRowScan struct {
	id        int64
	name      string
	orderDate time.Time
	status    int
	address   AddressDTO
}

func (s *orderRowScan) targets() []any {
	return []any{&s.id, &s.name, &s.orderDate, &s.status, &s.address.City, &s.address.Street, &s.address.Zipcode}
}

func (s *orderRowScan) toRow() (ports.OrderRow, error) {
	address, err := s.address.toDomain()
	if err != nil {
		return ports.OrderRow{}, err
	}
	return ports.OrderRow{
		OrderID:   s.id,
		Name:      s.name,
		OrderDate: s.orderDate,
		Status:    order.Status(s.status),
		Address:   address,
	}, nil
}

func itemTargets(it *ItemDTO) []any {
	return []any{
		&it.DType, &it.Name, &it.Price, &it.StockQuantity,
		nullable(&it.Author), nullable(&it.ISBN), nullable(&it.Artist),
		nullable(&it.Etc), nullable(&it.Director), nullable(&it.Actor),
	}
}

func lineToDomain(dto OrderItemDTO, it ItemDTO, withItem bool) (*order.OrderItem, error) {
	line, err := dto.toDomain()
	if err != nil {
		return nil, err
	}
	if !withItem {
		return line, nil
	}
	resolved, err := it.toDomain()
	if err != nil {
		return nil, err
	}
	if err = line.ResolveItem(resolved); err != nil {
		return nil, err
	}
	return line, nil
}

func resolveMember(o *order.Order, dto MemberDTO) error {
	m, err := dto.toDomain()
	if err != nil {
		return err
	}
	return o.ResolveMember(m)
}

func resolveDelivery(o *order.Order, dto DeliveryDTO) error {
	d, err := dto.toDomain()
	if err != nil {
		return err
	}
	return o.ResolveDelivery(d)
}

func byKeys(tx *gorm.DB, q ports.QueryDescriptor) *gorm.DB {
	if ids, ok := q.IDs(); ok {
		tx = tx.Where("id = ANY(?)", pq.Array(ids))
	}
	return tx.Order("id")
}

func mapAll[D any, T any](dtos []D, toDomain func(D) (T, error)) ([]T, error) {
	out := make([]T, 0, len(dtos))
	for _, dto := range dtos {
		v, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// nullableString scans NULL as the empty string.
type nullableString struct {
	dst *string
}

func nullable(dst *string) *nullableString {
	return &nullableString{dst: dst}
}

func (n *nullableString) Scan(src any) error {
	var ns sql.NullString
	if err := ns.Scan(src); err != nil {
		return err
	}
	*n.dst = ns.String
	return nil
}
