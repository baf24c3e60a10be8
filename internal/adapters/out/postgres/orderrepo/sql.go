package orderrepo

import (
	"strings"

	"shop/internal/core/domain/model/order"
	"shop/internal/core/ports"

	"github.com/lib/pq"
)

// selectSQL assembles one SELECT. Placeholders are '?' and rewritten by GORM.
type selectSQL struct {
	columns []string
	from    string
	joins   []string
	where   []string
	args    []any
	orderBy string
	limit   []any
}

func (s *selectSQL) column(cols ...string) {
	s.columns = append(s.columns, cols...)
}

func (s *selectSQL) join(clause string) {
	s.joins = append(s.joins, clause)
}

func (s *selectSQL) filter(cond string, args ...any) {
	s.where = append(s.where, cond)
	s.args = append(s.args, args...)
}

func (s *selectSQL) String() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(s.columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(s.from)
	for _, j := range s.joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if len(s.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(s.where, " AND "))
	}
	if s.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(s.orderBy)
	}
	args := s.args
	if s.limit != nil {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(append([]any{}, args...), s.limit...)
	}
	return b.String(), args
}

const (
	orderColumns    = "o.id, o.member_id, o.delivery_id, o.order_date, o.status"
	memberColumns   = "m.name, m.city, m.street, m.zipcode"
	deliveryColumns = "d.city, d.street, d.zipcode, d.status"
	lineColumns     = "oi.id, oi.item_id, oi.order_price, oi.count"
	itemColumns     = "i.dtype, i.name, i.price, i.stock_quantity, i.author, i.isbn, i.artist, i.etc, i.director, i.actor"

	joinMember    = "JOIN members m ON m.id = o.member_id"
	joinDelivery  = "JOIN deliveries d ON d.id = o.delivery_id"
	joinLines     = "JOIN order_items oi ON oi.order_id = o.id"
	joinLineItems = "JOIN items i ON i.id = oi.item_id"
)

// orderRoot starts a select over orders o with the joins, key filter, search
// and page of q. Members are joined for a member name search even when q
// does not ask for them. Projected selects always join member and delivery,
// and the item of every joined line.
func orderRoot(q ports.QueryDescriptor, projected bool) *selectSQL {
	s := &selectSQL{from: "orders o", orderBy: "o.id"}
	search := q.Search()

	if projected || q.Joins(ports.AssocMember) || search.MemberName != "" {
		s.join(joinMember)
	}
	if projected || q.Joins(ports.AssocDelivery) {
		s.join(joinDelivery)
	}
	if q.Joins(ports.AssocOrderItems) {
		s.join(joinLines)
		s.orderBy = "o.id, oi.id"
	}
	if q.Joins(ports.AssocOrderItemsItem) || (projected && q.Joins(ports.AssocOrderItems)) {
		s.join(joinLineItems)
	}

	if ids, ok := q.IDs(); ok {
		s.filter("o.id = ANY(?)", pq.Array(ids))
	}
	if search.MemberName != "" {
		s.filter("m.name = ?", search.MemberName)
	}
	if search.Status != order.Unknown {
		s.filter("o.status = ?", int(search.Status))
	}

	if page, ok := q.Page(); ok {
		s.limit = []any{page.Limit(), page.Offset()}
	}
	return s
}

// lineRoot starts a select over order_items oi joined to items i.
func lineRoot(q ports.QueryDescriptor) *selectSQL {
	s := &selectSQL{from: "order_items oi", orderBy: "oi.order_id, oi.id"}
	s.join(joinLineItems)

	if ids, ok := q.IDs(); ok {
		s.filter("oi.id = ANY(?)", pq.Array(ids))
	}
	if owners, ok := q.OwnerIDs(); ok {
		s.filter("oi.order_id = ANY(?)", pq.Array(owners))
	}
	return s
}
