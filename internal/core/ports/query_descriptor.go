// Package ports defines the contract between the read core and the store
// that executes its queries. The core describes a query with a
// QueryDescriptor; the store decides how to run it.
package ports

import (
	"errors"
	"fmt"
	"slices"

	"shop/internal/core/domain/model/fetch"
	"shop/internal/pkg/errs"
	"shop/internal/pkg/guard"
)

var ErrQueryDescriptorIsNotConstructed = errors.New(
	"QueryDescriptor must be created via NewQueryDescriptor constructor",
)

// Root is the entity whose identity defines one logical result row.
type Root string

const (
	RootOrder     Root = "order"
	RootMember    Root = "member"
	RootDelivery  Root = "delivery"
	RootOrderItem Root = "orderItem"
	RootItem      Root = "item"
)

// Association names a relationship reachable from a root.
type Association string

const (
	// From RootOrder.
	AssocMember         Association = "member"
	AssocDelivery       Association = "delivery"
	AssocOrderItems     Association = "orderItems"
	AssocOrderItemsItem Association = "orderItems.item"

	// From RootOrderItem.
	AssocItem Association = "item"
)

// Cardinality tells whether a join can multiply root rows.
type Cardinality int

const (
	ToOne Cardinality = iota + 1
	ToMany
)

func (c Cardinality) String() string {
	if c == ToMany {
		return "to-many"
	}
	return "to-one"
}

type associationSpec struct {
	cardinality Cardinality
	parent      Association
}

func getAssociations() map[Root]map[Association]associationSpec {
	return map[Root]map[Association]associationSpec{
		RootOrder: {
			AssocMember:         {cardinality: ToOne},
			AssocDelivery:       {cardinality: ToOne},
			AssocOrderItems:     {cardinality: ToMany},
			AssocOrderItemsItem: {cardinality: ToOne, parent: AssocOrderItems},
		},
		RootOrderItem: {
			AssocItem: {cardinality: ToOne},
		},
	}
}

// Projection selects the row shape a query produces.
type Projection int

const (
	// ProjectEntities returns entity graph nodes.
	ProjectEntities Projection = iota
	// ProjectOrderRows maps order, member name and delivery address into OrderRow.
	ProjectOrderRows
	// ProjectOrderItemRows maps order lines and item names into OrderItemRow.
	ProjectOrderItemRows
	// ProjectOrderFlatRows maps the full graph into one OrderFlatRow per order line.
	ProjectOrderFlatRows
)

// Join is one association joined into a query. Fetch joins load the target in
// the same round trip; plain joins only make its columns available.
type Join struct {
	Association Association
	Cardinality Cardinality
	Fetch       bool
}

// QueryDescriptor describes a store query. It is immutable once built and
// always satisfies the join rules:
//   - at most one to-many join
//   - no limit/offset together with a to-many join
//   - nested associations only below a joined parent
type QueryDescriptor struct {
	root       Root
	joins      []Join
	ids        []int64
	hasIDs     bool
	ownerIDs   []int64
	hasOwners  bool
	search     fetch.OrderSearch
	page       fetch.Page
	hasPage    bool
	projection Projection
	guard      guard.ConstructorGuard
}

// Option configures a QueryDescriptor under construction.
type Option func(*QueryDescriptor) error

// WithJoin joins an association. Its cardinality comes from the model.
func WithJoin(association Association, fetchTarget bool) Option {
	return func(q *QueryDescriptor) error {
		spec, ok := getAssociations()[q.root][association]
		if !ok {
			return errs.NewQueryDescriptorIsInvalidError(
				fmt.Sprintf("%s is not an association of %s", association, q.root))
		}
		q.joins = append(q.joins, Join{Association: association, Cardinality: spec.cardinality, Fetch: fetchTarget})
		return nil
	}
}

// WithFetchJoin joins and loads an association in the same round trip.
func WithFetchJoin(association Association) Option {
	return WithJoin(association, true)
}

// WithIDs restricts the root to the given keys. An empty set matches nothing.
func WithIDs(ids ...int64) Option {
	return func(q *QueryDescriptor) error {
		q.ids = slices.Clone(ids)
		q.hasIDs = true
		return nil
	}
}

// WithOwnerIDs restricts order items to those owned by the given orders.
func WithOwnerIDs(orderIDs ...int64) Option {
	return func(q *QueryDescriptor) error {
		if q.root != RootOrderItem {
			return errs.NewQueryDescriptorIsInvalidError(fmt.Sprintf("owner filter needs root %s, got %s", RootOrderItem, q.root))
		}
		q.ownerIDs = slices.Clone(orderIDs)
		q.hasOwners = true
		return nil
	}
}

// WithSearch applies an order search to an order root.
func WithSearch(search fetch.OrderSearch) Option {
	return func(q *QueryDescriptor) error {
		if search.IsEmpty() {
			return nil
		}
		if q.root != RootOrder {
			return errs.NewQueryDescriptorIsInvalidError(fmt.Sprintf("order search needs root %s, got %s", RootOrder, q.root))
		}
		if err := search.Validate(); err != nil {
			return err
		}
		q.search = search
		return nil
	}
}

// WithPage applies limit/offset.
func WithPage(page fetch.Page) Option {
	return func(q *QueryDescriptor) error {
		if err := page.Validate(); err != nil {
			return err
		}
		q.page = page
		q.hasPage = true
		return nil
	}
}

// WithProjection selects the row shape.
func WithProjection(p Projection) Option {
	return func(q *QueryDescriptor) error {
		q.projection = p
		return nil
	}
}

// NewQueryDescriptor builds and validates a descriptor. Violations of the join
// rules are QueryDescriptorIsInvalidError: they are configuration mistakes of
// the caller, not request errors.
func NewQueryDescriptor(root Root, opts ...Option) (QueryDescriptor, error) {
	q := QueryDescriptor{root: root}
	if _, ok := getAssociations()[root]; !ok && !slices.Contains([]Root{RootMember, RootDelivery, RootItem}, root) {
		return QueryDescriptor{}, errs.NewQueryDescriptorIsInvalidError(fmt.Sprintf("unknown root %q", root))
	}

	for _, opt := range opts {
		if err := opt(&q); err != nil {
			return QueryDescriptor{}, err
		}
	}

	if err := q.check(); err != nil {
		return QueryDescriptor{}, err
	}

	q.guard = guard.NewConstructorGuard()
	return q, nil
}

// MustQueryDescriptor is NewQueryDescriptor for descriptors fixed at compile time.
func MustQueryDescriptor(root Root, opts ...Option) QueryDescriptor {
	q, err := NewQueryDescriptor(root, opts...)
	if err != nil {
		panic(err)
	}
	return q
}

func (q *QueryDescriptor) check() error {
	toMany := 0
	seen := make(map[Association]bool, len(q.joins))
	for _, j := range q.joins {
		if seen[j.Association] {
			return errs.NewQueryDescriptorIsInvalidError(fmt.Sprintf("%s is joined twice", j.Association))
		}
		seen[j.Association] = true
		if j.Cardinality == ToMany {
			toMany++
		}
	}

	for _, j := range q.joins {
		parent := getAssociations()[q.root][j.Association].parent
		if parent != "" && !seen[parent] {
			return errs.NewQueryDescriptorIsInvalidError(fmt.Sprintf("%s needs %s to be joined", j.Association, parent))
		}
	}

	if toMany > 1 {
		return errs.NewQueryDescriptorIsInvalidError(
			fmt.Sprintf("%d to-many joins in one query multiply rows combinatorially", toMany))
	}
	if toMany == 1 && q.hasPage {
		return errs.NewQueryDescriptorIsInvalidError("limit/offset over a to-many join cuts through roots")
	}

	return q.checkProjection()
}

func (q *QueryDescriptor) checkProjection() error {
	switch q.projection {
	case ProjectEntities:
		return nil
	case ProjectOrderRows:
		if q.root == RootOrder && !q.HasToManyJoin() {
			return nil
		}
	case ProjectOrderItemRows:
		if q.root == RootOrderItem {
			return nil
		}
	case ProjectOrderFlatRows:
		if q.root == RootOrder && q.Joins(AssocOrderItems) {
			return nil
		}
	}
	return errs.NewQueryDescriptorIsInvalidError(
		fmt.Sprintf("projection %d does not fit root %s with joins %v", q.projection, q.root, q.joins))
}

// Validate ensures the descriptor was created through NewQueryDescriptor.
func (q QueryDescriptor) Validate() error {
	return q.guard.Validate(ErrQueryDescriptorIsNotConstructed)
}

// Expect validates the descriptor and checks it targets root with projection p.
// Stores call it first so a descriptor is never run by the wrong method.
func (q QueryDescriptor) Expect(root Root, p Projection) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if q.root != root || q.projection != p {
		return errs.NewQueryDescriptorIsInvalidError(
			fmt.Sprintf("expected root %s with projection %d, got %s with %d", root, p, q.root, q.projection))
	}
	return nil
}

func (q QueryDescriptor) Root() Root             { return q.root }
func (q QueryDescriptor) Projection() Projection { return q.projection }
func (q QueryDescriptor) Search() fetch.OrderSearch {
	return q.search
}

// Joins reports whether association is joined.
func (q QueryDescriptor) Joins(association Association) bool {
	return slices.ContainsFunc(q.joins, func(j Join) bool { return j.Association == association })
}

// Fetches reports whether association is fetch-joined.
func (q QueryDescriptor) Fetches(association Association) bool {
	return slices.ContainsFunc(q.joins, func(j Join) bool { return j.Association == association && j.Fetch })
}

// HasToManyJoin reports whether the result rows may repeat a root.
func (q QueryDescriptor) HasToManyJoin() bool {
	return slices.ContainsFunc(q.joins, func(j Join) bool { return j.Cardinality == ToMany })
}

// IDs returns the root key filter and whether one is set.
func (q QueryDescriptor) IDs() ([]int64, bool) {
	return slices.Clone(q.ids), q.hasIDs
}

// OwnerIDs returns the owning order key filter and whether one is set.
func (q QueryDescriptor) OwnerIDs() ([]int64, bool) {
	return slices.Clone(q.ownerIDs), q.hasOwners
}

// Page returns the limit/offset window and whether one is set.
func (q QueryDescriptor) Page() (fetch.Page, bool) {
	return q.page, q.hasPage
}

// MatchesNothing reports whether an explicit empty key set makes the query
// trivially empty, so a store can skip the round trip.
func (q QueryDescriptor) MatchesNothing() bool {
	return (q.hasIDs && len(q.ids) == 0) || (q.hasOwners && len(q.ownerIDs) == 0)
}
