package kernel

import (
	"fmt"

	"shop/internal/pkg/errs"
)

// Reference is implemented by association fields. Like Entity it can only be
// satisfied inside this package.
type Reference interface {
	ID() int64
	IsResolved() bool
	isReference()
}

// Ref is a to-one association. It starts unresolved, holding only the target
// key; Resolve attaches the loaded target.
type Ref[T Entity] struct {
	association string
	id          int64
	value       *T
}

// NewRef creates an unresolved reference to the entity with the given key.
func NewRef[T Entity](association string, id int64) Ref[T] {
	return Ref[T]{association: association, id: id}
}

// ResolvedRef creates a reference that already holds its target, as produced
// by a fetch join.
func ResolvedRef[T Entity](association string, value T) Ref[T] {
	return Ref[T]{association: association, id: value.ID(), value: &value}
}

// ID returns the key of the referenced entity, resolved or not.
func (r Ref[T]) ID() int64 {
	return r.id
}

// IsResolved reports whether the target has been loaded.
func (r Ref[T]) IsResolved() bool {
	return r.value != nil
}

// Get returns the target or ReferenceIsUnresolvedError.
func (r Ref[T]) Get() (T, error) {
	if r.value == nil {
		var zero T
		return zero, errs.NewReferenceIsUnresolvedError(r.association, r.id)
	}
	return *r.value, nil
}

// Resolve attaches value as the target. The key must match.
func (r *Ref[T]) Resolve(value T) error {
	if value.ID() != r.id {
		return errs.NewValueIsInvalidErrorWithCause(
			r.association,
			fmt.Errorf("loaded id %d does not match referenced id %d", value.ID(), r.id),
		)
	}
	r.value = &value
	return nil
}

func (Ref[T]) isReference() {}

// Collection is a to-many association owned by the entity with key ownerID.
type Collection[T Entity] struct {
	association string
	ownerID     int64
	items       []T
	resolved    bool
}

// NewCollection creates an unresolved collection.
func NewCollection[T Entity](association string, ownerID int64) Collection[T] {
	return Collection[T]{association: association, ownerID: ownerID}
}

// ID returns the owner key.
func (c Collection[T]) ID() int64 {
	return c.ownerID
}

// IsResolved reports whether the members have been loaded.
func (c Collection[T]) IsResolved() bool {
	return c.resolved
}

// All returns a copy of the members or ReferenceIsUnresolvedError.
func (c Collection[T]) All() ([]T, error) {
	if !c.resolved {
		return nil, errs.NewReferenceIsUnresolvedError(c.association, c.ownerID)
	}
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out, nil
}

// Resolve replaces the members. An empty slice is a valid, resolved collection.
func (c *Collection[T]) Resolve(items []T) {
	c.items = append(make([]T, 0, len(items)), items...)
	c.resolved = true
}

// Append adds members to the collection and marks it resolved. Used when
// merging rows of a fetch join that repeat the same owner.
func (c *Collection[T]) Append(items ...T) {
	c.items = append(c.items, items...)
	c.resolved = true
}

func (Collection[T]) isReference() {}
