package kernel

import (
	"fmt"

	"shop/internal/pkg/errs"
)

// Entity is implemented by every persistent domain object. The unexported
// method restricts implementations to types embedding Identity.
type Entity interface {
	ID() int64
	isEntity()
}

// Identity carries the primary key of an entity. Embed it to make a type an Entity.
type Identity struct {
	id int64
}

// NewIdentity validates that id is a positive store key.
func NewIdentity(id int64) (Identity, error) {
	if id <= 0 {
		return Identity{}, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not greater than 0", id))
	}
	return Identity{id: id}, nil
}

// ID returns the primary key.
func (i Identity) ID() int64 {
	return i.id
}

func (Identity) isEntity() {}

// IsEntity reports whether v is a domain entity.
func IsEntity(v any) bool {
	_, ok := v.(Entity)
	return ok
}
