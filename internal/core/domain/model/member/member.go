// Package member holds the Member entity. Members own orders only on the
// inverse side; the read API never loads a member's orders.
package member

import (
	"errors"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/pkg/errs"
)

// Member is the customer placing an order.
type Member struct {
	kernel.Identity
	name    string
	address kernel.Address
}

// NewMember creates a member with a required name and a constructed address.
func NewMember(id int64, name string, address kernel.Address) (Member, error) {
	identity, idErr := kernel.NewIdentity(id)

	var nameErr, addrErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if address.IsZero() {
		addrErr = errs.NewValueIsRequiredError("address")
	}

	if err := errors.Join(idErr, nameErr, addrErr); err != nil {
		return Member{}, err
	}

	return Member{Identity: identity, name: name, address: address}, nil
}

func (m Member) Name() string            { return m.name }
func (m Member) Address() kernel.Address { return m.address }
