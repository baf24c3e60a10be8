// Package delivery holds the Delivery entity, owned by exactly one order.
package delivery

import (
	"errors"
	"fmt"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/pkg/errs"
)

// Status is the shipping state of a delivery.
type Status string

const (
	Ready Status = "READY"
	Comp  Status = "COMP"
)

// Validate accepts READY and COMP only.
func (s Status) Validate() error {
	switch s {
	case Ready, Comp:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("delivery status", fmt.Errorf("%q is not a valid status", string(s)))
	}
}

func (s Status) String() string {
	return string(s)
}

// Delivery is where and whether an order has shipped.
type Delivery struct {
	kernel.Identity
	address kernel.Address
	status  Status
}

// NewDelivery creates a delivery with a constructed address and a valid status.
func NewDelivery(id int64, address kernel.Address, status Status) (Delivery, error) {
	identity, idErr := kernel.NewIdentity(id)

	var addrErr error
	if address.IsZero() {
		addrErr = errs.NewValueIsRequiredError("address")
	}

	if err := errors.Join(idErr, addrErr, status.Validate()); err != nil {
		return Delivery{}, err
	}

	return Delivery{Identity: identity, address: address, status: status}, nil
}

func (d Delivery) Address() kernel.Address { return d.address }
func (d Delivery) Status() Status          { return d.status }
