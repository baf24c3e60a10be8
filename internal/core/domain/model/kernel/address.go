package kernel

import (
	"errors"

	"shop/internal/pkg/errs"
)

// Address is an immutable value object embedded in members and deliveries.
type Address struct {
	city    string
	street  string
	zipcode string
}

// NewAddress validates that every part is present.
func NewAddress(city, street, zipcode string) (Address, error) {
	var errList []error
	if city == "" {
		errList = append(errList, errs.NewValueIsRequiredError("city"))
	}
	if street == "" {
		errList = append(errList, errs.NewValueIsRequiredError("street"))
	}
	if zipcode == "" {
		errList = append(errList, errs.NewValueIsRequiredError("zipcode"))
	}
	if err := errors.Join(errList...); err != nil {
		return Address{}, err
	}
	return Address{city: city, street: street, zipcode: zipcode}, nil
}

func (a Address) City() string    { return a.city }
func (a Address) Street() string  { return a.street }
func (a Address) Zipcode() string { return a.zipcode }

// IsZero reports whether a was never constructed.
func (a Address) IsZero() bool {
	return a == Address{}
}
