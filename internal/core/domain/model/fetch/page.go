package fetch

import (
	"errors"
	"math"

	"shop/internal/core/domain/model/order"
	"shop/internal/pkg/errs"
	"shop/internal/pkg/guard"
)

var ErrPageIsNotConstructed = errors.New("Page must be created via NewPage constructor")

// Page is a limit/offset window over the roots of a read.
type Page struct {
	offset int
	limit  int
	guard  guard.ConstructorGuard
}

// NewPage validates offset >= 0 and limit >= 1.
func NewPage(offset, limit int) (Page, error) {
	var offsetErr, limitErr error
	if offset < 0 {
		offsetErr = errs.NewValueIsOutOfRangeError("offset", offset, 0, math.MaxInt)
	}
	if limit < 1 {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, math.MaxInt)
	}
	if err := errors.Join(offsetErr, limitErr); err != nil {
		return Page{}, err
	}
	return Page{offset: offset, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the page was created through NewPage.
func (p Page) Validate() error {
	return p.guard.Validate(ErrPageIsNotConstructed)
}

func (p Page) Offset() int { return p.offset }
func (p Page) Limit() int  { return p.limit }

// OrderSearch narrows the roots of a read. Zero fields do not filter.
type OrderSearch struct {
	MemberName string
	Status     order.Status
}

// IsEmpty reports whether the search filters nothing.
func (s OrderSearch) IsEmpty() bool {
	return s.MemberName == "" && s.Status == order.Unknown
}

// Validate accepts an unset status or a valid one.
func (s OrderSearch) Validate() error {
	if s.Status == order.Unknown {
		return nil
	}
	return s.Status.Validate()
}
