package queries

import (
	"errors"

	"shop/internal/core/domain/model/fetch"
	"shop/internal/pkg/errs"
	"shop/internal/pkg/guard"
)

var (
	ErrGetOrdersQueryIsNotConstructed = errors.New(
		"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
	)
)

// GetOrdersQuery reads orders with their lines through the strategy bound to
// an API version.
//
// Example:
//
//	limit := 10
//	query, err := NewGetOrdersQuery("v3.1", nil, &limit, fetch.OrderSearch{}, limits)
//	if err != nil {
//	    return err // unknown version, bad page, or a page the strategy cannot honor
//	}
//
//	response, err := handler.Handle(ctx, query)
type GetOrdersQuery struct {
	strategy fetch.Strategy
	page     *fetch.Page
	search   fetch.OrderSearch

	guard guard.ConstructorGuard
}

// NewGetOrdersQuery selects the strategy for version and checks the requested
// page against it. A page requested from a strategy that multiplies rows is a
// PaginationIncompatibleError; that check runs before any query is sent. A
// strategy that is always paged gets the default page when none is given.
func NewGetOrdersQuery(
	version string,
	offset, limit *int,
	search fetch.OrderSearch,
	limits PageLimits,
) (GetOrdersQuery, error) {
	strategy, err := fetch.ParseVersion(version)
	if err != nil {
		return GetOrdersQuery{}, err
	}

	if (offset != nil || limit != nil) && !strategy.Paginable() {
		return GetOrdersQuery{}, errs.NewPaginationIncompatibleError(strategy.Version())
	}

	page, pageErr := limits.resolve(offset, limit, strategy.AlwaysPaged())
	if err = errors.Join(pageErr, search.Validate()); err != nil {
		return GetOrdersQuery{}, err
	}

	return GetOrdersQuery{
		strategy: strategy,
		page:     page,
		search:   search,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

func (q GetOrdersQuery) Strategy() fetch.Strategy {
	return q.strategy
}

// Page returns the page, or nil for an unpaged read.
func (q GetOrdersQuery) Page() *fetch.Page {
	if q.page == nil {
		return nil
	}
	page := *q.page
	return &page
}

func (q GetOrdersQuery) Search() fetch.OrderSearch {
	return q.search
}
