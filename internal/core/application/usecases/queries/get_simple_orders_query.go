package queries

import (
	"errors"

	"shop/internal/core/domain/model/fetch"
	"shop/internal/pkg/guard"
)

var (
	ErrGetSimpleOrdersQueryIsNotConstructed = errors.New(
		"GetSimpleOrdersQuery must be created via NewGetSimpleOrdersQuery constructor",
	)
)

// GetSimpleOrdersQuery reads orders with their member and delivery only.
// Every simple strategy can be paged: to-one joins never multiply rows.
type GetSimpleOrdersQuery struct {
	strategy fetch.SimpleStrategy
	page     *fetch.Page
	search   fetch.OrderSearch

	guard guard.ConstructorGuard
}

func NewGetSimpleOrdersQuery(
	version string,
	offset, limit *int,
	search fetch.OrderSearch,
	limits PageLimits,
) (GetSimpleOrdersQuery, error) {
	strategy, err := fetch.ParseSimpleVersion(version)
	if err != nil {
		return GetSimpleOrdersQuery{}, err
	}

	page, pageErr := limits.resolve(offset, limit, false)
	if err = errors.Join(pageErr, search.Validate()); err != nil {
		return GetSimpleOrdersQuery{}, err
	}

	return GetSimpleOrdersQuery{
		strategy: strategy,
		page:     page,
		search:   search,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetSimpleOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetSimpleOrdersQueryIsNotConstructed)
}

func (q GetSimpleOrdersQuery) Strategy() fetch.SimpleStrategy {
	return q.strategy
}

func (q GetSimpleOrdersQuery) Page() *fetch.Page {
	if q.page == nil {
		return nil
	}
	page := *q.page
	return &page
}

func (q GetSimpleOrdersQuery) Search() fetch.OrderSearch {
	return q.search
}
