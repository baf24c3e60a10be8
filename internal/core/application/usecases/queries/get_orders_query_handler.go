package queries

import (
	"context"
	"time"

	"shop/internal/core/application/graph"
	"shop/internal/core/application/projection"
	"shop/internal/core/domain/model/fetch"
	"shop/internal/pkg/metrics"
	"shop/internal/pkg/querycount"
)

// OrderGraphReader runs a read strategy and returns its raw result.
type OrderGraphReader interface {
	Fetch(ctx context.Context, search fetch.OrderSearch, strategy fetch.Strategy, page *fetch.Page) (graph.RawResult, error)
	FetchSimple(ctx context.Context, search fetch.OrderSearch, strategy fetch.SimpleStrategy, page *fetch.Page) (graph.RawResult, error)
}

// GetOrdersQueryResponse is the projected result and the number of store
// round trips it took.
type GetOrdersQueryResponse struct {
	Result  projection.Result[projection.OrderDTO]
	Queries int64
}

// GetOrdersQueryHandler runs the selected strategy, projects its result and
// records the cost of the read.
//
// Example:
//
//	handler := NewGetOrdersQueryHandler(reader, projection.NewProjector(), metrics.SourceHTTP)
//	response, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d orders in %d queries\n", response.Result.Count, response.Queries)
type GetOrdersQueryHandler struct {
	reader    OrderGraphReader
	projector projection.Projector
	source    string
}

// NewGetOrdersQueryHandler creates a handler. source labels its metrics.
func NewGetOrdersQueryHandler(reader OrderGraphReader, projector projection.Projector, source string) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{reader: reader, projector: projector, source: source}
}

// Handle serves one read. The round trips are counted against the counter
// already in ctx, or a fresh one.
func (h GetOrdersQueryHandler) Handle(ctx context.Context, query GetOrdersQuery) (GetOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrdersQueryResponse{}, err
	}

	ctx, counter := counted(ctx)
	started := time.Now()

	result, err := h.handle(ctx, query)
	metrics.ObserveFetch(query.Strategy().Version(), h.source, counter.Load(), time.Since(started), err)
	if err != nil {
		return GetOrdersQueryResponse{}, err
	}

	return GetOrdersQueryResponse{Result: result, Queries: counter.Load()}, nil
}

func (h GetOrdersQueryHandler) handle(ctx context.Context, query GetOrdersQuery) (projection.Result[projection.OrderDTO], error) {
	raw, err := h.reader.Fetch(ctx, query.Search(), query.Strategy(), query.Page())
	if err != nil {
		return projection.Result[projection.OrderDTO]{}, err
	}

	dtos, err := h.projector.Project(ctx, raw)
	if err != nil {
		return projection.Result[projection.OrderDTO]{}, err
	}

	return projection.NewResult(dtos)
}

func counted(ctx context.Context) (context.Context, *querycount.Counter) {
	if counter := querycount.FromContext(ctx); counter != nil {
		return ctx, counter
	}
	return querycount.WithCounter(ctx)
}
