package queries

import (
	"context"
	"time"

	"shop/internal/core/application/projection"
	"shop/internal/pkg/metrics"
)

type GetSimpleOrdersQueryResponse struct {
	Result  projection.Result[projection.SimpleOrderDTO]
	Queries int64
}

// GetSimpleOrdersQueryHandler serves the to-one only read.
type GetSimpleOrdersQueryHandler struct {
	reader    OrderGraphReader
	projector projection.Projector
	source    string
}

func NewGetSimpleOrdersQueryHandler(
	reader OrderGraphReader,
	projector projection.Projector,
	source string,
) GetSimpleOrdersQueryHandler {
	return GetSimpleOrdersQueryHandler{reader: reader, projector: projector, source: source}
}

func (h GetSimpleOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetSimpleOrdersQuery,
) (GetSimpleOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetSimpleOrdersQueryResponse{}, err
	}

	ctx, counter := counted(ctx)
	started := time.Now()

	result, err := h.handle(ctx, query)
	metrics.ObserveFetch(query.Strategy().String(), h.source, counter.Load(), time.Since(started), err)
	if err != nil {
		return GetSimpleOrdersQueryResponse{}, err
	}

	return GetSimpleOrdersQueryResponse{Result: result, Queries: counter.Load()}, nil
}

func (h GetSimpleOrdersQueryHandler) handle(
	ctx context.Context,
	query GetSimpleOrdersQuery,
) (projection.Result[projection.SimpleOrderDTO], error) {
	raw, err := h.reader.FetchSimple(ctx, query.Search(), query.Strategy(), query.Page())
	if err != nil {
		return projection.Result[projection.SimpleOrderDTO]{}, err
	}

	dtos, err := h.projector.ProjectSimple(ctx, raw)
	if err != nil {
		return projection.Result[projection.SimpleOrderDTO]{}, err
	}

	return projection.NewResult(dtos)
}
