package jobs_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"shop/internal/adapters/out/demo"
	"shop/internal/adapters/out/memory"
	"shop/internal/core/application/graph"
	"shop/internal/core/application/projection"
	"shop/internal/core/application/usecases/queries"
	"shop/internal/jobs"
	"shop/internal/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrdersHandler struct{ mock.Mock }

func (m *MockOrdersHandler) Handle(ctx context.Context, query queries.GetOrdersQuery) (queries.GetOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrdersQueryResponse), args.Error(1)
}

type MockSimpleOrdersHandler struct{ mock.Mock }

func (m *MockSimpleOrdersHandler) Handle(
	ctx context.Context,
	query queries.GetSimpleOrdersQuery,
) (queries.GetSimpleOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetSimpleOrdersQueryResponse), args.Error(1)
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func limits(t *testing.T) queries.PageLimits {
	t.Helper()
	l, err := queries.NewPageLimits(100, 1000)
	require.NoError(t, err)
	return l
}

func newDemoProbe(t *testing.T, schedule string) *jobs.StrategyProbeJob {
	t.Helper()
	data, err := demo.Build(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	reader := graph.NewReader(memory.NewStore(data), discard())
	return jobs.NewStrategyProbeJob(
		queries.NewGetOrdersQueryHandler(reader, projection.NewProjector(), metrics.SourceProbe),
		queries.NewGetSimpleOrdersQueryHandler(reader, projection.NewProjector(), metrics.SourceProbe),
		limits(t),
		schedule,
		discard(),
	)
}

func TestStrategyProbeJob_RunCoversEveryStrategy(t *testing.T) {
	probe := newDemoProbe(t, "@every 1h")

	results := probe.Run(t.Context())

	expected := map[string]int64{
		"orders/v1": 11, "orders/v2": 11, "orders/v3": 1, "orders/v3.1": 2,
		"orders/v4": 3, "orders/v5": 2, "orders/v6": 1,
		"simple-orders/v1": 5, "simple-orders/v2": 5, "simple-orders/v3": 1, "simple-orders/v4": 1,
	}
	require.Len(t, results, len(expected))
	for _, result := range results {
		key := result.Endpoint + "/" + result.Version
		require.NoError(t, result.Err, key)
		assert.Equal(t, 2, result.Orders, key)
		assert.Equal(t, expected[key], result.Queries, key)
	}
	assert.Equal(t, "v1", results[0].Version)
	assert.Equal(t, jobs.EndpointSimpleOrders, results[len(results)-1].Endpoint)
}

func TestStrategyProbeJob_FailureDoesNotStopRun(t *testing.T) {
	failure := errors.New("connection refused")

	ordersHandler := new(MockOrdersHandler)
	ordersHandler.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetOrdersQueryResponse{}, failure)
	simpleHandler := new(MockSimpleOrdersHandler)
	simpleHandler.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetSimpleOrdersQueryResponse{Queries: 1}, nil)

	probe := jobs.NewStrategyProbeJob(ordersHandler, simpleHandler, limits(t), "@every 1h", discard())
	results := probe.Run(t.Context())

	require.Len(t, results, 11)
	for _, result := range results[:7] {
		assert.ErrorIs(t, result.Err, failure)
	}
	for _, result := range results[7:] {
		assert.NoError(t, result.Err)
		assert.Equal(t, int64(1), result.Queries)
	}
	ordersHandler.AssertNumberOfCalls(t, "Handle", 7)
	simpleHandler.AssertNumberOfCalls(t, "Handle", 4)
}

func TestStrategyProbeJob_CancelledContextEndsRun(t *testing.T) {
	ordersHandler := new(MockOrdersHandler)
	simpleHandler := new(MockSimpleOrdersHandler)
	probe := jobs.NewStrategyProbeJob(ordersHandler, simpleHandler, limits(t), "@every 1h", discard())

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	assert.Empty(t, probe.Run(ctx))
	ordersHandler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestStrategyProbeJob_InvalidSchedule(t *testing.T) {
	probe := newDemoProbe(t, "every now and then")

	assert.Error(t, probe.Start())
}

func TestJobManager_StartAndStop(t *testing.T) {
	manager := jobs.NewJobManager(newDemoProbe(t, "0 0 * * * *"), discard())

	require.NoError(t, manager.StartAll())
	manager.StopAll()
}

func TestJobManager_WithoutProbe(t *testing.T) {
	manager := jobs.NewJobManager(nil, discard())

	require.NoError(t, manager.StartAll())
	manager.StopAll()
}

func TestJobManager_StartFailure(t *testing.T) {
	manager := jobs.NewJobManager(newDemoProbe(t, "bad"), discard())

	err := manager.StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy probe job")
}
