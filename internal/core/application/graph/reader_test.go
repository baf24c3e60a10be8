package graph_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"shop/internal/adapters/out/demo"
	"shop/internal/adapters/out/memory"
	"shop/internal/core/application/graph"
	"shop/internal/core/domain/model/delivery"
	"shop/internal/core/domain/model/fetch"
	"shop/internal/core/domain/model/item"
	"shop/internal/core/domain/model/member"
	"shop/internal/core/domain/model/order"
	"shop/internal/core/ports"
	"shop/internal/pkg/errs"
	"shop/internal/pkg/querycount"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderGraphStore struct{ mock.Mock }

func (m *MockOrderGraphStore) FindOrders(ctx context.Context, q ports.QueryDescriptor) ([]*order.Order, error) {
	args := m.Called(ctx, q)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}
func (m *MockOrderGraphStore) FindMembers(ctx context.Context, q ports.QueryDescriptor) ([]member.Member, error) {
	args := m.Called(ctx, q)
	members, _ := args.Get(0).([]member.Member)
	return members, args.Error(1)
}
func (m *MockOrderGraphStore) FindDeliveries(ctx context.Context, q ports.QueryDescriptor) ([]delivery.Delivery, error) {
	args := m.Called(ctx, q)
	deliveries, _ := args.Get(0).([]delivery.Delivery)
	return deliveries, args.Error(1)
}
func (m *MockOrderGraphStore) FindOrderItems(ctx context.Context, q ports.QueryDescriptor) ([]*order.OrderItem, error) {
	args := m.Called(ctx, q)
	lines, _ := args.Get(0).([]*order.OrderItem)
	return lines, args.Error(1)
}
func (m *MockOrderGraphStore) FindItems(ctx context.Context, q ports.QueryDescriptor) ([]item.Item, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]item.Item)
	return items, args.Error(1)
}
func (m *MockOrderGraphStore) ProjectOrders(ctx context.Context, q ports.QueryDescriptor) ([]ports.OrderRow, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]ports.OrderRow)
	return rows, args.Error(1)
}
func (m *MockOrderGraphStore) ProjectOrderItems(ctx context.Context, q ports.QueryDescriptor) ([]ports.OrderItemRow, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]ports.OrderItemRow)
	return rows, args.Error(1)
}
func (m *MockOrderGraphStore) ProjectOrderFlat(ctx context.Context, q ports.QueryDescriptor) ([]ports.OrderFlatRow, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]ports.OrderFlatRow)
	return rows, args.Error(1)
}

func newDemoReader(t *testing.T) *graph.Reader {
	t.Helper()
	data, err := demo.Build(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return graph.NewReader(memory.NewStore(data), slog.New(slog.DiscardHandler))
}

func TestReader_Fetch_RoundTrips(t *testing.T) {
	tests := []struct {
		strategy fetch.Strategy
		queries  int64
	}{
		{fetch.NaiveEntity, 11},
		{fetch.DTOPostMap, 1},
		{fetch.FetchJoin, 1},
		{fetch.SplitBatched, 2},
		{fetch.ProjectionLoop, 3},
		{fetch.ProjectionBatched, 2},
		{fetch.FlatProjection, 1},
	}

	for _, tt := range tests {
		t.Run(tt.strategy.Version(), func(t *testing.T) {
			reader := newDemoReader(t)
			ctx, counter := querycount.WithCounter(t.Context())

			raw, err := reader.Fetch(ctx, fetch.OrderSearch{}, tt.strategy, nil)

			require.NoError(t, err)
			require.NotNil(t, raw)
			assert.Equal(t, tt.queries, counter.Load())
		})
	}
}

func TestReader_Fetch_NaiveEntityResolvesGraph(t *testing.T) {
	raw, err := newDemoReader(t).Fetch(t.Context(), fetch.OrderSearch{}, fetch.NaiveEntity, nil)
	require.NoError(t, err)

	g, ok := raw.(graph.EntityGraph)
	require.True(t, ok)
	require.Len(t, g.Orders, 2)

	lines, err := g.Orders[1].OrderItems()
	require.NoError(t, err)
	require.Len(t, lines, 2)
	it, err := lines[1].Item()
	require.NoError(t, err)
	assert.Equal(t, "SPRING2 BOOK", it.Name())

	total, err := g.Orders[1].TotalPrice()
	require.NoError(t, err)
	assert.Equal(t, 3*20000+4*40000, total)
}

func TestReader_Fetch_DTOPostMapDefersResolution(t *testing.T) {
	reader := newDemoReader(t)
	ctx, counter := querycount.WithCounter(t.Context())

	raw, err := reader.Fetch(ctx, fetch.OrderSearch{}, fetch.DTOPostMap, nil)
	require.NoError(t, err)

	lazy, ok := raw.(graph.LazyEntityGraph)
	require.True(t, ok)
	require.Len(t, lazy.Orders, 2)
	assert.False(t, lazy.Orders[0].MemberRef().IsResolved())

	require.NoError(t, lazy.Resolver.Resolve(ctx, lazy.Orders[0]))
	assert.True(t, lazy.Orders[0].MemberRef().IsResolved())
	assert.Equal(t, int64(6), counter.Load())
}

func TestReader_Fetch_SplitBatchedPage(t *testing.T) {
	reader := newDemoReader(t)
	ctx, counter := querycount.WithCounter(t.Context())
	page, err := fetch.NewPage(1, 1)
	require.NoError(t, err)

	raw, err := reader.Fetch(ctx, fetch.OrderSearch{}, fetch.SplitBatched, &page)

	require.NoError(t, err)
	g := raw.(graph.EntityGraph)
	require.Len(t, g.Orders, 1)
	assert.Equal(t, int64(2), g.Orders[0].ID())
	lines, err := g.Orders[0].OrderItems()
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, int64(2), counter.Load())
}

func TestReader_Fetch_ProjectionBatchedGroupsByOwner(t *testing.T) {
	raw, err := newDemoReader(t).Fetch(t.Context(), fetch.OrderSearch{}, fetch.ProjectionBatched, nil)
	require.NoError(t, err)

	g := raw.(graph.ProjectedGraph)
	require.Len(t, g.Orders, 2)
	assert.Equal(t, "userA", g.Orders[0].Order.Name)
	require.Len(t, g.Orders[0].Items, 2)
	assert.Equal(t, "JPA1 BOOK", g.Orders[0].Items[0].ItemName)
	assert.Equal(t, "SPRING1 BOOK", g.Orders[1].Items[0].ItemName)
}

func TestReader_Fetch_EmptyRootsSkipChildQuery(t *testing.T) {
	search := fetch.OrderSearch{MemberName: "nobody"}

	for _, strategy := range []fetch.Strategy{fetch.SplitBatched, fetch.ProjectionBatched} {
		t.Run(strategy.Version(), func(t *testing.T) {
			ctx, counter := querycount.WithCounter(t.Context())

			_, err := newDemoReader(t).Fetch(ctx, search, strategy, nil)

			require.NoError(t, err)
			assert.Equal(t, int64(1), counter.Load())
		})
	}
}

func TestReader_Fetch_PaginationRejectedBeforeAnyQuery(t *testing.T) {
	page, err := fetch.NewPage(0, 10)
	require.NoError(t, err)

	for _, strategy := range []fetch.Strategy{fetch.FetchJoin, fetch.FlatProjection} {
		t.Run(strategy.Version(), func(t *testing.T) {
			store := new(MockOrderGraphStore)
			reader := graph.NewReader(store, slog.New(slog.DiscardHandler))

			_, err := reader.Fetch(t.Context(), fetch.OrderSearch{}, strategy, &page)

			require.ErrorIs(t, err, errs.ErrPaginationIncompatible)
			store.AssertNotCalled(t, "FindOrders", mock.Anything, mock.Anything)
			store.AssertNotCalled(t, "ProjectOrderFlat", mock.Anything, mock.Anything)
		})
	}
}

func TestReader_Fetch_UnknownStrategy(t *testing.T) {
	store := new(MockOrderGraphStore)
	reader := graph.NewReader(store, slog.New(slog.DiscardHandler))

	_, err := reader.Fetch(t.Context(), fetch.OrderSearch{}, fetch.Unknown, nil)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	store.AssertExpectations(t)
}

func TestReader_Fetch_StoreFailurePropagates(t *testing.T) {
	failure := errors.New("connection reset")
	store := new(MockOrderGraphStore)
	store.On("ProjectOrders", mock.Anything, mock.Anything).Return(nil, failure).Once()
	reader := graph.NewReader(store, slog.New(slog.DiscardHandler))

	_, err := reader.Fetch(t.Context(), fetch.OrderSearch{}, fetch.ProjectionBatched, nil)

	require.ErrorIs(t, err, failure)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "ProjectOrderItems", mock.Anything, mock.Anything)
}

func TestReader_Fetch_MissingMemberIsNotFound(t *testing.T) {
	o, err := order.RestoreOrder(1, 7, 8, time.Now(), order.Ordered)
	require.NoError(t, err)

	store := new(MockOrderGraphStore)
	store.On("FindOrders", mock.Anything, mock.Anything).Return([]*order.Order{o}, nil).Once()
	store.On("FindMembers", mock.Anything, mock.Anything).Return([]member.Member{}, nil).Once()
	reader := graph.NewReader(store, slog.New(slog.DiscardHandler))

	_, err = reader.Fetch(t.Context(), fetch.OrderSearch{}, fetch.NaiveEntity, nil)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	store.AssertExpectations(t)
}

func TestReader_Fetch_CancelledBetweenRoots(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	first, err := order.RestoreOrder(1, 1, 1, time.Now(), order.Ordered)
	require.NoError(t, err)
	second, err := order.RestoreOrder(2, 2, 2, time.Now(), order.Ordered)
	require.NoError(t, err)

	store := new(MockOrderGraphStore)
	store.On("ProjectOrders", mock.Anything, mock.Anything).Return([]ports.OrderRow{
		{OrderID: first.ID()}, {OrderID: second.ID()},
	}, nil).Once()
	store.On("ProjectOrderItems", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return([]ports.OrderItemRow{}, nil).Once()
	reader := graph.NewReader(store, slog.New(slog.DiscardHandler))

	_, err = reader.Fetch(ctx, fetch.OrderSearch{}, fetch.ProjectionLoop, nil)

	require.ErrorIs(t, err, context.Canceled)
	store.AssertExpectations(t)
}

func TestReader_FetchSimple_RoundTrips(t *testing.T) {
	tests := []struct {
		strategy fetch.SimpleStrategy
		queries  int64
	}{
		{fetch.SimpleNaiveEntity, 5},
		{fetch.SimpleDTOPostMap, 1},
		{fetch.SimpleFetchJoin, 1},
		{fetch.SimpleProjection, 1},
	}

	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			ctx, counter := querycount.WithCounter(t.Context())

			raw, err := newDemoReader(t).FetchSimple(ctx, fetch.OrderSearch{}, tt.strategy, nil)

			require.NoError(t, err)
			require.NotNil(t, raw)
			assert.Equal(t, tt.queries, counter.Load())
		})
	}
}
