package memory_test

import (
	"context"
	"testing"
	"time"

	"shop/internal/adapters/out/demo"
	"shop/internal/adapters/out/memory"
	"shop/internal/core/domain/model/fetch"
	"shop/internal/core/domain/model/order"
	"shop/internal/core/ports"
	"shop/internal/pkg/errs"
	"shop/internal/pkg/querycount"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	ctx     context.Context
	counter *querycount.Counter
	store   *memory.Store
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	data, err := demo.Build(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.Require().NoError(err)

	s.store = memory.NewStore(data)
	s.ctx, s.counter = querycount.WithCounter(context.Background())
}

func (s *StoreTestSuite) TestFindOrders_Plain() {
	orders, err := s.store.FindOrders(s.ctx, ports.MustQueryDescriptor(ports.RootOrder))

	s.Require().NoError(err)
	s.Require().Len(orders, 2)
	s.Equal(int64(1), orders[0].ID())
	s.Equal(int64(2), orders[1].ID())
	s.False(orders[0].MemberRef().IsResolved())
	s.False(orders[0].OrderItemsRef().IsResolved())
	s.Equal(int64(1), s.counter.Load())
}

func (s *StoreTestSuite) TestFindOrders_ToManyFetchJoinRepeatsRoots() {
	q := ports.MustQueryDescriptor(ports.RootOrder,
		ports.WithFetchJoin(ports.AssocMember),
		ports.WithFetchJoin(ports.AssocOrderItems),
		ports.WithFetchJoin(ports.AssocOrderItemsItem),
	)

	orders, err := s.store.FindOrders(s.ctx, q)

	s.Require().NoError(err)
	s.Require().Len(orders, 4)
	ids := []int64{orders[0].ID(), orders[1].ID(), orders[2].ID(), orders[3].ID()}
	s.Equal([]int64{1, 1, 2, 2}, ids)

	lines, err := orders[1].OrderItems()
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Equal(int64(2), lines[0].ID())

	it, err := lines[0].Item()
	s.Require().NoError(err)
	s.Equal("JPA2 BOOK", it.Name())

	m, err := orders[3].Member()
	s.Require().NoError(err)
	s.Equal("userB", m.Name())
	s.Equal(int64(1), s.counter.Load())
}

func (s *StoreTestSuite) TestFindOrders_PageAndSearch() {
	page, err := fetch.NewPage(1, 1)
	s.Require().NoError(err)

	orders, err := s.store.FindOrders(s.ctx, ports.MustQueryDescriptor(ports.RootOrder, ports.WithPage(page)))
	s.Require().NoError(err)
	s.Require().Len(orders, 1)
	s.Equal(int64(2), orders[0].ID())

	orders, err = s.store.FindOrders(s.ctx, ports.MustQueryDescriptor(ports.RootOrder,
		ports.WithSearch(fetch.OrderSearch{MemberName: "userA", Status: order.Ordered})))
	s.Require().NoError(err)
	s.Require().Len(orders, 1)
	s.Equal(int64(1), orders[0].ID())

	orders, err = s.store.FindOrders(s.ctx, ports.MustQueryDescriptor(ports.RootOrder,
		ports.WithSearch(fetch.OrderSearch{Status: order.Cancelled})))
	s.Require().NoError(err)
	s.Empty(orders)
}

func (s *StoreTestSuite) TestFindOrderItems_ByOwnersWithItem() {
	q := ports.MustQueryDescriptor(ports.RootOrderItem,
		ports.WithOwnerIDs(2, 1),
		ports.WithFetchJoin(ports.AssocItem),
	)

	lines, err := s.store.FindOrderItems(s.ctx, q)

	s.Require().NoError(err)
	s.Require().Len(lines, 4)
	for i, line := range lines {
		s.Equal(int64(i+1), line.ID())
		s.True(line.ItemRef().IsResolved())
	}
	s.Equal(int64(1), s.counter.Load())
}

func (s *StoreTestSuite) TestEmptyKeySetSkipsRoundTrip() {
	lines, err := s.store.FindOrderItems(s.ctx, ports.MustQueryDescriptor(ports.RootOrderItem, ports.WithOwnerIDs()))

	s.Require().NoError(err)
	s.Empty(lines)
	s.Zero(s.counter.Load())
}

func (s *StoreTestSuite) TestFindByKeys() {
	members, err := s.store.FindMembers(s.ctx, ports.MustQueryDescriptor(ports.RootMember, ports.WithIDs(2)))
	s.Require().NoError(err)
	s.Require().Len(members, 1)
	s.Equal("Busan", members[0].Address().City())

	deliveries, err := s.store.FindDeliveries(s.ctx, ports.MustQueryDescriptor(ports.RootDelivery, ports.WithIDs(1)))
	s.Require().NoError(err)
	s.Require().Len(deliveries, 1)

	items, err := s.store.FindItems(s.ctx, ports.MustQueryDescriptor(ports.RootItem, ports.WithIDs(4, 3)))
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("SPRING1 BOOK", items[0].Name())

	s.Equal(int64(3), s.counter.Load())
}

func (s *StoreTestSuite) TestProjections() {
	roots, err := s.store.ProjectOrders(s.ctx, ports.MustQueryDescriptor(ports.RootOrder,
		ports.WithJoin(ports.AssocMember, false),
		ports.WithJoin(ports.AssocDelivery, false),
		ports.WithProjection(ports.ProjectOrderRows),
	))
	s.Require().NoError(err)
	s.Require().Len(roots, 2)
	s.Equal("userA", roots[0].Name)
	s.Equal("Seoul", roots[0].Address.City())

	lines, err := s.store.ProjectOrderItems(s.ctx, ports.MustQueryDescriptor(ports.RootOrderItem,
		ports.WithOwnerIDs(1),
		ports.WithJoin(ports.AssocItem, false),
		ports.WithProjection(ports.ProjectOrderItemRows),
	))
	s.Require().NoError(err)
	s.Equal([]ports.OrderItemRow{
		{OrderID: 1, OrderItemID: 1, ItemName: "JPA1 BOOK", OrderPrice: 10000, Count: 1},
		{OrderID: 1, OrderItemID: 2, ItemName: "JPA2 BOOK", OrderPrice: 20000, Count: 2},
	}, lines)

	flat, err := s.store.ProjectOrderFlat(s.ctx, ports.MustQueryDescriptor(ports.RootOrder,
		ports.WithJoin(ports.AssocMember, false),
		ports.WithJoin(ports.AssocDelivery, false),
		ports.WithJoin(ports.AssocOrderItems, false),
		ports.WithJoin(ports.AssocOrderItemsItem, false),
		ports.WithProjection(ports.ProjectOrderFlatRows),
	))
	s.Require().NoError(err)
	s.Require().Len(flat, 4)
	s.Equal(int64(2), flat[3].OrderID)
	s.Equal("SPRING2 BOOK", flat[3].ItemName)

	s.Equal(int64(3), s.counter.Load())
}

func TestStore_RejectsMismatchedDescriptor(t *testing.T) {
	data, err := demo.Build(time.Now())
	require.NoError(t, err)
	store := memory.NewStore(data)

	_, err = store.ProjectOrders(t.Context(), ports.MustQueryDescriptor(ports.RootOrder))
	assert.ErrorIs(t, err, errs.ErrQueryDescriptorIsInvalid)

	_, err = store.FindOrders(t.Context(), ports.QueryDescriptor{})
	assert.ErrorIs(t, err, ports.ErrQueryDescriptorIsNotConstructed)
}

func TestStore_CancelledContext(t *testing.T) {
	data, err := demo.Build(time.Now())
	require.NoError(t, err)
	store := memory.NewStore(data)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ctx, counter := querycount.WithCounter(ctx)

	_, err = store.FindOrders(ctx, ports.MustQueryDescriptor(ports.RootOrder))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, counter.Load())
}

func TestStore_CopiesAreIndependent(t *testing.T) {
	data, err := demo.Build(time.Now())
	require.NoError(t, err)
	store := memory.NewStore(data)

	first, err := store.FindOrders(t.Context(), ports.MustQueryDescriptor(ports.RootOrder, ports.WithFetchJoin(ports.AssocMember)))
	require.NoError(t, err)
	second, err := store.FindOrders(t.Context(), ports.MustQueryDescriptor(ports.RootOrder))
	require.NoError(t, err)

	assert.True(t, first[0].MemberRef().IsResolved())
	assert.False(t, second[0].MemberRef().IsResolved())
	assert.False(t, data.Orders[0].MemberRef().IsResolved())
}
