package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpin "shop/internal/adapters/in/http"
	"shop/internal/adapters/in/http/servers"
	"shop/internal/adapters/out/demo"
	"shop/internal/adapters/out/memory"
	"shop/internal/core/application/graph"
	"shop/internal/core/application/projection"
	"shop/internal/core/application/usecases/queries"
	"shop/internal/pkg/errs"
	"shop/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var orderedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type ServerTestSuite struct {
	suite.Suite
	router *echo.Echo
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) SetupTest() {
	data, err := demo.Build(orderedAt)
	suite.Require().NoError(err)

	logger := slog.New(slog.DiscardHandler)
	reader := graph.NewReader(memory.NewStore(data), logger)
	limits, err := queries.NewPageLimits(100, 1000)
	suite.Require().NoError(err)

	server := httpin.NewServer(
		queries.NewGetOrdersQueryHandler(reader, projection.NewProjector(), metrics.SourceHTTP),
		queries.NewGetSimpleOrdersQueryHandler(reader, projection.NewProjector(), metrics.SourceHTTP),
		limits,
	)
	suite.router = httpin.NewRouter(server, logger)
}

func (suite *ServerTestSuite) get(target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *ServerTestSuite) decodeError(rec *httptest.ResponseRecorder) servers.Error {
	var body servers.Error
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (suite *ServerTestSuite) TestGetOrders_EveryVersion() {
	expected := map[string]string{"v1": "11", "v2": "11", "v3": "1", "v3.1": "2", "v4": "3", "v5": "2", "v6": "1"}

	for version, queryCount := range expected {
		rec := suite.get("/api/" + version + "/orders")
		suite.Require().Equal(http.StatusOK, rec.Code, version)
		suite.Equal(queryCount, rec.Header().Get(httpin.HeaderQueryCount), version)

		var body servers.OrdersResult
		suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		suite.Require().Equal(2, body.Count, version)
		suite.Require().Len(body.Data, 2, version)

		first := body.Data[0]
		suite.Equal(int64(1), first.OrderId, version)
		suite.Equal("userA", first.Name, version)
		suite.Equal("ORDERED", first.OrderStatus, version)
		suite.True(orderedAt.Equal(first.OrderDate), version)
		suite.Equal(servers.Address{City: "Seoul", Street: "1", Zipcode: "1111"}, first.Address, version)
		suite.Equal([]servers.OrderItem{
			{ItemName: "JPA1 BOOK", OrderPrice: 10000, Count: 1},
			{ItemName: "JPA2 BOOK", OrderPrice: 20000, Count: 2},
		}, first.OrderItems, version)
	}
}

func (suite *ServerTestSuite) TestGetOrders_WireShape() {
	rec := suite.get("/api/v5/orders")
	suite.Require().Equal(http.StatusOK, rec.Code)

	var body map[string]any
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Contains(body, "count")
	data, ok := body["data"].([]any)
	suite.Require().True(ok)
	first, ok := data[0].(map[string]any)
	suite.Require().True(ok)
	for _, key := range []string{"orderId", "name", "orderDate", "orderStatus", "address", "orderItems"} {
		suite.Contains(first, key)
	}
}

func (suite *ServerTestSuite) TestGetOrders_SplitBatchedPage() {
	rec := suite.get("/api/v3.1/orders?offset=1&limit=1")
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Equal("2", rec.Header().Get(httpin.HeaderQueryCount))

	var body servers.OrdersResult
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Require().Equal(1, body.Count)
	suite.Equal(int64(2), body.Data[0].OrderId)
	suite.Len(body.Data[0].OrderItems, 2)
}

func (suite *ServerTestSuite) TestGetOrders_SearchByMemberAndStatus() {
	rec := suite.get("/api/v5/orders?memberName=userB&orderStatus=ORDERED")
	suite.Require().Equal(http.StatusOK, rec.Code)

	var body servers.OrdersResult
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Require().Equal(1, body.Count)
	suite.Equal("userB", body.Data[0].Name)
}

func (suite *ServerTestSuite) TestGetOrders_NoMatchIsEmptyList() {
	rec := suite.get("/api/v6/orders?orderStatus=CANCELLED")
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"count":0,"data":[]}`, rec.Body.String())
}

func (suite *ServerTestSuite) TestGetOrders_BadRequests() {
	targets := []string{
		"/api/v3/orders?limit=10",
		"/api/v6/orders?offset=0",
		"/api/v7/orders",
		"/api/v5/orders?limit=abc",
		"/api/v5/orders?limit=0",
		"/api/v5/orders?offset=-1",
		"/api/v3.1/orders?limit=5000",
		"/api/v5/orders?orderStatus=SHIPPED",
	}

	for _, target := range targets {
		rec := suite.get(target)
		suite.Equal(http.StatusBadRequest, rec.Code, target)
		body := suite.decodeError(rec)
		suite.Equal(http.StatusBadRequest, body.Code, target)
		suite.NotEmpty(body.Message, target)
		suite.Empty(rec.Header().Get(httpin.HeaderQueryCount), target)
	}
}

func (suite *ServerTestSuite) TestGetSimpleOrders() {
	expected := map[string]string{"v1": "5", "v2": "5", "v3": "1", "v4": "1"}

	for version, queryCount := range expected {
		rec := suite.get("/api/" + version + "/simple-orders")
		suite.Require().Equal(http.StatusOK, rec.Code, version)
		suite.Equal(queryCount, rec.Header().Get(httpin.HeaderQueryCount), version)

		var body servers.SimpleOrdersResult
		suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		suite.Require().Equal(2, body.Count, version)
		suite.Equal("userB", body.Data[1].Name, version)
		suite.Equal("Busan", body.Data[1].Address.City, version)
	}
}

func (suite *ServerTestSuite) TestGetSimpleOrders_Paged() {
	rec := suite.get("/api/v3/simple-orders?offset=0&limit=1")
	suite.Require().Equal(http.StatusOK, rec.Code)

	var body servers.SimpleOrdersResult
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Require().Equal(1, body.Count)
	suite.Equal(int64(1), body.Data[0].OrderId)
}

func (suite *ServerTestSuite) TestGetSimpleOrders_UnknownVersion() {
	rec := suite.get("/api/v5/simple-orders")
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *ServerTestSuite) TestHealth() {
	rec := suite.get("/health")
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal("Healthy", rec.Body.String())
}

func (suite *ServerTestSuite) TestMetrics() {
	suite.Require().Equal(http.StatusOK, suite.get("/api/v5/orders").Code)

	rec := suite.get("/metrics")
	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "shop_store_queries_total")
	suite.Contains(rec.Body.String(), "shop_fetch_duration_seconds")
}

func (suite *ServerTestSuite) TestSwaggerDoc() {
	rec := suite.get("/swagger/doc.json")
	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "GetOrders")
	suite.Contains(rec.Body.String(), "/api/{version}/simple-orders")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid value", errs.NewValueIsInvalidError("version"), http.StatusBadRequest},
		{"out of range", errs.NewValueIsOutOfRangeError("limit", 0, 1, 10), http.StatusBadRequest},
		{"pagination", errs.NewPaginationIncompatibleError("v3"), http.StatusBadRequest},
		{"joined validation", errors.Join(errs.NewValueIsRequiredError("limit")), http.StatusBadRequest},
		{"not found", errs.NewObjectNotFoundError("member", int64(7)), http.StatusNotFound},
		{"leak", errs.NewEntityLeakedError("data[0]", "*order.Order"), http.StatusInternalServerError},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"client gone", context.Canceled, httpin.StatusClientClosedRequest},
		{"client gone while querying", fmt.Errorf("find orders: %w", context.Canceled), httpin.StatusClientClosedRequest},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, httpin.StatusFor(tt.err))
		})
	}
}

func TestErrorHandler_HidesServerFailures(t *testing.T) {
	e := echo.New()
	handler := httpin.NewErrorHandler(slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v5/orders", nil), rec)
	handler(errors.New("dial tcp 10.0.0.1:5432: connection refused"), c)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body servers.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusInternalServerError, body.Code)
	assert.NotContains(t, body.Message, "10.0.0.1")
}

func TestErrorHandler_ClientGoneIsNotAServerFailure(t *testing.T) {
	var logs bytes.Buffer
	e := echo.New()
	handler := httpin.NewErrorHandler(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelInfo})))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil), rec)
	handler(fmt.Errorf("find members: %w", context.Canceled), c)

	require.Equal(t, httpin.StatusClientClosedRequest, rec.Code)
	var body servers.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, httpin.StatusClientClosedRequest, body.Code)
	assert.Empty(t, logs.String())
}

func TestGetOrders_ClientGone(t *testing.T) {
	data, err := demo.Build(orderedAt)
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelError}))
	reader := graph.NewReader(memory.NewStore(data), logger)
	limits, err := queries.NewPageLimits(100, 1000)
	require.NoError(t, err)
	router := httpin.NewRouter(httpin.NewServer(
		queries.NewGetOrdersQueryHandler(reader, projection.NewProjector(), metrics.SourceHTTP),
		queries.NewGetSimpleOrdersQueryHandler(reader, projection.NewProjector(), metrics.SourceHTTP),
		limits,
	), logger)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil).WithContext(ctx))

	assert.Equal(t, httpin.StatusClientClosedRequest, rec.Code)
	assert.NotContains(t, logs.String(), "read failed")
}
