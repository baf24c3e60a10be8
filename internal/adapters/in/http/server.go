package http

import (
	"net/http"
	"strconv"

	"shop/internal/adapters/in/http/servers"
	"shop/internal/core/application/projection"
	"shop/internal/core/application/usecases/queries"
	"shop/internal/core/domain/model/fetch"
	"shop/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// HeaderQueryCount carries the number of store round trips a read took.
const HeaderQueryCount = "X-Query-Count"

// Server implements servers.ServerInterface on top of the read use cases.
type Server struct {
	getOrdersHandler       queries.GetOrdersQueryHandler
	getSimpleOrdersHandler queries.GetSimpleOrdersQueryHandler
	limits                 queries.PageLimits
}

// NewServer creates a new HTTP server with the read query handlers.
func NewServer(
	getOrdersHandler queries.GetOrdersQueryHandler,
	getSimpleOrdersHandler queries.GetSimpleOrdersQueryHandler,
	limits queries.PageLimits,
) *Server {
	return &Server{
		getOrdersHandler:       getOrdersHandler,
		getSimpleOrdersHandler: getSimpleOrdersHandler,
		limits:                 limits,
	}
}

// GetOrders handles GET /api/{version}/orders.
func (s *Server) GetOrders(ctx echo.Context, version string, params servers.GetOrdersParams) error {
	search, err := bindSearch(ctx, params)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrdersQuery(version, params.Offset, params.Limit, search, s.limits)
	if err != nil {
		return err
	}

	response, err := s.getOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	data := make([]servers.Order, len(response.Result.Data))
	for i, dto := range response.Result.Data {
		data[i] = toOrder(dto)
	}

	ctx.Response().Header().Set(HeaderQueryCount, strconv.FormatInt(response.Queries, 10))
	return ctx.JSON(http.StatusOK, servers.OrdersResult{Count: response.Result.Count, Data: data})
}

// GetSimpleOrders handles GET /api/{version}/simple-orders.
func (s *Server) GetSimpleOrders(ctx echo.Context, version string, params servers.GetSimpleOrdersParams) error {
	search, err := bindSearch(ctx, params)
	if err != nil {
		return err
	}

	query, err := queries.NewGetSimpleOrdersQuery(version, params.Offset, params.Limit, search, s.limits)
	if err != nil {
		return err
	}

	response, err := s.getSimpleOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	data := make([]servers.SimpleOrder, len(response.Result.Data))
	for i, dto := range response.Result.Data {
		data[i] = servers.SimpleOrder{
			OrderId:     dto.OrderID,
			Name:        dto.Name,
			OrderDate:   dto.OrderDate,
			OrderStatus: dto.OrderStatus,
			Address:     toAddress(dto.Address),
		}
	}

	ctx.Response().Header().Set(HeaderQueryCount, strconv.FormatInt(response.Queries, 10))
	return ctx.JSON(http.StatusOK, servers.SimpleOrdersResult{Count: response.Result.Count, Data: data})
}

func bindSearch(ctx echo.Context, params servers.ListParams) (fetch.OrderSearch, error) {
	if err := ctx.Validate(params); err != nil {
		return fetch.OrderSearch{}, err
	}

	var search fetch.OrderSearch
	if params.MemberName != nil {
		search.MemberName = *params.MemberName
	}
	if params.OrderStatus != nil {
		status, err := order.ParseStatus(*params.OrderStatus)
		if err != nil {
			return fetch.OrderSearch{}, err
		}
		search.Status = status
	}
	return search, nil
}

func toOrder(dto projection.OrderDTO) servers.Order {
	items := make([]servers.OrderItem, len(dto.OrderItems))
	for i, line := range dto.OrderItems {
		items[i] = servers.OrderItem{
			ItemName:   line.ItemName,
			OrderPrice: line.OrderPrice,
			Count:      line.Count,
		}
	}

	return servers.Order{
		OrderId:     dto.OrderID,
		Name:        dto.Name,
		OrderDate:   dto.OrderDate,
		OrderStatus: dto.OrderStatus,
		Address:     toAddress(dto.Address),
		OrderItems:  items,
	}
}

func toAddress(dto projection.AddressDTO) servers.Address {
	return servers.Address{City: dto.City, Street: dto.Street, Zipcode: dto.Zipcode}
}
