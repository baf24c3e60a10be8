// Package servers holds the HTTP contract of the read API as described by
// openapi.yml: wire types, the ServerInterface the adapter implements, and the
// Echo wrapper that binds path and query parameters.
//
// The code follows the layout oapi-codegen emits for Echo servers but is
// maintained by hand next to openapi.yml. The two query operations share one
// parameter struct. servers_test.go checks that every operation in
// openapi.yml has a registered route.
package servers

import (
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yml
var openapiSpec []byte

// Address defines model for Address.
type Address struct {
	City    string `json:"city"`
	Street  string `json:"street"`
	Zipcode string `json:"zipcode"`
}

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Order defines model for Order.
type Order struct {
	Address     Address     `json:"address"`
	Name        string      `json:"name"`
	OrderDate   time.Time   `json:"orderDate"`
	OrderId     int64       `json:"orderId"`
	OrderItems  []OrderItem `json:"orderItems"`
	OrderStatus string      `json:"orderStatus"`
}

// OrderItem defines model for OrderItem.
type OrderItem struct {
	Count      int    `json:"count"`
	ItemName   string `json:"itemName"`
	OrderPrice int    `json:"orderPrice"`
}

// OrdersResult defines model for OrdersResult.
type OrdersResult struct {
	Count int     `json:"count"`
	Data  []Order `json:"data"`
}

// SimpleOrder defines model for SimpleOrder.
type SimpleOrder struct {
	Address     Address   `json:"address"`
	Name        string    `json:"name"`
	OrderDate   time.Time `json:"orderDate"`
	OrderId     int64     `json:"orderId"`
	OrderStatus string    `json:"orderStatus"`
}

// SimpleOrdersResult defines model for SimpleOrdersResult.
type SimpleOrdersResult struct {
	Count int           `json:"count"`
	Data  []SimpleOrder `json:"data"`
}

// ListParams defines the query parameters shared by both read operations.
type ListParams struct {
	Offset      *int    `form:"offset,omitempty" json:"offset,omitempty" validate:"omitempty,min=0"`
	Limit       *int    `form:"limit,omitempty" json:"limit,omitempty" validate:"omitempty,min=1"`
	MemberName  *string `form:"memberName,omitempty" json:"memberName,omitempty" validate:"omitempty,max=255"`
	OrderStatus *string `form:"orderStatus,omitempty" json:"orderStatus,omitempty" validate:"omitempty,oneof=ORDERED CANCELLED"`
}

// GetOrdersParams defines parameters for GetOrders.
type GetOrdersParams = ListParams

// GetSimpleOrdersParams defines parameters for GetSimpleOrders.
type GetSimpleOrdersParams = ListParams

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Orders with their lines
	// (GET /api/{version}/orders)
	GetOrders(ctx echo.Context, version string, params GetOrdersParams) error
	// Orders with member and delivery only
	// (GET /api/{version}/simple-orders)
	GetSimpleOrders(ctx echo.Context, version string, params GetSimpleOrdersParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// GetOrders converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrders(ctx echo.Context) error {
	version, params, err := bindListParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrders(ctx, version, params)
}

// GetSimpleOrders converts echo context to params.
func (w *ServerInterfaceWrapper) GetSimpleOrders(ctx echo.Context) error {
	version, params, err := bindListParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetSimpleOrders(ctx, version, params)
}

func bindListParams(ctx echo.Context) (string, ListParams, error) {
	var version string
	err := runtime.BindStyledParameterWithOptions("simple", "version", ctx.Param("version"), &version,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", ListParams{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter version: %s", err))
	}

	var params ListParams
	if err = runtime.BindQueryParameter("form", true, false, "offset", ctx.QueryParams(), &params.Offset); err != nil {
		return "", ListParams{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter offset: %s", err))
	}
	if err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit); err != nil {
		return "", ListParams{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}
	if err = runtime.BindQueryParameter("form", true, false, "memberName", ctx.QueryParams(), &params.MemberName); err != nil {
		return "", ListParams{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter memberName: %s", err))
	}
	if err = runtime.BindQueryParameter("form", true, false, "orderStatus", ctx.QueryParams(), &params.OrderStatus); err != nil {
		return "", ListParams{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderStatus: %s", err))
	}

	return version, params, nil
}

// EchoRouter is the subset of echo.Echo and echo.Group used to register handlers.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the
// paths, so that the paths can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET(baseURL+"/api/:version/orders", wrapper.GetOrders)
	router.GET(baseURL+"/api/:version/simple-orders", wrapper.GetSimpleOrders)
}

// GetSwagger returns the OpenAPI document embedded in this package.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading embedded OpenAPI document: %w", err)
	}
	return swagger, nil
}
