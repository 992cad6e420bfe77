package http

import (
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// orderIDParam binds the orderId path parameter.
func orderIDParam(c echo.Context) (kernel.UUID, error) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", c.Param("orderId"), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return kernel.UUID{}, fieldError("orderId", err)
	}
	return parseUUID("orderId", raw)
}

// limitParam binds the optional limit query parameter; zero means the default.
func limitParam(c echo.Context) (int, error) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &limit); err != nil {
		return 0, fieldError("limit", err)
	}
	if limit == nil {
		return 0, nil
	}
	return *limit, nil
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	actor := actorOf(c)
	if err := requireRole(actor, kernel.RoleClient, "create order"); err != nil {
		return s.fail(c, err)
	}

	var req CreateOrderRequest
	if err := bindBody(c, &req); err != nil {
		return s.fail(c, err)
	}

	address, err := toAddress(req.Address)
	if err != nil {
		return s.fail(c, err)
	}
	items, err := toLineItemInputs(req.Items)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), actor.ID, address, items)
	if err != nil {
		return s.fail(c, err)
	}

	o, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toOrderResponse(queries.NewOrderView(o)))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.fail(c, err)
	}

	q, err := queries.NewGetOrderQuery(orderID, actorOf(c))
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), q)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(view))
}

// ListUnclaimedOrders handles GET /api/v1/orders/unclaimed.
func (s *Server) ListUnclaimedOrders(c echo.Context) error {
	if err := requireRole(actorOf(c), kernel.RoleCourier, "list unclaimed orders"); err != nil {
		return s.fail(c, err)
	}

	limit, err := limitParam(c)
	if err != nil {
		return s.fail(c, err)
	}

	q, err := queries.NewListUnclaimedOrdersQuery(limit)
	if err != nil {
		return s.fail(c, err)
	}

	views, err := s.handlers.ListUnclaimed.Handle(c.Request().Context(), q)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]OrderResponse, len(views))
	for i, view := range views {
		response[i] = toOrderResponse(view)
	}
	return c.JSON(http.StatusOK, response)
}

// EditOrder handles PUT /api/v1/orders/{orderId}/items.
func (s *Server) EditOrder(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req EditItemsRequest
	if err = bindBody(c, &req); err != nil {
		return s.fail(c, err)
	}
	items, err := toLineItemInputs(req.Items)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewEditOrderCommand(orderID, actorOf(c).ID, items)
	if err != nil {
		return s.fail(c, err)
	}

	o, err := s.handlers.EditOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(queries.NewOrderView(o)))
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actorOf(c).ID)
	if err != nil {
		return s.fail(c, err)
	}

	o, err := s.handlers.CancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(queries.NewOrderView(o)))
}

// DeleteOrder handles DELETE /api/v1/orders/{orderId}.
func (s *Server) DeleteOrder(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID, actorOf(c).ID)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.handlers.DeleteOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ClaimOrder handles POST /api/v1/orders/{orderId}/claim.
func (s *Server) ClaimOrder(c echo.Context) error {
	actor := actorOf(c)
	if err := requireRole(actor, kernel.RoleCourier, "claim order"); err != nil {
		return s.fail(c, err)
	}

	orderID, err := orderIDParam(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, actor.ID)
	if err != nil {
		return s.fail(c, err)
	}

	o, err := s.handlers.ClaimOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(queries.NewOrderView(o)))
}

// AdvanceOrder handles POST /api/v1/orders/{orderId}/advance.
func (s *Server) AdvanceOrder(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req AdvanceRequest
	if err = bindBody(c, &req); err != nil {
		return s.fail(c, err)
	}
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAdvanceOrderCommand(orderID, actorOf(c).ID, target)
	if err != nil {
		return s.fail(c, err)
	}

	o, err := s.handlers.AdvanceOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(queries.NewOrderView(o)))
}
