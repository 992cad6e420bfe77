package http

import (
	"net/http"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// GetPermissions handles GET /api/v1/orders/{orderId}/permissions.
func (s *Server) GetPermissions(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.fail(c, err)
	}

	var recipientParam *string
	if err = runtime.BindQueryParameter("form", true, false, "recipientId", c.QueryParams(), &recipientParam); err != nil {
		return s.fail(c, fieldError("recipientId", err))
	}

	var recipient *kernel.UUID
	if recipientParam != nil {
		id, convErr := parseUUID("recipientId", *recipientParam)
		if convErr != nil {
			return s.fail(c, convErr)
		}
		recipient = &id
	}

	q, err := queries.NewGateQuery(orderID, actorOf(c), recipient)
	if err != nil {
		return s.fail(c, err)
	}

	permissions, err := s.handlers.Gate.Handle(c.Request().Context(), q)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toPermissionsResponse(permissions))
}

// RateOrder handles POST /api/v1/orders/{orderId}/rating.
func (s *Server) RateOrder(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req RateRequest
	if err = bindBody(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRateOrderCommand(orderID, actorOf(c).ID, req.Score, req.Comment)
	if err != nil {
		return s.fail(c, err)
	}

	r, err := s.handlers.RateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toRatingResponse(r))
}

// SendMessage handles POST /api/v1/orders/{orderId}/messages.
func (s *Server) SendMessage(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req SendMessageRequest
	if err = bindBody(c, &req); err != nil {
		return s.fail(c, err)
	}
	recipient, err := toKernelUUID("recipientId", req.RecipientID)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewSendMessageCommand(orderID, actorOf(c).ID, recipient, req.Body)
	if err != nil {
		return s.fail(c, err)
	}

	m, err := s.handlers.SendMessage.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toMessageResponse(m))
}

// ListMessages handles GET /api/v1/orders/{orderId}/messages.
func (s *Server) ListMessages(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.fail(c, err)
	}
	limit, err := limitParam(c)
	if err != nil {
		return s.fail(c, err)
	}

	q, err := queries.NewListMessagesQuery(orderID, actorOf(c).ID, limit)
	if err != nil {
		return s.fail(c, err)
	}

	messages, err := s.handlers.ListMessages.Handle(c.Request().Context(), q)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]MessageResponse, len(messages))
	for i, m := range messages {
		response[i] = toMessageResponse(m)
	}
	return c.JSON(http.StatusOK, response)
}

func bindLocation(c echo.Context) (kernel.Location, time.Time, error) {
	var req LocationRequest
	if err := bindBody(c, &req); err != nil {
		return kernel.Location{}, time.Time{}, err
	}

	position, err := kernel.NewLocation(req.Latitude, req.Longitude)
	if err != nil {
		return kernel.Location{}, time.Time{}, err
	}

	recordedAt := time.Now().UTC()
	if req.RecordedAt != nil {
		recordedAt = req.RecordedAt.UTC()
	}
	return position, recordedAt, nil
}

// UpdateCourierLocation handles PUT /api/v1/couriers/me/location.
func (s *Server) UpdateCourierLocation(c echo.Context) error {
	actor := actorOf(c)
	if err := requireRole(actor, kernel.RoleCourier, "report courier location"); err != nil {
		return s.fail(c, err)
	}

	position, recordedAt, err := bindLocation(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewUpdateCourierLocationCommand(actor.ID, position, recordedAt)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.handlers.UpdateCourierLocation.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UpdateOrderLocation handles PUT /api/v1/orders/{orderId}/location.
func (s *Server) UpdateOrderLocation(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.fail(c, err)
	}

	position, recordedAt, err := bindLocation(c)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewUpdateOrderLocationCommand(orderID, actorOf(c).ID, position, recordedAt)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.handlers.UpdateOrderLocation.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetOrderLocation handles GET /api/v1/orders/{orderId}/location.
func (s *Server) GetOrderLocation(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.fail(c, err)
	}

	q, err := queries.NewGetOrderLocationQuery(orderID, actorOf(c).ID)
	if err != nil {
		return s.fail(c, err)
	}

	sample, err := s.handlers.GetOrderLocation.Handle(c.Request().Context(), q)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toLocationResponse(sample))
}

// Live handles GET /api/v1/orders/{orderId}/live. Only the order's client and
// its courier may subscribe.
func (s *Server) Live(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.fail(c, err)
	}

	actor := actorOf(c)
	q, err := queries.NewGateQuery(orderID, actor, nil)
	if err != nil {
		return s.fail(c, err)
	}

	permissions, err := s.handlers.Gate.Handle(c.Request().Context(), q)
	if err != nil {
		return s.fail(c, err)
	}
	if !permissions.IsClient && !permissions.IsCourier {
		return s.fail(c, errs.NewActionIsForbiddenError(actor, "watch order "+orderID.String()))
	}

	// The upgrader has already answered the request when Serve fails.
	if err = s.live.Serve(c.Response(), c.Request(), orderID); err != nil {
		s.logger.WarnContext(c.Request().Context(), "Live feed upgrade failed", "orderId", orderID, "error", err)
	}
	return nil
}
