package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var testSecret = []byte("test-secret")

type orderUoWs func() commands.OrderUoW

func (f orderUoWs) Create() commands.OrderUoW { return f() }

type ratingUoWs func() commands.RatingUoW

func (f ratingUoWs) Create() commands.RatingUoW { return f() }

type messageUoWs func() commands.MessageUoW

func (f messageUoWs) Create() commands.MessageUoW { return f() }

type locationUoWs func() commands.LocationUoW

func (f locationUoWs) Create() commands.LocationUoW { return f() }

type discardNotifier struct{}

func (discardNotifier) Notify(kernel.UUID, ports.LiveEvent) {}

type refusingFeed struct{}

func (refusingFeed) Serve(w http.ResponseWriter, _ *http.Request, _ kernel.UUID) error {
	w.WriteHeader(http.StatusTeapot)
	return nil
}

type ServerTestSuite struct {
	suite.Suite

	e          *echo.Echo
	restaurant kernel.UUID
	burger     kernel.UUID
	fries      kernel.UUID
	client     kernel.UUID
	courier    kernel.UUID
	rival      kernel.UUID
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.restaurant = kernel.NewUUID()
	s.burger = kernel.NewUUID()
	s.fries = kernel.NewUUID()
	s.client = kernel.NewUUID()
	s.courier = kernel.NewUUID()
	s.rival = kernel.NewUUID()

	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	menu := memory.NewCatalog(
		catalog.Product{ID: s.burger, RestaurantID: s.restaurant, Price: decimal.RequireFromString("8.50")},
		catalog.Product{ID: s.fries, RestaurantID: s.restaurant, Price: decimal.RequireFromString("3.00")},
	)
	orders := orderUoWs(func() commands.OrderUoW { return factory.Create() })
	gate := services.NewGate()
	notifier := discardNotifier{}

	handlers := httpadapter.Handlers{
		CreateOrder:  commands.NewCreateOrderCommandHandler(orders, menu),
		EditOrder:    commands.NewEditOrderCommandHandler(orders, menu),
		CancelOrder:  commands.NewCancelOrderCommandHandler(orders, notifier),
		DeleteOrder:  commands.NewDeleteOrderCommandHandler(orders),
		ClaimOrder:   commands.NewClaimOrderCommandHandler(orders, notifier),
		AdvanceOrder: commands.NewAdvanceOrderCommandHandler(orders, notifier),
		RateOrder: commands.NewRateOrderCommandHandler(
			ratingUoWs(func() commands.RatingUoW { return factory.Create() }),
		),
		SendMessage: commands.NewSendMessageCommandHandler(
			messageUoWs(func() commands.MessageUoW { return factory.Create() }), gate, notifier,
		),
		UpdateCourierLocation: commands.NewUpdateCourierLocationCommandHandler(
			locationUoWs(func() commands.LocationUoW { return factory.Create() }),
		),
		UpdateOrderLocation: commands.NewUpdateOrderLocationCommandHandler(
			locationUoWs(func() commands.LocationUoW { return factory.Create() }), gate, notifier,
		),
		GetOrder:         queries.NewGetOrderQueryHandler(factory),
		ListUnclaimed:    queries.NewListUnclaimedOrdersQueryHandler(factory),
		Gate:             queries.NewGateQueryHandler(factory, gate),
		ListMessages:     queries.NewListMessagesQueryHandler(factory, gate),
		GetOrderLocation: queries.NewGetOrderLocationQueryHandler(factory, gate),
	}

	server := httpadapter.NewServer(handlers, refusingFeed{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e, err := server.NewEcho(context.Background(), httpadapter.Config{
		JWTSecret:      testSecret,
		RequestTimeout: time.Second,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	})
	s.Require().NoError(err)
	s.e = e
}

func token(id kernel.UUID, role kernel.Role) string {
	claims := httpadapter.ActorClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *ServerTestSuite) do(method, path, bearer string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) asClient(method, path string, body any) *httptest.ResponseRecorder {
	return s.do(method, path, token(s.client, kernel.RoleClient), body)
}

func (s *ServerTestSuite) asCourier(courier kernel.UUID, method, path string, body any) *httptest.ResponseRecorder {
	return s.do(method, path, token(courier, kernel.RoleCourier), body)
}

func (s *ServerTestSuite) newOrderBody() map[string]any {
	return map[string]any{
		"address": map[string]any{
			"districtId":   kernel.NewUUID().String(),
			"neighborhood": "Old Town",
			"street":       "12 Baker St",
		},
		"items": []map[string]any{
			{"productId": s.burger.String(), "quantity": 2},
			{"productId": s.fries.String(), "quantity": 1},
		},
	}
}

func decode[T any](s *ServerTestSuite, rec *httptest.ResponseRecorder) T {
	var v T
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *ServerTestSuite) assertError(rec *httptest.ResponseRecorder, status int, code string) {
	s.Equal(status, rec.Code, rec.Body.String())
	s.Equal(code, decode[httpadapter.ErrorResponse](s, rec).Code)
}

func (s *ServerTestSuite) createOrder() httpadapter.OrderResponse {
	rec := s.asClient(http.MethodPost, "/api/v1/orders", s.newOrderBody())
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	return decode[httpadapter.OrderResponse](s, rec)
}

func (s *ServerTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ServerTestSuite) TestRequestsWithoutValidTokenAreRejected() {
	s.assertError(s.do(http.MethodGet, "/api/v1/orders/unclaimed", "", nil), http.StatusUnauthorized, httpadapter.CodeUnauthorized)
	s.assertError(s.do(http.MethodGet, "/api/v1/orders/unclaimed", "garbage", nil), http.StatusUnauthorized, httpadapter.CodeUnauthorized)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, httpadapter.ActorClaims{
		Role: "courier",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.courier.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("other-secret"))
	s.Require().NoError(err)
	s.assertError(s.do(http.MethodGet, "/api/v1/orders/unclaimed", forged, nil), http.StatusUnauthorized, httpadapter.CodeUnauthorized)
}

func (s *ServerTestSuite) TestCreateOrder() {
	created := s.createOrder()

	s.Equal("Pending", created.Status)
	s.Equal("20.00", created.Total)
	s.Nil(created.CourierID)
	s.Equal(s.client.String(), created.ClientID)
	s.Equal(s.restaurant.String(), created.RestaurantID)
	s.Len(created.Items, 2)
}

func (s *ServerTestSuite) TestCreateOrder_SecondActiveOrderConflicts() {
	s.createOrder()

	rec := s.asClient(http.MethodPost, "/api/v1/orders", s.newOrderBody())
	s.assertError(rec, http.StatusConflict, httpadapter.CodeConflict)
}

func (s *ServerTestSuite) TestCreateOrder_Validation() {
	tests := []struct {
		name   string
		mutate func(body map[string]any)
	}{
		{"zero quantity", func(body map[string]any) {
			body["items"] = []map[string]any{{"productId": s.burger.String(), "quantity": 0}}
		}},
		{"no items", func(body map[string]any) {
			body["items"] = []map[string]any{}
		}},
		{"missing street", func(body map[string]any) {
			body["address"].(map[string]any)["street"] = ""
		}},
		{"unknown product", func(body map[string]any) {
			body["items"] = []map[string]any{{"productId": kernel.NewUUID().String(), "quantity": 1}}
		}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			body := s.newOrderBody()
			tt.mutate(body)

			rec := s.asClient(http.MethodPost, "/api/v1/orders", body)
			s.assertError(rec, http.StatusBadRequest, httpadapter.CodeValidationFailed)
		})
	}
}

func (s *ServerTestSuite) TestCreateOrder_CouriersCannotOrder() {
	rec := s.asCourier(s.courier, http.MethodPost, "/api/v1/orders", s.newOrderBody())
	s.assertError(rec, http.StatusForbidden, httpadapter.CodeForbidden)
}

func (s *ServerTestSuite) TestGetOrder_UnknownIsNotFound() {
	rec := s.asClient(http.MethodGet, "/api/v1/orders/"+kernel.NewUUID().String(), nil)
	s.assertError(rec, http.StatusNotFound, httpadapter.CodeNotFound)
}

func (s *ServerTestSuite) TestGetOrder_MalformedIDIsValidationError() {
	rec := s.asClient(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	s.assertError(rec, http.StatusBadRequest, httpadapter.CodeValidationFailed)
}

func (s *ServerTestSuite) TestClaimFlow() {
	created := s.createOrder()
	base := "/api/v1/orders/" + created.ID

	unclaimed := decode[[]httpadapter.OrderResponse](s, s.asCourier(s.courier, http.MethodGet, "/api/v1/orders/unclaimed", nil))
	s.Require().Len(unclaimed, 1)
	s.Equal(created.ID, unclaimed[0].ID)

	rec := s.asCourier(s.courier, http.MethodPost, base+"/claim", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	claimed := decode[httpadapter.OrderResponse](s, rec)
	s.Require().NotNil(claimed.CourierID)
	s.Equal(s.courier.String(), *claimed.CourierID)
	s.Equal("Pending", claimed.Status)

	// someone else already took it
	s.assertError(s.asCourier(s.rival, http.MethodPost, base+"/claim", nil), http.StatusConflict, httpadapter.CodeConflict)
	// not yours
	s.assertError(s.asCourier(s.rival, http.MethodGet, base, nil), http.StatusForbidden, httpadapter.CodeForbidden)
	s.assertError(
		s.asCourier(s.rival, http.MethodPost, base+"/advance", map[string]string{"status": "EnRoute"}),
		http.StatusForbidden, httpadapter.CodeForbidden,
	)

	s.assertError(s.asClient(http.MethodPost, base+"/cancel", nil), http.StatusUnprocessableEntity, httpadapter.CodeInvalidTransition)
	s.assertError(s.asClient(http.MethodDelete, base, nil), http.StatusUnprocessableEntity, httpadapter.CodeInvalidTransition)

	s.Empty(decode[[]httpadapter.OrderResponse](s, s.asCourier(s.courier, http.MethodGet, "/api/v1/orders/unclaimed", nil)))
}

func (s *ServerTestSuite) TestClaim_ClientsCannotClaim() {
	created := s.createOrder()

	rec := s.asClient(http.MethodPost, "/api/v1/orders/"+created.ID+"/claim", nil)
	s.assertError(rec, http.StatusForbidden, httpadapter.CodeForbidden)
}

func (s *ServerTestSuite) TestAdvanceToDeliveryAndRate() {
	created := s.createOrder()
	base := "/api/v1/orders/" + created.ID
	s.Require().Equal(http.StatusOK, s.asCourier(s.courier, http.MethodPost, base+"/claim", nil).Code)

	rec := s.asCourier(s.courier, http.MethodPost, base+"/advance", map[string]string{"status": "EnRoute"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("EnRoute", decode[httpadapter.OrderResponse](s, rec).Status)

	// the order is still active, so the rating is refused
	s.assertError(s.asClient(http.MethodPost, base+"/rating", map[string]any{"score": 5}), http.StatusUnprocessableEntity, httpadapter.CodeInvalidTransition)

	rec = s.asCourier(s.courier, http.MethodPost, base+"/advance", map[string]string{"status": "Delivered"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	// a repeated advance acted on a stale read
	s.assertError(
		s.asCourier(s.courier, http.MethodPost, base+"/advance", map[string]string{"status": "Delivered"}),
		http.StatusConflict, httpadapter.CodeConflict,
	)

	permissions := decode[httpadapter.PermissionsResponse](s, s.asClient(http.MethodGet, base+"/permissions", nil))
	s.True(permissions.CanRate)

	rec = s.asClient(http.MethodPost, base+"/rating", map[string]any{"score": 5, "comment": "hot and fast"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.Equal(5, decode[httpadapter.RatingResponse](s, rec).Score)

	s.assertError(s.asClient(http.MethodPost, base+"/rating", map[string]any{"score": 4}), http.StatusConflict, httpadapter.CodeConflict)

	permissions = decode[httpadapter.PermissionsResponse](s, s.asClient(http.MethodGet, base+"/permissions", nil))
	s.False(permissions.CanRate)

	// the client is free to order again
	s.createOrder()
}

func (s *ServerTestSuite) TestAdvance_SkippingEnRouteIsInvalidTransition() {
	created := s.createOrder()
	base := "/api/v1/orders/" + created.ID
	s.Require().Equal(http.StatusOK, s.asCourier(s.courier, http.MethodPost, base+"/claim", nil).Code)

	rec := s.asCourier(s.courier, http.MethodPost, base+"/advance", map[string]string{"status": "Delivered"})
	s.assertError(rec, http.StatusUnprocessableEntity, httpadapter.CodeInvalidTransition)
}

func (s *ServerTestSuite) TestEditCancelAndDeleteWhileUnclaimed() {
	created := s.createOrder()
	base := "/api/v1/orders/" + created.ID

	rec := s.asClient(http.MethodPut, base+"/items", map[string]any{
		"items": []map[string]any{{"productId": s.fries.String(), "quantity": 3}},
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("9.00", decode[httpadapter.OrderResponse](s, rec).Total)

	rec = s.asClient(http.MethodPost, base+"/cancel", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("Cancelled", decode[httpadapter.OrderResponse](s, rec).Status)

	// cancelled orders cannot be claimed
	s.assertError(s.asCourier(s.courier, http.MethodPost, base+"/claim", nil), http.StatusUnprocessableEntity, httpadapter.CodeInvalidTransition)

	second := s.createOrder()
	s.Equal(http.StatusNoContent, s.asClient(http.MethodDelete, "/api/v1/orders/"+second.ID, nil).Code)
	s.assertError(s.asClient(http.MethodGet, "/api/v1/orders/"+second.ID, nil), http.StatusNotFound, httpadapter.CodeNotFound)
}

func (s *ServerTestSuite) TestEdit_OthersCannotEdit() {
	created := s.createOrder()

	rec := s.do(http.MethodPut, "/api/v1/orders/"+created.ID+"/items", token(kernel.NewUUID(), kernel.RoleClient), map[string]any{
		"items": []map[string]any{{"productId": s.fries.String(), "quantity": 1}},
	})
	s.assertError(rec, http.StatusForbidden, httpadapter.CodeForbidden)
}

func (s *ServerTestSuite) TestMessagesBetweenParticipants() {
	created := s.createOrder()
	base := "/api/v1/orders/" + created.ID

	// no courier yet, nobody to talk to
	s.assertError(
		s.asClient(http.MethodPost, base+"/messages", map[string]any{"recipientId": s.courier.String(), "body": "hi"}),
		http.StatusForbidden, httpadapter.CodeForbidden,
	)

	s.Require().Equal(http.StatusOK, s.asCourier(s.courier, http.MethodPost, base+"/claim", nil).Code)

	rec := s.asClient(http.MethodPost, base+"/messages", map[string]any{"recipientId": s.courier.String(), "body": "ring twice"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.asCourier(s.courier, http.MethodPost, base+"/messages", map[string]any{"recipientId": s.client.String(), "body": "on my way"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	messages := decode[[]httpadapter.MessageResponse](s, s.asClient(http.MethodGet, base+"/messages", nil))
	s.Require().Len(messages, 2)
	s.Equal("ring twice", messages[0].Body)
	s.Equal("on my way", messages[1].Body)

	permissions := decode[httpadapter.PermissionsResponse](s, s.asClient(http.MethodGet, base+"/permissions?recipientId="+s.courier.String(), nil))
	s.True(permissions.CanMessage)
	s.Require().NotNil(permissions.MessagePeer)
	s.Equal(s.courier.String(), *permissions.MessagePeer)

	s.assertError(s.asCourier(s.rival, http.MethodGet, base+"/messages", nil), http.StatusForbidden, httpadapter.CodeForbidden)
}

func (s *ServerTestSuite) TestOrderLocation() {
	created := s.createOrder()
	base := "/api/v1/orders/" + created.ID
	s.Require().Equal(http.StatusOK, s.asCourier(s.courier, http.MethodPost, base+"/claim", nil).Code)

	s.assertError(s.asClient(http.MethodGet, base+"/location", nil), http.StatusNotFound, httpadapter.CodeNotFound)

	report := map[string]any{"latitude": 41.01, "longitude": 28.97}
	s.Equal(http.StatusNoContent, s.asCourier(s.courier, http.MethodPut, base+"/location", report).Code)
	s.assertError(s.asCourier(s.rival, http.MethodPut, base+"/location", report), http.StatusForbidden, httpadapter.CodeForbidden)

	rec := s.asClient(http.MethodGet, base+"/location", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	loc := decode[httpadapter.LocationResponse](s, rec)
	s.InDelta(41.01, loc.Latitude, 1e-9)
	s.Equal(s.courier.String(), loc.SubjectID)

	s.assertError(
		s.asCourier(s.courier, http.MethodPut, base+"/location", map[string]any{"latitude": 91.0, "longitude": 0.0}),
		http.StatusBadRequest, httpadapter.CodeValidationFailed,
	)
}

func (s *ServerTestSuite) TestCourierLocation() {
	report := map[string]any{"latitude": 41.01, "longitude": 28.97}

	s.Equal(http.StatusNoContent, s.asCourier(s.courier, http.MethodPut, "/api/v1/couriers/me/location", report).Code)
	s.assertError(s.asClient(http.MethodPut, "/api/v1/couriers/me/location", report), http.StatusForbidden, httpadapter.CodeForbidden)
}

func (s *ServerTestSuite) TestLive_OnlyParticipantsReachTheFeed() {
	created := s.createOrder()
	base := "/api/v1/orders/" + created.ID + "/live"

	s.assertError(s.asCourier(s.rival, http.MethodGet, base, nil), http.StatusForbidden, httpadapter.CodeForbidden)

	rec := s.do(http.MethodGet, base+"?access_token="+token(s.client, kernel.RoleClient), "", nil)
	s.Equal(http.StatusTeapot, rec.Code)
}
