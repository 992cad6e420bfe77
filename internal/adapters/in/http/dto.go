package http

import (
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/location"
	"fooddelivery/internal/core/domain/model/message"
	"fooddelivery/internal/core/domain/model/rating"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

type AddressRequest struct {
	DistrictID   openapi_types.UUID `json:"districtId"`
	Neighborhood string             `json:"neighborhood"`
	Street       string             `json:"street"`
}

type LineItemRequest struct {
	ProductID openapi_types.UUID `json:"productId"`
	Quantity  int                `json:"quantity"`
}

type CreateOrderRequest struct {
	Address AddressRequest    `json:"address"`
	Items   []LineItemRequest `json:"items"`
}

type EditItemsRequest struct {
	Items []LineItemRequest `json:"items"`
}

type AdvanceRequest struct {
	Status string `json:"status"`
}

type RateRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

type SendMessageRequest struct {
	RecipientID openapi_types.UUID `json:"recipientId"`
	Body        string             `json:"body"`
}

// LocationRequest is a position report. RecordedAt defaults to the time the
// request is received.
type LocationRequest struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	RecordedAt *time.Time `json:"recordedAt,omitempty"`
}

type AddressResponse struct {
	DistrictID   string `json:"districtId"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
}

type LineItemResponse struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

type OrderResponse struct {
	ID           string             `json:"id"`
	ClientID     string             `json:"clientId"`
	CourierID    *string            `json:"courierId"`
	RestaurantID string             `json:"restaurantId"`
	Status       string             `json:"status"`
	Items        []LineItemResponse `json:"items"`
	Total        string             `json:"total"`
	Address      AddressResponse    `json:"address"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

type PermissionsResponse struct {
	IsClient          bool    `json:"isClient"`
	IsCourier         bool    `json:"isCourier"`
	CanChange         bool    `json:"canChange"`
	CanClaim          bool    `json:"canClaim"`
	CanAdvance        bool    `json:"canAdvance"`
	CanUpdateLocation bool    `json:"canUpdateLocation"`
	CanViewLocation   bool    `json:"canViewLocation"`
	CanRate           bool    `json:"canRate"`
	CanMessage        bool    `json:"canMessage"`
	MessagePeer       *string `json:"messagePeer"`
}

type RatingResponse struct {
	OrderID   string    `json:"orderId"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessageResponse struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Body        string    `json:"body"`
	SentAt      time.Time `json:"sentAt"`
}

type LocationResponse struct {
	SubjectID  string    `json:"subjectId"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recordedAt"`
}

func toKernelUUID(field string, id openapi_types.UUID) (kernel.UUID, error) {
	parsed, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}, fieldError(field, err)
	}
	return parsed, nil
}

func parseUUID(field, raw string) (kernel.UUID, error) {
	parsed, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, fieldError(field, err)
	}
	return parsed, nil
}

func toLineItemInputs(items []LineItemRequest) ([]commands.LineItemInput, error) {
	inputs := make([]commands.LineItemInput, 0, len(items))
	for _, item := range items {
		productID, err := toKernelUUID("productId", item.ProductID)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, commands.LineItemInput{ProductID: productID, Quantity: item.Quantity})
	}
	return inputs, nil
}

func toAddress(req AddressRequest) (kernel.Address, error) {
	districtID, err := toKernelUUID("address.districtId", req.DistrictID)
	if err != nil {
		return kernel.Address{}, err
	}
	return kernel.NewAddress(districtID, req.Neighborhood, req.Street)
}

func uuidString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func toOrderResponse(v queries.OrderView) OrderResponse {
	items := make([]LineItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, LineItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
		})
	}

	return OrderResponse{
		ID:           v.ID.String(),
		ClientID:     v.ClientID.String(),
		CourierID:    uuidString(v.CourierID),
		RestaurantID: v.RestaurantID.String(),
		Status:       v.Status.String(),
		Items:        items,
		Total:        v.Total.StringFixed(2),
		Address: AddressResponse{
			DistrictID:   v.Address.DistrictID().String(),
			Neighborhood: v.Address.Neighborhood(),
			Street:       v.Address.Street(),
		},
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func toPermissionsResponse(p queries.GateQueryResponse) PermissionsResponse {
	return PermissionsResponse{
		IsClient:          p.IsClient,
		IsCourier:         p.IsCourier,
		CanChange:         p.CanChange,
		CanClaim:          p.CanClaim,
		CanAdvance:        p.CanAdvance,
		CanUpdateLocation: p.CanUpdateLocation,
		CanViewLocation:   p.CanViewLocation,
		CanRate:           p.CanRate,
		CanMessage:        p.CanMessage,
		MessagePeer:       uuidString(p.MessagePeer),
	}
}

func toRatingResponse(r *rating.Rating) RatingResponse {
	return RatingResponse{
		OrderID:   r.OrderID().String(),
		Score:     r.Score(),
		Comment:   r.Comment(),
		CreatedAt: r.CreatedAt(),
	}
}

func toMessageResponse(m *message.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID().String(),
		OrderID:     m.OrderID().String(),
		SenderID:    m.SenderID().String(),
		RecipientID: m.RecipientID().String(),
		Body:        m.Body(),
		SentAt:      m.SentAt(),
	}
}

func toLocationResponse(s *location.Sample) LocationResponse {
	return LocationResponse{
		SubjectID:  s.SubjectID().String(),
		Latitude:   s.Position().Latitude(),
		Longitude:  s.Position().Longitude(),
		RecordedAt: s.RecordedAt(),
	}
}
