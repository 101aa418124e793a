package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/dto"
	"github.com/studyhub/studyhub/internal/service/orderservice"
	"github.com/studyhub/studyhub/pkg/auth"
	"github.com/studyhub/studyhub/pkg/utils"
	"github.com/studyhub/studyhub/pkg/validate"
)

type Service interface {
	CreateOrder(ctx context.Context, userID int, item domain.ReviewableRef, paymentNumber string, amount decimal.Decimal) (*domain.Order, error)
	GetOrders(ctx context.Context, userID int) ([]domain.Order, error)
}

type OrderHandler struct {
	orderService Service
}

func New(orderService Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// CreateOrder godoc
//
//	@Summary		Create a purchase order
//	@Description	Record a purchase of a product or course with a Luhn-valid payment number
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.CreateOrderRequestDTO	true	"Order to create"
//	@Security		BearerAuth
//	@Success		202	{object}	dto.OrderResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid body, kind or amount"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Item not found"
//	@Failure		422	{object}	utils.Response	"Invalid payment number"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/orders [post]
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	kind, err := domain.ParseReviewableKind(req.ItemKind)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown item kind")
		return
	}

	if !validate.IsLuhn(req.PaymentNumber) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid payment number")
		return
	}

	amount := decimal.Zero
	if req.Amount != "" {
		amount, err = decimal.NewFromString(req.Amount)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid amount")
			return
		}
	}

	order, err := h.orderService.CreateOrder(r.Context(), userID,
		domain.ReviewableRef{Kind: kind, ID: req.ItemID}, req.PaymentNumber, amount)
	if err != nil {
		switch {
		case errors.Is(err, orderservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, orderservice.ErrItemNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusAccepted, toOrderDTO(order))
}

// GetOrders godoc
//
//	@Summary		List own orders
//	@Tags			Orders
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.OrderResponseDTO
//	@Failure		204	{object}	utils.Response	"No data available"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/orders [get]
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	orders, err := h.orderService.GetOrders(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(orders) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}

	response := make([]dto.OrderResponseDTO, 0, len(orders))
	for i := range orders {
		response = append(response, toOrderDTO(&orders[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func toOrderDTO(order *domain.Order) dto.OrderResponseDTO {
	return dto.OrderResponseDTO{
		ID:            order.ID,
		ItemID:        order.Item.ID,
		ItemKind:      string(order.Item.Kind),
		PaymentNumber: order.PaymentNumber,
		Amount:        order.Amount.String(),
		Status:        order.Status,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}
}
