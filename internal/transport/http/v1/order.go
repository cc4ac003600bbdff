package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stroyast/sales-agent/internal/model"
)

type OrderService interface {
	Price(ctx context.Context, params model.PriceOrderParams) (*model.PriceOrderResult, error)
	OrderByID(ctx context.Context, ordID uuid.UUID) (*model.PricedOrder, error)
}

type orderHandler struct {
	svc OrderService
}

func NewOrderHandler(service OrderService) *orderHandler {
	return &orderHandler{svc: service}
}

func (h *orderHandler) Register(r chi.Router) {
	r.Post("/orders/price", h.price)
	r.Get("/orders/{order_id}", h.orderByID)
}

type orderLineRequest struct {
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	RequestedUnit string          `json:"requested_unit"`
}

type priceOrderRequest struct {
	Lines []orderLineRequest `json:"lines"`
}

type orderLineResponse struct {
	ProductCode   string  `json:"product_code,omitempty"`
	ProductName   string  `json:"product_name,omitempty"`
	Quantity      string  `json:"quantity"`
	RequestedUnit string  `json:"requested_unit,omitempty"`
	UnitPrice     *string `json:"unit_price,omitempty"`
	LineTotal     *string `json:"line_total,omitempty"`
	Availability  *string `json:"availability,omitempty"`
	Comment       *string `json:"comment,omitempty"`
}

type priceOrderResponse struct {
	OrderID               string              `json:"order_id"`
	Lines                 []orderLineResponse `json:"lines"`
	Subtotal              string              `json:"subtotal"`
	Currency              string              `json:"currency"`
	Status                string              `json:"status"`
	UnresolvedLineIndices []int               `json:"unresolved_line_indices"`
}

func (h *orderHandler) price(w http.ResponseWriter, r *http.Request) {
	var req priceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body", model.ErrValidation))
		return
	}

	lines := make([]model.OrderLine, 0, len(req.Lines))
	for i, l := range req.Lines {
		if l.Quantity.Sign() <= 0 {
			writeError(w, r, fmt.Errorf("%w: line %d: quantity must be positive", model.ErrValidation, i))
			return
		}
		lines = append(lines, model.OrderLine{
			ProductCode:   l.ProductCode,
			ProductName:   l.ProductName,
			Quantity:      l.Quantity,
			RequestedUnit: l.RequestedUnit,
		})
	}

	res, err := h.svc.Price(r.Context(), model.PriceOrderParams{Lines: lines})
	if err != nil {
		writeError(w, r, err)
		return
	}

	indices := res.Totals.UnresolvedLineIndices
	if indices == nil {
		indices = []int{}
	}

	writeJSON(w, r, http.StatusOK, priceOrderResponse{
		OrderID:               res.ID.String(),
		Lines:                 toLineResponses(res.Lines),
		Subtotal:              res.Totals.Subtotal.StringFixed(2),
		Currency:              res.Totals.Currency,
		Status:                string(res.Status),
		UnresolvedLineIndices: indices,
	})
}

type orderResponse struct {
	OrderID   string              `json:"order_id"`
	Lines     []orderLineResponse `json:"lines"`
	Subtotal  string              `json:"subtotal"`
	Currency  string              `json:"currency"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

func (h *orderHandler) orderByID(w http.ResponseWriter, r *http.Request) {
	ordID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid order_id", model.ErrValidation))
		return
	}

	ord, err := h.svc.OrderByID(r.Context(), ordID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, orderResponse{
		OrderID:   ord.ID.String(),
		Lines:     toLineResponses(ord.Lines),
		Subtotal:  ord.Subtotal.StringFixed(2),
		Currency:  ord.Currency,
		Status:    string(ord.Status),
		CreatedAt: ord.CreatedAt,
	})
}

func toLineResponses(lines []model.OrderLine) []orderLineResponse {
	out := make([]orderLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, orderLineResponse{
			ProductCode:   l.ProductCode,
			ProductName:   l.ProductName,
			Quantity:      l.Quantity.String(),
			RequestedUnit: l.RequestedUnit,
			UnitPrice:     decString(l.UnitPrice),
			LineTotal:     decString(l.LineTotal),
			Availability:  l.Availability,
			Comment:       l.Comment,
		})
	}
	return out
}

func decString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
