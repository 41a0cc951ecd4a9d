package checkout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/cosmoshop/checkout/internal/service/models/order"
	"github.com/cosmoshop/checkout/internal/transport/http/httperr"
	"github.com/cosmoshop/checkout/internal/transport/http/identity"
)

// service is an interface for the service layer.
type service interface {
	Checkout(ctx context.Context, userID int64, method order.PaymentMethod, phone, address, clientIP string) (*order.Order, error)
}

// checkoutRequest represents a checkout request.
type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required"`
	Phone         string `json:"phone"         validate:"required"`
	Address       string `json:"address"       validate:"required"`
}

// Validate validates the checkout request.
func (r *checkoutRequest) Validate() error {
	return validator.New().Struct(r)
}

type checkoutResponse struct {
	Order      *order.Order `json:"order"`
	PaymentURL string       `json:"paymentUrl,omitempty"`
}

// Checkout handles the checkout request: it converts the caller's cart
// into an order and returns it, with the gateway redirect URL for
// TRANSFER orders.
func Checkout(w http.ResponseWriter, r *http.Request, service service) {
	userID, err := identity.UserID(r)
	if err != nil {
		httperr.WriteStatus(w, http.StatusUnauthorized, err.Error())

		return
	}

	req := checkoutRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.WriteStatus(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding checkout request body", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		httperr.WriteStatus(w, http.StatusBadRequest, err.Error())
		slog.Error("Error validating checkout request body", "error", err)

		return
	}

	method, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		httperr.Write(w, err)

		return
	}

	o, err := service.Checkout(r.Context(), userID, method, req.Phone, req.Address, identity.ClientIP(r))
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error performing checkout", "error", err, "user_id", userID)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(checkoutResponse{Order: o, PaymentURL: o.PaymentURL}); err != nil {
		slog.Error("Error sending checkout response", "error", err)
	}
}
