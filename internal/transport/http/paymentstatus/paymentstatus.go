package paymentstatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cosmoshop/checkout/internal/service/models/order"
	"github.com/cosmoshop/checkout/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	SetPaymentStatus(ctx context.Context, orderID int64, status order.Status) (*order.Order, error)
}

// updateStatusRequest represents an administrative status override.
type updateStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

// Validate validates the update status request.
func (r *updateStatusRequest) Validate() error {
	return validator.New().Struct(r)
}

// UpdatePaymentStatus applies an administrative payment status
// override. Operators may set any state directly; the forward-only
// lifecycle binds only the automated callback path.
func UpdatePaymentStatus(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httperr.Write(w, order.ErrNotFound)

		return
	}

	req := updateStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.WriteStatus(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding payment status request body", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		httperr.WriteStatus(w, http.StatusBadRequest, err.Error())

		return
	}

	status, err := order.ParseStatus(req.PaymentStatus)
	if err != nil {
		httperr.Write(w, err)

		return
	}

	o, err := service.SetPaymentStatus(r.Context(), orderID, status)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error updating payment status", "error", err, "order_id", orderID)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(o); err != nil {
		slog.Error("Error sending payment status response", "error", err)
	}
}
