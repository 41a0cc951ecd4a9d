package paymenturl

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cosmoshop/checkout/internal/service/models/order"
	"github.com/cosmoshop/checkout/internal/transport/http/httperr"
	"github.com/cosmoshop/checkout/internal/transport/http/identity"
)

// service is an interface for the service layer.
type service interface {
	PaymentURL(ctx context.Context, orderID int64, clientIP string) (string, error)
}

type paymentURLResponse struct {
	PaymentURL string `json:"paymentUrl"`
}

// PaymentURL returns the stored gateway redirect URL for a TRANSFER
// order, generating it on first call.
func PaymentURL(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httperr.Write(w, order.ErrNotFound)

		return
	}

	url, err := service.PaymentURL(r.Context(), orderID, identity.ClientIP(r))
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error getting payment url", "error", err, "order_id", orderID)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(paymentURLResponse{PaymentURL: url}); err != nil {
		slog.Error("Error sending payment url response", "error", err)
	}
}
