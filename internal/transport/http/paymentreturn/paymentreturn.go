package paymentreturn

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cosmoshop/checkout/internal/service/models/order"
	"github.com/cosmoshop/checkout/internal/service/services/paymentsvc"
)

// service is an interface for the service layer.
type service interface {
	HandleReturn(ctx context.Context, params map[string]string) (*order.Order, error)
}

type returnResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	OrderID      int64  `json:"orderId,omitempty"`
	Status       string `json:"status,omitempty"`
}

// HandleReturn consumes the gateway's return callback. The gateway is
// an untrusted caller: a forged signature gets the same generic
// acknowledgment as a valid one and mutates nothing.
func HandleReturn(w http.ResponseWriter, r *http.Request, service service) {
	params := map[string]string{}
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}

	w.Header().Set("Content-Type", "application/json")

	o, err := service.HandleReturn(r.Context(), params)
	if err != nil {
		if errors.Is(err, paymentsvc.ErrInvalidSignature) {
			// Logged inside the service; the caller only sees an ack.
			_ = json.NewEncoder(w).Encode(returnResponse{Acknowledged: false})

			return
		}
		if errors.Is(err, order.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(returnResponse{Acknowledged: false})

			return
		}

		w.WriteHeader(http.StatusInternalServerError)
		slog.Error("Error handling gateway return", "error", err)

		return
	}

	if err := json.NewEncoder(w).Encode(returnResponse{
		Acknowledged: true,
		OrderID:      o.ID,
		Status:       o.PaymentStatus.String(),
	}); err != nil {
		slog.Error("Error sending gateway return response", "error", err)
	}
}
