package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cosmoshop/checkout/internal/service/models/cartline"
	"github.com/cosmoshop/checkout/internal/service/models/order"
	"github.com/cosmoshop/checkout/internal/service/models/product"
	"github.com/cosmoshop/checkout/internal/service/services/cartsvc"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Write maps a service error onto the HTTP response: validation
// problems are 400, missing things 404, stock and lifecycle conflicts
// 409, everything else 500.
func Write(w http.ResponseWriter, err error) {
	var stockErr *product.InsufficientStockError
	var stateErr *order.StateConflictError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, cartline.ErrEmptyCart),
		errors.Is(err, cartsvc.ErrInvalidQuantity),
		errors.Is(err, order.ErrNotTransfer),
		errors.Is(err, order.ErrInvalidPaymentMethod),
		errors.Is(err, order.ErrInvalidStatus):
		status = http.StatusBadRequest
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, cartline.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &stockErr), errors.As(err, &stateErr):
		status = http.StatusConflict
	}

	WriteStatus(w, status, err.Error())
}

// WriteStatus writes a JSON error body with the given status.
func WriteStatus(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}
