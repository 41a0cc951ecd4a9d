package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cosmoshop/checkout/internal/service/models/cartline"
	"github.com/cosmoshop/checkout/internal/transport/http/httperr"
	"github.com/cosmoshop/checkout/internal/transport/http/identity"
)

// service is an interface for the service layer.
type service interface {
	Lines(ctx context.Context, userID int64) ([]cartline.Line, error)
	AddProduct(ctx context.Context, userID, productID int64, quantity int) (*cartline.Line, error)
	UpdateQuantity(ctx context.Context, userID, lineID int64, quantity int) (*cartline.Line, error)
	RemoveLine(ctx context.Context, userID, lineID int64) error
	Clear(ctx context.Context, userID int64) error
}

// addLineRequest represents an add-to-cart request.
type addLineRequest struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int   `json:"quantity"  validate:"gt=0"`
}

func (r *addLineRequest) Validate() error {
	return validator.New().Struct(r)
}

// updateLineRequest represents a quantity update; zero removes the line.
type updateLineRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

func (r *updateLineRequest) Validate() error {
	return validator.New().Struct(r)
}

// ListLines returns the caller's cart lines.
func ListLines(w http.ResponseWriter, r *http.Request, service service) {
	userID, err := identity.UserID(r)
	if err != nil {
		httperr.WriteStatus(w, http.StatusUnauthorized, err.Error())

		return
	}

	lines, err := service.Lines(r.Context(), userID)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error listing cart lines", "error", err, "user_id", userID)

		return
	}
	if lines == nil {
		lines = []cartline.Line{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(lines); err != nil {
		slog.Error("Error sending cart response", "error", err)
	}
}

// AddLine puts a product into the caller's cart.
func AddLine(w http.ResponseWriter, r *http.Request, service service) {
	userID, err := identity.UserID(r)
	if err != nil {
		httperr.WriteStatus(w, http.StatusUnauthorized, err.Error())

		return
	}

	req := addLineRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.WriteStatus(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding add cart line request", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		httperr.WriteStatus(w, http.StatusBadRequest, err.Error())

		return
	}

	line, err := service.AddProduct(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error adding cart line", "error", err, "user_id", userID)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(line); err != nil {
		slog.Error("Error sending cart response", "error", err)
	}
}

// UpdateLine sets a cart line's quantity; zero removes it.
func UpdateLine(w http.ResponseWriter, r *http.Request, service service) {
	userID, err := identity.UserID(r)
	if err != nil {
		httperr.WriteStatus(w, http.StatusUnauthorized, err.Error())

		return
	}

	lineID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httperr.Write(w, cartline.ErrNotFound)

		return
	}

	req := updateLineRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.WriteStatus(w, http.StatusBadRequest, err.Error())

		return
	}

	if err := req.Validate(); err != nil {
		httperr.WriteStatus(w, http.StatusBadRequest, err.Error())

		return
	}

	line, err := service.UpdateQuantity(r.Context(), userID, lineID, req.Quantity)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error updating cart line", "error", err, "user_id", userID)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if line == nil {
		w.WriteHeader(http.StatusNoContent)

		return
	}
	if err := json.NewEncoder(w).Encode(line); err != nil {
		slog.Error("Error sending cart response", "error", err)
	}
}

// DeleteLine removes one line from the caller's cart.
func DeleteLine(w http.ResponseWriter, r *http.Request, service service) {
	userID, err := identity.UserID(r)
	if err != nil {
		httperr.WriteStatus(w, http.StatusUnauthorized, err.Error())

		return
	}

	lineID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httperr.Write(w, cartline.ErrNotFound)

		return
	}

	if err := service.RemoveLine(r.Context(), userID, lineID); err != nil {
		httperr.Write(w, err)
		slog.Error("Error deleting cart line", "error", err, "user_id", userID)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Clear empties the caller's cart.
func Clear(w http.ResponseWriter, r *http.Request, service service) {
	userID, err := identity.UserID(r)
	if err != nil {
		httperr.WriteStatus(w, http.StatusUnauthorized, err.Error())

		return
	}

	if err := service.Clear(r.Context(), userID); err != nil {
		httperr.Write(w, err)
		slog.Error("Error clearing cart", "error", err, "user_id", userID)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
