package listorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"

	"github.com/cosmoshop/checkout/internal/service/models/order"
	"github.com/cosmoshop/checkout/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	ListOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*order.Order, error)
}

type queryOrdersRequest struct {
	Ids      []int64  `schema:"ids,omitempty"`
	UserIds  []int64  `schema:"userIds,omitempty"`
	Statuses []string `schema:"statuses,omitempty"`
	Limit    int      `schema:"limit,omitempty"`
	Offset   int      `schema:"offset,omitempty"`
}

func (q *queryOrdersRequest) ToModel() (*order.QueryOrdersModel, error) {
	model := &order.QueryOrdersModel{
		Ids:     q.Ids,
		UserIds: q.UserIds,
		Limit:   q.Limit,
		Offset:  q.Offset,
	}
	for _, s := range q.Statuses {
		status, err := order.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		model.Statuses = append(model.Statuses, status)
	}

	return model, nil
}

// ListOrders returns orders matching the structured query parameters.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		httperr.WriteStatus(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding list orders request", "error", err)

		return
	}

	filter, err := query.ToModel()
	if err != nil {
		httperr.Write(w, err)

		return
	}

	orders, err := service.ListOrders(r.Context(), filter)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error getting orders", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		slog.Error("Error sending list orders response", "error", err)
	}
}

// GetOrder returns one order with its lines.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httperr.Write(w, order.ErrNotFound)

		return
	}

	o, err := service.GetOrder(r.Context(), orderID)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error getting order", "error", err, "order_id", orderID)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(o); err != nil {
		slog.Error("Error sending order response", "error", err)
	}
}
