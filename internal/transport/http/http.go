package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/cosmoshop/checkout/internal/service/models/cartline"
	"github.com/cosmoshop/checkout/internal/service/models/order"
	carthandler "github.com/cosmoshop/checkout/internal/transport/http/cart"
	checkouthandler "github.com/cosmoshop/checkout/internal/transport/http/checkout"
	"github.com/cosmoshop/checkout/internal/transport/http/listorders"
	"github.com/cosmoshop/checkout/internal/transport/http/paymentreturn"
	"github.com/cosmoshop/checkout/internal/transport/http/paymentstatus"
	"github.com/cosmoshop/checkout/internal/transport/http/paymenturl"
	"github.com/cosmoshop/checkout/pkg/http/middleware/trace"
	"github.com/cosmoshop/checkout/pkg/logger"
)

type checkoutService interface {
	Checkout(ctx context.Context, userID int64, method order.PaymentMethod, phone, address, clientIP string) (*order.Order, error)
	PaymentURL(ctx context.Context, orderID int64, clientIP string) (string, error)
	SetPaymentStatus(ctx context.Context, orderID int64, status order.Status) (*order.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*order.Order, error)
	ListOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}

type paymentService interface {
	HandleReturn(ctx context.Context, params map[string]string) (*order.Order, error)
}

type cartService interface {
	Lines(ctx context.Context, userID int64) ([]cartline.Line, error)
	AddProduct(ctx context.Context, userID, productID int64, quantity int) (*cartline.Line, error)
	UpdateQuantity(ctx context.Context, userID, lineID int64, quantity int) (*cartline.Line, error)
	RemoveLine(ctx context.Context, userID, lineID int64) error
	Clear(ctx context.Context, userID int64) error
}

type HTTPTransport struct {
	server      *http.Server
	router      *chi.Mux
	checkoutSvc checkoutService
	paymentSvc  paymentService
	cartSvc     cartService
}

func NewHTTPTransport(checkoutSvc checkoutService, paymentSvc paymentService, cartSvc cartService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:      server,
		router:      router,
		checkoutSvc: checkoutSvc,
		paymentSvc:  paymentSvc,
		cartSvc:     cartSvc,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Post("/checkout", h.checkout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Get("/{id}", h.getOrder)
			r.Get("/{id}/payment-url", h.paymentURL)
			r.Post("/{id}/payment-status", h.updatePaymentStatus)
		})

		r.Get("/payment/return", h.paymentReturn)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.listCartLines)
			r.Delete("/", h.clearCart)
			r.Post("/items", h.addCartLine)
			r.Put("/items/{id}", h.updateCartLine)
			r.Delete("/items/{id}", h.deleteCartLine)
		})
	})
}

func (h *HTTPTransport) checkout(w http.ResponseWriter, r *http.Request) {
	checkouthandler.Checkout(w, r, h.checkoutSvc)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.checkoutSvc)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	listorders.GetOrder(w, r, h.checkoutSvc)
}

func (h *HTTPTransport) paymentURL(w http.ResponseWriter, r *http.Request) {
	paymenturl.PaymentURL(w, r, h.checkoutSvc)
}

func (h *HTTPTransport) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	paymentstatus.UpdatePaymentStatus(w, r, h.checkoutSvc)
}

func (h *HTTPTransport) paymentReturn(w http.ResponseWriter, r *http.Request) {
	paymentreturn.HandleReturn(w, r, h.paymentSvc)
}

func (h *HTTPTransport) listCartLines(w http.ResponseWriter, r *http.Request) {
	carthandler.ListLines(w, r, h.cartSvc)
}

func (h *HTTPTransport) addCartLine(w http.ResponseWriter, r *http.Request) {
	carthandler.AddLine(w, r, h.cartSvc)
}

func (h *HTTPTransport) updateCartLine(w http.ResponseWriter, r *http.Request) {
	carthandler.UpdateLine(w, r, h.cartSvc)
}

func (h *HTTPTransport) deleteCartLine(w http.ResponseWriter, r *http.Request) {
	carthandler.DeleteLine(w, r, h.cartSvc)
}

func (h *HTTPTransport) clearCart(w http.ResponseWriter, r *http.Request) {
	carthandler.Clear(w, r, h.cartSvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
