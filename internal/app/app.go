package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cosmoshop/checkout/internal/dal/postgres"
	"github.com/cosmoshop/checkout/internal/dal/rabbitmq"
	outboxrepo "github.com/cosmoshop/checkout/internal/dal/repositories/outbox/postgres"
	"github.com/cosmoshop/checkout/internal/gateway"
	"github.com/cosmoshop/checkout/internal/service/services/cartsvc"
	"github.com/cosmoshop/checkout/internal/service/services/checkoutsvc"
	"github.com/cosmoshop/checkout/internal/service/services/paymentsvc"
	"github.com/cosmoshop/checkout/internal/tracing"
	httptransport "github.com/cosmoshop/checkout/internal/transport/http"
	outboxworker "github.com/cosmoshop/checkout/internal/worker/outbox"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
)

// App represents the application.
type App struct {
	checkoutSvc    *checkoutsvc.CheckoutService
	paymentSvc     *paymentsvc.PaymentService
	cartSvc        *cartsvc.CartService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	tracerProvider *tracesdk.TracerProvider
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	tracerProvider := tracing.MustSetup()

	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	gw, err := gateway.New(gateway.ConfigFromViper())
	if err != nil {
		panic("error while building payment gateway: " + err.Error())
	}

	checkoutSvc := checkoutsvc.MustNewCheckoutService(
		checkoutsvc.WithPostgresClient(postgresClient),
		checkoutsvc.WithGateway(gw),
	)

	paymentSvc := paymentsvc.MustNewPaymentService(
		paymentsvc.WithPostgresClient(postgresClient),
		paymentsvc.WithVerifier(gw),
	)

	cartSvc := cartsvc.MustNewCartService(
		cartsvc.WithPostgresClient(postgresClient),
	)

	transport := httptransport.NewHTTPTransport(checkoutSvc, paymentSvc, cartSvc)
	transport.RegisterRoutes()

	outboxWorker := outboxworker.NewWorker(
		outboxrepo.NewPostgresOutboxRepository(postgresClient.Pool()),
		rabbitClient,
	)

	return &App{
		checkoutSvc:    checkoutSvc,
		paymentSvc:     paymentSvc,
		cartSvc:        cartSvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		tracerProvider: tracerProvider,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.outboxWorker.Start(gCtx)

		return nil
	})

	g.Go(func() error {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return a.transport.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Application error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tracing.Shutdown(closeCtx, a.tracerProvider); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
