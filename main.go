package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	appCustomer "github.com/minimart/minimart/internal/application/customer"
	appOrder "github.com/minimart/minimart/internal/application/order"
	appProduct "github.com/minimart/minimart/internal/application/product"
	"github.com/minimart/minimart/internal/config"
	auditworker "github.com/minimart/minimart/internal/infrastructure/audit/worker"
	"github.com/minimart/minimart/internal/infrastructure/id"
	"github.com/minimart/minimart/internal/infrastructure/memory"
	"github.com/minimart/minimart/internal/infrastructure/observability/oteltrace"
	"github.com/minimart/minimart/internal/infrastructure/observability/prometrics"
	"github.com/minimart/minimart/internal/infrastructure/observability/telemetry"
	"github.com/minimart/minimart/internal/infrastructure/observability/zaplogger"
	"github.com/minimart/minimart/internal/infrastructure/outbox"
	"github.com/minimart/minimart/internal/observability"
	httppresentation "github.com/minimart/minimart/internal/presentation/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	baseLogger := zaplogger.New(
		observability.F("service", cfg.ServiceName),
		observability.F("env", cfg.Env),
	)
	if s, ok := baseLogger.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	registry := prometrics.New(cfg.ServiceName, "")
	counters := map[observability.MetricKey]observability.Counter{
		observability.MUsecaseRequests: registry.Counter(
			string(observability.MUsecaseRequests),
			"Total number of use case invocations.",
			"use_case", "outcome",
		),
		observability.MHTTPRequests: registry.Counter(
			string(observability.MHTTPRequests),
			"Total number of HTTP requests.",
			"method", "route", "status",
		),
		observability.MExternalRequests: registry.Counter(
			string(observability.MExternalRequests),
			"Total number of calls to external collaborators.",
			"peer", "endpoint", "outcome",
		),
		observability.MOrderEventsAudited: registry.Counter(
			string(observability.MOrderEventsAudited),
			"Count of order events recorded by the audit worker.",
			"event",
		),
	}
	histograms := map[observability.MetricKey]observability.Histogram{
		observability.MUsecaseDuration: registry.Histogram(
			string(observability.MUsecaseDuration),
			"Duration of use case execution in seconds.",
			nil,
			"use_case",
		),
		observability.MHTTPRequestDuration: registry.Histogram(
			string(observability.MHTTPRequestDuration),
			"Duration of HTTP request handling in seconds.",
			nil,
			"method", "route", "status",
		),
		observability.MExternalRequestDuration: registry.Histogram(
			string(observability.MExternalRequestDuration),
			"Duration of calls to external collaborators in seconds.",
			nil,
			"peer", "endpoint",
		),
	}

	tel := telemetry.New(oteltrace.New(cfg.ServiceName), baseLogger, counters, histograms)

	idGenerator := id.NewUUIDGenerator()
	customerRepo := memory.NewCustomerRepository()
	productRepo := memory.NewProductRepository()
	orderRepo := memory.NewOrderRepository(idGenerator)

	bus := outbox.NewBus(baseLogger)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	auditWorker := auditworker.New(bus, baseLogger, tel)
	auditWorker.Start()

	customerService := appCustomer.NewService(customerRepo, idGenerator, baseLogger)
	productService := appProduct.NewService(productRepo, idGenerator, baseLogger)
	placeOrder := appOrder.NewPlaceOrderUseCase(customerRepo, productRepo, productRepo, orderRepo, bus, tel)
	getOrder := appOrder.NewGetOrderUseCase(orderRepo)

	handler := httppresentation.NewHandler(customerService, productService, placeOrder, getOrder, baseLogger, tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("http_server_start",
			observability.F("addr", server.Addr),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Error("http_server_error",
				observability.F("error", err.Error()),
			)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("http_server_shutdown_error",
			observability.F("error", err.Error()),
		)
	} else {
		baseLogger.Info("http_server_stopped")
	}
}
