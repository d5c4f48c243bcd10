package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/junimomarket/junimo-market/internal/api/handlers"
	"github.com/junimomarket/junimo-market/internal/api/middleware"
	"github.com/junimomarket/junimo-market/internal/cache"
	"github.com/junimomarket/junimo-market/internal/cartstore"
	"github.com/junimomarket/junimo-market/internal/catalog"
	"github.com/junimomarket/junimo-market/internal/config"
	"github.com/junimomarket/junimo-market/internal/health"
	"github.com/junimomarket/junimo-market/internal/metrics"
	repository "github.com/junimomarket/junimo-market/internal/repositories"
	service "github.com/junimomarket/junimo-market/internal/services"
	sendgridClient "github.com/junimomarket/junimo-market/pkg/sendgrid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

func initTracing(ctx context.Context) (*sdktrace.TracerProvider, error) {

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := sdkresource.Merge(sdkresource.Default(),
		sdkresource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName("junimo-market"),
		))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)

	return tp, nil
}

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	tracerProvider, err := initTracing(ctx)
	if err != nil {
		slog.Warn("Tracing disabled", slog.String("error", err.Error()))
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				slog.Warn("Tracer shutdown encountered an issue", slog.String("error", err.Error()))
			}
		}()
	}

	// Journal database
	repos, journalRepo, err := repository.New(cfg)
	if err != nil {
		slog.Error("Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}()

	// Redis: cart persistence and the stock snapshot cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConnect.Host,
		Username: cfg.RedisConnect.Username,
		Password: cfg.RedisConnect.Password,
		DB:       cfg.RedisConnect.DB,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	catalogClient := catalog.NewClient(&cfg.Catalog)
	stockCache := cache.NewRedisCache(redisClient, &cfg.CacheConfig)
	emailService := sendgridClient.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	bus := cartstore.NewBus()
	bus.Subscribe(cartstore.TopicCartUpdated, func(event cartstore.Event) {
		slog.Debug("Cart updated", slog.String("cart", event.CartKey))
	})

	store := cartstore.NewStore(cartstore.NewRedisPersistence(redisClient), bus)

	stockService := service.NewStockService(catalogClient, stockCache)
	pricingService := service.NewPricingService(&cfg.Pricing, service.DefaultDiscountCodes())
	cartService := service.NewCartService(store, stockService, catalogClient)
	orderNumbers := service.NewSequentialOrderNumbers(catalogClient)
	checkoutService := service.NewCheckoutService(store, stockService, pricingService, catalogClient, orderNumbers, journalRepo, emailService)

	cartHandler := handlers.NewCartHandler(cartService, pricingService)
	productHandler := handlers.NewProductHandler(stockService, cartService)
	discountHandler := handlers.NewDiscountHandler(pricingService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{DB: repos.DB})
	if err != nil {
		slog.Error("Error building health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Storefront core initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/carts", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/carts/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/carts/items", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/carts/items/{codigo}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/carts", authMiddleware.Authenticate(cartHandler.EmptyCart()))
	routerMux.HandleFunc("POST /api/v1/carts/refresh", authMiddleware.Authenticate(cartHandler.RefreshProducts()))
	routerMux.HandleFunc("GET /api/v1/products/{codigo}/disponibilidad", authMiddleware.Authenticate(productHandler.Availability()))
	routerMux.HandleFunc("POST /api/v1/discounts/validate", authMiddleware.Authenticate(discountHandler.Validate()))
	routerMux.HandleFunc("POST /api/v1/checkout", authMiddleware.Authenticate(checkoutHandler.Checkout()))
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "junimo-market")

	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("Shutdown signal received. Preparing to stop the server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("Server shut down gracefully. All connections closed.")
	}
}
