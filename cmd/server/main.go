package main

import (
	"database/sql"
	"net/http"
	"time"

	"livemart-be/internal/api"
	"livemart-be/internal/cart"
	"livemart-be/internal/checkout"
	"livemart-be/internal/config"
	"livemart-be/internal/db"
	"livemart-be/internal/fulfillment"
	"livemart-be/internal/inventory"
	"livemart-be/internal/logger"
	"livemart-be/internal/metrics"
	"livemart-be/internal/middleware"
	"livemart-be/internal/notification"
	"livemart-be/internal/order"
	"livemart-be/internal/pipeline"
	"livemart-be/internal/user"

	"go.uber.org/zap"
)

// seams for tests
var (
	initDBFunc      = db.InitDB
	startServerFunc = http.ListenAndServe
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	handler := newServer(cfg, database)

	addr := ":" + cfg.AppPort
	logger.L().Info("server listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
	return startServerFunc(addr, handler)
}

// newServer wires repositories, services and both pipeline surfaces into
// the middleware chain.
func newServer(cfg *config.Config, database *sql.DB) http.Handler {
	checkoutMetrics := &metrics.Checkout{}
	lockTimeout := time.Duration(cfg.CheckoutLockTimeoutMS) * time.Millisecond

	dispatcher := notification.NewDispatcher(notification.LogSender{}, cfg.NotifyBuffer)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	inventoryRepo := inventory.NewRepository(database)
	inventorySvc := inventory.NewService(inventoryRepo)

	retail := buildPipeline(database, pipeline.Retail, userSvc, inventoryRepo, dispatcher, checkoutMetrics, lockTimeout)
	wholesale := buildPipeline(database, pipeline.Wholesale, userSvc, inventoryRepo, dispatcher, checkoutMetrics, lockTimeout)

	mux := api.NewRouter(api.RouterDeps{
		Retail:          retail,
		Wholesale:       wholesale,
		Inventory:       api.NewInventoryHandler(inventorySvc),
		Profile:         api.NewProfileHandler(userSvc),
		CheckoutMetrics: checkoutMetrics,
	})

	return logger.RequestIDMiddleware(
		logger.LoggingMiddleware(
			middleware.CORS(
				middleware.RateLimitMiddleware(
					middleware.AuthMiddleware(mux),
				),
			),
		),
	)
}

func buildPipeline(
	database *sql.DB,
	pipe pipeline.Pipeline,
	users user.Service,
	inventories inventory.Repository,
	dispatcher *notification.Dispatcher,
	checkoutMetrics *metrics.Checkout,
	lockTimeout time.Duration,
) api.PipelineHandlers {

	cartRepo := cart.NewRepository(database, pipe)
	cartSvc := cart.NewService(cartRepo, inventories, pipe)

	checkoutRepo := checkout.NewRepository(database, inventories, pipe, lockTimeout)
	checkoutSvc := checkout.NewService(checkoutRepo, users, pipe, checkoutMetrics)

	orderRepo := order.NewRepository(database, pipe)
	orderSvc := order.NewService(orderRepo, pipe)

	fulfillmentRepo := fulfillment.NewRepository(database, pipe)
	fulfillmentSvc := fulfillment.NewService(fulfillmentRepo, dispatcher, pipe)

	return api.PipelineHandlers{
		Cart:        api.NewCartHandler(cartSvc, checkoutSvc, pipe),
		Orders:      api.NewOrderHandler(orderSvc, pipe),
		Fulfillment: api.NewFulfillmentHandler(fulfillmentSvc, pipe),
	}
}
