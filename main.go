package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restro-qr/clock"
	"restro-qr/config"
	"restro-qr/controllers"
	"restro-qr/database"
	"restro-qr/discount"
	"restro-qr/logging"
	"restro-qr/middleware"
	"restro-qr/notify"
	"restro-qr/orders"
	"restro-qr/repository"
	"restro-qr/routes"
	"restro-qr/sequence"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logging.GetSugaredLogger(false).Fatalw("invalid configuration", "error", err)
	}
	log := logging.GetSugaredLogger(cfg.Debug)
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	client, err := database.DBinstance(ctx, cfg.MongoURL)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()
	db := client.Database(cfg.DatabaseName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Infow("connected to MongoDB", "database", cfg.DatabaseName)

	restaurantRepo := repository.NewRestaurantRepository(database.OpenCollection(client, cfg.DatabaseName, database.RestaurantCollection), cfg.StoreTimeout)
	orderRepo := repository.NewOrderRepository(database.OpenCollection(client, cfg.DatabaseName, database.OrderCollection), cfg.StoreTimeout)
	offerRepo := repository.NewOfferRepository(database.OpenCollection(client, cfg.DatabaseName, database.OfferCollection), cfg.StoreTimeout)
	allocator := sequence.NewAllocator(database.OpenCollection(client, cfg.DatabaseName, database.CounterCollection), sequence.OrderCounter, cfg.StoreTimeout)

	clk := clock.NewSystem()
	hub := notify.NewHub(0, log)
	var publisher orders.Publisher = hub

	if cfg.AMQPURL != "" {
		// The relay reconnects on its own; a broker outage only pauses
		// cross-instance notifications.
		relay := notify.NewRelay(notify.DialURL(cfg.AMQPURL), hub, log)
		go func() {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Errorw("notification relay stopped", "error", err)
			}
		}()
		publisher = relay
	}

	svc := orders.NewService(
		restaurantRepo,
		discount.NewResolver(offerRepo, clk, loc),
		allocator,
		orderRepo,
		publisher,
		clk,
		log,
	)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.NewRouter(routes.Handlers{
		Orders:      controllers.NewOrderController(svc, log),
		Offers:      controllers.NewOfferController(offerRepo, clk, loc, log),
		Restaurants: controllers.NewRestaurantController(restaurantRepo, log),
		Sockets:     controllers.NewSocketController(hub, cfg.AllowedOrigins, log),
		Health:      controllers.Health(client, cfg.StoreTimeout),
		Auth:        middleware.Authentication(cfg.SecretKey),
	}, cfg.AllowedOrigins, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("listening", "port", cfg.Port, "timezone", loc.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
