package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RobasAhmedShah/hmr-backend/configs"
	"github.com/RobasAhmedShah/hmr-backend/internal/certificates"
	"github.com/RobasAhmedShah/hmr-backend/internal/codes"
	"github.com/RobasAhmedShah/hmr-backend/internal/events"
	"github.com/RobasAhmedShah/hmr-backend/internal/handlers"
	"github.com/RobasAhmedShah/hmr-backend/internal/listeners"
	"github.com/RobasAhmedShah/hmr-backend/internal/logger"
	"github.com/RobasAhmedShah/hmr-backend/internal/organizations"
	"github.com/RobasAhmedShah/hmr-backend/internal/payments"
	"github.com/RobasAhmedShah/hmr-backend/internal/properties"
	"github.com/RobasAhmedShah/hmr-backend/internal/rewards"
	"github.com/RobasAhmedShah/hmr-backend/internal/routes"
	"github.com/RobasAhmedShah/hmr-backend/internal/seed"
	"github.com/RobasAhmedShah/hmr-backend/internal/settlement"
	"github.com/RobasAhmedShah/hmr-backend/internal/store"
	"github.com/RobasAhmedShah/hmr-backend/internal/users"
	"github.com/RobasAhmedShah/hmr-backend/internal/wallets"
	"go.uber.org/zap"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	configs.LoadConfig()
	store.NewDB()
	store.DBMigrate()

	gen := codes.SequenceGenerator{}
	bus := events.NewBus(store.DB)

	userSvc := users.New(store.DB, gen, bus)
	walletSvc := wallets.New(store.DB, gen, bus)
	orgSvc := organizations.New(store.DB, gen)
	propertySvc := properties.New(store.DB, gen)
	settlementSvc := settlement.New(store.DB, gen, bus)
	rewardSvc := rewards.New(store.DB, gen, bus)
	paymentSvc := payments.New(store.DB, bus)
	certSvc := certificates.New(store.DB)

	listeners.Register(bus, store.DB, certSvc)

	seed.Run(store.DB, seed.Services{
		Users:         userSvc,
		Wallets:       walletSvc,
		Organizations: orgSvc,
		Properties:    propertySvc,
	})

	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	go bus.Run(dispatcherCtx, configs.AppConfig.Events.PollInterval)

	router := routes.NewRoutes(&handlers.Handlers{
		DB:            store.DB,
		Users:         userSvc,
		Wallets:       walletSvc,
		Properties:    propertySvc,
		Organizations: orgSvc,
		Settlement:    settlementSvc,
		Rewards:       rewardSvc,
		Payments:      paymentSvc,
	})

	srv := &http.Server{
		Addr:         configs.AppConfig.Server.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}
	stopDispatcher()

	sqlDB, err := store.DB.DB()
	if err != nil {
		logger.Log.Error("db close skipped, reason:", zap.Error(err))
	} else {
		sqlDB.Close()
		logger.Log.Info("db closed")
	}

	logger.Log.Info("server stopped")
}
