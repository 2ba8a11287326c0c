package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ega-bank/core-banking/src/internal/adapter/http/controller"
	"github.com/ega-bank/core-banking/src/internal/adapter/http/middleware"
	"github.com/ega-bank/core-banking/src/internal/adapter/http/router"
	"github.com/ega-bank/core-banking/src/internal/adapter/repository/postgres"
	"github.com/ega-bank/core-banking/src/internal/config"
	"github.com/ega-bank/core-banking/src/internal/logger"
	"github.com/ega-bank/core-banking/src/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := postgres.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	clientRepo := postgres.NewClientRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	clientService := services.NewClientService(clientRepo, accountRepo)
	accountService := services.NewAccountService(accountRepo, clientRepo)
	ledgerService := services.NewLedgerService(ledgerRepo, transactionRepo, accountRepo)
	interestService := services.NewInterestService(accountRepo, ledgerService)

	mux := router.New(
		controller.NewClientController(clientService),
		controller.NewAccountController(accountService, interestService),
		controller.NewTransactionController(ledgerService),
		middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKeyHash),
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", logger.Fields{"addr": cfg.ListenAddr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received", nil)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
