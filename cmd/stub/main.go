// Command stub runs the in-memory backend so the console can be exercised
// without the real persistence service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jmswift/finconsole/internal/app"
	"github.com/jmswift/finconsole/internal/config"
	"github.com/jmswift/finconsole/internal/domain"
	"github.com/jmswift/finconsole/internal/gateway"
	"github.com/jmswift/finconsole/internal/models"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stub: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadStub()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := app.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	stub := gateway.NewStub(gateway.Config{
		JWTSecret:        cfg.JWTSecret,
		SessionTTL:       cfg.SessionTTL,
		AuthRateLimitRPS: cfg.AuthRateLimitRPS,
	}, logger)
	seed(stub)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      stub.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("stub backend starting", zap.String("port", cfg.Port))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	return nil
}

// seed installs a finance reviewer and a small review queue so the console
// has something to show out of the box.
func seed(stub *gateway.Stub) {
	stub.SeedUser(models.User{
		Username:  "reviewer",
		Email:     "reviewer@example.com",
		Phone:     "+90-555-000-0001",
		IPAddress: "127.0.0.1",
		Role:      domain.RoleFinance,
	}, "reviewer-secret")

	submitter := stub.SeedUser(models.User{
		Username:  "alice",
		Email:     "alice@example.com",
		Phone:     "+90-555-000-0002",
		IPAddress: "203.0.113.7",
		Role:      domain.RoleUser,
	}, "alice-secret")

	stub.SeedTransaction(models.Transaction{
		Amount:                decimal.NewFromInt(250),
		CompanyAccountNumber:  "TR00-0001",
		TransactionUserID:     "TX-1001",
		UserAccountNumber:     "TR11-2222",
		UserAccountHolderName: "Alice Example",
		PaymentType:           "banka_havalesi",
		PaymentMethod:         "havale",
		User: models.TransactionUser{
			Username:  submitter.Username,
			Email:     submitter.Email,
			FirstName: "Alice",
			LastName:  "Example",
		},
	})

	stub.SeedAccount(models.CompanyAccount{
		BankName:          "Example Bank",
		Min:               decimal.NewFromInt(50),
		Max:               decimal.NewFromInt(10000),
		PaymentType:       "banka_havalesi",
		AccountHolderName: "Finance Ops",
		AccountNumber:     "TR00-0001",
		PaymentMethod:     "havale",
	})
}
