// Package app wires configuration, logging, the backend client, the session
// guard and the collection caches into the console commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jmswift/finconsole/internal/api"
	"github.com/jmswift/finconsole/internal/config"
	"github.com/jmswift/finconsole/internal/models"
	"github.com/jmswift/finconsole/internal/observability"
	"github.com/jmswift/finconsole/internal/service"
	"github.com/jmswift/finconsole/internal/session"
	"github.com/jmswift/finconsole/internal/store"
)

// Console bundles the authenticated services behind the access gate.
type Console struct {
	guard    *session.Guard
	auth     *service.AuthService
	users    *store.Collection[models.User]
	review   *service.ReviewService
	accounts *service.CompanyAccountService
	log      *zap.Logger
}

// Run bootstraps the console, authenticates, enforces the finance gate and
// dispatches the requested command.
func Run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()

	client, err := api.NewClient(cfg.BaseURL, cfg.HTTPTimeout, logger)
	if err != nil {
		return fmt.Errorf("init client: %w", err)
	}

	console := NewConsole(client, logger)

	ctx := context.Background()
	if _, err := console.auth.Login(ctx, cfg.Email, cfg.Password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer func() {
		if err := console.auth.Logout(ctx); err != nil {
			logger.Warn("logout failed", zap.Error(err))
		}
	}()

	if console.guard.Check() != session.Allow {
		return errors.New("access denied: the console requires the finance role")
	}

	return console.Dispatch(ctx, args)
}

// NewConsole builds the service graph over an authenticated client. Exposed
// for tests, which drive it against the gateway stub.
func NewConsole(client *api.Client, logger *zap.Logger) *Console {
	guard := session.NewGuard()

	users := store.New("users", client.Users(), func(u models.User) string { return u.ID }, logger)
	transactions := store.New("transactions", client.Transactions(), func(t models.Transaction) string { return t.ID }, logger)
	accounts := store.New("company accounts", client.CompanyAccounts(), func(a models.CompanyAccount) string { return a.ID }, logger)

	// An authorization failure on any collection call drops the session.
	for _, hook := range []func(func()){
		users.OnAuthorizationError,
		transactions.OnAuthorizationError,
		accounts.OnAuthorizationError,
	} {
		hook(guard.Invalidate)
	}

	return &Console{
		guard:    guard,
		auth:     service.NewAuthService(client, guard, logger),
		users:    users,
		review:   service.NewReviewService(transactions, logger),
		accounts: service.NewCompanyAccountService(accounts, logger),
		log:      logger,
	}
}

// NewLogger builds the production zap logger at the requested level.
func NewLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
