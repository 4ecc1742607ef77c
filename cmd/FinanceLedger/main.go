package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	database "github.com/sebuszqo/FinanceLedger/db"
	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/auth"
	"github.com/sebuszqo/FinanceLedger/internal/config"
	emailService "github.com/sebuszqo/FinanceLedger/internal/email"
	"github.com/sebuszqo/FinanceLedger/internal/finance/application"
	"github.com/sebuszqo/FinanceLedger/internal/finance/infrastructure"
	"github.com/sebuszqo/FinanceLedger/internal/finance/interfaces"
	investments "github.com/sebuszqo/FinanceLedger/internal/investment"
	debts "github.com/sebuszqo/FinanceLedger/internal/investment/debt"
	holdings "github.com/sebuszqo/FinanceLedger/internal/investment/holding"
	"github.com/sebuszqo/FinanceLedger/internal/investment/marketdata"
	products "github.com/sebuszqo/FinanceLedger/internal/investment/product"
	"github.com/sebuszqo/FinanceLedger/internal/logging"
	"github.com/sebuszqo/FinanceLedger/internal/metrics"
	"github.com/sebuszqo/FinanceLedger/internal/scheduler"
	"github.com/sebuszqo/FinanceLedger/internal/user"
	"github.com/shopspring/decimal"
)

const (
	sessionCleanupInterval = 10 * time.Minute
	shutdownTimeout        = 15 * time.Second
)

func (s *Server) handleReady(dbService *database.DBService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := dbService.Health(r.Context())
		if health["status"] != "up" {
			logging.FromContext(r.Context()).Error("readiness check failed", "error", health["error"])
			api.RespondError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		api.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func newMailer(cfg *config.Config) (*emailService.EmailService, error) {
	if !cfg.MailEnabled() {
		slog.Info("SMTP_HOST not set, outgoing e-mail is logged instead of sent")
		return emailService.NewLogEmailService()
	}
	return emailService.NewEmailService(emailService.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.EmailAddress,
		Password: cfg.EmailPassword,
	})
}

func run(ctx context.Context, cfg *config.Config) error {
	decimal.MarshalJSONWithoutQuotes = true

	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return err
		}
		slog.Info("database migrations applied")
	}

	dbService, err := database.NewDBService(ctx, cfg)
	if err != nil {
		return err
	}
	defer dbService.Close()

	mailer, err := newMailer(cfg)
	if err != nil {
		return err
	}
	mailer.Start(context.WithoutCancel(ctx))
	defer mailer.Close()

	collector := metrics.NewCollector()

	// finance
	categoryService := application.NewCategoryService(infrastructure.NewCategoryRepository(dbService.DB))
	tagService := application.NewTagService(infrastructure.NewTagRepository(dbService.DB))
	paymentService := application.NewPaymentService(infrastructure.NewPaymentRepository(dbService.DB))
	expenseRepo := infrastructure.NewExpenseRepository(dbService.DB)
	expenseService := application.NewExpenseService(expenseRepo, categoryService, paymentService, tagService)
	incomeService := application.NewIncomeService(infrastructure.NewIncomeRepository(dbService.DB), categoryService, tagService)
	budgetService := application.NewBudgetService(infrastructure.NewBudgetRepository(dbService.DB), categoryService, expenseRepo)

	// users and auth
	userService := user.NewUserService(user.NewUserRepository(dbService.DB), mailer, categoryService)
	sessionManager := auth.NewSessionManager()
	sessionManager.StartSessionTokenCleanup(ctx, sessionCleanupInterval)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := auth.NewAuthService(auth.NewTwoFactorRepository(dbService.DB), userService, sessionManager, jwtManager, &auth.Authenticator{})
	authHandler := auth.NewHandler(authService, api.RespondJSON, api.RespondError)

	// investments, financial products and debts
	var prices holdings.PriceSource
	if cfg.MarketDataEnabled() {
		prices = marketdata.NewFMPClient(cfg.MarketDataBaseURL, cfg.MarketDataAPIKey)
	}
	investmentService := holdings.NewInvestmentService(holdings.NewInvestmentRepository(dbService.DB), prices)
	productService := products.NewProductService(products.NewProductRepository(dbService.DB))
	debtService := debts.NewDebtService(debts.NewDebtRepository(dbService.DB), mailer)

	server := &Server{
		authService: authService,
		authHandler: authHandler,
		userHandler: user.NewHandler(userService, authService, authHandler.SetRefreshCookie, api.RespondJSON, api.RespondError),

		categoryHandler: interfaces.NewCategoryHandler(categoryService, api.RespondJSON, api.RespondError),
		tagHandler:      interfaces.NewTagHandler(tagService, api.RespondJSON, api.RespondError),
		paymentHandler:  interfaces.NewPaymentHandler(paymentService, api.RespondJSON, api.RespondError),
		expenseHandler:  interfaces.NewExpenseHandler(expenseService, api.RespondJSON, api.RespondError),
		incomeHandler:   interfaces.NewIncomeHandler(incomeService, api.RespondJSON, api.RespondError),
		budgetHandler:   interfaces.NewBudgetHandler(budgetService, api.RespondJSON, api.RespondError),

		investmentHandler: investments.NewInvestmentHandler(investmentService, api.RespondJSON, api.RespondError),
		productHandler:    investments.NewProductHandler(productService, api.RespondJSON, api.RespondError),
		debtHandler:       investments.NewDebtHandler(debtService, api.RespondJSON, api.RespondError),

		metrics: collector.Handler(),
	}
	server.ready = server.handleReady(dbService)
	server.RegisterRoutes()

	jobs := scheduler.New(collector)
	if cfg.MarketDataEnabled() {
		if err := jobs.AddPriceRefresh(cfg.PriceRefreshSchedule, investmentService); err != nil {
			return err
		}
	} else {
		slog.Info("MARKET_DATA_API_KEY not set, price refresh job disabled")
	}
	if err := jobs.AddBudgetRefresh(cfg.BudgetRefreshSchedule, budgetService); err != nil {
		return err
	}
	if err := jobs.AddDebtReminders(cfg.DebtReminderSchedule, cfg.DebtReminderDays, debtService); err != nil {
		return err
	}
	jobs.Start()

	if cfg.PprofAddr != "" {
		go func() {
			slog.Info("Starting pprof", "addr", cfg.PprofAddr)
			if err := http.ListenAndServe(cfg.PprofAddr, nil); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("pprof server stopped", "error", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           logging.RequestMiddleware(collector.Middleware(server.router)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := jobs.Stop(shutdownCtx); err != nil {
		slog.Warn("scheduled jobs did not finish before shutdown", "error", err)
	}
	return httpServer.Shutdown(shutdownCtx)
}

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("Missing configuration, update to start server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
