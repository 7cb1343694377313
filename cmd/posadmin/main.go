package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/config"
	"github.com/mamadbah2/posadmin/internal/repository/memory"
	"github.com/mamadbah2/posadmin/internal/repository/mongodb"
	"github.com/mamadbah2/posadmin/internal/repository/sheets"
	"github.com/mamadbah2/posadmin/internal/scheduler"
	"github.com/mamadbah2/posadmin/internal/server/handlers"
	"github.com/mamadbah2/posadmin/internal/server/middleware"
	"github.com/mamadbah2/posadmin/internal/server/router"
	authsvc "github.com/mamadbah2/posadmin/internal/service/auth"
	"github.com/mamadbah2/posadmin/internal/service/mailer"
	prefsvc "github.com/mamadbah2/posadmin/internal/service/preferences"
	"github.com/mamadbah2/posadmin/internal/service/sales"
	statssvc "github.com/mamadbah2/posadmin/internal/service/statistics"
	usersvc "github.com/mamadbah2/posadmin/internal/service/users"
	"github.com/mamadbah2/posadmin/internal/service/workspace"
	"github.com/mamadbah2/posadmin/pkg/clients/posapi"
	"github.com/mamadbah2/posadmin/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "path to an env file (defaults to ./.env when present)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store := openStore(cfg, baseLogger)
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close storage", zap.Error(err))
		}
	}()

	statsOpts := []statssvc.Option{
		statssvc.WithSnapshotSink(store),
		statssvc.WithHistory(store),
	}
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		statsOpts = append(statsOpts, statssvc.WithSnapshotSink(sheets.NewLedger(sheetsRepo)))
		baseLogger.Info("dashboard ledger sheet enabled")
	}

	var invoiceMailer sales.InvoiceMailer
	if m := mailer.New(cfg.Mail, baseLogger.Named("svc.mailer")); m != nil {
		invoiceMailer = m
		baseLogger.Info("invoice e-mail enabled", zap.String("smtp_host", cfg.Mail.Host))
	} else {
		baseLogger.Warn("smtp host missing, invoice e-mail disabled")
	}

	var workspaces *workspace.Manager
	metrics := middleware.NewMetrics(func() float64 { return float64(workspaces.Len()) })

	client := posapi.NewClient(cfg.API,
		posapi.WithLogger(baseLogger.Named("client.posapi")),
		posapi.WithCallCounter(metrics.GatewayCallsTotal),
	)

	workspaces = workspace.NewManager(workspace.Deps{
		Gateway:       client,
		PageSize:      cfg.Views.PageSize,
		ImageBase:     cfg.API.BaseURL,
		ImageMaxWidth: cfg.Products.ImageMaxWidth,
		Mailer:        invoiceMailer,
		Logger:        baseLogger.Named("workspace"),
	})

	authService := authsvc.NewService(client, authsvc.NewTokens(cfg.Session.Secret, cfg.Session.TTL), baseLogger.Named("svc.auth"))
	statsService := statssvc.NewService(client, baseLogger.Named("svc.statistics"), statsOpts...)

	engine := router.New(router.Handlers{
		Auth:        handlers.NewAuthHandler(authService, workspaces, baseLogger.Named("handlers.auth")),
		Sales:       handlers.NewSalesHandler(workspaces, baseLogger.Named("handlers.sales")),
		Purchases:   handlers.NewPurchasesHandler(workspaces, baseLogger.Named("handlers.purchases")),
		Inventory:   handlers.NewInventoryHandler(workspaces, baseLogger.Named("handlers.inventory")),
		Products:    handlers.NewProductsHandler(workspaces, baseLogger.Named("handlers.products")),
		Users:       handlers.NewUsersHandler(usersvc.NewService(client, baseLogger.Named("svc.users")), baseLogger.Named("handlers.users")),
		Statistics:  handlers.NewStatisticsHandler(statsService, baseLogger.Named("handlers.statistics")),
		Preferences: handlers.NewPreferencesHandler(prefsvc.NewService(store), baseLogger.Named("handlers.preferences")),
	}, router.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Authenticator:  authService,
		Metrics:        metrics,
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(scheduler.Config{
		DashboardInterval: cfg.Dashboard.PollInterval,
		WorkspaceIdleTTL:  cfg.Session.IdleTTL,
	}, statsService, workspaces, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.API.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("pos_api", cfg.API.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore connects to MongoDB when configured and falls back to process
// memory otherwise.
func openStore(cfg *config.Config, log *zap.Logger) mongodb.Repository {
	if cfg.MongoDB.URI == "" {
		log.Warn("mongodb uri missing, snapshots and preferences kept in memory")
		return memory.NewRepository(2880)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		log.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	return repo
}
