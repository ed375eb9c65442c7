package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	auditapp "github.com/gites/backend/internal/application/audit"
	bookingapp "github.com/gites/backend/internal/application/booking"
	dossierapp "github.com/gites/backend/internal/application/dossier"
	inspectionapp "github.com/gites/backend/internal/application/inspection"
	paymentapp "github.com/gites/backend/internal/application/payment"
	taskapp "github.com/gites/backend/internal/application/task"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/gites/backend/internal/infrastructure/config"
	"github.com/gites/backend/internal/infrastructure/event"
	"github.com/gites/backend/internal/infrastructure/logger"
	"github.com/gites/backend/internal/infrastructure/notification"
	"github.com/gites/backend/internal/infrastructure/persistence"
	"github.com/gites/backend/internal/interfaces/http/handler"
	"github.com/gites/backend/internal/interfaces/http/middleware"
	"github.com/gites/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync(log) }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()
	log.Info("database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Repositories
	reservationRepo := persistence.NewGormReservationRepository(db.DB)
	dossierRepo := persistence.NewGormDossierRepository(db.DB)
	paiementRepo := persistence.NewGormPaiementRepository(db.DB)
	tacheRepo := persistence.NewGormTacheRepository(db.DB)
	edlRepo := persistence.NewGormEdlRepository(db.DB)
	incidentRepo := persistence.NewGormIncidentRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	txScope := persistence.NewGormDossierTransactionScope(db.DB)

	clock := shared.SystemClock{}
	notifier := notification.NewLogDispatcher(log)

	// Application services
	reservationService := bookingapp.NewReservationService(reservationRepo, auditRepo, txScope, clock)
	dossierService := dossierapp.NewDossierService(dossierRepo, reservationRepo, auditRepo, txScope, clock)
	paymentService := paymentapp.NewPaymentService(paiementRepo, dossierRepo, reservationRepo, auditRepo, txScope, clock)
	edlService := inspectionapp.NewEdlService(edlRepo, incidentRepo, dossierRepo, auditRepo)
	taskService := taskapp.NewTaskService(tacheRepo, auditRepo, notifier)
	auditService := auditapp.NewAuditService(auditRepo)

	// Event bus with cross-context subscriptions
	eventBus := event.NewInMemoryEventBus(log)
	reservationConfirmedHandler := dossierapp.NewReservationConfirmedHandler(dossierRepo, tacheRepo, log)
	eventBus.Subscribe(reservationConfirmedHandler, reservationConfirmedHandler.EventTypes()...)
	edlFinalizedHandler := inspectionapp.NewEdlFinalizedHandler(dossierRepo, log)
	eventBus.Subscribe(edlFinalizedHandler, edlFinalizedHandler.EventTypes()...)

	reservationService.SetEventPublisher(eventBus)
	dossierService.SetEventPublisher(eventBus)
	edlService.SetEventPublisher(eventBus)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("failed to set trusted proxies", zap.Error(err))
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	r := router.NewRouter(engine)
	r.Register(
		handler.NewSystemHandler(db),
		handler.NewReservationHandler(reservationService),
		handler.NewDossierHandler(dossierService),
		handler.NewPaymentHandler(paymentService),
		handler.NewEdlHandler(edlService),
		handler.NewTaskHandler(taskService),
		handler.NewAuditHandler(auditService),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
