package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casavia/estate-backend/internal/config"
	"github.com/casavia/estate-backend/internal/db"
	"github.com/casavia/estate-backend/internal/events"
	"github.com/casavia/estate-backend/internal/http/handlers"
	"github.com/casavia/estate-backend/internal/http/router"
	"github.com/casavia/estate-backend/internal/logger"
	"github.com/casavia/estate-backend/internal/repository"
	"github.com/casavia/estate-backend/internal/service"
	"github.com/casavia/estate-backend/internal/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("info")
		logger.Log.WithError(err).Fatal("не удалось загрузить конфигурацию")
	}

	logger.Init("info")
	if cfg.Env == "development" {
		logger.SetTextFormatter()
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.WithError(err).Fatal("не удалось подключиться к базе данных")
	}
	defer safeClose(dbConn.Close)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		logger.Log.WithError(err).Fatal("не удалось применить миграции")
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	userRepo := repository.NewUserRepository(dbConn)
	propertyRepo := repository.NewPropertyRepository(dbConn)
	offerRepo := repository.NewOfferRepository(dbConn)
	delegationRepo := repository.NewDelegationRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	authService := service.NewAuthService(userRepo, tokenManager)
	notificationService := service.NewNotificationService(notificationRepo)
	roleResolver := service.NewRoleResolver(delegationRepo)

	var eventPublisher service.EventPublisher
	if cfg.AMQPURL != "" {
		publisher, err := events.New(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Log.WithError(err).Fatal("не удалось подключиться к брокеру сообщений")
		}
		defer safeClose(publisher.Close)
		eventPublisher = publisher
	} else {
		logger.Log.Warn("AMQP_URL не задан, события переговоров публиковаться не будут")
	}

	negotiationService := service.NewNegotiationService(offerRepo, propertyRepo, userRepo, roleResolver, notificationService, eventPublisher)
	queryService := service.NewNegotiationQueryService(offerRepo, offerRepo, propertyRepo, roleResolver)

	hub := ws.NewHub()
	go hub.Run()
	notificationService.SetHub(hub)

	authHandler := handlers.NewAuthHandler(authService)
	propertyHandler := handlers.NewPropertyHandler(propertyRepo)
	offerHandler := handlers.NewOfferHandler(negotiationService, queryService)
	delegationHandler := handlers.NewDelegationHandler(delegationRepo, userRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWSHandler(hub, tokenManager)
	healthHandler := handlers.NewHealthHandler(dbConn)

	r := router.SetupRouter(
		cfg,
		authHandler,
		propertyHandler,
		offerHandler,
		delegationHandler,
		notificationHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	go func() {
		logger.Log.WithField("port", cfg.HTTPPort).Info("сервер запущен")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Error("ошибка HTTP-сервера")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("получен сигнал остановки, завершаем работу")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("не удалось корректно остановить сервер")
		os.Exit(1)
	}

	logger.Log.Info("сервер остановлен")
}

func safeClose(closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Log.WithError(err).Warn("ошибка при закрытии ресурса")
	}
}
