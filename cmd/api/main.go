package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/agenda-cultural/agenda-api/internal/handler"
	"github.com/agenda-cultural/agenda-api/internal/mailer"
	"github.com/agenda-cultural/agenda-api/internal/metrics"
	"github.com/agenda-cultural/agenda-api/internal/repository"
	"github.com/agenda-cultural/agenda-api/internal/router"
	"github.com/agenda-cultural/agenda-api/internal/service"
	"github.com/agenda-cultural/agenda-api/pkg/cache"
	"github.com/agenda-cultural/agenda-api/pkg/config"
	"github.com/agenda-cultural/agenda-api/pkg/database"
	"github.com/agenda-cultural/agenda-api/pkg/jobs"
	"github.com/agenda-cultural/agenda-api/pkg/logger"
	"github.com/agenda-cultural/agenda-api/pkg/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewMySQL(cfg.Database)
	if err != nil {
		log.Fatal("no se pudo conectar a MySQL", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	validate := validation.New()
	m := metrics.New()

	usuarioRepo := repository.NewUsuarioRepository(db)
	eventoRepo := repository.NewEventoRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	solicitudRepo := repository.NewSolicitudRepository(db)

	var cacheRepo *repository.CacheRepository
	var healthHandler *handler.HealthHandler
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			log.Fatal("no se pudo conectar a Redis", zap.Error(err))
		}
		cacheRepo = repository.NewCacheRepository(redisClient, log)
		defer func() { _ = cacheRepo.Close() }()
		healthHandler = handler.NewHealthHandler(db, redisClient)
	} else {
		healthHandler = handler.NewHealthHandler(db, nil)
	}

	authService := service.NewAuthService(usuarioRepo, validate, log, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	var notifier *service.NotificacionService
	if cfg.Notify.Enabled {
		notifier = service.NewNotificacionService(mailer.NewSMTP(cfg.SMTP), jobs.Config{
			Workers:    cfg.Notify.Workers,
			MaxRetries: cfg.Notify.MaxRetries,
			RetryDelay: cfg.Notify.RetryDelay,
			Logger:     log,
		}, log)
	}

	// A typed nil pointer would still satisfy the cache interface, so the
	// disabled case passes an untyped nil explicitly.
	var eventoService *service.EventoService
	if cacheRepo != nil {
		eventoService = service.NewEventoService(eventoRepo, categoriaRepo, cacheRepo, cfg.Cache.EventoTTL, m, validate, log)
	} else {
		eventoService = service.NewEventoService(eventoRepo, categoriaRepo, nil, cfg.Cache.EventoTTL, m, validate, log)
	}
	categoriaService := service.NewCategoriaService(categoriaRepo, validate, log)
	solicitudService := service.NewSolicitudService(solicitudRepo, notifier, m, validate, log)
	usuarioService := service.NewUsuarioService(usuarioRepo, validate, log)

	engine := router.New(cfg, log, authService, m, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Evento:    handler.NewEventoHandler(eventoService),
		Categoria: handler.NewCategoriaHandler(categoriaService),
		Solicitud: handler.NewSolicitudHandler(solicitudService),
		Usuario:   handler.NewUsuarioHandler(usuarioService),
		Health:    healthHandler,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier.Start(ctx)
	defer notifier.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("servidor iniciado", zap.Int("puerto", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("servidor detenido inesperadamente", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("apagando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("apagado forzado", zap.Error(err))
	}
}
