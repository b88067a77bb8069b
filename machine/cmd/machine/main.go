package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/Krimson/reelspin/internal/logging"
	"github.com/Krimson/reelspin/internal/rng"
	_ "github.com/Krimson/reelspin/machine/docs" // Swagger docs
	"github.com/Krimson/reelspin/machine/internal/api"
	"github.com/Krimson/reelspin/machine/internal/config"
	"github.com/Krimson/reelspin/machine/internal/engine"
	"github.com/Krimson/reelspin/machine/internal/health"
	"github.com/Krimson/reelspin/machine/internal/history"
	"github.com/Krimson/reelspin/machine/internal/websocket"
)

// @title Reelspin Machine API
// @version 1.0
// @description API слот-машины: запуск вращений, состояние барабанов, эффекты сцены и история вращений.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	logger.Infof("[INFO] Starting machine service...")
	logger.Infof("[INFO] Configuration loaded: http_port=%s grpc_port=%s fps=%d history=%s curve=%s",
		cfg.HTTPPort, cfg.GRPCPort, cfg.FrameRate, cfg.HistoryBackend, cfg.Profile.Curve)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ===== История вращений =====
	cache, repository, closeHistory, err := openHistory(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("[FATAL] Failed to open history storage: %v", err)
	}
	defer closeHistory()

	historyManager := history.NewManager(cache, repository, cfg.SessionDataTTLSeconds, logger)

	// ===== Движок =====
	opts, err := cfg.Profile.Options(rng.New(cfg.RandomSeed))
	if err != nil {
		logger.Fatalf("[FATAL] Invalid spin profile: %v", err)
	}

	machine, err := engine.New(cfg.Profile.Reels, opts, engine.Settings{
		FrameInterval:   cfg.FrameInterval(),
		MaxFrameDelta:   cfg.MaxFrameDelta,
		EventBufferSize: cfg.EventBufferSize,
	}, logger)
	if err != nil {
		logger.Fatalf("[FATAL] Failed to create engine: %v", err)
	}

	effects := cfg.Profile.Effects
	machine.ApplyEffects(engine.EffectsUpdate{
		CameraShake:   &effects.CameraShake,
		SlotGlitch:    &effects.SlotGlitch,
		CaptionGlitch: &effects.CaptionGlitch,
	})

	hub := websocket.NewHub(cfg.WSFrameEvery, logger)
	machine.AddSink(hub)
	machine.AddHandler(hub)
	machine.AddHandler(historyManager)

	hostname, _ := os.Hostname()
	if _, err := historyManager.StartSession(ctx, history.Metadata{
		Host:  hostname,
		Curve: cfg.Profile.Curve,
	}); err != nil {
		logger.Fatalf("[FATAL] Failed to start history session: %v", err)
	}

	// ===== HTTP =====
	router := mux.NewRouter()
	api.NewHTTPHandler(machine, logger).RegisterRoutes(router)
	history.NewHTTPHandler(historyManager, logger).RegisterRoutes(router)
	router.HandleFunc("/ws", hub.HandleWebSocket)
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      api.EnableCORS(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ===== gRPC health =====
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	listener, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		logger.Fatalf("[FATAL] Failed to listen on :%s: %v", cfg.GRPCPort, err)
	}

	// ===== Запуск =====
	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(runCtx)
	}()

	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		if err := machine.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf("[ERROR] Engine stopped: %v", err)
		}
	}()

	serverErrChan := make(chan error, 2)
	go func() {
		logger.Infof("[INFO] HTTP server listening on :%s (swagger: /swagger/, websocket: /ws)", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	go func() {
		logger.Infof("[INFO] gRPC health server listening on :%s", cfg.GRPCPort)
		if err := grpcServer.Serve(listener); err != nil {
			serverErrChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	healthServer.SetServing(health.ServiceName)

	select {
	case err := <-serverErrChan:
		logger.Errorf("[ERROR] Server error: %v", err)
	case <-ctx.Done():
		logger.Infof("[INFO] Received shutdown signal, starting graceful shutdown...")
	}

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("[WARN] HTTP server forced to shutdown: %v", err)
	}

	// Движок дожидается доставки накопленных событий
	cancelRun()
	<-engineDone
	<-hubDone

	if err := historyManager.StopSession(shutdownCtx); err != nil {
		logger.Warnf("[WARN] Failed to stop history session: %v", err)
	}

	grpcStopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(grpcStopped)
	}()
	select {
	case <-grpcStopped:
	case <-shutdownCtx.Done():
		logger.Warnf("[WARN] Graceful shutdown timeout, forcing stop")
		grpcServer.Stop()
	}

	stats := machine.GetStats()
	logger.Infof("[INFO] Server stopped: frames=%d spins_started=%d spins_finished=%d",
		stats.Frames, stats.SpinsStarted, stats.SpinsFinished)
}

// openHistory выбирает хранилища истории по HISTORY_BACKEND
func openHistory(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (history.CacheStore, history.Repository, func(), error) {
	if cfg.HistoryBackend == "memory" {
		logger.Infof("[INFO] Using in-memory history storage")
		return history.NewMemoryStore(), history.NewMemoryRepository(), func() {}, nil
	}

	strict := cfg.HistoryBackend == "redis"
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warnf("[WARN] Failed to close history storage: %v", err)
			}
		}
	}

	var cache history.CacheStore
	redisStore, err := history.NewRedisStoreFromAddr(connectCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	switch {
	case err == nil:
		logger.Infof("[INFO] Connected to Redis at %s", cfg.RedisAddr)
		cache = redisStore
		closers = append(closers, redisStore.Close)
	case strict:
		return nil, nil, nil, err
	default:
		logger.Warnf("[WARN] Redis unavailable, using in-memory cache: %v", err)
		cache = history.NewMemoryStore()
	}

	var repository history.Repository
	postgresRepo, err := history.NewPostgresRepositoryFromDSN(connectCtx, cfg.PostgresDSN)
	if err == nil {
		err = postgresRepo.EnsureSchema(connectCtx)
		if err != nil {
			postgresRepo.Close()
		}
	}
	switch {
	case err == nil:
		logger.Infof("[INFO] Connected to PostgreSQL")
		repository = postgresRepo
		closers = append(closers, postgresRepo.Close)
	case strict:
		closeAll()
		return nil, nil, nil, err
	default:
		logger.Warnf("[WARN] PostgreSQL unavailable, using in-memory archive: %v", err)
		repository = history.NewMemoryRepository()
	}

	return cache, repository, closeAll, nil
}
