package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"VoxGate/internal/auth"
	handlers "VoxGate/internal/handler"
	"VoxGate/internal/service"
	"VoxGate/internal/store"
	"VoxGate/pkg/cache"
	"VoxGate/pkg/config"
	"VoxGate/pkg/llm"
	"VoxGate/pkg/logger"
	"VoxGate/pkg/metrics"
	stores "VoxGate/pkg/storage"
	"VoxGate/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	if err := config.Load(); err != nil {
		return err
	}
	cfg := config.GlobalConfig

	log, err := logger.Init(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := util.OpenDatabase(&gorm.Config{}, cfg.DBDriver, cfg.DSN)
	if err != nil {
		return err
	}
	if err := store.AutoMigrate(db); err != nil {
		return err
	}

	responseCache, err := cache.NewCache(cfg.Cache)
	if err != nil {
		return err
	}
	defer responseCache.Close()

	blobs, err := stores.NewMinioStore(cfg.Minio)
	if err != nil {
		return err
	}

	llmLog := logrus.New()
	grok := llm.NewGrokClient(cfg.GrokAPIURL, cfg.GrokAPIKey, llmLog)
	krutrim := llm.NewKrutrimClient(cfg.KrutrimAPIURL, cfg.KrutrimAPIKey, cfg.KrutrimModel, llmLog)

	users := store.NewUserStore(db)
	prompts := store.NewPromptStore(db)
	voices := store.NewVoiceStore(db)

	synthesizer := service.NewSynthesizer(cfg.TTSAPIURL, cfg.TTSAPIKey, blobs, voices, log)
	orchestrator := service.NewOrchestrator(grok, krutrim, synthesizer, prompts, responseCache, log)

	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTExpireHours)*time.Hour)

	gin.SetMode(cfg.Mode)
	engine := gin.New()
	engine.Use(gin.Recovery(), metrics.Middleware())

	h := handlers.NewHandlers(db, users, orchestrator, synthesizer, tokens, log)
	h.Register(engine)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	log.Info("server listening", zap.String("addr", cfg.Addr))
	return serve(&http.Server{Handler: engine}, ln, sigCh, log)
}

const shutdownTimeout = 10 * time.Second

// serve runs srv on ln until a signal arrives, then shuts down and does not
// return before in-flight requests have drained or the timeout expired.
func serve(srv *http.Server, ln net.Listener, sig <-chan os.Signal, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case s := <-sig:
		log.Info("shutting down", zap.String("signal", s.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
