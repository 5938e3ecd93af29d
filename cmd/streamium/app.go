package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nkiryanov/streamium/internal/db"
	"github.com/nkiryanov/streamium/internal/handlers"
	"github.com/nkiryanov/streamium/internal/logger"
	"github.com/nkiryanov/streamium/internal/repository/postgres"
	"github.com/nkiryanov/streamium/internal/service/auth"
	"github.com/nkiryanov/streamium/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/streamium/internal/service/media"
	"github.com/nkiryanov/streamium/internal/service/user"
	"github.com/nkiryanov/streamium/internal/service/video"
	"github.com/nkiryanov/streamium/internal/service/video/historyrecorder"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger   logger.Logger
	recorder *historyrecorder.Recorder
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize object storage for media files
	mediaStore, err := media.NewStore(ctx, media.Config{
		Endpoint:     c.S3Endpoint,
		Region:       c.S3Region,
		Bucket:       c.S3Bucket,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		UsePathStyle: c.S3UsePathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating media store. Err: %w", err)
	}

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		AccessSecret:  c.AccessSecret,
		RefreshSecret: c.RefreshSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	authService, err := auth.NewService(auth.Config{}, tokenManager, storage.User(), mediaStore)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	userService := user.NewService(storage)

	recorder := historyrecorder.New(storage.History(), logger)
	videoService := video.NewService(storage.Video(), mediaStore, recorder)

	mux := handlers.NewRouter(authService, userService, videoService, logger)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		logger:     logger,
		recorder:   recorder,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	// View events are written off the request path
	recorderStopped := s.recorder.Run(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed
	<-recorderStopped

	return err
}
