package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	kafka_impl "thumbnail-creator/internal/broker/kafka"
	"thumbnail-creator/internal/config"
	"thumbnail-creator/internal/editor"
	thumbnail_h "thumbnail-creator/internal/http-server/handler/thumbnail"
	"thumbnail-creator/internal/http-server/router"
	minio_repo "thumbnail-creator/internal/repository/export/cloud/minio"
	"thumbnail-creator/internal/usecase/compositor"
	"thumbnail-creator/internal/usecase/controls"
	"thumbnail-creator/internal/usecase/export"
	"thumbnail-creator/internal/usecase/studio"

	"github.com/wb-go/wbf/zlog"
)

type App struct {
	cfg      *config.Config
	server   *http.Server
	logger   *zlog.Zerolog
	registry *editor.Registry
	producer *kafka_impl.ProducerClient
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	retries := cfg.DefaultRetryStrategy()

	fonts, err := compositor.NewFontBook(cfg.Render.SerifFontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}

	var exportOpts []export.Option

	if cfg.Storage.Enabled {
		client, err := minio_repo.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		store, err := minio_repo.NewArtifactRepository(client, cfg.Storage, retries, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create artifact repository: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		err = store.EnsureBucket(ctx)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to prepare export bucket: %w", err)
		}
		exportOpts = append(exportOpts, export.WithStore(store))
	}

	var producer *kafka_impl.ProducerClient
	if cfg.Kafka.Enabled {
		producer = kafka_impl.NewProducerClient(&cfg.Kafka)
		exportOpts = append(exportOpts, export.WithProducer(producer))
	}

	registry := editor.NewRegistry(cfg.Session, logger)

	studioUsecase := studio.NewStudio(
		registry,
		compositor.NewRenderer(fonts, logger),
		controls.NewControls(cfg.Upload, logger),
		export.NewExporter(logger, retries, exportOpts...),
		cfg.Render,
		logger,
	)

	thumbnailHandler := thumbnail_h.NewThumbnailHandler(studioUsecase, cfg.Upload, logger)

	h := &router.Handler{
		ThumbnailHandler: thumbnailHandler,
	}

	mux := router.SetupRouter(h)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:      cfg,
		server:   server,
		logger:   logger,
		registry: registry,
		producer: producer,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().
		Str("addr", a.cfg.Server.Addr).
		Str("env", a.cfg.Env).
		Bool("storage", a.cfg.Storage.Enabled).
		Bool("kafka", a.cfg.Kafka.Enabled).
		Msg("Starting server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)
	go a.registry.Run(ctx, a.cfg.Session.SweepInterval)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		a.release()
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}

		a.release()
		a.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

func (a *App) release() {
	a.registry.Shutdown()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close producer")
		}
	}
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}
