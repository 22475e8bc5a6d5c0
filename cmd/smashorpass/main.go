// Command smashorpass запускает HTTP и gRPC серверы игры smash or pass по спискам AniList.
package main

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tempizhere/smashorpass/internal/anilist"
	"github.com/tempizhere/smashorpass/internal/app"
	"github.com/tempizhere/smashorpass/internal/config"
	grpcserver "github.com/tempizhere/smashorpass/internal/grpc"
	"github.com/tempizhere/smashorpass/internal/log"
	"github.com/tempizhere/smashorpass/internal/repository"
	"github.com/tempizhere/smashorpass/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

// shutdownTimeout ограничивает время корректной остановки HTTP сервера
const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		panic(err)
	}
}

// run собирает зависимости и обслуживает запросы до отмены ctx
func run(ctx context.Context, args []string) error {
	// Файл .env необязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg, err := config.NewConfig(args)
	if err != nil {
		return err
	}

	logger := log.NewLogger(cfg.LogLevel)
	defer func() {
		_ = logger.Sync()
	}()

	catalog, db, err := newCatalog(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize character catalog", zap.Error(err))
		return err
	}
	if db != nil {
		defer func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close database", zap.Error(err))
			}
		}()
	}

	source := anilist.NewClient(cfg.AniListURL, cfg.FetchTimeout, logger)
	svc := service.NewService(catalog, source, service.Options{
		BaseURL:   cfg.BaseURL,
		SharePath: cfg.SharePath,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.CookieTTL,
	}, logger)
	defer svc.Close()

	appInstance := app.NewApp(svc, db, logger)
	handler := app.NewRouter(appInstance, app.RouterConfig{
		SharePath:     cfg.SharePath,
		CookieTTL:     cfg.CookieTTL,
		TrustedSubnet: cfg.TrustedSubnet,
	}, logger)

	httpServer := &http.Server{
		Addr:              cfg.RunAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	var grpcServer *grpc.Server
	var grpcListener net.Listener
	if cfg.EnableGRPC {
		grpcListener, err = net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			logger.Error("Failed to listen gRPC address", zap.String("address", cfg.GRPCAddr), zap.Error(err))
			return err
		}
		grpcServer = grpcserver.NewGRPCServer(grpcserver.NewServer(svc, db, logger), svc, cfg.TrustedSubnet, logger)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("address", cfg.RunAddr), zap.String("base_url", cfg.BaseURL))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if grpcServer != nil {
		g.Go(func() error {
			logger.Info("Starting gRPC server", zap.String("address", cfg.GRPCAddr))
			if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if grpcServer != nil {
			grpcServer.GracefulStop()
		}
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// newCatalog выбирает хранилище каталога: база данных, файл или память
func newCatalog(cfg *config.Config, logger *zap.Logger) (repository.Catalog, repository.Database, error) {
	if cfg.DatabaseDSN != "" {
		db, err := app.NewDB(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		catalog, err := repository.NewSQLCatalog(db, logger)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("Using database catalog")
		return catalog, db, nil
	}

	if cfg.FileStoragePath != "" {
		catalog, err := repository.NewFileCatalog(cfg.FileStoragePath, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using file catalog", zap.String("path", cfg.FileStoragePath))
		return catalog, nil, nil
	}

	logger.Info("Using in-memory catalog")
	return repository.NewMemoryCatalog(), nil, nil
}
