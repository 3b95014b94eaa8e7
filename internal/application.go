package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/nim-backend/internal/config"
	"github.com/rocketscienceinc/nim-backend/internal/nim"
	"github.com/rocketscienceinc/nim-backend/internal/repository"
	"github.com/rocketscienceinc/nim-backend/internal/repository/storage"
	"github.com/rocketscienceinc/nim-backend/internal/service"
	"github.com/rocketscienceinc/nim-backend/transport/rest"
)

var (
	ErrAddrNotFound         = errors.New("redis address string is empty")
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	gameRepo, closeStorage, err := newGameRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeStorage(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	strategy, err := nim.NewStrategy(conf.Game.Strategy)
	if err != nil {
		return fmt.Errorf("could not create opponent strategy: %w", err)
	}

	nimService, err := service.NewNimService(ctx, logger, gameRepo, strategy, service.Rules{
		InitialPileSize: conf.Game.InitialPileSize,
		MaxMoveSize:     conf.Game.MaxMoveSize,
	})
	if err != nil {
		return fmt.Errorf("could not create nim service: %w", err)
	}

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "strategy", conf.Game.Strategy, "storage", conf.Storage.Driver)

	if err = rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, nimService)); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// newGameRepository - picks the game store and returns how to close it.
func newGameRepository(ctx context.Context, conf *config.Config) (repository.GameRepository, func() error, error) {
	switch conf.Storage.Driver {
	case config.StorageMemory:
		return repository.NewMemoryGameRepository(), func() error { return nil }, nil
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewGameRepository(redisStorage), redisStorage.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorageDriver, conf.Storage.Driver)
	}
}
