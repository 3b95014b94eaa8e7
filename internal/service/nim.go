package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/nim-backend/internal/apperror"
	"github.com/rocketscienceinc/nim-backend/internal/entity"
	"github.com/rocketscienceinc/nim-backend/internal/nim"
)

var ErrInvalidRules = errors.New("invalid game rules")

type gameRepo interface {
	Save(ctx context.Context, snapshot *entity.Snapshot) error
	Load(ctx context.Context) (*entity.Snapshot, error)
}

// Rules are used for a fresh game when nothing is persisted.
type Rules struct {
	InitialPileSize int
	MaxMoveSize     int
}

func (that Rules) validate() error {
	if that.InitialPileSize < 2 || that.MaxMoveSize < 1 {
		return fmt.Errorf("%w: initial pile size %d, max move size %d", ErrInvalidRules, that.InitialPileSize, that.MaxMoveSize)
	}

	return nil
}

// NimService controls the single game of the process from the human's side.
// The opponent answers every human move right away.
type NimService struct {
	logger   *slog.Logger
	gameRepo gameRepo

	mu     sync.Mutex
	engine *nim.Engine
}

// NewNimService - restores the persisted game or starts a fresh one.
func NewNimService(ctx context.Context, logger *slog.Logger, gameRepo gameRepo, strategy nim.Strategy, rules Rules) (*NimService, error) {
	log := logger.With("component", "nimService")

	if err := rules.validate(); err != nil {
		return nil, err
	}

	engine := nim.NewEngine(logger, strategy, rules.InitialPileSize, rules.MaxMoveSize)

	snapshot, err := gameRepo.Load(ctx)
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		log.Info("no persisted game state, create new game")
	case err != nil:
		return nil, fmt.Errorf("failed to load game: %w", err)
	case !validSnapshot(snapshot):
		log.Warn("persisted game state is out of range, create new game", "snapshot", snapshot)
	default:
		log.Info("load persisted game state")
		engine.Restore(snapshot)
	}

	return &NimService{
		logger:   log,
		gameRepo: gameRepo,
		engine:   engine,
	}, nil
}

func (that *NimService) CurrentState() entity.State {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.engine.State()
}

// TakeTurn - takes count tokens for the human and, if the game goes on,
// lets the opponent reply. Returns the state after both turns.
func (that *NimService) TakeTurn(ctx context.Context, count int) (entity.State, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	status, err := that.engine.TakeHumanTurn(count)
	if err != nil {
		return entity.State{}, fmt.Errorf("failed to take turn: %w", err)
	}

	if !status.IsFinished() {
		if _, err = that.engine.TakeOpponentTurn(); err != nil {
			that.persist(ctx)
			return entity.State{}, fmt.Errorf("opponent failed to take turn: %w", err)
		}
	}

	that.persist(ctx)

	return that.engine.State(), nil
}

// Reset - starts over with the latest configuration.
func (that *NimService) Reset(ctx context.Context) entity.State {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.engine.Reset()
	that.persist(ctx)

	return that.engine.State()
}

// Configure - changes the rules for the next Reset.
func (that *NimService) Configure(ctx context.Context, initialPileSize, maxMoveSize int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.engine.Configure(initialPileSize, maxMoveSize)
	that.persist(ctx)
}

// validSnapshot - reports whether a stored game can be played on.
func validSnapshot(snapshot *entity.Snapshot) bool {
	if snapshot == nil {
		return false
	}

	return snapshot.InitialPileSize >= 2 &&
		snapshot.MaxMoveSize >= 1 &&
		snapshot.CurrentPileSize >= 0 &&
		snapshot.LastOpponentMove >= 0
}

// persist - saves the game; a failure never undoes the move.
func (that *NimService) persist(ctx context.Context) {
	log := that.logger.With("method", "persist")

	if err := that.gameRepo.Save(ctx, that.engine.Snapshot()); err != nil {
		log.Error("failed to persist game state", "error", err)
		return
	}

	log.Debug("game state persisted")
}
