package nim

import (
	"log/slog"

	"github.com/rocketscienceinc/nim-backend/internal/apperror"
	"github.com/rocketscienceinc/nim-backend/internal/entity"
)

// Engine enforces the rules of a single misère Nim game between a human and
// a strategy-driven opponent. It is not safe for concurrent use.
type Engine struct {
	logger   *slog.Logger
	strategy Strategy

	initialPileSize int
	maxMoveSize     int

	currentPileSize  int
	isHumanTurn      bool
	lastOpponentMove int
}

// NewEngine - starts a game on a full pile with the human to move.
func NewEngine(logger *slog.Logger, strategy Strategy, initialPileSize, maxMoveSize int) *Engine {
	return &Engine{
		logger:   logger.With("component", "engine"),
		strategy: strategy,

		initialPileSize: initialPileSize,
		maxMoveSize:     maxMoveSize,

		currentPileSize: initialPileSize,
		isHumanTurn:     true,
	}
}

// TakeHumanTurn - removes count tokens on behalf of the human.
func (that *Engine) TakeHumanTurn(count int) (entity.Status, error) {
	if !that.isHumanTurn {
		return that.CheckStatus(), apperror.ErrWrongTurn
	}

	if err := that.takeTurn(count); err != nil {
		return that.CheckStatus(), err
	}

	return that.CheckStatus(), nil
}

// TakeOpponentTurn - removes as many tokens as the strategy decides.
func (that *Engine) TakeOpponentTurn() (entity.Status, error) {
	if that.isHumanTurn {
		return that.CheckStatus(), apperror.ErrWrongTurn
	}

	count := that.strategy.CalculateMove(that.currentPileSize, that.maxMoveSize)
	if err := that.takeTurn(count); err != nil {
		return that.CheckStatus(), err
	}

	that.lastOpponentMove = count

	return that.CheckStatus(), nil
}

// takeTurn - validates the move completely before touching the pile.
func (that *Engine) takeTurn(count int) error {
	if count < 1 || count > that.maxMoveSize {
		return apperror.NewIllegalMove("tried to take %d tokens while only 1 to %d tokens are allowed", count, that.maxMoveSize)
	}

	if count > that.currentPileSize {
		return apperror.NewIllegalMove("tried to take %d tokens while only %d tokens are left on the pile", count, that.currentPileSize)
	}

	that.currentPileSize -= count

	that.logger.Info("tokens taken", "party", that.party(), "count", count, "left", that.currentPileSize)

	that.isHumanTurn = !that.isHumanTurn

	return nil
}

func (that *Engine) party() string {
	if that.isHumanTurn {
		return "human"
	}
	return "opponent"
}

// CheckStatus - whoever would move next on an empty pile has won.
func (that *Engine) CheckStatus() entity.Status {
	if that.currentPileSize > 0 {
		return entity.StatusOngoing
	}

	if that.isHumanTurn {
		return entity.StatusPlayerWon
	}
	return entity.StatusOpponentWon
}

// Reset - starts a new game with the current configuration.
func (that *Engine) Reset() {
	that.lastOpponentMove = 0
	that.currentPileSize = that.initialPileSize
	that.isHumanTurn = true
}

// Configure - changes the rules. They apply from the next Reset on.
func (that *Engine) Configure(initialPileSize, maxMoveSize int) {
	that.initialPileSize = initialPileSize
	that.maxMoveSize = maxMoveSize
}

// SetStrategy - replaces the opponent's strategy.
func (that *Engine) SetStrategy(strategy Strategy) {
	that.strategy = strategy
}

// Restore - overwrites configuration and progress with a persisted snapshot.
func (that *Engine) Restore(snapshot *entity.Snapshot) {
	that.initialPileSize = snapshot.InitialPileSize
	that.maxMoveSize = snapshot.MaxMoveSize
	that.currentPileSize = snapshot.CurrentPileSize
	that.isHumanTurn = snapshot.IsHumanTurn
	that.lastOpponentMove = snapshot.LastOpponentMove
}

// Snapshot - the persisted form of the game.
func (that *Engine) Snapshot() *entity.Snapshot {
	return &entity.Snapshot{
		ID:               entity.SnapshotID,
		InitialPileSize:  that.initialPileSize,
		MaxMoveSize:      that.maxMoveSize,
		LastOpponentMove: that.lastOpponentMove,
		CurrentPileSize:  that.currentPileSize,
		IsHumanTurn:      that.isHumanTurn,
	}
}

// State - what the client sees of the game.
func (that *Engine) State() entity.State {
	return entity.State{
		Pile:             that.currentPileSize,
		Status:           that.CheckStatus(),
		MaxMoveSize:      that.maxMoveSize,
		LastOpponentMove: that.lastOpponentMove,
	}
}
