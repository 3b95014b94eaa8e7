package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/nim-backend/internal/apperror"
	"github.com/rocketscienceinc/nim-backend/internal/entity"
	"github.com/rocketscienceinc/nim-backend/internal/nim"
	mockedService "github.com/rocketscienceinc/nim-backend/mocks/service"
)

var (
	errRedisDown = errors.New("redis down")
	defaultRules = Rules{InitialPileSize: 13, MaxMoveSize: 3}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFreshService - a service over an empty repository that accepts every save.
func newFreshService(t *testing.T) (*NimService, *mockedService.MockgameRepo) {
	t.Helper()

	mockGameRepo := mockedService.NewMockgameRepo(t)
	mockGameRepo.EXPECT().
		Load(mock.Anything).
		Return((*entity.Snapshot)(nil), apperror.ErrGameNotFound).
		Once()

	service, err := NewNimService(context.Background(), discardLogger(), mockGameRepo, &nim.OptimalStrategy{}, defaultRules)
	require.NoError(t, err)

	return service, mockGameRepo
}

func TestNewNimService(t *testing.T) {
	ctx := context.Background()

	t.Run("Starts a fresh game when nothing is persisted", func(t *testing.T) {
		// When: the service is created over an empty repository
		service, _ := newFreshService(t)

		// Then: the default game is running
		expectedState := entity.State{Pile: 13, Status: entity.StatusOngoing, MaxMoveSize: 3, LastOpponentMove: 0}
		assert.Equal(t, expectedState, service.CurrentState())
	})

	t.Run("Restores the persisted game", func(t *testing.T) {
		// Given: a repository holding a game in progress
		mockGameRepo := mockedService.NewMockgameRepo(t)
		mockGameRepo.EXPECT().
			Load(ctx).
			Return(&entity.Snapshot{
				ID:               entity.SnapshotID,
				InitialPileSize:  10,
				MaxMoveSize:      5,
				LastOpponentMove: 2,
				CurrentPileSize:  4,
				IsHumanTurn:      true,
			}, nil).
			Once()

		// When: the service is created
		service, err := NewNimService(ctx, discardLogger(), mockGameRepo, &nim.OptimalStrategy{}, defaultRules)

		// Then: the persisted state wins over the defaults
		require.NoError(t, err)
		expectedState := entity.State{Pile: 4, Status: entity.StatusOngoing, MaxMoveSize: 5, LastOpponentMove: 2}
		assert.Equal(t, expectedState, service.CurrentState())
	})

	t.Run("Returns error for invalid rules", func(t *testing.T) {
		tests := map[string]Rules{
			"pile of one":       {InitialPileSize: 1, MaxMoveSize: 3},
			"zero max move":     {InitialPileSize: 13, MaxMoveSize: 0},
			"negative max move": {InitialPileSize: 13, MaxMoveSize: -1},
		}

		for name, rules := range tests {
			t.Run(name, func(t *testing.T) {
				// Given: a repository that is never asked
				mockGameRepo := mockedService.NewMockgameRepo(t)

				// When: the service is created with broken rules
				service, err := NewNimService(ctx, discardLogger(), mockGameRepo, &nim.OptimalStrategy{}, rules)

				// Then: ErrInvalidRules is returned
				require.ErrorIs(t, err, ErrInvalidRules)
				assert.Nil(t, service)
			})
		}
	})

	t.Run("Starts a fresh game if the persisted one is out of range", func(t *testing.T) {
		tests := map[string]*entity.Snapshot{
			"negative max move":    {InitialPileSize: 13, MaxMoveSize: -1, CurrentPileSize: 13, IsHumanTurn: true},
			"zero max move":        {InitialPileSize: 13, MaxMoveSize: 0, CurrentPileSize: 13, IsHumanTurn: true},
			"pile of one":          {InitialPileSize: 1, MaxMoveSize: 3, CurrentPileSize: 1, IsHumanTurn: true},
			"negative pile":        {InitialPileSize: 13, MaxMoveSize: 3, CurrentPileSize: -2, IsHumanTurn: true},
			"negative last move":   {InitialPileSize: 13, MaxMoveSize: 3, LastOpponentMove: -1, CurrentPileSize: 9},
			"empty stored payload": nil,
		}

		for name, snapshot := range tests {
			t.Run(name, func(t *testing.T) {
				// Given: a repository holding a broken game
				mockGameRepo := mockedService.NewMockgameRepo(t)
				mockGameRepo.EXPECT().
					Load(ctx).
					Return(snapshot, nil).
					Once()

				// When: the service is created
				service, err := NewNimService(ctx, discardLogger(), mockGameRepo, &nim.OptimalStrategy{}, defaultRules)

				// Then: the default game is running instead
				require.NoError(t, err)
				expectedState := entity.State{Pile: 13, Status: entity.StatusOngoing, MaxMoveSize: 3, LastOpponentMove: 0}
				assert.Equal(t, expectedState, service.CurrentState())
			})
		}
	})

	t.Run("Keeps a configured game whose pile is above the new initial size", func(t *testing.T) {
		// Given: a repository holding a game configured down to 5 before the reset
		mockGameRepo := mockedService.NewMockgameRepo(t)
		mockGameRepo.EXPECT().
			Load(ctx).
			Return(&entity.Snapshot{InitialPileSize: 5, MaxMoveSize: 2, CurrentPileSize: 13, IsHumanTurn: true}, nil).
			Once()

		// When: the service is created
		service, err := NewNimService(ctx, discardLogger(), mockGameRepo, &nim.OptimalStrategy{}, defaultRules)

		// Then: the running pile is kept
		require.NoError(t, err)
		expectedState := entity.State{Pile: 13, Status: entity.StatusOngoing, MaxMoveSize: 2, LastOpponentMove: 0}
		assert.Equal(t, expectedState, service.CurrentState())
	})

	t.Run("Returns error if the repository fails", func(t *testing.T) {
		// Given: a repository that cannot be reached
		mockGameRepo := mockedService.NewMockgameRepo(t)
		mockGameRepo.EXPECT().
			Load(ctx).
			Return((*entity.Snapshot)(nil), errRedisDown).
			Once()

		// When: the service is created
		service, err := NewNimService(ctx, discardLogger(), mockGameRepo, &nim.OptimalStrategy{}, defaultRules)

		// Then: the error is returned
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, service)
	})
}

func TestNimService_TakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Human move is answered by the opponent", func(t *testing.T) {
		// Given: a fresh default game
		service, mockGameRepo := newFreshService(t)

		mockGameRepo.EXPECT().
			Save(ctx, &entity.Snapshot{
				ID:               entity.SnapshotID,
				InitialPileSize:  13,
				MaxMoveSize:      3,
				LastOpponentMove: 1,
				CurrentPileSize:  9,
				IsHumanTurn:      true,
			}).
			Return(nil).
			Once()

		// When: the human takes 3
		state, err := service.TakeTurn(ctx, 3)

		// Then: the optimal opponent takes 1 and the pile ends at 9
		require.NoError(t, err)
		expectedState := entity.State{Pile: 9, Status: entity.StatusOngoing, MaxMoveSize: 3, LastOpponentMove: 1}
		assert.Equal(t, expectedState, state)
	})

	t.Run("Opponent does not move after the game ended", func(t *testing.T) {
		// Given: a game with 3 tokens left
		mockGameRepo := mockedService.NewMockgameRepo(t)
		mockGameRepo.EXPECT().
			Load(ctx).
			Return(&entity.Snapshot{InitialPileSize: 13, MaxMoveSize: 3, CurrentPileSize: 3, IsHumanTurn: true}, nil).
			Once()
		mockGameRepo.EXPECT().
			Save(ctx, mock.AnythingOfType("*entity.Snapshot")).
			Return(nil).
			Once()

		service, err := NewNimService(ctx, discardLogger(), mockGameRepo, &nim.OptimalStrategy{}, defaultRules)
		require.NoError(t, err)

		// When: the human takes all of them
		state, err := service.TakeTurn(ctx, 3)

		// Then: the human lost and the opponent did not move
		require.NoError(t, err)
		expectedState := entity.State{Pile: 0, Status: entity.StatusOpponentWon, MaxMoveSize: 3, LastOpponentMove: 0}
		assert.Equal(t, expectedState, state)
	})

	t.Run("Illegal move changes nothing", func(t *testing.T) {
		// Given: a fresh default game
		service, _ := newFreshService(t)

		for _, count := range []int{0, 4} {
			// When: the human takes an illegal count
			_, err := service.TakeTurn(ctx, count)

			// Then: ErrIllegalMove is returned, nothing is saved and the pile is unchanged
			require.ErrorIs(t, err, apperror.ErrIllegalMove)
			assert.Equal(t, 13, service.CurrentState().Pile)
		}
	})

	t.Run("Save failure keeps the move", func(t *testing.T) {
		// Given: a repository that fails to save
		service, mockGameRepo := newFreshService(t)
		mockGameRepo.EXPECT().
			Save(ctx, mock.AnythingOfType("*entity.Snapshot")).
			Return(errRedisDown).
			Once()

		// When: the human moves
		state, err := service.TakeTurn(ctx, 2)

		// Then: the move is applied anyway
		require.NoError(t, err)
		assert.Equal(t, 10, state.Pile)
		assert.Equal(t, state, service.CurrentState())
	})

	t.Run("Concurrent moves are serialized", func(t *testing.T) {
		// Given: a fresh default game
		service, mockGameRepo := newFreshService(t)
		mockGameRepo.EXPECT().
			Save(ctx, mock.AnythingOfType("*entity.Snapshot")).
			Return(nil)

		// When: many clients take one token at the same time
		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			piles  []int
			errs   []error
			states []entity.State
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				state, err := service.TakeTurn(ctx, 1)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return
				}
				piles = append(piles, state.Pile)
				states = append(states, state)
			}()
		}
		wg.Wait()

		// Then: every human move got a full opponent reply, 1 + 3 tokens at a time
		assert.ElementsMatch(t, []int{9, 5, 1, 0}, piles)
		for _, state := range states {
			if state.Pile > 0 {
				assert.Equal(t, 3, state.LastOpponentMove)
				assert.Equal(t, entity.StatusOngoing, state.Status)
			}
		}

		// Then: the calls after the end are rejected, the opponent is to move on an empty pile
		assert.Len(t, errs, 16)
		for _, err := range errs {
			require.ErrorIs(t, err, apperror.ErrWrongTurn)
		}

		// Then: the human took the last token
		expectedState := entity.State{Pile: 0, Status: entity.StatusOpponentWon, MaxMoveSize: 3, LastOpponentMove: 3}
		assert.Equal(t, expectedState, service.CurrentState())
	})
}

func TestNimService_Reset(t *testing.T) {
	ctx := context.Background()

	// Given: a game in progress
	service, mockGameRepo := newFreshService(t)
	mockGameRepo.EXPECT().
		Save(ctx, mock.AnythingOfType("*entity.Snapshot")).
		Return(nil).
		Times(3)

	_, err := service.TakeTurn(ctx, 3)
	require.NoError(t, err)

	// When: the game is reset twice
	first := service.Reset(ctx)
	second := service.Reset(ctx)

	// Then: both return the initial state
	expectedState := entity.State{Pile: 13, Status: entity.StatusOngoing, MaxMoveSize: 3, LastOpponentMove: 0}
	assert.Equal(t, expectedState, first)
	assert.Equal(t, expectedState, second)
}

func TestNimService_Configure(t *testing.T) {
	ctx := context.Background()

	// Given: a fresh default game
	service, mockGameRepo := newFreshService(t)
	mockGameRepo.EXPECT().
		Save(ctx, &entity.Snapshot{
			ID:              entity.SnapshotID,
			InitialPileSize: 10,
			MaxMoveSize:     5,
			CurrentPileSize: 13,
			IsHumanTurn:     true,
		}).
		Return(nil).
		Once()
	mockGameRepo.EXPECT().
		Save(ctx, &entity.Snapshot{
			ID:              entity.SnapshotID,
			InitialPileSize: 10,
			MaxMoveSize:     5,
			CurrentPileSize: 10,
			IsHumanTurn:     true,
		}).
		Return(nil).
		Once()

	// When: the rules change
	service.Configure(ctx, 10, 5)

	// Then: the running pile keeps its size
	assert.Equal(t, 13, service.CurrentState().Pile)

	// When: the game is reset
	state := service.Reset(ctx)

	// Then: the new rules apply
	expectedState := entity.State{Pile: 10, Status: entity.StatusOngoing, MaxMoveSize: 5, LastOpponentMove: 0}
	assert.Equal(t, expectedState, state)
}
