package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/nim-backend/internal/apperror"
	"github.com/rocketscienceinc/nim-backend/internal/entity"
)

// memoryGame keeps the snapshot in process, for running without Redis.
type memoryGame struct {
	mu       sync.Mutex
	snapshot *entity.Snapshot
}

func NewMemoryGameRepository() GameRepository {
	return &memoryGame{}
}

func (that *memoryGame) Save(_ context.Context, snapshot *entity.Snapshot) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored := *snapshot
	stored.ID = entity.SnapshotID
	that.snapshot = &stored

	return nil
}

func (that *memoryGame) Load(_ context.Context) (*entity.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.snapshot == nil {
		return nil, apperror.ErrGameNotFound
	}

	loaded := *that.snapshot
	return &loaded, nil
}
