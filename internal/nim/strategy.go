package nim

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

const (
	StrategyOptimal = "optimal"
	StrategyRandom  = "random"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy decides how many tokens the opponent takes.
// For pileSize >= 1 and maxMove >= 1 the result must be in [1, min(pileSize, maxMove)].
type Strategy interface {
	CalculateMove(pileSize, maxMove int) int
}

// NewStrategy - resolves a strategy by its configured name.
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case StrategyOptimal:
		return &OptimalStrategy{}, nil
	case StrategyRandom:
		return NewRandomStrategy(rand.New(rand.NewSource(time.Now().UnixNano()))), nil //nolint: gosec // it's ok
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// RandomStrategy takes a random number of tokens in [1, maxMove-1].
// maxMove itself is never drawn.
type RandomStrategy struct {
	rnd *rand.Rand
}

func NewRandomStrategy(rnd *rand.Rand) *RandomStrategy {
	return &RandomStrategy{rnd: rnd}
}

func (that *RandomStrategy) CalculateMove(pileSize, maxMove int) int {
	move := 1
	if maxMove > 2 {
		move = 1 + that.rnd.Intn(maxMove-1)
	}

	return min(pileSize, move)
}

// OptimalStrategy plays misère Nim perfectly: it leaves the pile at
// 1 modulo (maxMove+1) whenever that is reachable.
type OptimalStrategy struct{}

func (that *OptimalStrategy) CalculateMove(pileSize, maxMove int) int {
	maxMove = max(maxMove, 1)
	move := max(1, ((pileSize%(maxMove+1))+maxMove)%(maxMove+1))

	return min(pileSize, move)
}
