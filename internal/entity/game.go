package entity

// SnapshotID is the key of the single persisted game.
const SnapshotID = 1

type Status string

const (
	// StatusOngoing - someone can still move. The game may already be decided
	// when only one legal move is left, it is finished once that move is taken.
	StatusOngoing     Status = "ONGOING"
	StatusPlayerWon   Status = "PLAYER_WON"
	StatusOpponentWon Status = "OPPONENT_WON"
)

func (that Status) IsFinished() bool {
	return that == StatusPlayerWon || that == StatusOpponentWon
}

// Snapshot is the persisted record of the game configuration and progress.
type Snapshot struct {
	ID               int  `json:"id"`
	InitialPileSize  int  `json:"initialPileSize"`
	MaxMoveSize      int  `json:"maxMoveSize"`
	LastOpponentMove int  `json:"lastOpponentMove"`
	CurrentPileSize  int  `json:"currentPileSize"`
	IsHumanTurn      bool `json:"isHumanTurn"`
}

// State is what the client sees after every request.
type State struct {
	Pile             int    `json:"pile"`
	Status           Status `json:"status"`
	MaxMoveSize      int    `json:"maxMoveSize"`
	LastOpponentMove int    `json:"lastOpponentMove"`
}
