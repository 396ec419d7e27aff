package game

import (
	"sync"
	"time"

	"xiangqi/internal/ai"
	"xiangqi/internal/xiangqi"
)

// Game 一局对局。State 只通过 Manager 修改。
type Game struct {
	mu sync.Mutex

	ID        string
	State     xiangqi.GameState
	AI        *ai.Orchestrator
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot 对局在某一时刻的只读拷贝
type Snapshot struct {
	ID         string            `json:"id"`
	State      xiangqi.GameState `json:"state"`
	FEN        string            `json:"fen"`
	Difficulty string            `json:"difficulty"`
	Thinking   bool              `json:"thinking"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// snapshotLocked 调用方持有 g.mu
func (g *Game) snapshotLocked() Snapshot {
	pos := g.State.Position
	return Snapshot{
		ID:         g.ID,
		State:      g.State,
		FEN:        pos.Encode(),
		Difficulty: g.AI.Settings().Difficulty,
		Thinking:   g.AI.IsThinking(),
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}
