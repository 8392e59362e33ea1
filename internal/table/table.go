package table

import (
	"errors"
	"sync"
	"time"

	"callbreak/internal/game"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrNoEmptySeat   = errors.New("no empty seat")
)

// Table is one game table. Every engine call goes through mu: the engine
// itself has no locking and expects one action at a time.
type Table struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`

	mu     sync.Mutex
	engine *game.Engine
	bots   map[game.PlayerID]bool
}

// Summary is the lobby view of a table.
type Summary struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	CreatedAt time.Time  `json:"createdAt"`
	Players   int        `json:"players"`
	Bots      int        `json:"bots"`
	Phase     game.Phase `json:"phase"`
	Round     int        `json:"round"`
}

type Store interface {
	GetTable(code string) (*Table, bool)
	SaveTable(t *Table)
	DeleteTable(code string)
	ListTables() []*Table
}

func (t *Table) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Summary{
		ID:        t.ID,
		Code:      t.Code,
		CreatedAt: t.CreatedAt,
		Players:   t.engine.NumPlayers(),
		Bots:      len(t.bots),
		Phase:     t.engine.Phase(),
		Round:     t.engine.Round(),
	}
}

// Snapshot returns the public state.
func (t *Table) Snapshot() game.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.PublicSnapshot()
}

// IsBot reports whether a seat is driven by the manager. Only tests need it;
// the manager reads the bot set directly under its own lock.
func (t *Table) IsBot(id game.PlayerID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bots[id]
}
