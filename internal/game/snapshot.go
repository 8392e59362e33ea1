package game

import (
	"cmp"
	"slices"
)

// PlayerSnapshot is the public view of a seat. It never carries hand contents.
type PlayerSnapshot struct {
	ID         PlayerID `json:"id"`
	Name       string   `json:"name"`
	Seat       int      `json:"seat"`
	Call       *int     `json:"call"`
	TricksWon  int      `json:"tricks"`
	Score      int      `json:"score"`
	CardsCount int      `json:"cardsCount"`
	Ready      bool     `json:"ready"`
}

// Snapshot is the state every client at the table may see.
type Snapshot struct {
	Players            []PlayerSnapshot `json:"players"`
	CurrentRound       int              `json:"currentRound"`
	MaxRounds          int              `json:"maxRounds"`
	TrumpSuit          *Suit            `json:"trumpSuit"`
	CurrentTrick       []TrickPlay      `json:"currentTrick"`
	LastTrick          []TrickPlay      `json:"lastTrick"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
	CurrentPlayerID    PlayerID         `json:"currentPlayerId,omitempty"`
	Phase              Phase            `json:"gameState"`
	CallsFinalized     bool             `json:"callsComplete"`
}

// PrivateSnapshot adds one player's own hand to the public view.
type PrivateSnapshot struct {
	Snapshot
	PlayerID   PlayerID `json:"playerId"`
	Cards      []Card   `json:"cards"`
	ValidPlays []Card   `json:"validPlays"`
}

// PublicSnapshot is side-effect free.
func (e *Engine) PublicSnapshot() Snapshot {
	s := Snapshot{
		Players:            make([]PlayerSnapshot, len(e.players)),
		CurrentRound:       e.round,
		MaxRounds:          e.maxRounds,
		CurrentTrick:       slices.Clone(e.trick),
		LastTrick:          slices.Clone(e.lastTrick),
		CurrentPlayerIndex: e.turn,
		Phase:              e.phase,
		CallsFinalized:     e.phase == PhaseTrumpSelection || e.phase == PhasePlaying,
	}
	if s.CurrentTrick == nil {
		s.CurrentTrick = []TrickPlay{}
	}
	if e.trump != nil {
		t := *e.trump
		s.TrumpSuit = &t
	}
	if id, ok := e.CurrentPlayer(); ok {
		s.CurrentPlayerID = id
	}
	for i, p := range e.players {
		ps := PlayerSnapshot{
			ID:         p.ID,
			Name:       p.Name,
			Seat:       i,
			TricksWon:  p.tricksWon,
			Score:      p.score,
			CardsCount: len(p.hand),
			Ready:      p.ready,
		}
		if c, ok := p.Call(); ok {
			ps.Call = &c
		}
		s.Players[i] = ps
	}
	return s
}

// PrivateSnapshot is side-effect free.
func (e *Engine) PrivateSnapshot(id PlayerID) (PrivateSnapshot, error) {
	_, p, err := e.player(id)
	if err != nil {
		return PrivateSnapshot{}, err
	}
	valid, _ := e.ValidPlays(id)
	return PrivateSnapshot{
		Snapshot:   e.PublicSnapshot(),
		PlayerID:   id,
		Cards:      p.Hand(),
		ValidPlays: valid,
	}, nil
}

// Standings orders players by cumulative score, highest first. Ties keep seat order.
func (e *Engine) Standings() []PlayerSnapshot {
	out := e.PublicSnapshot().Players
	slices.SortStableFunc(out, func(a, b PlayerSnapshot) int { return cmp.Compare(b.Score, a.Score) })
	return out
}
