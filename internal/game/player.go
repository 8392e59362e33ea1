package game

import (
	"slices"
)

// Player is one seat's hand and per-round bookkeeping. Players are owned by
// their Engine and never shared between engines.
type Player struct {
	ID   PlayerID
	Name string

	hand      []Card
	call      int
	called    bool
	tricksWon int
	score     int
	ready     bool
}

func newPlayer(id PlayerID, name string) *Player {
	return &Player{ID: id, Name: name, hand: make([]Card, 0, HandSize)}
}

// SetCall records the bid. Range checks belong to the engine.
func (p *Player) SetCall(n int) {
	p.call = n
	p.called = true
}

// Call returns the bid and whether one was made this round.
func (p *Player) Call() (int, bool) { return p.call, p.called }

func (p *Player) HasCalled() bool { return p.called }

func (p *Player) clearCall() {
	p.call = 0
	p.called = false
}

func (p *Player) TricksWon() int { return p.tricksWon }
func (p *Player) Score() int     { return p.score }
func (p *Player) Ready() bool    { return p.ready }
func (p *Player) HandSize() int  { return len(p.hand) }

func (p *Player) AddCard(c Card) { p.hand = append(p.hand, c) }

// RemoveCard takes the matching card out of the hand.
func (p *Player) RemoveCard(c Card) (Card, bool) {
	i := slices.Index(p.hand, c)
	if i < 0 {
		return Card{}, false
	}
	p.hand = slices.Delete(p.hand, i, i+1)
	return c, true
}

func (p *Player) HasSuit(s Suit) bool {
	return slices.ContainsFunc(p.hand, func(c Card) bool { return c.Suit == s })
}

// Hand returns a sorted copy of the hand: by suit, then ascending rank.
func (p *Player) Hand() []Card {
	out := slices.Clone(p.hand)
	SortCards(out)
	return out
}

// ValidPlays applies the follow-suit rule. A nil lead means the player is leading.
func (p *Player) ValidPlays(lead *Suit) []Card {
	if lead == nil || !p.HasSuit(*lead) {
		return p.Hand()
	}
	var out []Card
	for _, c := range p.Hand() {
		if c.Suit == *lead {
			out = append(out, c)
		}
	}
	return out
}

// RoundScore scores the finished round. An exact call earns a bonus that
// jumps for calls above ten; a missed call earns one point per trick.
func (p *Player) RoundScore() int {
	if p.called && p.tricksWon == p.call {
		if p.call > 10 {
			return 100 + p.call
		}
		return 10 + p.call
	}
	return p.tricksWon
}

// ResetForNewRound clears everything but the cumulative score.
func (p *Player) ResetForNewRound() {
	p.hand = p.hand[:0]
	p.clearCall()
	p.tricksWon = 0
	p.ready = false
}

// SortCards orders cards by suit, then ascending rank.
func SortCards(cards []Card) {
	slices.SortFunc(cards, func(a, b Card) int {
		if a.Suit != b.Suit {
			return int(a.Suit) - int(b.Suit)
		}
		return int(a.Rank) - int(b.Rank)
	})
}
