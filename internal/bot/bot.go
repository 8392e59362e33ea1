// Package bot plays a seat with a weighted hand evaluation. It only reads the
// seat's private snapshot, so it sees exactly what a human in that seat sees.
package bot

import (
	"callbreak/internal/config"
	"callbreak/internal/game"
)

type Bot struct {
	w config.BotWeights
}

func New(w config.BotWeights) *Bot {
	if w.Scale <= 0 {
		w.Scale = config.DefaultBotWeights().Scale
	}
	return &Bot{w: w}
}

func suitCounts(hand []game.Card) map[game.Suit]int {
	n := make(map[game.Suit]int, len(game.Suits))
	for _, c := range hand {
		n[c.Suit]++
	}
	return n
}

// HandValue scores the trick-taking potential of a hand in weight points.
func (b *Bot) HandValue(hand []game.Card) int {
	counts := suitCounts(hand)
	score := 0
	for _, c := range hand {
		switch {
		case c.Rank == game.Ace:
			score += b.w.WAce
		case c.Rank == game.King && counts[c.Suit] >= 2:
			score += b.w.WKing
		case c.Rank == game.Queen && counts[c.Suit] >= 3:
			score += b.w.WQueen
		}
	}
	for _, s := range game.Suits {
		switch n := counts[s]; {
		case n == 0:
			score += b.w.WVoid
		case n > 4:
			score += (n - 4) * b.w.WLongSuit
		}
	}
	return score
}

// Call estimates tricks for the seat. As the last caller it steps away from
// a total of exactly 13, which would void the bidding.
func (b *Bot) Call(view game.PrivateSnapshot) int {
	est := (b.HandValue(view.Cards) + b.w.Scale/2) / b.w.Scale
	est = min(max(est, 0), game.TricksPerDeal)

	sum, made := 0, 0
	for _, p := range view.Players {
		if p.Call != nil {
			sum += *p.Call
			made++
		}
	}
	if made == len(view.Players)-1 && sum+est == game.ForbiddenCallSum {
		if est < game.TricksPerDeal {
			est++
		} else {
			est--
		}
	}
	return est
}

// Trump picks the longest suit, breaking ties on high-card strength.
func (b *Bot) Trump(hand []game.Card) game.Suit {
	strength := make(map[game.Suit]int, len(game.Suits))
	for _, c := range hand {
		strength[c.Suit] += 100 + int(c.Rank)
	}
	best := game.Suits[0]
	for _, s := range game.Suits[1:] {
		if strength[s] > strength[best] {
			best = s
		}
	}
	return best
}

// Play chooses a card from view.ValidPlays, which must not be empty.
func (b *Bot) Play(view game.PrivateSnapshot) game.Card {
	valid := view.ValidPlays
	var trump game.Suit
	hasTrump := view.TrumpSuit != nil
	if hasTrump {
		trump = *view.TrumpSuit
	}

	need := true
	for _, p := range view.Players {
		if p.ID == view.PlayerID && p.Call != nil {
			need = p.TricksWon < *p.Call
		}
	}

	if len(view.CurrentTrick) == 0 {
		if need {
			if c, ok := highest(valid, func(c game.Card) bool { return c.Rank == game.Ace }); ok {
				return c
			}
		}
		return b.lowest(valid, trump, hasTrump)
	}

	lead := view.CurrentTrick[0].Card.Suit
	best := view.CurrentTrick[0].Card
	for _, tp := range view.CurrentTrick[1:] {
		if tp.Card.Beats(best, lead, trump) {
			best = tp.Card
		}
	}

	if need {
		var winners []game.Card
		for _, c := range valid {
			if c.Beats(best, lead, trump) {
				winners = append(winners, c)
			}
		}
		if len(winners) > 0 {
			return b.lowest(winners, trump, hasTrump)
		}
	}
	return b.lowest(valid, trump, hasTrump)
}

// lowest prefers the smallest non-trump card so trumps are kept for ruffing.
func (b *Bot) lowest(cards []game.Card, trump game.Suit, hasTrump bool) game.Card {
	cost := func(c game.Card) int {
		v := int(c.Rank)
		if hasTrump && c.Suit == trump {
			v += 100
		}
		return v
	}
	out := cards[0]
	for _, c := range cards[1:] {
		if cost(c) < cost(out) {
			out = c
		}
	}
	return out
}

func highest(cards []game.Card, keep func(game.Card) bool) (game.Card, bool) {
	var out game.Card
	found := false
	for _, c := range cards {
		if keep(c) && (!found || c.Rank > out.Rank) {
			out, found = c, true
		}
	}
	return out, found
}
