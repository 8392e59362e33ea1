package game

import (
	"math/rand/v2"
	"slices"
)

// Deck is an ordered draw pile. A fresh deck holds each of the 52 cards exactly once.
type Deck struct {
	cards []Card
}

// NewDeck returns the 52-card deck in canonical order.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := Two; r <= Ace; r++ {
			cards = append(cards, Card{Suit: s, Rank: r})
		}
	}
	return &Deck{cards: cards}
}

// NewShuffledDeck returns a uniformly shuffled deck. A nil rng uses the global source.
func NewShuffledDeck(rng *rand.Rand) *Deck {
	d := NewDeck()
	swap := func(i, j int) { d.cards[i], d.cards[j] = d.cards[j], d.cards[i] }
	if rng == nil {
		rand.Shuffle(len(d.cards), swap)
	} else {
		rng.Shuffle(len(d.cards), swap)
	}
	return d
}

func (d *Deck) Len() int { return len(d.cards) }

// Cards returns a copy of the remaining cards, top of the pile last.
func (d *Deck) Cards() []Card { return slices.Clone(d.cards) }

// Draw pops the top card. Drawing from an exhausted deck is a dealing bug and panics.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		panic("game: draw from exhausted deck")
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c
}
