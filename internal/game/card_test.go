package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardBeats(t *testing.T) {
	tests := []struct {
		name  string
		c     Card
		best  Card
		lead  Suit
		trump Suit
		want  bool
	}{
		{"trump beats lead", Card{Spades, Two}, Card{Hearts, Ace}, Hearts, Spades, true},
		{"lead loses to trump", Card{Hearts, Ace}, Card{Spades, Two}, Hearts, Spades, false},
		{"higher trump wins", Card{Spades, King}, Card{Spades, Ten}, Hearts, Spades, true},
		{"lower trump loses", Card{Spades, Three}, Card{Spades, Ten}, Hearts, Spades, false},
		{"lead beats off-suit", Card{Hearts, Two}, Card{Clubs, Ace}, Hearts, Spades, true},
		{"off-suit loses to lead", Card{Clubs, Ace}, Card{Hearts, Two}, Hearts, Spades, false},
		{"higher lead wins", Card{Hearts, Queen}, Card{Hearts, Jack}, Hearts, Spades, true},
		{"lower lead loses", Card{Hearts, Four}, Card{Hearts, Jack}, Hearts, Spades, false},
		{"two off-suit keep best", Card{Diamonds, Ace}, Card{Clubs, Two}, Hearts, Spades, false},
		{"lead is trump", Card{Spades, Ace}, Card{Spades, King}, Spades, Spades, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Beats(tt.best, tt.lead, tt.trump))
		})
	}
}

func TestCardImageName(t *testing.T) {
	assert.Equal(t, "10_of_hearts.png", Card{Hearts, Ten}.ImageName())
	assert.Equal(t, "queen_of_spades.png", Card{Spades, Queen}.ImageName())
	assert.Equal(t, "2_of_clubs.png", Card{Clubs, Two}.ImageName())
}

func TestParseCard(t *testing.T) {
	c, err := ParseCard("Diamonds", "ace")
	require.NoError(t, err)
	assert.Equal(t, Card{Diamonds, Ace}, c)

	c, err = ParseCard("clubs", "7")
	require.NoError(t, err)
	assert.Equal(t, Card{Clubs, Seven}, c)

	_, err = ParseCard("stars", "7")
	assert.Error(t, err)
	_, err = ParseCard("clubs", "11")
	assert.Error(t, err)
	_, err = ParseCard("clubs", "1")
	assert.Error(t, err)
}

func TestCardJSON(t *testing.T) {
	b, err := json.Marshal(Card{Hearts, King})
	require.NoError(t, err)
	assert.JSONEq(t, `{"suit":"hearts","rank":"king","imageName":"king_of_hearts.png"}`, string(b))

	var c Card
	require.NoError(t, json.Unmarshal([]byte(`{"suit":"clubs","rank":9}`), &c))
	assert.Equal(t, Card{Clubs, Nine}, c)

	assert.Error(t, json.Unmarshal([]byte(`{"suit":"clubs","rank":"joker"}`), &c))
}
