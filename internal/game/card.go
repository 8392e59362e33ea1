package game

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var suitNames = map[Suit]string{
	Hearts:   "hearts",
	Diamonds: "diamonds",
	Clubs:    "clubs",
	Spades:   "spades",
}

var faceNames = map[Rank]string{
	Jack:  "jack",
	Queen: "queen",
	King:  "king",
	Ace:   "ace",
}

func (s Suit) String() string {
	if n, ok := suitNames[s]; ok {
		return n
	}
	return "Suit(" + strconv.Itoa(int(s)) + ")"
}

func (s Suit) Valid() bool {
	_, ok := suitNames[s]
	return ok
}

func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Suit) UnmarshalText(b []byte) error {
	v, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSuit accepts the lower-case suit name, case-insensitively.
func ParseSuit(s string) (Suit, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for suit, n := range suitNames {
		if n == name {
			return suit, nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", s)
}

func (r Rank) String() string {
	if n, ok := faceNames[r]; ok {
		return n
	}
	return strconv.Itoa(int(r))
}

func (r Rank) Valid() bool { return r >= Two && r <= Ace }

// ParseRank accepts "2".."10" or a face name ("jack", "queen", "king", "ace").
func ParseRank(s string) (Rank, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for r, n := range faceNames {
		if n == name {
			return r, nil
		}
	}
	n, err := strconv.Atoi(name)
	if err != nil || !Rank(n).Valid() || Rank(n) > Ten {
		return 0, fmt.Errorf("unknown rank %q", s)
	}
	return Rank(n), nil
}

// ParseCard builds a Card from its wire form.
func ParseCard(suit, rank string) (Card, error) {
	s, err := ParseSuit(suit)
	if err != nil {
		return Card{}, err
	}
	r, err := ParseRank(rank)
	if err != nil {
		return Card{}, err
	}
	return Card{Suit: s, Rank: r}, nil
}

func (c Card) String() string { return c.Rank.String() + " of " + c.Suit.String() }

// ImageName is the display hint used by clients to pick an asset.
func (c Card) ImageName() string {
	return c.Rank.String() + "_of_" + c.Suit.String() + ".png"
}

// Beats reports whether c takes the trick from best, given the lead and trump suits.
// Two off-suit non-trump cards never beat each other; the current best is kept.
func (c Card) Beats(best Card, lead, trump Suit) bool {
	switch {
	case c.Suit == trump && best.Suit != trump:
		return true
	case c.Suit != trump && best.Suit == trump:
		return false
	case c.Suit == trump && best.Suit == trump:
		return c.Rank > best.Rank
	case c.Suit == lead && best.Suit != lead:
		return true
	case c.Suit == lead && best.Suit == lead:
		return c.Rank > best.Rank
	}
	return false
}

type cardJSON struct {
	Suit      Suit   `json:"suit"`
	Rank      string `json:"rank"`
	ImageName string `json:"imageName,omitempty"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Suit: c.Suit, Rank: c.Rank.String(), ImageName: c.ImageName()})
}

// UnmarshalJSON accepts the rank either as its text form or as a bare number.
func (c *Card) UnmarshalJSON(b []byte) error {
	var raw struct {
		Suit string          `json:"suit"`
		Rank json.RawMessage `json:"rank"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	rank := strings.Trim(string(raw.Rank), `"`)
	card, err := ParseCard(raw.Suit, rank)
	if err != nil {
		return err
	}
	*c = card
	return nil
}
