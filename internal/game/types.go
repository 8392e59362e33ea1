package game

// Suit is one of the four French suits.
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in deck-building order.
var Suits = [...]Suit{Hearts, Diamonds, Clubs, Spades}

// Rank is the face value of a card. Numeral faces map to themselves,
// Jack through Ace to 11..14.
type Rank int

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

// Card is an immutable suit/rank pair. Two cards are equal iff suit and rank match.
type Card struct {
	Suit Suit
	Rank Rank
}

// PlayerID identifies a seat's owner. The transport decides what it is
// (a connection id, a bot id); the engine only compares it.
type PlayerID string

// Phase is the single authoritative state of an Engine.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseCalling
	PhaseTrumpSelection
	PhasePlaying
	PhaseGameEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseCalling:
		return "calling"
	case PhaseTrumpSelection:
		return "trump-selection"
	case PhasePlaying:
		return "playing"
	case PhaseGameEnd:
		return "game-end"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// TrickPlay is one entry of a trick.
type TrickPlay struct {
	Card     Card     `json:"card"`
	PlayerID PlayerID `json:"playerId"`
}

const (
	NumPlayers    = 4
	HandSize      = 13
	TricksPerDeal = 13
	DeckSize      = 52

	// DefaultMaxRounds is the length of a game in deals.
	DefaultMaxRounds = 12

	// ForbiddenCallSum is the total of four calls that voids the bidding.
	ForbiddenCallSum = 13
)
