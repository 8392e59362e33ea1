package game

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Engine is one table's rules state. It does no I/O and holds no locks:
// callers must serialize every call on the same Engine.
type Engine struct {
	players   []*Player
	round     int
	maxRounds int
	trump     *Suit
	trick     []TrickPlay
	lastTrick []TrickPlay
	turn      int
	phase     Phase
	rng       *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand makes dealing deterministic.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithMaxRounds overrides the number of deals in a game. Values below one are ignored.
func WithMaxRounds(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxRounds = n
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		players:   make([]*Player, 0, NumPlayers),
		maxRounds: DefaultMaxRounds,
		phase:     PhaseWaiting,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// CallResult describes an accepted call.
type CallResult struct {
	CallsComplete bool     `json:"callsComplete"`
	HighBidder    PlayerID `json:"highestCallPlayerId,omitempty"`
}

// RoundScore is one player's line of a finished round.
type RoundScore struct {
	PlayerID  PlayerID `json:"id"`
	Name      string   `json:"name"`
	Call      int      `json:"call"`
	TricksWon int      `json:"tricksWon"`
	Points    int      `json:"points"`
	Score     int      `json:"score"`
}

// PlayResult describes an accepted card play.
type PlayResult struct {
	TrickComplete bool         `json:"trickComplete"`
	TrickWinner   PlayerID     `json:"trickWinner,omitempty"`
	Trick         []TrickPlay  `json:"trick,omitempty"`
	RoundComplete bool         `json:"roundComplete"`
	Round         int          `json:"round,omitempty"`
	RoundScores   []RoundScore `json:"roundScores,omitempty"`
	GameOver      bool         `json:"gameOver"`
}

func (e *Engine) Phase() Phase   { return e.phase }
func (e *Engine) Round() int     { return e.round }
func (e *Engine) MaxRounds() int { return e.maxRounds }
func (e *Engine) NumPlayers() int {
	return len(e.players)
}

// Trump returns the declared trump suit, if any.
func (e *Engine) Trump() (Suit, bool) {
	if e.trump == nil {
		return 0, false
	}
	return *e.trump, true
}

// CurrentPlayer returns whose action the engine is waiting for.
func (e *Engine) CurrentPlayer() (PlayerID, bool) {
	switch e.phase {
	case PhaseCalling, PhaseTrumpSelection, PhasePlaying:
		return e.players[e.turn].ID, true
	}
	return "", false
}

// PlayerIDs lists seated players in seat order.
func (e *Engine) PlayerIDs() []PlayerID {
	out := make([]PlayerID, len(e.players))
	for i, p := range e.players {
		out[i] = p.ID
	}
	return out
}

func (e *Engine) seatOf(id PlayerID) int {
	return slices.IndexFunc(e.players, func(p *Player) bool { return p.ID == id })
}

// Seat returns the zero-based seat of a player.
func (e *Engine) Seat(id PlayerID) (int, bool) {
	i := e.seatOf(id)
	return i, i >= 0
}

func (e *Engine) player(id PlayerID) (int, *Player, error) {
	i := e.seatOf(id)
	if i < 0 {
		return -1, nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	return i, e.players[i], nil
}

// AddPlayer seats a new player. Join order is turn order for the whole game.
func (e *Engine) AddPlayer(id PlayerID, name string) (int, error) {
	if e.phase != PhaseWaiting {
		return -1, fmt.Errorf("join during %s: %w", e.phase, ErrInvalidPhase)
	}
	if len(e.players) >= NumPlayers {
		return -1, ErrTableFull
	}
	if e.seatOf(id) >= 0 {
		return -1, fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
	}
	e.players = append(e.players, newPlayer(id, name))
	return len(e.players) - 1, nil
}

// RemovePlayer unseats a player. Leaving an active game resets it, since the
// remaining three seats cannot continue.
func (e *Engine) RemovePlayer(id PlayerID) bool {
	i := e.seatOf(id)
	if i < 0 {
		return false
	}
	e.players = slices.Delete(e.players, i, i+1)
	if e.phase != PhaseWaiting {
		e.Reset()
	}
	if e.turn >= len(e.players) {
		e.turn = 0
	}
	return true
}

// Reset returns to the waiting phase with zeroed scores, keeping the seats.
func (e *Engine) Reset() {
	e.round = 0
	e.trump = nil
	e.trick = nil
	e.lastTrick = nil
	e.turn = 0
	e.phase = PhaseWaiting
	for _, p := range e.players {
		p.score = 0
		p.ResetForNewRound()
	}
}

// ReassignPlayerIdentity rebinds a seat to a new identity without touching
// its hand, call, tricks or score.
func (e *Engine) ReassignPlayerIdentity(oldID, newID PlayerID) error {
	_, p, err := e.player(oldID)
	if err != nil {
		return err
	}
	if oldID == newID {
		return nil
	}
	if e.seatOf(newID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, newID)
	}
	p.ID = newID
	for _, t := range [][]TrickPlay{e.trick, e.lastTrick} {
		for i := range t {
			if t[i].PlayerID == oldID {
				t[i].PlayerID = newID
			}
		}
	}
	return nil
}

func (e *Engine) SetReady(id PlayerID) error {
	if e.phase != PhaseWaiting {
		return fmt.Errorf("ready during %s: %w", e.phase, ErrInvalidPhase)
	}
	_, p, err := e.player(id)
	if err != nil {
		return err
	}
	p.ready = true
	return nil
}

// AllReady reports whether four players are seated and all of them are ready.
func (e *Engine) AllReady() bool {
	if len(e.players) != NumPlayers {
		return false
	}
	for _, p := range e.players {
		if !p.ready {
			return false
		}
	}
	return true
}

// StartGame deals the first round.
func (e *Engine) StartGame() error {
	if e.phase != PhaseWaiting {
		return fmt.Errorf("start during %s: %w", e.phase, ErrInvalidPhase)
	}
	if len(e.players) != NumPlayers {
		return fmt.Errorf("%w: have %d", ErrNotEnoughPlayers, len(e.players))
	}
	e.round = 1
	e.startRound()
	return nil
}

func (e *Engine) startRound() {
	e.trump = nil
	e.trick = nil
	e.lastTrick = nil
	for _, p := range e.players {
		p.ResetForNewRound()
	}
	e.deal()
	e.turn = 0
	e.phase = PhaseCalling
}

func (e *Engine) deal() {
	deck := NewShuffledDeck(e.rng)
	for range HandSize {
		for _, p := range e.players {
			p.AddCard(deck.Draw())
		}
	}
}

// MakeCall records the current seat's bid. After the fourth call the engine
// either moves to trump selection with the highest caller on turn, or, if the
// calls add up to exactly 13, clears them and restarts bidding at seat 0.
func (e *Engine) MakeCall(id PlayerID, call int) (CallResult, error) {
	if e.phase != PhaseCalling {
		return CallResult{}, fmt.Errorf("call during %s: %w", e.phase, ErrInvalidPhase)
	}
	seat, p, err := e.player(id)
	if err != nil {
		return CallResult{}, err
	}
	if seat != e.turn {
		return CallResult{}, ErrNotYourTurn
	}
	if call < 0 || call > TricksPerDeal {
		return CallResult{}, fmt.Errorf("%w: got %d", ErrInvalidCall, call)
	}

	p.SetCall(call)
	e.turn = (e.turn + 1) % len(e.players)

	sum := 0
	for _, pl := range e.players {
		if !pl.called {
			return CallResult{}, nil
		}
		sum += pl.call
	}

	if sum == ForbiddenCallSum {
		for _, pl := range e.players {
			pl.clearCall()
		}
		e.turn = 0
		return CallResult{}, ErrInvalidCallConfiguration
	}

	high := 0
	for i := 1; i < len(e.players); i++ {
		if e.players[i].call > e.players[high].call {
			high = i
		}
	}
	e.turn = high
	e.phase = PhaseTrumpSelection
	return CallResult{CallsComplete: true, HighBidder: e.players[high].ID}, nil
}

// SetTrump lets the highest caller declare trump. They lead the first trick.
func (e *Engine) SetTrump(id PlayerID, suit Suit) error {
	if e.phase != PhaseTrumpSelection {
		return fmt.Errorf("trump during %s: %w", e.phase, ErrInvalidPhase)
	}
	seat, _, err := e.player(id)
	if err != nil {
		return err
	}
	if seat != e.turn {
		return ErrNotYourTurn
	}
	if !suit.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSuit, int(suit))
	}
	e.trump = &suit
	e.phase = PhasePlaying
	return nil
}

func (e *Engine) leadSuit() *Suit {
	if len(e.trick) == 0 {
		return nil
	}
	s := e.trick[0].Card.Suit
	return &s
}

// ValidPlays lists the cards the player may play right now. It is empty
// unless the engine is waiting for that player to play.
func (e *Engine) ValidPlays(id PlayerID) ([]Card, error) {
	seat, p, err := e.player(id)
	if err != nil {
		return nil, err
	}
	if e.phase != PhasePlaying || seat != e.turn {
		return []Card{}, nil
	}
	return p.ValidPlays(e.leadSuit()), nil
}

// PlayCard plays a card for the seat on turn, resolving the trick when it
// is the fourth card and the round when it is the thirteenth trick.
func (e *Engine) PlayCard(id PlayerID, card Card) (PlayResult, error) {
	if e.phase != PhasePlaying {
		return PlayResult{}, fmt.Errorf("play during %s: %w", e.phase, ErrInvalidPhase)
	}
	seat, p, err := e.player(id)
	if err != nil {
		return PlayResult{}, err
	}
	if seat != e.turn {
		return PlayResult{}, ErrNotYourTurn
	}
	if lead := e.leadSuit(); lead != nil && card.Suit != *lead && p.HasSuit(*lead) {
		return PlayResult{}, fmt.Errorf("%w: lead is %s", ErrMustFollowSuit, *lead)
	}
	if _, ok := p.RemoveCard(card); !ok {
		return PlayResult{}, fmt.Errorf("%w: %s", ErrCardNotInHand, card)
	}

	e.trick = append(e.trick, TrickPlay{Card: card, PlayerID: id})
	e.turn = (e.turn + 1) % len(e.players)
	if len(e.trick) < len(e.players) {
		return PlayResult{}, nil
	}

	winner := e.trickWinner()
	wp := e.players[winner]
	wp.tricksWon++
	e.turn = winner
	e.lastTrick = e.trick
	e.trick = nil

	res := PlayResult{TrickComplete: true, TrickWinner: wp.ID, Trick: slices.Clone(e.lastTrick)}
	if e.tricksPlayed() == TricksPerDeal {
		res.RoundComplete = true
		res.Round = e.round
		res.RoundScores = e.endRound()
		res.GameOver = e.phase == PhaseGameEnd
	}
	return res, nil
}

// trickWinner returns the seat that won the full current trick.
func (e *Engine) trickWinner() int {
	lead := e.trick[0].Card.Suit
	best := 0
	for i := 1; i < len(e.trick); i++ {
		if e.trick[i].Card.Beats(e.trick[best].Card, lead, *e.trump) {
			best = i
		}
	}
	return e.seatOf(e.trick[best].PlayerID)
}

func (e *Engine) tricksPlayed() int {
	n := 0
	for _, p := range e.players {
		n += p.tricksWon
	}
	return n
}

func (e *Engine) endRound() []RoundScore {
	scores := make([]RoundScore, len(e.players))
	for i, p := range e.players {
		pts := p.RoundScore()
		p.score += pts
		scores[i] = RoundScore{PlayerID: p.ID, Name: p.Name, Call: p.call, TricksWon: p.tricksWon, Points: pts, Score: p.score}
	}
	e.round++
	if e.round > e.maxRounds {
		e.phase = PhaseGameEnd
		return scores
	}
	e.startRound()
	return scores
}
