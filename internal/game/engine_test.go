package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seats = []PlayerID{"A", "B", "C", "D"}

func newSeatedEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(7, 11)))}, opts...)
	e := NewEngine(opts...)
	for _, id := range seats {
		_, err := e.AddPlayer(id, string(id)+"-name")
		require.NoError(t, err)
	}
	return e
}

func newStartedEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e := newSeatedEngine(t, opts...)
	require.NoError(t, e.StartGame())
	return e
}

func callAll(t *testing.T, e *Engine, calls ...int) CallResult {
	t.Helper()
	var res CallResult
	for i, c := range calls {
		var err error
		res, err = e.MakeCall(seats[i], c)
		require.NoError(t, err)
	}
	return res
}

// playCurrentTrick plays the first valid card for each seat until the trick closes.
func playCurrentTrick(t *testing.T, e *Engine) PlayResult {
	t.Helper()
	for {
		id, ok := e.CurrentPlayer()
		require.True(t, ok)
		valid, err := e.ValidPlays(id)
		require.NoError(t, err)
		require.NotEmpty(t, valid)
		res, err := e.PlayCard(id, valid[0])
		require.NoError(t, err)
		if res.TrickComplete {
			return res
		}
	}
}

func allCards(e *Engine) []Card {
	var out []Card
	for _, p := range e.players {
		out = append(out, p.hand...)
	}
	return out
}

func TestAddPlayerRules(t *testing.T) {
	e := newSeatedEngine(t)

	_, err := e.AddPlayer("E", "late")
	assert.ErrorIs(t, err, ErrTableFull)

	e2 := NewEngine()
	_, err = e2.AddPlayer("A", "a")
	require.NoError(t, err)
	_, err = e2.AddPlayer("A", "again")
	assert.ErrorIs(t, err, ErrDuplicatePlayer)

	require.NoError(t, e.StartGame())
	e.RemovePlayer("D")
	require.Equal(t, PhaseWaiting, e.Phase())
	require.NoError(t, e.SetReady("A"))
}

func TestAddPlayerRejectedOutsideWaiting(t *testing.T) {
	e := newStartedEngine(t)
	require.True(t, e.RemovePlayer("D"))
	_, err := e.AddPlayer("D", "back")
	require.NoError(t, err, "table resets to waiting after a mid-game leave")

	require.NoError(t, e.StartGame())
	_, err = e.AddPlayer("E", "x")
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestStartGameNeedsFourPlayers(t *testing.T) {
	e := NewEngine()
	_, _ = e.AddPlayer("A", "a")
	_, _ = e.AddPlayer("B", "b")
	assert.ErrorIs(t, e.StartGame(), ErrNotEnoughPlayers)
	assert.Equal(t, PhaseWaiting, e.Phase())
}

func TestReadyGating(t *testing.T) {
	e := newSeatedEngine(t)
	assert.False(t, e.AllReady())
	for _, id := range seats[:3] {
		require.NoError(t, e.SetReady(id))
	}
	assert.False(t, e.AllReady())
	require.NoError(t, e.SetReady("D"))
	assert.True(t, e.AllReady())
	assert.ErrorIs(t, e.SetReady("Z"), ErrUnknownPlayer)
}

func TestDealIsDisjointAndComplete(t *testing.T) {
	e := newStartedEngine(t)

	for _, p := range e.players {
		assert.Equal(t, HandSize, p.HandSize())
	}
	assert.ElementsMatch(t, NewDeck().Cards(), allCards(e))
}

func TestStartGameScenario(t *testing.T) {
	e := newSeatedEngine(t)
	for _, id := range seats {
		require.NoError(t, e.SetReady(id))
	}
	require.True(t, e.AllReady())
	require.NoError(t, e.StartGame())

	assert.Equal(t, PhaseCalling, e.Phase())
	assert.Equal(t, 1, e.Round())
	cur, _ := e.CurrentPlayer()
	assert.Equal(t, PlayerID("A"), cur)

	res := callAll(t, e, 4, 3, 2, 5)
	assert.True(t, res.CallsComplete)
	assert.Equal(t, PlayerID("D"), res.HighBidder)
	assert.Equal(t, PhaseTrumpSelection, e.Phase())
	assert.True(t, e.PublicSnapshot().CallsFinalized)

	assert.ErrorIs(t, e.SetTrump("A", Hearts), ErrNotYourTurn)
	require.NoError(t, e.SetTrump("D", Hearts))
	assert.Equal(t, PhasePlaying, e.Phase())
	trump, ok := e.Trump()
	assert.True(t, ok)
	assert.Equal(t, Hearts, trump)

	cur, _ = e.CurrentPlayer()
	assert.Equal(t, PlayerID("D"), cur)
}

func TestCallsSummingToThirteenAreCleared(t *testing.T) {
	e := newStartedEngine(t)
	before := allCards(e)

	for i, c := range []int{3, 4, 3} {
		_, err := e.MakeCall(seats[i], c)
		require.NoError(t, err)
	}
	_, err := e.MakeCall("D", 3)
	assert.ErrorIs(t, err, ErrInvalidCallConfiguration)

	assert.Equal(t, PhaseCalling, e.Phase())
	assert.Equal(t, 0, e.PublicSnapshot().CurrentPlayerIndex)
	for _, p := range e.PublicSnapshot().Players {
		assert.Nil(t, p.Call)
	}
	assert.Equal(t, before, allCards(e), "hands are not redealt")

	res := callAll(t, e, 3, 4, 3, 4)
	assert.True(t, res.CallsComplete)
	assert.Equal(t, PlayerID("B"), res.HighBidder, "first seat wins ties")
}

func TestZeroCallCountsAsSubmitted(t *testing.T) {
	e := newStartedEngine(t)
	res := callAll(t, e, 0, 5, 0, 9)
	assert.True(t, res.CallsComplete)
	assert.Equal(t, PlayerID("D"), res.HighBidder)
}

func TestMakeCallRejections(t *testing.T) {
	e := newSeatedEngine(t)
	_, err := e.MakeCall("A", 3)
	assert.ErrorIs(t, err, ErrInvalidPhase)

	require.NoError(t, e.StartGame())
	_, err = e.MakeCall("B", 3)
	assert.ErrorIs(t, err, ErrNotYourTurn)
	_, err = e.MakeCall("Z", 3)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
	_, err = e.MakeCall("A", -1)
	assert.ErrorIs(t, err, ErrInvalidCall)
	_, err = e.MakeCall("A", 14)
	assert.ErrorIs(t, err, ErrInvalidCall)

	callAll(t, e, 4, 3, 2, 5)
	_, err = e.MakeCall("A", 1)
	assert.ErrorIs(t, err, ErrInvalidPhase)
	assert.ErrorIs(t, e.SetTrump("D", Suit(9)), ErrInvalidSuit)
}

func TestPlayCardRejections(t *testing.T) {
	e := newStartedEngine(t)
	_, err := e.PlayCard("A", e.players[0].hand[0])
	assert.ErrorIs(t, err, ErrInvalidPhase)

	callAll(t, e, 4, 3, 2, 5)
	require.NoError(t, e.SetTrump("D", Spades))

	_, err = e.PlayCard("A", e.players[0].hand[0])
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = e.PlayCard("D", e.players[0].hand[0])
	assert.ErrorIs(t, err, ErrCardNotInHand)
	assert.Equal(t, HandSize, e.players[3].HandSize())
}

func TestMustFollowSuit(t *testing.T) {
	e := newStartedEngine(t)
	callAll(t, e, 4, 3, 2, 5)
	require.NoError(t, e.SetTrump("D", Spades))

	e.players[3].hand = []Card{{Hearts, Two}}
	e.players[0].hand = []Card{{Hearts, Ace}, {Clubs, Three}}
	e.players[1].hand = []Card{{Diamonds, Four}}

	_, err := e.PlayCard("D", Card{Hearts, Two})
	require.NoError(t, err)

	_, err = e.PlayCard("A", Card{Clubs, Three})
	assert.ErrorIs(t, err, ErrMustFollowSuit)
	assert.Equal(t, 2, e.players[0].HandSize())

	valid, err := e.ValidPlays("A")
	require.NoError(t, err)
	assert.Equal(t, []Card{{Hearts, Ace}}, valid)

	_, err = e.PlayCard("A", Card{Hearts, Ace})
	require.NoError(t, err)

	_, err = e.PlayCard("B", Card{Diamonds, Four})
	assert.NoError(t, err, "void in lead suit may discard")
}

func TestTrickResolution(t *testing.T) {
	tests := []struct {
		name   string
		trump  Suit
		cards  [4]Card // seats D, A, B, C in play order
		winner PlayerID
	}{
		{"highest lead wins", Spades, [4]Card{{Hearts, Ten}, {Hearts, King}, {Clubs, Ace}, {Hearts, Two}}, "A"},
		{"single trump wins", Spades, [4]Card{{Hearts, Ace}, {Hearts, King}, {Spades, Two}, {Hearts, Queen}}, "B"},
		{"higher trump wins", Spades, [4]Card{{Hearts, Ace}, {Spades, Three}, {Spades, Jack}, {Diamonds, Ace}}, "B"},
		{"leader keeps it", Clubs, [4]Card{{Diamonds, Five}, {Hearts, Ace}, {Spades, Ace}, {Diamonds, Four}}, "D"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newStartedEngine(t)
			callAll(t, e, 4, 3, 2, 5)
			require.NoError(t, e.SetTrump("D", tt.trump))

			order := []int{3, 0, 1, 2}
			for i, seat := range order {
				e.players[seat].hand = []Card{tt.cards[i], {Suit: tt.cards[i].Suit, Rank: Two}}
				if tt.cards[i].Rank == Two {
					e.players[seat].hand[1].Rank = Three
				}
			}
			var res PlayResult
			for i, seat := range order {
				var err error
				res, err = e.PlayCard(e.players[seat].ID, tt.cards[i])
				require.NoError(t, err)
			}
			require.True(t, res.TrickComplete)
			assert.Equal(t, tt.winner, res.TrickWinner)
			assert.Len(t, res.Trick, 4)

			cur, _ := e.CurrentPlayer()
			assert.Equal(t, tt.winner, cur, "winner leads next")
			assert.Empty(t, e.PublicSnapshot().CurrentTrick)
			seat, _ := e.Seat(tt.winner)
			assert.Equal(t, 1, e.players[seat].TricksWon())
		})
	}
}

func TestFullRoundConservesCardsAndScores(t *testing.T) {
	e := newStartedEngine(t)
	callAll(t, e, 4, 3, 2, 5)
	require.NoError(t, e.SetTrump("D", Hearts))

	var played []Card
	var last PlayResult
	for trick := 0; trick < TricksPerDeal; trick++ {
		assert.ElementsMatch(t, NewDeck().Cards(), append(allCards(e), played...))
		last = playCurrentTrick(t, e)
		for _, tp := range last.Trick {
			played = append(played, tp.Card)
		}
	}

	require.True(t, last.RoundComplete)
	assert.False(t, last.GameOver)
	assert.Equal(t, 1, last.Round)
	assert.ElementsMatch(t, NewDeck().Cards(), played)

	total := 0
	for i, rs := range last.RoundScores {
		total += rs.TricksWon
		assert.Equal(t, []int{4, 3, 2, 5}[i], rs.Call)
		assert.Equal(t, rs.Points, rs.Score)
	}
	assert.Equal(t, TricksPerDeal, total)

	assert.Equal(t, 2, e.Round())
	assert.Equal(t, PhaseCalling, e.Phase())
	_, trumpSet := e.Trump()
	assert.False(t, trumpSet)
	assert.Equal(t, 0, e.PublicSnapshot().CurrentPlayerIndex)
	assert.ElementsMatch(t, NewDeck().Cards(), allCards(e))
	for _, p := range e.players {
		assert.False(t, p.HasCalled())
		assert.Equal(t, 0, p.TricksWon())
	}
}

func TestGameEndsAfterMaxRounds(t *testing.T) {
	e := newStartedEngine(t, WithMaxRounds(2))

	var last PlayResult
	for round := 1; round <= 2; round++ {
		callAll(t, e, 4, 3, 2, 5)
		require.NoError(t, e.SetTrump("D", Clubs))
		for range TricksPerDeal {
			last = playCurrentTrick(t, e)
		}
		require.True(t, last.RoundComplete)
	}

	assert.True(t, last.GameOver)
	assert.Equal(t, PhaseGameEnd, e.Phase())
	assert.Equal(t, 3, e.Round())
	_, ok := e.CurrentPlayer()
	assert.False(t, ok)

	_, err := e.MakeCall("A", 1)
	assert.ErrorIs(t, err, ErrInvalidPhase)

	standings := e.Standings()
	for i := 1; i < len(standings); i++ {
		assert.GreaterOrEqual(t, standings[i-1].Score, standings[i].Score)
	}

	e.Reset()
	assert.Equal(t, PhaseWaiting, e.Phase())
	assert.Equal(t, 4, e.NumPlayers())
	for _, p := range e.PublicSnapshot().Players {
		assert.Zero(t, p.Score)
	}
}

func TestRemovePlayerMidGameResets(t *testing.T) {
	e := newStartedEngine(t)
	callAll(t, e, 4, 3, 2, 5)
	require.NoError(t, e.SetTrump("D", Hearts))
	playCurrentTrick(t, e)

	assert.False(t, e.RemovePlayer("Z"))
	assert.True(t, e.RemovePlayer("B"))

	s := e.PublicSnapshot()
	assert.Equal(t, PhaseWaiting, s.Phase)
	assert.Equal(t, 0, s.CurrentRound)
	assert.Nil(t, s.TrumpSuit)
	assert.Empty(t, s.CurrentTrick)
	assert.Equal(t, 0, s.CurrentPlayerIndex)
	require.Len(t, s.Players, 3)
	for _, p := range s.Players {
		assert.Zero(t, p.Score)
		assert.Zero(t, p.TricksWon)
		assert.Zero(t, p.CardsCount)
		assert.Nil(t, p.Call)
	}
}

func TestReassignPlayerIdentity(t *testing.T) {
	e := newStartedEngine(t)
	callAll(t, e, 4, 3, 2, 5)
	require.NoError(t, e.SetTrump("D", Hearts))

	before, err := e.PrivateSnapshot("D")
	require.NoError(t, err)

	assert.ErrorIs(t, e.ReassignPlayerIdentity("Z", "D2"), ErrUnknownPlayer)
	assert.ErrorIs(t, e.ReassignPlayerIdentity("D", "A"), ErrDuplicatePlayer)
	require.NoError(t, e.ReassignPlayerIdentity("D", "D2"))

	after, err := e.PrivateSnapshot("D2")
	require.NoError(t, err)
	assert.Equal(t, before.Cards, after.Cards)
	assert.Equal(t, before.Players[3].Call, after.Players[3].Call)
	assert.Equal(t, before.Players[3].Score, after.Players[3].Score)
	assert.Equal(t, before.Players[3].TricksWon, after.Players[3].TricksWon)

	_, err = e.PrivateSnapshot("D")
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	_, err = e.PlayCard("D", after.ValidPlays[0])
	assert.ErrorIs(t, err, ErrUnknownPlayer)
	_, err = e.PlayCard("D2", after.ValidPlays[0])
	require.NoError(t, err)
	assert.Equal(t, PlayerID("D2"), e.PublicSnapshot().CurrentTrick[0].PlayerID)
}

func TestSnapshotsHideHands(t *testing.T) {
	e := newStartedEngine(t)

	pub := e.PublicSnapshot()
	assert.Equal(t, "calling", pub.Phase.String())
	assert.False(t, pub.CallsFinalized)
	assert.Equal(t, PlayerID("A"), pub.CurrentPlayerID)
	for _, p := range pub.Players {
		assert.Equal(t, HandSize, p.CardsCount)
	}

	priv, err := e.PrivateSnapshot("C")
	require.NoError(t, err)
	assert.Len(t, priv.Cards, HandSize)
	assert.Empty(t, priv.ValidPlays)

	_, err = e.PrivateSnapshot("nobody")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestReason(t *testing.T) {
	e := newStartedEngine(t)
	_, err := e.MakeCall("C", 2)
	assert.Equal(t, "NotYourTurn", Reason(err))
	assert.Equal(t, "InvalidPhaseForAction", Reason(e.StartGame()))
	assert.Equal(t, "Internal", Reason(assert.AnError))
}
