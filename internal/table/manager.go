package table

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"

	"callbreak/internal/bot"
	"callbreak/internal/config"
	"callbreak/internal/game"
)

// maxBotSteps bounds one burst of bot actions; a full all-bot game needs
// fewer than 700.
const maxBotSteps = 2000

// Manager owns the tables and turns accepted actions into broadcasts.
type Manager struct {
	store Store
	cfg   config.Config
	bot   *bot.Bot
	out   Broadcaster
	log   *slog.Logger

	engineOpts []game.Option
}

func NewManager(s Store, cfg config.Config, out Broadcaster) *Manager {
	if out == nil {
		out = nopBroadcaster{}
	}
	return &Manager{
		store: s,
		cfg:   cfg,
		bot:   bot.New(cfg.Bot),
		out:   out,
		log:   slog.Default().With("component", "table"),
	}
}

// SetBroadcaster wires the hub once it exists; the hub needs the manager first.
func (m *Manager) SetBroadcaster(out Broadcaster) {
	m.out = out
}

// WithEngineOptions adds options to every engine created afterwards. Tests use
// it to seed dealing.
func (m *Manager) WithEngineOptions(opts ...game.Option) *Manager {
	m.engineOpts = append(m.engineOpts, opts...)
	return m
}

func (m *Manager) CreateTable() *Table {
	opts := append([]game.Option{game.WithMaxRounds(m.cfg.MaxRounds)}, m.engineOpts...)
	code := randCode(6)
	for _, taken := m.store.GetTable(code); taken; _, taken = m.store.GetTable(code) {
		code = randCode(6)
	}
	t := &Table{
		ID:        uuid.NewString(),
		Code:      code,
		CreatedAt: time.Now(),
		engine:    game.NewEngine(opts...),
		bots:      map[game.PlayerID]bool{},
	}
	m.store.SaveTable(t)
	m.log.Info("table created", "table", t.Code)
	return t
}

func (m *Manager) Get(code string) (*Table, bool) {
	return m.store.GetTable(code)
}

func (m *Manager) Exists(code string) bool {
	_, ok := m.store.GetTable(code)
	return ok
}

// List returns table summaries, newest first.
func (m *Manager) List() []Summary {
	tables := m.store.ListTables()
	out := make([]Summary, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// with runs fn under the table lock, then lets bot seats act. Bots run even
// after a rejected action: a voided bidding hands the turn back to seat 0.
func (m *Manager) with(code string, fn func(t *Table) error) error {
	t, ok := m.store.GetTable(code)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, code)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	err := fn(t)
	m.runBots(t)
	return err
}

func (m *Manager) Join(code string, id game.PlayerID, name string) error {
	return m.with(code, func(t *Table) error { return m.join(t, id, name) })
}

func (m *Manager) join(t *Table, id game.PlayerID, name string) error {
	seat, err := t.engine.AddPlayer(id, name)
	if err != nil {
		return err
	}
	m.log.Info("player joined", "table", t.Code, "player", id, "seat", seat)
	m.pushState(t)
	m.out.Broadcast(t.Code, "playerJoined", map[string]interface{}{"id": id, "name": name, "seat": seat})
	return nil
}

// AddBots seats up to n bots in the empty chairs. Bots are always ready.
func (m *Manager) AddBots(code string, n int) error {
	return m.with(code, func(t *Table) error {
		if t.engine.Phase() != game.PhaseWaiting {
			return fmt.Errorf("add bots: %w", game.ErrInvalidPhase)
		}
		free := game.NumPlayers - t.engine.NumPlayers()
		if free == 0 {
			return ErrNoEmptySeat
		}
		for i := 0; i < min(n, free); i++ {
			id := game.PlayerID("bot-" + uuid.NewString())
			if err := m.join(t, id, fmt.Sprintf("Bot %d", t.engine.NumPlayers()+1)); err != nil {
				return err
			}
			t.bots[id] = true
			if err := m.ready(t, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// Leave removes a player for good. Leaving mid-game resets the table, and
// the last player out closes it.
func (m *Manager) Leave(code string, id game.PlayerID) error {
	return m.with(code, func(t *Table) error { return m.leave(t, id) })
}

func (m *Manager) leave(t *Table, id game.PlayerID) error {
	active := t.engine.Phase() != game.PhaseWaiting
	if !t.engine.RemovePlayer(id) {
		return fmt.Errorf("%w: %s", game.ErrUnknownPlayer, id)
	}
	delete(t.bots, id)
	m.log.Info("player left", "table", t.Code, "player", id, "phase", t.engine.Phase())

	if t.engine.NumPlayers() == 0 {
		m.store.DeleteTable(t.Code)
		m.log.Info("table closed", "table", t.Code)
		return nil
	}
	m.out.Broadcast(t.Code, "playerLeft", map[string]interface{}{"id": id, "temporary": false})
	m.pushState(t)
	if active {
		// the reset cleared every ready flag; bots stay ready for the next game
		return m.readyBots(t)
	}
	return nil
}

func (m *Manager) readyBots(t *Table) error {
	for id := range t.bots {
		if err := m.ready(t, id); err != nil {
			return err
		}
	}
	return nil
}

// Disconnected handles a dropped connection. Seats are kept for a reconnect;
// in the waiting room the seat is released after the rejoin grace period.
func (m *Manager) Disconnected(code string, id game.PlayerID) {
	t, ok := m.store.GetTable(code)
	if !ok {
		return
	}
	t.mu.Lock()
	_, seated := t.engine.Seat(id)
	waiting := t.engine.Phase() == game.PhaseWaiting
	t.mu.Unlock()
	if !seated {
		return
	}

	m.out.Broadcast(code, "playerLeft", map[string]interface{}{"id": id, "temporary": true})
	if !waiting {
		return
	}
	time.AfterFunc(m.cfg.RejoinGrace, func() {
		err := m.with(code, func(t *Table) error {
			// the game may have started meanwhile; a started seat waits for a rejoin
			if t.engine.Phase() != game.PhaseWaiting {
				return nil
			}
			return m.leave(t, id)
		})
		// a rejoin rebinds the seat to a new id, and the table may be gone
		if err != nil && !errors.Is(err, game.ErrUnknownPlayer) && !errors.Is(err, ErrTableNotFound) {
			m.log.Warn("release seat", "table", code, "player", id, tint.Err(err))
		}
	})
}

// Rejoin moves a seat from a dropped connection to a new one.
func (m *Manager) Rejoin(code string, oldID, newID game.PlayerID) error {
	return m.with(code, func(t *Table) error {
		if err := t.engine.ReassignPlayerIdentity(oldID, newID); err != nil {
			return err
		}
		seat, _ := t.engine.Seat(newID)
		name := t.engine.PublicSnapshot().Players[seat].Name
		m.log.Info("player rejoined", "table", t.Code, "old", oldID, "new", newID)
		m.out.Send(t.Code, newID, "gameState", t.engine.PublicSnapshot())
		m.sendPrivate(t, newID)
		m.out.Broadcast(t.Code, "playerRejoined", map[string]interface{}{"oldId": oldID, "newId": newID, "name": name})
		return nil
	})
}

func (m *Manager) Ready(code string, id game.PlayerID) error {
	return m.with(code, func(t *Table) error { return m.ready(t, id) })
}

// ready starts the game as soon as four seated players are ready.
func (m *Manager) ready(t *Table, id game.PlayerID) error {
	if err := t.engine.SetReady(id); err != nil {
		return err
	}
	if !t.engine.AllReady() {
		m.out.Broadcast(t.Code, "playerReadyUpdate", map[string]interface{}{"playerId": id, "ready": true})
		return nil
	}
	if err := t.engine.StartGame(); err != nil {
		return err
	}
	m.log.Info("game started", "table", t.Code)
	m.out.Broadcast(t.Code, "gameStarted", t.engine.PublicSnapshot())
	m.pushPrivate(t)
	return nil
}

func (m *Manager) Call(code string, id game.PlayerID, n int) error {
	return m.with(code, func(t *Table) error { return m.call(t, id, n) })
}

func (m *Manager) call(t *Table, id game.PlayerID, n int) error {
	res, err := t.engine.MakeCall(id, n)
	if errors.Is(err, game.ErrInvalidCallConfiguration) {
		// calls were cleared; everyone needs to see the fresh bidding
		m.log.Info("calls voided", "table", t.Code)
		m.pushState(t)
		return err
	}
	if err != nil {
		return err
	}
	m.out.Broadcast(t.Code, "gameState", t.engine.PublicSnapshot())
	if res.CallsComplete {
		m.out.Send(t.Code, res.HighBidder, "selectTrump", res)
	}
	return nil
}

func (m *Manager) SelectTrump(code string, id game.PlayerID, suit game.Suit) error {
	return m.with(code, func(t *Table) error { return m.selectTrump(t, id, suit) })
}

func (m *Manager) selectTrump(t *Table, id game.PlayerID, suit game.Suit) error {
	if err := t.engine.SetTrump(id, suit); err != nil {
		return err
	}
	m.log.Debug("trump selected", "table", t.Code, "player", id, "suit", suit)
	m.out.Broadcast(t.Code, "trumpSelected", suit)
	m.pushState(t)
	return nil
}

func (m *Manager) Play(code string, id game.PlayerID, card game.Card) error {
	return m.with(code, func(t *Table) error { return m.play(t, id, card) })
}

func (m *Manager) play(t *Table, id game.PlayerID, card game.Card) error {
	res, err := t.engine.PlayCard(id, card)
	if err != nil {
		return err
	}
	m.pushState(t)
	if !res.TrickComplete {
		return nil
	}
	m.out.Broadcast(t.Code, "trickComplete", map[string]interface{}{"winnerId": res.TrickWinner, "trick": res.Trick})
	if !res.RoundComplete {
		return nil
	}
	m.log.Info("round complete", "table", t.Code, "round", res.Round)
	m.out.Broadcast(t.Code, "roundComplete", map[string]interface{}{"roundNumber": res.Round, "scores": res.RoundScores})
	if res.GameOver {
		m.log.Info("game complete", "table", t.Code)
		m.out.Broadcast(t.Code, "gameComplete", map[string]interface{}{"scores": t.engine.Standings()})
	}
	return nil
}

// Restart starts a rematch with the same seats once a game has ended.
func (m *Manager) Restart(code string) error {
	return m.with(code, func(t *Table) error {
		if t.engine.Phase() != game.PhaseGameEnd {
			return fmt.Errorf("restart: %w", game.ErrInvalidPhase)
		}
		t.engine.Reset()
		m.pushState(t)
		return m.readyBots(t)
	})
}

func (m *Manager) Snapshot(code string) (game.Snapshot, error) {
	t, ok := m.store.GetTable(code)
	if !ok {
		return game.Snapshot{}, fmt.Errorf("%w: %s", ErrTableNotFound, code)
	}
	return t.Snapshot(), nil
}

func (m *Manager) PrivateSnapshot(code string, id game.PlayerID) (game.PrivateSnapshot, error) {
	t, ok := m.store.GetTable(code)
	if !ok {
		return game.PrivateSnapshot{}, fmt.Errorf("%w: %s", ErrTableNotFound, code)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.PrivateSnapshot(id)
}

func (m *Manager) pushState(t *Table) {
	m.out.Broadcast(t.Code, "gameState", t.engine.PublicSnapshot())
	m.pushPrivate(t)
}

func (m *Manager) pushPrivate(t *Table) {
	for _, id := range t.engine.PlayerIDs() {
		if !t.bots[id] {
			m.sendPrivate(t, id)
		}
	}
}

func (m *Manager) sendPrivate(t *Table, id game.PlayerID) {
	if s, err := t.engine.PrivateSnapshot(id); err == nil {
		m.out.Send(t.Code, id, "playerState", s)
	}
}

// runBots plays every bot turn until a human is on turn or the game stops.
func (m *Manager) runBots(t *Table) {
	for range maxBotSteps {
		id, ok := t.engine.CurrentPlayer()
		if !ok || !t.bots[id] {
			return
		}
		view, err := t.engine.PrivateSnapshot(id)
		if err != nil {
			return
		}
		switch t.engine.Phase() {
		case game.PhaseCalling:
			err = m.call(t, id, m.bot.Call(view))
		case game.PhaseTrumpSelection:
			err = m.selectTrump(t, id, m.bot.Trump(view.Cards))
		case game.PhasePlaying:
			err = m.play(t, id, m.bot.Play(view))
		}
		if err != nil && !errors.Is(err, game.ErrInvalidCallConfiguration) {
			m.log.Error("bot action rejected", "table", t.Code, "player", id, tint.Err(err))
			return
		}
	}
	m.log.Warn("bot step limit reached", "table", t.Code)
}

// Reason maps an error to the wire reason sent back to the acting client.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrTableNotFound):
		return "UnknownTable"
	case errors.Is(err, ErrNoEmptySeat):
		return "TableFull"
	}
	return game.Reason(err)
}

const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.IntN(len(letters))]
	}
	return string(b)
}
