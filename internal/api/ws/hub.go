package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lmittmann/tint"

	"callbreak/internal/game"
	"callbreak/internal/session"
	"callbreak/internal/table"
)

// TableService is the part of the table manager the socket layer drives.
type TableService interface {
	Exists(code string) bool
	Snapshot(code string) (game.Snapshot, error)
	Join(code string, id game.PlayerID, name string) error
	Rejoin(code string, oldID, newID game.PlayerID) error
	Ready(code string, id game.PlayerID) error
	Call(code string, id game.PlayerID, n int) error
	SelectTrump(code string, id game.PlayerID, suit game.Suit) error
	Play(code string, id game.PlayerID, card game.Card) error
	Restart(code string) error
	Leave(code string, id game.PlayerID) error
	Disconnected(code string, id game.PlayerID)
}

type client struct {
	id   game.PlayerID
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(action string, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(envelope{Action: action, Data: data})
}

type envelope struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data"`
}

type inbound struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// Hub keeps the live connections of every table. Each connection gets its
// own player id; the table manager only ever sees those ids.
type Hub struct {
	mu       sync.RWMutex
	tables   map[string]map[game.PlayerID]*client
	svc      TableService
	sessions *session.Issuer
	log      *slog.Logger
}

func NewHub(svc TableService, sessions *session.Issuer) *Hub {
	return &Hub{
		tables:   make(map[string]map[game.PlayerID]*client),
		svc:      svc,
		sessions: sessions,
		log:      slog.Default().With("component", "ws"),
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

func (h *Hub) HandleWS(c *gin.Context) {
	code := c.Query("table")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing table"})
		return
	}
	if !h.svc.Exists(code) {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("upgrade failed", tint.Err(err))
		return
	}

	cl := &client{id: game.PlayerID(uuid.NewString()), conn: conn}
	h.register(code, cl)
	log := h.log.With("table", code, "conn", cl.id)
	log.Debug("connected")

	defer func() {
		h.unregister(code, cl)
		_ = conn.Close()
		h.svc.Disconnected(code, cl.id)
		log.Debug("disconnected")
	}()

	_ = cl.write("connected", gin.H{"id": cl.id})
	if snap, err := h.svc.Snapshot(code); err == nil {
		_ = cl.write("gameState", snap)
	}

	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("read failed", tint.Err(err))
			}
			return
		}
		if err := h.dispatch(code, cl, msg); err != nil {
			log.Debug("action rejected", "action", msg.Action, tint.Err(err))
			_ = cl.write("error", gin.H{"reason": reason(err), "message": err.Error(), "action": msg.Action})
		}
	}
}

var errUnknownAction = errors.New("unknown action")

type badPayload struct{ err error }

func (e badPayload) Error() string { return "bad payload: " + e.err.Error() }
func (e badPayload) Unwrap() error { return e.err }

func reason(err error) string {
	var bp badPayload
	switch {
	case errors.As(err, &bp):
		return "BadPayload"
	case errors.Is(err, errUnknownAction):
		return "UnknownAction"
	}
	return table.Reason(err)
}

func decode(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return badPayload{errors.New("missing data")}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return badPayload{err}
	}
	return nil
}

func (h *Hub) dispatch(code string, cl *client, msg inbound) error {
	switch msg.Action {
	case "joinGame":
		var p struct {
			Name string `json:"name"`
		}
		if err := decode(msg.Data, &p); err != nil {
			return err
		}
		if p.Name == "" {
			p.Name = "Player"
		}
		if err := h.svc.Join(code, cl.id, p.Name); err != nil {
			return err
		}
		return h.sendToken(code, cl)

	case "rejoinGame":
		var p struct {
			Token string `json:"token"`
		}
		if err := decode(msg.Data, &p); err != nil {
			return err
		}
		if err := h.rejoin(code, cl, p.Token); err != nil {
			h.log.Info("rejoin failed", "table", code, tint.Err(err))
			return cl.write("rejoinFailed", gin.H{"reason": reason(err), "message": err.Error()})
		}
		return h.sendToken(code, cl)

	case "playerReady":
		return h.svc.Ready(code, cl.id)

	case "makeCall":
		var p struct {
			Call *int `json:"call"`
		}
		if err := decode(msg.Data, &p); err != nil {
			return err
		}
		if p.Call == nil {
			return badPayload{errors.New("missing call")}
		}
		return h.svc.Call(code, cl.id, *p.Call)

	case "selectTrump":
		var p struct {
			Suit *game.Suit `json:"suit"`
		}
		if err := decode(msg.Data, &p); err != nil {
			return err
		}
		if p.Suit == nil {
			return badPayload{errors.New("missing suit")}
		}
		return h.svc.SelectTrump(code, cl.id, *p.Suit)

	case "playCard":
		var card game.Card
		if err := decode(msg.Data, &card); err != nil {
			return err
		}
		return h.svc.Play(code, cl.id, card)

	case "restartGame":
		return h.svc.Restart(code)

	case "leaveGame":
		return h.svc.Leave(code, cl.id)
	}
	return fmt.Errorf("%w: %q", errUnknownAction, msg.Action)
}

func (h *Hub) rejoin(code string, cl *client, token string) error {
	claims, err := h.sessions.Verify(token)
	if err != nil {
		return err
	}
	if claims.Table != code {
		return fmt.Errorf("%w: token is for table %s", session.ErrInvalidToken, claims.Table)
	}
	return h.svc.Rejoin(code, claims.Player, cl.id)
}

func (h *Hub) sendToken(code string, cl *client) error {
	token, err := h.sessions.Issue(code, cl.id)
	if err != nil {
		return err
	}
	return cl.write("joined", gin.H{"playerId": cl.id, "token": token})
}

func (h *Hub) register(code string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.tables[code]; !ok {
		h.tables[code] = make(map[game.PlayerID]*client)
	}
	h.tables[code][cl.id] = cl
}

func (h *Hub) unregister(code string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.tables[code], cl.id)
	if len(h.tables[code]) == 0 {
		delete(h.tables, code)
	}
}

// Broadcast sends to every connection at the table.
func (h *Hub) Broadcast(code string, action string, data interface{}) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.tables[code]))
	for _, cl := range h.tables[code] {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.write(action, data); err != nil {
			h.log.Warn("broadcast failed", "table", code, "conn", cl.id, tint.Err(err))
			_ = cl.conn.Close()
		}
	}
}

// Send delivers to one player's connection, if it is still open.
func (h *Hub) Send(code string, to game.PlayerID, action string, data interface{}) {
	h.mu.RLock()
	cl, ok := h.tables[code][to]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := cl.write(action, data); err != nil {
		h.log.Warn("send failed", "table", code, "conn", to, tint.Err(err))
		_ = cl.conn.Close()
	}
}
