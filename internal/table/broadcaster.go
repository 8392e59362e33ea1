package table

import "callbreak/internal/game"

// Broadcaster delivers table events to connected clients.
type Broadcaster interface {
	Broadcast(tableCode string, action string, data interface{})
	Send(tableCode string, player game.PlayerID, action string, data interface{})
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, string, interface{}) {}
func (nopBroadcaster) Send(string, game.PlayerID, string, interface{}) {}
