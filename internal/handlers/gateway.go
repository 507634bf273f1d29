// internal/handlers/gateway.go
package handlers

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wordarena/wordarena/internal/cache"
	"github.com/wordarena/wordarena/internal/game"
)

// OutboundMessage is what the gateway sends back to a connected chat bridge:
// plain rendered text addressed to one chat. The bridge forwards it to the
// platform verbatim.
type OutboundMessage struct {
	Type   string `json:"type"`
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// bridgeConn is one connected chat bridge. Writes go through a buffered
// channel so a slow bridge never blocks the engine.
type bridgeConn struct {
	out    chan OutboundMessage
	cancel context.CancelFunc
}

// Gateway routes chat traffic between connected bridges and the session
// manager, and renders engine events back into chat text.
type Gateway struct {
	Manager *game.Manager

	mu      sync.Mutex
	bridges map[*bridgeConn]struct{}
}

// NewGateway wires a gateway over a manager and installs itself as the
// manager's event sink.
func NewGateway(m *game.Manager) *Gateway {
	gw := &Gateway{
		Manager: m,
		bridges: make(map[*bridgeConn]struct{}),
	}
	m.EmitFn = gw.HandleEvent
	return gw
}

func (gw *Gateway) addBridge(b *bridgeConn) {
	gw.mu.Lock()
	gw.bridges[b] = struct{}{}
	gw.mu.Unlock()
}

func (gw *Gateway) removeBridge(b *bridgeConn) {
	gw.mu.Lock()
	delete(gw.bridges, b)
	gw.mu.Unlock()
	b.cancel()
}

// broadcast fans a message out to every connected bridge. Bridges filter by
// chat_id on their side; a full channel drops the message for that bridge
// rather than stalling the caller.
func (gw *Gateway) broadcast(msg OutboundMessage) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	for b := range gw.bridges {
		select {
		case b.out <- msg:
		default:
			log.WithField("chat", msg.ChatID).Warn("bridge send buffer full, dropping message")
		}
	}
}

// HandleEvent renders a session event to chat text, pushes it to the bridges,
// and journals turn resolutions to the Redis queue when one is connected.
// It is invoked while the session lock is held, so everything slow happens on
// a channel or a goroutine.
func (gw *Gateway) HandleEvent(ev game.Event) {
	if text := gw.renderEvent(ev); text != "" {
		gw.broadcast(OutboundMessage{Type: "chat", ChatID: ev.ChatID, Text: text})
	}

	if cache.Rdb == nil || ev.Outcome == nil {
		return
	}
	switch ev.Type {
	case game.EventTurnResolved, game.EventPlayerEliminated, game.EventGameEnded:
	default:
		return
	}

	record := cache.TurnRecord{
		SessionID: ev.SessionID,
		ChatID:    ev.ChatID,
		Seq:       ev.Seq,
		Round:     ev.Round,
		PlayerID:  ev.Outcome.PlayerID,
		Outcome:   string(ev.Outcome.Type),
		Word:      ev.Outcome.Word,
		Points:    ev.Outcome.Points,
		GameOver:  ev.Outcome.GameOver,
		Timestamp: time.Now().Unix(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := cache.PublishTurnRecord(ctx, record); err != nil {
			log.WithError(err).WithField("chat", record.ChatID).Warn("failed to journal turn record")
		}
	}()
}
