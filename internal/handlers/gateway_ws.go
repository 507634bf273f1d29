// internal/handlers/gateway_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/wordarena/wordarena/internal/middleware"
)

// InboundMessage is one chat message relayed by a bridge: who said what in
// which chat. Commands and plain word submissions arrive the same way.
type InboundMessage struct {
	Type        string `json:"type"`
	ChatID      string `json:"chat_id"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Text        string `json:"text"`
}

// GatewayWSHandler upgrades a chat bridge's HTTP connection to WebSocket and
// relays messages between the bridge and the session manager. Bridges must
// speak the "wordarena" subprotocol.
func GatewayWSHandler(logger *logrus.Logger, gw *Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remoteAddr := r.RemoteAddr

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"wordarena"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "wordarena" {
			c.Close(BadSubprotocolError, "client must speak the wordarena subprotocol")
			return
		}

		middleware.LogGatewayConnect(logger, remoteAddr, r.URL.Path)

		ctx, cancel := context.WithCancel(r.Context())
		bridge := &bridgeConn{
			out:    make(chan OutboundMessage, 64),
			cancel: cancel,
		}
		gw.addBridge(bridge)

		go bridgeWritePump(ctx, c, bridge, logger)

		readErr := bridgeReadPump(ctx, c, gw, bridge, logger)

		gw.removeBridge(bridge)
		middleware.LogGatewayDisconnect(logger, remoteAddr, r.URL.Path, readErr)
	}
}

// bridgeReadPump blocks reading bridge messages until the connection closes.
// Each inbound message is dispatched to the command layer; replies addressed
// to the originating chat go back through the shared broadcast path so every
// bridge serving that chat sees them.
func bridgeReadPump(ctx context.Context, c *websocket.Conn, gw *Gateway, bridge *bridgeConn, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			if strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			logger.Warnf("gateway: ignoring non-text message type %d", msgType)
			continue
		}

		var msg InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("gateway: invalid JSON from bridge: %v", err)
			sendBridgeError(bridge, "", "invalid JSON payload")
			continue
		}

		switch msg.Type {
		case "ping":
			select {
			case bridge.out <- OutboundMessage{Type: "pong"}:
			default:
			}
			continue
		case "", "chat":
			// Fall through to dispatch.
		default:
			logger.Warnf("gateway: unknown message type %q from bridge", msg.Type)
			sendBridgeError(bridge, msg.ChatID, "unknown message type: "+msg.Type)
			continue
		}

		if msg.ChatID == "" || msg.UserID == "" {
			sendBridgeError(bridge, msg.ChatID, "chat_id and user_id are required")
			continue
		}

		for _, reply := range gw.Dispatch(msg) {
			gw.broadcast(OutboundMessage{Type: "chat", ChatID: msg.ChatID, Text: reply})
		}
	}
}

// bridgeWritePump drains the bridge's outbound channel onto the wire. Exits
// when the connection context ends.
func bridgeWritePump(ctx context.Context, c *websocket.Conn, bridge *bridgeConn, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-bridge.out:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Errorf("gateway: failed to marshal outbound message: %v", err)
				continue
			}
			writeCtx, cancelWrite := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancelWrite()
			if err != nil {
				logger.Warnf("gateway: write failed, closing pump: %v", err)
				return
			}
		}
	}
}

// sendBridgeError queues a structured error frame on one bridge only.
func sendBridgeError(bridge *bridgeConn, chatID, errMsg string) {
	select {
	case bridge.out <- OutboundMessage{Type: "error", ChatID: chatID, Text: errMsg}:
	default:
	}
}
