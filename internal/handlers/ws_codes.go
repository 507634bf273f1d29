// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the gateway handler. These provide
// more specific reasons for closure than standard codes.
const (
	BadSubprotocolError   = 3000 // Bridge connected with an unsupported subprotocol.
	InvalidAuthTokenError = 3001 // Provided service token was invalid or expired.
)
