// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the seat handler. These give clients
// more specific reasons for closure than the standard codes.
const (
	BadSubprotocolError   = 3000 // Client connected with an unsupported subprotocol.
	InvalidSeatTokenError = 3001 // Seat token was invalid or expired.
	UnknownSeatError      = 3002 // Token's seat is not a remote seat of this game.
)
