package models

import "time"

// ConnectionPhase is the lifecycle phase of the push-stream connection.
type ConnectionPhase string

const (
	PhaseClosed       ConnectionPhase = "CLOSED"
	PhaseConnecting   ConnectionPhase = "CONNECTING"
	PhaseOpen         ConnectionPhase = "OPEN"
	PhaseReconnecting ConnectionPhase = "RECONNECTING"
)

// ConnectionState is a snapshot of the stream connection. Attempts counts
// consecutive reconnect attempts since the last confirmed open; it resets to
// zero exactly when the connection reaches PhaseOpen.
type ConnectionState struct {
	Phase        ConnectionPhase `json:"phase"`
	Attempts     int             `json:"attempts"`
	LastOpenedAt time.Time       `json:"last_opened_at,omitempty"`
	SessionID    string          `json:"session_id,omitempty"`
}
