package service

import (
	"sync"
	"time"

	"floorwatch/internal/logger"
	"floorwatch/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Connection tuning defaults. Delay and attempt cap are configuration, not
// policy: callers override them through ConnectionConfig.
const (
	defaultRetryDelay       = 3 * time.Second
	defaultMaxAttempts      = 5
	defaultHandshakeTimeout = 10 * time.Second
	connReadLimit           = 1 << 16 // 64 KB per frame
)

// ConnectionConfig configures the push-stream client.
type ConnectionConfig struct {
	URL              string
	RetryDelay       time.Duration
	MaxAttempts      int
	HandshakeTimeout time.Duration
}

func (c ConnectionConfig) withDefaults() ConnectionConfig {
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = defaultHandshakeTimeout
	}
	return c
}

// ConnectionManager owns the WebSocket lifecycle: dial, read loop, and
// bounded fixed-delay reconnection. A dial failure counts as an unexpected
// close of the connecting session. Attempts reset to zero exactly on a
// confirmed open; the cap makes reconnect exhaustion a terminal CLOSED state
// that only an explicit Start can leave.
type ConnectionManager struct {
	cfg    ConnectionConfig
	dialer websocket.Dialer
	log    *logger.Logger

	onMessage func(raw []byte)
	onState   func(models.ConnectionState)

	mu         sync.Mutex
	conn       *websocket.Conn
	state      models.ConnectionState
	active     bool
	generation int
	retryTimer *time.Timer
}

func NewConnectionManager(cfg ConnectionConfig, onMessage func([]byte), onState func(models.ConnectionState), log *logger.Logger) *ConnectionManager {
	cfg = cfg.withDefaults()
	return &ConnectionManager{
		cfg:       cfg,
		dialer:    websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout},
		log:       log,
		onMessage: onMessage,
		onState:   onState,
		state:     models.ConnectionState{Phase: models.PhaseClosed},
	}
}

// Start begins connecting. Idempotent while active. Each Start bumps the
// generation token; timers and read loops created under an older generation
// become inert the moment they check in.
func (m *ConnectionManager) Start() {
	m.mu.Lock()
	if m.active {
		m.mu.Unlock()
		return
	}
	m.active = true
	m.generation++
	gen := m.generation
	m.state.Phase = models.PhaseConnecting
	m.state.Attempts = 0
	m.state.SessionID = uuid.NewString()
	snapshot := m.state
	m.mu.Unlock()

	m.notify(snapshot)
	go m.connect(gen)
}

// Stop closes the connection and deterministically cancels any pending
// reconnect timer. A timer firing after Stop observes a stale generation and
// does nothing.
func (m *ConnectionManager) Stop() {
	m.mu.Lock()
	if !m.active && m.state.Phase == models.PhaseClosed {
		m.mu.Unlock()
		return
	}
	m.active = false
	m.generation++
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
	conn := m.conn
	m.conn = nil
	m.state.Phase = models.PhaseClosed
	snapshot := m.state
	m.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	m.notify(snapshot)
}

// State returns a copy of the current connection state.
func (m *ConnectionManager) State() models.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *ConnectionManager) connect(gen int) {
	m.mu.Lock()
	if !m.currentLocked(gen) {
		m.mu.Unlock()
		return
	}
	url := m.cfg.URL
	m.mu.Unlock()

	conn, resp, err := m.dialer.Dial(url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if m.log != nil {
			m.log.Warnw("stream_dial_failed", "url", url, "err", err)
		}
		m.handleClose(gen, err)
		return
	}
	conn.SetReadLimit(connReadLimit)

	m.mu.Lock()
	if !m.currentLocked(gen) {
		m.mu.Unlock()
		_ = conn.Close()
		return
	}
	m.conn = conn
	m.state.Phase = models.PhaseOpen
	m.state.Attempts = 0
	m.state.LastOpenedAt = time.Now().UTC()
	snapshot := m.state
	m.mu.Unlock()

	if m.log != nil {
		m.log.Infow("stream_connected", "url", url, "session_id", snapshot.SessionID)
	}
	m.notify(snapshot)
	m.readLoop(gen, conn)
}

func (m *ConnectionManager) readLoop(gen int, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.handleClose(gen, err)
			return
		}
		if m.onMessage != nil {
			m.onMessage(data)
		}
	}
}

// handleClose runs for every unexpected close or dial failure. While the
// manager is active and under the attempt cap it schedules a fixed-delay
// reconnect; at the cap the connection goes terminally CLOSED.
func (m *ConnectionManager) handleClose(gen int, cause error) {
	m.mu.Lock()
	if !m.currentLocked(gen) {
		m.mu.Unlock()
		return
	}
	m.conn = nil

	if m.state.Attempts >= m.cfg.MaxAttempts {
		m.active = false
		m.state.Phase = models.PhaseClosed
		snapshot := m.state
		m.mu.Unlock()
		if m.log != nil {
			m.log.Errorw("stream_reconnect_exhausted",
				"attempts", snapshot.Attempts, "max", m.cfg.MaxAttempts, "err", cause)
		}
		m.notify(snapshot)
		return
	}

	m.state.Attempts++
	m.state.Phase = models.PhaseReconnecting
	snapshot := m.state
	m.retryTimer = time.AfterFunc(m.cfg.RetryDelay, func() {
		m.mu.Lock()
		ok := m.currentLocked(gen)
		if ok {
			m.state.Phase = models.PhaseConnecting
		}
		m.mu.Unlock()
		if ok {
			m.connect(gen)
		}
	})
	m.mu.Unlock()

	if m.log != nil {
		m.log.Infow("stream_reconnect_scheduled",
			"attempt", snapshot.Attempts, "delay", m.cfg.RetryDelay, "err", cause)
	}
	m.notify(snapshot)
}

func (m *ConnectionManager) currentLocked(gen int) bool {
	return m.active && gen == m.generation
}

func (m *ConnectionManager) notify(state models.ConnectionState) {
	if m.onState != nil {
		m.onState(state)
	}
}
