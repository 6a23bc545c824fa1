package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"floorwatch/internal/logger"
	"floorwatch/internal/models"

	"github.com/google/uuid"
)

const (
	defaultBatchInterval = time.Second
	defaultHTTPTimeout   = 10 * time.Second

	snapshotPath = "/status"
	streamPath   = "/stream"
)

var errMappingRequired = errors.New("sync engine: mapping provider is required")

// EngineConfig tunes the synchronization engine. Zero values fall back to the
// documented defaults.
type EngineConfig struct {
	APIBase          string
	WSBase           string
	BatchInterval    time.Duration
	RetryDelay       time.Duration
	MaxAttempts      int
	HTTPTimeout      time.Duration
	DevFallback      bool
	DevFallbackCount int
}

func (c EngineConfig) withDefaults() EngineConfig {
	if c.BatchInterval <= 0 {
		c.BatchInterval = defaultBatchInterval
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}
	if c.DevFallbackCount <= 0 {
		c.DevFallbackCount = defaultSyntheticCount
	}
	return c
}

// Wire formats of the external status sources.
type snapshotResponse struct {
	Equipment []UDSEquipment `json:"equipment"`
}

type streamMessage struct {
	Type       string `json:"type"`
	FrontendID string `json:"frontend_id"`
	Status     string `json:"status"`
}

// Inbound frame types on the push stream.
const (
	msgTypeEquipmentStatus = "equipment_status"
	msgTypeHeartbeat       = "heartbeat"
)

// SyncEngine wires the normalizer, mapping gate, batcher, store, and stream
// connection into one pipeline:
//
//	source -> Normalize -> gate.Admit -> batcher.Enqueue -> (flush) -> store.Apply -> renderer
//
// Bulk paths (REST snapshot, UDS initialization/batch) skip the batcher and
// apply synchronously; whichever source writes the store last wins.
type SyncEngine struct {
	cfg      EngineConfig
	log      *logger.Logger
	mapping  MappingProvider
	renderer VisualRenderer

	store   *StatusStore
	gate    *MappingGate
	batcher *UpdateBatcher
	conn    *ConnectionManager
	client  *http.Client

	mu     sync.Mutex
	active bool

	subMu   sync.Mutex
	subSeq  int
	connSub map[int]func(models.ConnectionState)
}

func NewSyncEngine(cfg EngineConfig, mapping MappingProvider, renderer VisualRenderer, log *logger.Logger) *SyncEngine {
	cfg = cfg.withDefaults()
	store := NewStatusStore()
	e := &SyncEngine{
		cfg:      cfg,
		log:      log,
		mapping:  mapping,
		renderer: renderer,
		store:    store,
		client:   &http.Client{Timeout: cfg.HTTPTimeout},
		connSub:  make(map[int]func(models.ConnectionState)),
	}
	e.gate = NewMappingGate(mapping, store, renderer, log)
	e.batcher = NewUpdateBatcher(cfg.BatchInterval, e.applyAdmitted)
	e.conn = NewConnectionManager(ConnectionConfig{
		URL:         cfg.WSBase + streamPath,
		RetryDelay:  cfg.RetryDelay,
		MaxAttempts: cfg.MaxAttempts,
	}, e.IngestWebSocketMessage, e.fanOutConnState, log)
	return e
}

// Store exposes the authoritative last-known-state cache.
func (e *SyncEngine) Store() *StatusStore { return e.store }

// Gate exposes the mapping gate so the mapping editor can drive
// disabled/enabled transitions.
func (e *SyncEngine) Gate() *MappingGate { return e.gate }

// Connection returns the current stream connection state.
func (e *SyncEngine) Connection() models.ConnectionState { return e.conn.State() }

// SubscribeConnection registers fn for connection state changes and returns
// its disposer. Callbacks run on the connection goroutine; keep them short.
func (e *SyncEngine) SubscribeConnection(fn func(models.ConnectionState)) func() {
	e.subMu.Lock()
	e.subSeq++
	id := e.subSeq
	e.connSub[id] = fn
	e.subMu.Unlock()
	return func() {
		e.subMu.Lock()
		delete(e.connSub, id)
		e.subMu.Unlock()
	}
}

func (e *SyncEngine) fanOutConnState(state models.ConnectionState) {
	e.subMu.Lock()
	subs := make([]func(models.ConnectionState), 0, len(e.connSub))
	for _, fn := range e.connSub {
		subs = append(subs, fn)
	}
	e.subMu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}

// Start brings the engine up: disabled accounting for every unmapped slot,
// one REST snapshot applied straight through the pipeline, then the flush
// loop and the push stream. Idempotent while active. Fails fast on a missing
// mapping provider instead of silently no-op-ing deep in the pipeline.
func (e *SyncEngine) Start(ctx context.Context) error {
	if e.mapping == nil {
		return errMappingRequired
	}

	e.mu.Lock()
	if e.active {
		e.mu.Unlock()
		return nil
	}
	e.active = true
	e.mu.Unlock()

	e.gate.DisableAllUnmapped()

	if err := e.loadSnapshot(ctx); err != nil {
		if e.log != nil {
			e.log.Errorw("snapshot_fetch_failed", "api_base", e.cfg.APIBase, "err", err)
		}
		if e.cfg.DevFallback {
			// Never silent: a synthetic dataset masking a production failure
			// is worse than an empty floor.
			if e.log != nil {
				e.log.Warnw("dev_fallback_active", "count", e.cfg.DevFallbackCount)
			}
			e.seedSynthetic(e.cfg.DevFallbackCount)
		}
	}

	e.batcher.Start()
	e.conn.Start()
	return nil
}

// Stop closes the stream, cancels the flush loop, and blanks the lamps if a
// renderer is attached. The store is intentionally retained so statistics
// stay queryable after shutdown.
func (e *SyncEngine) Stop() {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	e.active = false
	e.mu.Unlock()

	e.conn.Stop()
	e.batcher.Stop()
	if e.renderer != nil {
		e.renderer.ApplyAllNeutral()
	}
}

// Dispose stops the engine and resets the store. After Dispose the engine is
// equivalent to a freshly constructed one.
func (e *SyncEngine) Dispose() {
	e.Stop()
	e.store.Reset()
}

// loadSnapshot fetches the one-shot REST status snapshot and applies every
// mapped entry synchronously. A startup burst does not go through the
// batcher: there is nothing to coalesce against yet.
func (e *SyncEngine) loadSnapshot(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.cfg.APIBase+snapshotPath, nil)
	if err != nil {
		return fmt.Errorf("build snapshot request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch snapshot: unexpected status %d", resp.StatusCode)
	}
	var snap snapshotResponse
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	applied := 0
	for _, eq := range snap.Equipment {
		if eq.FrontendID == "" {
			continue
		}
		if e.applyDirect(models.EquipmentID(eq.FrontendID), eq.Status) {
			applied++
		}
	}
	if e.log != nil {
		e.log.Infow("snapshot_applied", "total", len(snap.Equipment), "changed", applied)
	}
	return nil
}

// applyDirect runs the full pipeline for one update, bypassing the batcher.
// Returns true iff the store changed.
func (e *SyncEngine) applyDirect(id models.EquipmentID, raw string) bool {
	status := Normalize(raw)
	admitted, ok := e.gate.Admit(id, status)
	if !ok {
		return false
	}
	if !e.store.Apply(id, admitted) {
		return false
	}
	if e.renderer != nil {
		e.renderer.ApplyStatus(id, admitted)
	}
	return true
}

// applyAdmitted is the batcher's flush target. The gate is re-checked here:
// the mapping table may have mutated within the flush window, and a stale
// read is tolerated for at most one cycle.
func (e *SyncEngine) applyAdmitted(id models.EquipmentID, status models.CanonicalStatus) {
	admitted, ok := e.gate.Admit(id, status)
	if !ok {
		return
	}
	if e.store.Apply(id, admitted) && e.renderer != nil {
		e.renderer.ApplyStatus(id, admitted)
	}
}

// IngestWebSocketMessage handles one inbound stream frame. Malformed JSON and
// unknown frame types are logged and dropped; one bad message must never stop
// the stream.
func (e *SyncEngine) IngestWebSocketMessage(raw []byte) {
	var msg streamMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		if e.log != nil {
			e.log.Warnw("stream_message_malformed", "err", err)
		}
		return
	}
	switch msg.Type {
	case msgTypeEquipmentStatus:
		if msg.FrontendID == "" {
			if e.log != nil {
				e.log.Warnw("stream_message_missing_id", "type", msg.Type)
			}
			return
		}
		e.enqueue(models.EquipmentID(msg.FrontendID), msg.Status)
	case msgTypeHeartbeat:
		// Keep-alive only; no state change.
	default:
		if e.log != nil {
			e.log.Infow("stream_message_unknown_type", "type", msg.Type)
		}
	}
}

// enqueue runs normalize and admission, then hands the update to the batcher
// for coalescing.
func (e *SyncEngine) enqueue(id models.EquipmentID, raw string) {
	status := Normalize(raw)
	admitted, ok := e.gate.Admit(id, status)
	if !ok {
		return
	}
	e.batcher.Enqueue(id, admitted)
}

// InitializeFromUDS applies a bulk dataset synchronously in one pass,
// bypassing the batcher.
func (e *SyncEngine) InitializeFromUDS(equipments []UDSEquipment) UDSInitReport {
	started := time.Now()
	report := UDSInitReport{ReportID: uuid.NewString()}

	for _, eq := range equipments {
		if eq.FrontendID == "" {
			report.Failed++
			report.Errors = append(report.Errors, "missing frontend_id")
			continue
		}
		if e.applyDirect(models.EquipmentID(eq.FrontendID), eq.Status) {
			report.Updated++
		}
	}
	report.Elapsed = time.Since(started)
	report.Success = report.Failed == 0

	if e.log != nil {
		e.log.Infow("uds_initialized", "report_id", report.ReportID,
			"total", len(equipments), "updated", report.Updated,
			"failed", report.Failed, "elapsed", report.Elapsed)
	}
	return report
}

// UpdateFromUDSDelta routes one delta through the batcher. Returns true iff
// the delta carried a status, passed the gate, and differs from the stored
// value at enqueue time; the actual write lands at the next flush and may
// still be coalesced away by a later update in the same window.
func (e *SyncEngine) UpdateFromUDSDelta(id models.EquipmentID, changes UDSChanges) bool {
	if changes.Status == nil {
		return false
	}
	status := Normalize(*changes.Status)
	admitted, ok := e.gate.Admit(id, status)
	if !ok {
		return false
	}
	view, exists := e.store.Get(id)
	e.batcher.Enqueue(id, admitted)
	return !exists || view.Disabled || view.Status != admitted
}

// BatchUpdateFromUDS applies a batch of deltas synchronously, bypassing the
// batcher. Entries without a status change, gated entries, and idempotent
// re-applies all count as skipped.
func (e *SyncEngine) BatchUpdateFromUDS(updates []UDSUpdate) UDSBatchReport {
	var report UDSBatchReport
	for _, upd := range updates {
		if upd.FrontendID == "" || upd.Changes.Status == nil {
			report.Skipped++
			continue
		}
		if e.applyDirect(models.EquipmentID(upd.FrontendID), *upd.Changes.Status) {
			report.Updated++
		} else {
			report.Skipped++
		}
	}
	return report
}
