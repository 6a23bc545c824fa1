package service

import (
	"sync"
	"time"

	"floorwatch/internal/models"
)

// pendingUpdate is one coalesced entry in the batcher queue. Ephemeral: it
// never leaves this file.
type pendingUpdate struct {
	id         models.EquipmentID
	status     models.CanonicalStatus
	enqueuedAt time.Time
}

// applyFunc receives each flushed update exactly once per flush window.
type applyFunc func(id models.EquipmentID, status models.CanonicalStatus)

// UpdateBatcher coalesces bursts of status updates into at most one applied
// change per equipment per flush window. Enqueue has map semantics: a newer
// status for the same id overwrites the pending one (last-write-wins within
// the window). No cross-entity ordering is guaranteed.
type UpdateBatcher struct {
	mu      sync.Mutex
	pending map[models.EquipmentID]pendingUpdate

	interval   time.Duration
	apply      applyFunc
	generation int
	stop       chan struct{}
}

func NewUpdateBatcher(interval time.Duration, apply applyFunc) *UpdateBatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &UpdateBatcher{
		pending:  make(map[models.EquipmentID]pendingUpdate),
		interval: interval,
		apply:    apply,
	}
}

// Enqueue records status as the pending update for id, replacing any earlier
// pending entry. Safe to call from any goroutine, including concurrently with
// a flush.
func (b *UpdateBatcher) Enqueue(id models.EquipmentID, status models.CanonicalStatus) {
	b.mu.Lock()
	b.pending[id] = pendingUpdate{id: id, status: status, enqueuedAt: time.Now().UTC()}
	b.mu.Unlock()
}

// Flush atomically swaps the pending map for an empty one, then applies every
// entry outside the lock. Swap-then-iterate keeps a concurrent Enqueue from
// ever being observed half-applied. An empty queue is a no-op.
func (b *UpdateBatcher) Flush() {
	b.mu.Lock()
	if len(b.pending) == 0 {
		b.mu.Unlock()
		return
	}
	batch := b.pending
	b.pending = make(map[models.EquipmentID]pendingUpdate)
	b.mu.Unlock()

	for _, upd := range batch {
		b.apply(upd.id, upd.status)
	}
}

// Start launches the periodic flush loop. Idempotent: a second Start while
// running is a no-op. The loop's generation token is captured at creation and
// re-checked on every tick, so a tick racing Stop cannot flush on behalf of a
// stopped batcher.
func (b *UpdateBatcher) Start() {
	b.mu.Lock()
	if b.stop != nil {
		b.mu.Unlock()
		return
	}
	b.generation++
	gen := b.generation
	stop := make(chan struct{})
	b.stop = stop
	b.mu.Unlock()

	go b.run(gen, stop)
}

func (b *UpdateBatcher) run(gen int, stop chan struct{}) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !b.current(gen) {
				return
			}
			b.Flush()
		}
	}
}

func (b *UpdateBatcher) current(gen int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stop != nil && gen == b.generation
}

// Stop cancels the flush loop and discards pending updates. Deterministic:
// after Stop returns, no further flush fires for the stopped generation.
func (b *UpdateBatcher) Stop() {
	b.mu.Lock()
	if b.stop == nil {
		b.mu.Unlock()
		return
	}
	close(b.stop)
	b.stop = nil
	b.generation++
	b.pending = make(map[models.EquipmentID]pendingUpdate)
	b.mu.Unlock()
}

// PendingLen reports the number of queued updates. Used by tests and the
// monitoring surface.
func (b *UpdateBatcher) PendingLen() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
