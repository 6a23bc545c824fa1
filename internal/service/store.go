package service

import (
	"sync"
	"time"

	"floorwatch/internal/models"
)

// statusRecord is the authoritative last-known state of one equipment.
// Status is always one of the six canonical values; the disabled marker is
// tracked alongside and set only by the mapping gate.
type statusRecord struct {
	status        models.CanonicalStatus
	disabled      bool
	lastAppliedAt time.Time
}

// StatusStore caches last-known statuses and performs the idempotence check
// that keeps repeated identical updates from reaching the renderer. With
// equipment counts in the hundreds and upstream feeds that re-send unchanged
// values, skipping no-op applies is what keeps render traffic proportional to
// real change.
type StatusStore struct {
	mu      sync.Mutex
	records map[models.EquipmentID]*statusRecord
	now     func() time.Time
}

func NewStatusStore() *StatusStore {
	return &StatusStore{
		records: make(map[models.EquipmentID]*statusRecord),
		now:     time.Now,
	}
}

// Apply records status for id. It returns true iff the stored value actually
// changed; callers invoke the renderer only on true. Records are created on
// first observation and never deleted during a session.
func (s *StatusStore) Apply(id models.EquipmentID, status models.CanonicalStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		s.records[id] = &statusRecord{status: status, lastAppliedAt: s.now().UTC()}
		return true
	}
	if !rec.disabled && rec.status == status {
		return false
	}
	rec.status = status
	rec.disabled = false
	rec.lastAppliedAt = s.now().UTC()
	return true
}

// MarkDisabled forces id into the disabled marker state. Returns true iff the
// record was not already disabled.
func (s *StatusStore) MarkDisabled(id models.EquipmentID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		s.records[id] = &statusRecord{
			status:        models.StatusOff,
			disabled:      true,
			lastAppliedAt: s.now().UTC(),
		}
		return true
	}
	if rec.disabled {
		return false
	}
	rec.disabled = true
	rec.lastAppliedAt = s.now().UTC()
	return true
}

// ClearDisabled removes the disabled marker and resets the record to OFF.
// Mapped-but-no-data-yet is OFF by definition: the record must not snap back
// to whatever stale status was buffered before the mapping existed.
func (s *StatusStore) ClearDisabled(id models.EquipmentID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		s.records[id] = &statusRecord{status: models.StatusOff, lastAppliedAt: s.now().UTC()}
		return true
	}
	if !rec.disabled && rec.status == models.StatusOff {
		return false
	}
	rec.disabled = false
	rec.status = models.StatusOff
	rec.lastAppliedAt = s.now().UTC()
	return true
}

// Disabled reports whether id currently carries the disabled marker.
func (s *StatusStore) Disabled(id models.EquipmentID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	return ok && rec.disabled
}

// Get returns the view of one record.
func (s *StatusStore) Get(id models.EquipmentID) (models.StatusView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return models.StatusView{}, false
	}
	return viewOf(id, rec), true
}

// GetAll returns a snapshot of every known record.
func (s *StatusStore) GetAll() map[models.EquipmentID]models.StatusView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[models.EquipmentID]models.StatusView, len(s.records))
	for id, rec := range s.records {
		out[id] = viewOf(id, rec)
	}
	return out
}

// Statistics counts records per canonical status; disabled records are
// counted separately and excluded from the status buckets.
func (s *StatusStore) Statistics() models.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats models.Statistics
	for _, rec := range s.records {
		stats.Total++
		if rec.disabled {
			stats.Disabled++
			continue
		}
		switch rec.status {
		case models.StatusRun:
			stats.Run++
		case models.StatusIdle:
			stats.Idle++
		case models.StatusStop:
			stats.Stop++
		case models.StatusSuddenStop:
			stats.SuddenStop++
		case models.StatusDisconnected:
			stats.Disconnected++
		case models.StatusOff:
			stats.Off++
		}
	}
	return stats
}

// Reset drops every record. Called on dispose only; Stop() intentionally
// leaves the store intact so statistics stay queryable.
func (s *StatusStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[models.EquipmentID]*statusRecord)
}

func viewOf(id models.EquipmentID, rec *statusRecord) models.StatusView {
	return models.StatusView{
		ID:            id,
		Status:        rec.status,
		Disabled:      rec.disabled,
		LastAppliedAt: rec.lastAppliedAt,
	}
}
