package service

import (
	"sync"

	"floorwatch/internal/models"
)

// ---- Collaborator stubs shared across the engine tests ----

// mappingStub is an in-memory MappingProvider.
type mappingStub struct {
	mu    sync.Mutex
	links map[models.EquipmentID]bool
}

func newMappingStub(links map[models.EquipmentID]bool) *mappingStub {
	if links == nil {
		links = make(map[models.EquipmentID]bool)
	}
	return &mappingStub{links: links}
}

func (m *mappingStub) IsComplete(id models.EquipmentID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links[id]
}

func (m *mappingStub) GetAllMappings() map[models.EquipmentID]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[models.EquipmentID]bool, len(m.links))
	for id, linked := range m.links {
		out[id] = linked
	}
	return out
}

func (m *mappingStub) set(id models.EquipmentID, linked bool) {
	m.mu.Lock()
	m.links[id] = linked
	m.mu.Unlock()
}

// renderRecorder records every visual transition it receives.
type renderRecorder struct {
	mu         sync.Mutex
	statuses   []renderCall
	disabled   []models.EquipmentID
	neutralHit int
}

type renderCall struct {
	id     models.EquipmentID
	status models.CanonicalStatus
}

func (r *renderRecorder) ApplyStatus(id models.EquipmentID, status models.CanonicalStatus) {
	r.mu.Lock()
	r.statuses = append(r.statuses, renderCall{id: id, status: status})
	r.mu.Unlock()
}

func (r *renderRecorder) ApplyDisabled(id models.EquipmentID) {
	r.mu.Lock()
	r.disabled = append(r.disabled, id)
	r.mu.Unlock()
}

func (r *renderRecorder) ApplyAllNeutral() {
	r.mu.Lock()
	r.neutralHit++
	r.mu.Unlock()
}

func (r *renderRecorder) statusCalls(id models.EquipmentID) []models.CanonicalStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.CanonicalStatus
	for _, c := range r.statuses {
		if c.id == id {
			out = append(out, c.status)
		}
	}
	return out
}

func (r *renderRecorder) disabledCount(id models.EquipmentID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.disabled {
		if d == id {
			n++
		}
	}
	return n
}

func (r *renderRecorder) neutralCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.neutralHit
}
