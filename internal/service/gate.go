package service

import (
	"floorwatch/internal/logger"
	"floorwatch/internal/models"
)

// MappingGate decides whether an incoming status is admitted. An equipment
// without an established backend mapping is forced into the disabled visual
// state regardless of what upstream reports, and stays there until the
// mapping is created.
type MappingGate struct {
	mapping  MappingProvider
	store    *StatusStore
	renderer VisualRenderer
	log      *logger.Logger
}

func NewMappingGate(mapping MappingProvider, store *StatusStore, renderer VisualRenderer, log *logger.Logger) *MappingGate {
	return &MappingGate{mapping: mapping, store: store, renderer: renderer, log: log}
}

// Admit checks the mapping before status ever reaches the store. If the
// mapping is incomplete it marks the record disabled (pushing the visual
// transition once) and reports false; the caller must drop the update.
func (g *MappingGate) Admit(id models.EquipmentID, status models.CanonicalStatus) (models.CanonicalStatus, bool) {
	if g.mapping.IsComplete(id) {
		return status, true
	}
	if g.store.MarkDisabled(id) {
		if g.renderer != nil {
			g.renderer.ApplyDisabled(id)
		}
		if g.log != nil {
			g.log.Debugw("status_rejected_unmapped", "frontend_id", id, "status", status)
		}
	}
	return "", false
}

// OnMappingEstablished clears the disabled marker for id and resets it to
// OFF. A unit whose last buffered message was RUN must not snap to RUN the
// instant it becomes mapped; it starts neutral and waits for a fresh signal.
func (g *MappingGate) OnMappingEstablished(id models.EquipmentID) {
	if g.store.ClearDisabled(id) {
		if g.renderer != nil {
			g.renderer.ApplyStatus(id, models.StatusOff)
		}
		if g.log != nil {
			g.log.Infow("mapping_established", "frontend_id", id)
		}
	}
}

// OnMappingRemoved re-disables id after its mapping is unlinked.
func (g *MappingGate) OnMappingRemoved(id models.EquipmentID) {
	if g.store.MarkDisabled(id) {
		if g.renderer != nil {
			g.renderer.ApplyDisabled(id)
		}
		if g.log != nil {
			g.log.Infow("mapping_removed", "frontend_id", id)
		}
	}
}

// DisableAllUnmapped walks the full mapping table and marks every unlinked
// equipment disabled. Called once at engine start so slots that were never
// linked render disabled from the first frame.
func (g *MappingGate) DisableAllUnmapped() {
	for id, linked := range g.mapping.GetAllMappings() {
		if linked {
			continue
		}
		if g.store.MarkDisabled(id) && g.renderer != nil {
			g.renderer.ApplyDisabled(id)
		}
	}
}
