package service

import (
	"fmt"

	"floorwatch/internal/models"
)

const (
	defaultSyntheticCount = 24
	syntheticBayWidth     = 8
)

// syntheticCycle is the deterministic status distribution for development
// seeding: mostly running, some idle/stopped, the occasional alarm.
var syntheticCycle = []models.CanonicalStatus{
	models.StatusRun,
	models.StatusRun,
	models.StatusRun,
	models.StatusIdle,
	models.StatusRun,
	models.StatusStop,
	models.StatusIdle,
	models.StatusSuddenStop,
	models.StatusRun,
	models.StatusOff,
}

// syntheticID yields bay/slot style identifiers: EQ-01-01, EQ-01-02, ...
func syntheticID(i int) models.EquipmentID {
	return models.EquipmentID(fmt.Sprintf("EQ-%02d-%02d", i/syntheticBayWidth+1, i%syntheticBayWidth+1))
}

// seedSynthetic loads a bounded deterministic dataset through the normal
// pipeline. Development aid only: Start refuses to call it unless the
// dev fallback is explicitly enabled, and it always logs loudly first.
func (e *SyncEngine) seedSynthetic(count int) {
	if count <= 0 {
		count = defaultSyntheticCount
	}
	for i := 0; i < count; i++ {
		id := syntheticID(i)
		status := syntheticCycle[i%len(syntheticCycle)]
		e.applyDirect(id, status.String())
	}
}
