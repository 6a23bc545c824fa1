// Package render holds host-side VisualRenderer implementations. The real
// deployment injects the 3D lamp renderer; this backend ships a structured-log
// renderer so visual transitions stay observable without a scene graph.
package render

import (
	"floorwatch/internal/logger"
	"floorwatch/internal/models"
)

// LogRenderer writes every visual transition as a log line. Transitions are
// already deduplicated by the status store, so each line corresponds to a
// real lamp change.
type LogRenderer struct {
	log *logger.Logger
}

func NewLogRenderer(log *logger.Logger) *LogRenderer {
	return &LogRenderer{log: log}
}

func (r *LogRenderer) ApplyStatus(id models.EquipmentID, status models.CanonicalStatus) {
	if r.log != nil {
		visual := models.DeriveVisual(status)
		r.log.Infow("lamp_status",
			"frontend_id", id,
			"status", status,
			"mode", visual.Mode,
			"color", visual.Color,
		)
	}
}

func (r *LogRenderer) ApplyDisabled(id models.EquipmentID) {
	if r.log != nil {
		r.log.Infow("lamp_disabled", "frontend_id", id, "mode", models.DeriveDisabledVisual().Mode)
	}
}

func (r *LogRenderer) ApplyAllNeutral() {
	if r.log != nil {
		r.log.Infow("lamp_all_neutral")
	}
}
