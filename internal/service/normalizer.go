package service

import (
	"strings"

	"floorwatch/internal/models"
)

// Synonym families accepted from upstream sources. Keys are upper-cased
// tokens after trimming.
var statusSynonyms = map[string]models.CanonicalStatus{
	"RUN":          models.StatusRun,
	"RUNNING":      models.StatusRun,
	"IDLE":         models.StatusIdle,
	"WAIT":         models.StatusIdle,
	"WAITING":      models.StatusIdle,
	"STOP":         models.StatusStop,
	"STOPPED":      models.StatusStop,
	"DOWN":         models.StatusStop,
	"SUDDEN_STOP":  models.StatusSuddenStop,
	"ALARM":        models.StatusSuddenStop,
	"ERROR":        models.StatusSuddenStop,
	"DISCONNECTED": models.StatusDisconnected,
	"OFFLINE":      models.StatusDisconnected,
	"UNKNOWN":      models.StatusDisconnected,
	"OFF":          models.StatusOff,
}

// Normalize maps an arbitrary raw status token to the canonical vocabulary.
// Case-insensitive; leading/trailing whitespace is ignored. Empty and
// unrecognized tokens resolve to DISCONNECTED: malformed upstream data must
// degrade to the safe "assume stale" interpretation, never crash the stream.
// Normalize is total and idempotent under re-application.
func Normalize(raw string) models.CanonicalStatus {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if token == "" {
		return models.StatusDisconnected
	}
	if status, ok := statusSynonyms[token]; ok {
		return status
	}
	return models.StatusDisconnected
}
