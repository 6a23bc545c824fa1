package models

import (
	"strings"
	"time"
)

// EquipmentID identifies a rendered equipment slot. It is stable for the
// application lifetime and independent of any backend database key.
type EquipmentID string

// CanonicalStatus is the closed status vocabulary every ingestion source is
// normalized into. Raw upstream tokens never flow past the normalizer.
type CanonicalStatus string

const (
	StatusRun        CanonicalStatus = "RUN"
	StatusIdle       CanonicalStatus = "IDLE"
	StatusStop       CanonicalStatus = "STOP"
	StatusSuddenStop CanonicalStatus = "SUDDEN_STOP"
	// StatusDisconnected means "no recent heartbeat". Distinct from StatusOff,
	// which is an explicitly reported quiescent state.
	StatusDisconnected CanonicalStatus = "DISCONNECTED"
	StatusOff          CanonicalStatus = "OFF"
)

// CanonicalStatuses lists every canonical value, in a fixed order used by
// statistics and tests.
var CanonicalStatuses = []CanonicalStatus{
	StatusRun,
	StatusIdle,
	StatusStop,
	StatusSuddenStop,
	StatusDisconnected,
	StatusOff,
}

// Valid reports whether s is one of the six canonical values.
func (s CanonicalStatus) Valid() bool {
	switch s {
	case StatusRun, StatusIdle, StatusStop, StatusSuddenStop, StatusDisconnected, StatusOff:
		return true
	}
	return false
}

func (s CanonicalStatus) String() string { return string(s) }

// ParseCanonical returns the canonical value matching s exactly (modulo case
// and surrounding whitespace), or false if s is not canonical.
func ParseCanonical(s string) (CanonicalStatus, bool) {
	c := CanonicalStatus(strings.ToUpper(strings.TrimSpace(s)))
	if c.Valid() {
		return c, true
	}
	return "", false
}

// StatusView is the read-model projection of one equipment record. Disabled
// overrides Status: while an equipment is not mapped to a backend record its
// last canonical status is meaningless to consumers.
type StatusView struct {
	ID            EquipmentID     `json:"frontend_id"`
	Status        CanonicalStatus `json:"status"`
	Disabled      bool            `json:"disabled"`
	LastAppliedAt time.Time       `json:"last_applied_at"`
}

// Statistics holds per-status record counts, plus the count of records
// currently held in the disabled (unmapped) state.
type Statistics struct {
	Run          int `json:"run"`
	Idle         int `json:"idle"`
	Stop         int `json:"stop"`
	SuddenStop   int `json:"sudden_stop"`
	Disconnected int `json:"disconnected"`
	Off          int `json:"off"`
	Disabled     int `json:"disabled"`
	Total        int `json:"total"`
}
