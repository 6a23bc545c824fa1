package models

import "time"

// EquipmentMapping is one row of the administrator-maintained link table
// between a frontend equipment slot and a backend equipment record. Status
// updates for an unlinked slot are not meaningful and must not be applied.
type EquipmentMapping struct {
	FrontendID EquipmentID `json:"frontend_id"`
	Linked     bool        `json:"linked"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
