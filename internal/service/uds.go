package service

import "time"

// Wire types for the Unified Data Store integration surface. UDS is a
// batch/delta feed parallel to the WebSocket stream, carrying the same raw
// status vocabulary.

// UDSEquipment is one entry of a UDS bulk initialization payload.
type UDSEquipment struct {
	FrontendID string `json:"frontend_id"`
	Status     string `json:"status"`
}

// UDSChanges describes a partial update for one equipment. A nil Status means
// the delta carried no status change and is skipped.
type UDSChanges struct {
	Status *string `json:"status,omitempty"`
}

// UDSUpdate pairs an equipment with its partial changes for batch calls.
type UDSUpdate struct {
	FrontendID string     `json:"frontend_id"`
	Changes    UDSChanges `json:"changes"`
}

// UDSInitReport summarizes a bulk initialization pass.
type UDSInitReport struct {
	ReportID string        `json:"report_id"`
	Success  bool          `json:"success"`
	Updated  int           `json:"updated"`
	Failed   int           `json:"failed"`
	Elapsed  time.Duration `json:"elapsed"`
	Errors   []string      `json:"errors,omitempty"`
}

// UDSBatchReport summarizes a synchronous batch update pass.
type UDSBatchReport struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
