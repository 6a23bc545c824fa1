package service

import (
	"context"

	"floorwatch/internal/logger"
	"floorwatch/internal/models"
	"floorwatch/internal/repository"
)

// MappingProvider answers whether an equipment slot is linked to a backend
// record. Owned and mutated by an external editor; the engine only reads it.
type MappingProvider interface {
	IsComplete(id models.EquipmentID) bool
	GetAllMappings() map[models.EquipmentID]bool
}

// VisualRenderer receives idempotent visual state transitions. The engine
// never touches materials or lamp colors itself.
type VisualRenderer interface {
	ApplyStatus(id models.EquipmentID, status models.CanonicalStatus)
	ApplyDisabled(id models.EquipmentID)
	ApplyAllNeutral()
}

// Engine exposes the status synchronization lifecycle and its ingestion
// entry points (REST snapshot inside Start, WebSocket push, UDS batch/delta).
type Engine interface {
	Start(ctx context.Context) error
	Stop()
	IngestWebSocketMessage(raw []byte)
	InitializeFromUDS(equipments []UDSEquipment) UDSInitReport
	UpdateFromUDSDelta(id models.EquipmentID, changes UDSChanges) bool
	BatchUpdateFromUDS(updates []UDSUpdate) UDSBatchReport
}

// Monitoring exposes the read model: last-known statuses, per-status counts,
// and the stream connection state.
type Monitoring interface {
	Snapshot() []models.StatusView
	Equipment(id models.EquipmentID) (models.StatusView, bool)
	Statistics() models.Statistics
	Connection() models.ConnectionState
}

// Mappings is the editor surface for the link table. Load warms the cache
// from storage; Set persists a change and drives the engine's
// disabled/enabled transitions.
type Mappings interface {
	MappingProvider
	Load(ctx context.Context) error
	All() []models.EquipmentMapping
	Set(ctx context.Context, id models.EquipmentID, linked bool) error
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Engine
	Monitoring
	Mappings
}

// Deps carries everything NewService needs beyond the repository layer.
type Deps struct {
	Repos    *repository.Repository
	Renderer VisualRenderer
	Config   EngineConfig
	Log      *logger.Logger
}

// NewService wires the repository layer and collaborators into concrete
// services. The mapping service loads its cache from sqlite on first use; the
// engine reads mappings only through the MappingProvider boundary.
func NewService(d Deps) *Service {
	mappings := NewMappingService(d.Repos.Mappings, d.Log)
	engine := NewSyncEngine(d.Config, mappings, d.Renderer, d.Log)
	mappings.AttachGate(engine.Gate())
	return &Service{
		Engine:     engine,
		Monitoring: NewMonitoringService(engine.Store(), engine.Connection),
		Mappings:   mappings,
	}
}
