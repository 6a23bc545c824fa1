package service

import (
	"sort"

	"floorwatch/internal/models"
)

// MonitoringService projects the engine's internal state into the read model
// consumed by dashboards and the HTTP surface.
type MonitoringService struct {
	store     *StatusStore
	connState func() models.ConnectionState
}

func NewMonitoringService(store *StatusStore, connState func() models.ConnectionState) *MonitoringService {
	return &MonitoringService{store: store, connState: connState}
}

// Snapshot returns every known record, sorted by equipment id for stable
// output.
func (s *MonitoringService) Snapshot() []models.StatusView {
	all := s.store.GetAll()
	views := make([]models.StatusView, 0, len(all))
	for _, v := range all {
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}

// Equipment returns the view of one record.
func (s *MonitoringService) Equipment(id models.EquipmentID) (models.StatusView, bool) {
	return s.store.Get(id)
}

// Statistics returns per-status record counts.
func (s *MonitoringService) Statistics() models.Statistics {
	return s.store.Statistics()
}

// Connection returns the current stream connection state.
func (s *MonitoringService) Connection() models.ConnectionState {
	return s.connState()
}
