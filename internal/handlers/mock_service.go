package handlers

import (
	"context"

	"floorwatch/internal/models"
	"floorwatch/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockMonitoring struct {
	views []models.StatusView
	stats models.Statistics
	conn  models.ConnectionState
}

func (m *mockMonitoring) Snapshot() []models.StatusView { return m.views }

func (m *mockMonitoring) Equipment(id models.EquipmentID) (models.StatusView, bool) {
	for _, v := range m.views {
		if v.ID == id {
			return v, true
		}
	}
	return models.StatusView{}, false
}

func (m *mockMonitoring) Statistics() models.Statistics      { return m.stats }
func (m *mockMonitoring) Connection() models.ConnectionState { return m.conn }

type mockMappings struct {
	rows    []models.EquipmentMapping
	setErr  error
	loadErr error

	lastSetID     models.EquipmentID
	lastSetLinked bool
	setCalls      int
}

func (m *mockMappings) IsComplete(id models.EquipmentID) bool {
	for _, r := range m.rows {
		if r.FrontendID == id {
			return r.Linked
		}
	}
	return false
}

func (m *mockMappings) GetAllMappings() map[models.EquipmentID]bool {
	out := make(map[models.EquipmentID]bool, len(m.rows))
	for _, r := range m.rows {
		out[r.FrontendID] = r.Linked
	}
	return out
}

func (m *mockMappings) Load(ctx context.Context) error { return m.loadErr }
func (m *mockMappings) All() []models.EquipmentMapping { return m.rows }

func (m *mockMappings) Set(ctx context.Context, id models.EquipmentID, linked bool) error {
	m.setCalls++
	m.lastSetID = id
	m.lastSetLinked = linked
	return m.setErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
