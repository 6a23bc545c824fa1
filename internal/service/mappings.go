package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"floorwatch/internal/logger"
	"floorwatch/internal/models"
	"floorwatch/internal/repository"
)

// MappingService owns the in-memory view of the equipment link table and
// implements MappingProvider for the engine. Edits are persisted to sqlite
// first, then applied to the cache and pushed into the gate. The engine may
// observe a stale read for at most one flush cycle; that staleness window is
// accepted by design.
type MappingService struct {
	repo repository.MappingRepo
	log  *logger.Logger

	mu    sync.RWMutex
	table map[models.EquipmentID]models.EquipmentMapping

	gateMu sync.Mutex
	gate   *MappingGate
}

func NewMappingService(repo repository.MappingRepo, log *logger.Logger) *MappingService {
	return &MappingService{
		repo:  repo,
		log:   log,
		table: make(map[models.EquipmentID]models.EquipmentMapping),
	}
}

// AttachGate connects the engine's gate so mapping edits drive
// disabled/enabled transitions. Called once during wiring.
func (s *MappingService) AttachGate(gate *MappingGate) {
	s.gateMu.Lock()
	s.gate = gate
	s.gateMu.Unlock()
}

// Load populates the cache from the repository. Called once before the
// engine starts.
func (s *MappingService) Load(ctx context.Context) error {
	rows, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load mappings: %w", err)
	}
	s.mu.Lock()
	s.table = make(map[models.EquipmentID]models.EquipmentMapping, len(rows))
	for _, m := range rows {
		s.table[m.FrontendID] = m
	}
	s.mu.Unlock()

	if s.log != nil {
		s.log.Infow("mappings_loaded", "count", len(rows))
	}
	return nil
}

// IsComplete reports whether id is linked to a backend record.
func (s *MappingService) IsComplete(id models.EquipmentID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.table[id]
	return ok && m.Linked
}

// GetAllMappings returns the id -> linked projection of the table.
func (s *MappingService) GetAllMappings() map[models.EquipmentID]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[models.EquipmentID]bool, len(s.table))
	for id, m := range s.table {
		out[id] = m.Linked
	}
	return out
}

// All returns every mapping row, sorted by id.
func (s *MappingService) All() []models.EquipmentMapping {
	s.mu.RLock()
	rows := make([]models.EquipmentMapping, 0, len(s.table))
	for _, m := range s.table {
		rows = append(rows, m)
	}
	s.mu.RUnlock()
	sort.Slice(rows, func(i, j int) bool { return rows[i].FrontendID < rows[j].FrontendID })
	return rows
}

// Set links or unlinks an equipment. Persistence first: if the repository
// write fails the cache and the gate are left untouched.
func (s *MappingService) Set(ctx context.Context, id models.EquipmentID, linked bool) error {
	if id == "" {
		return fmt.Errorf("set mapping: empty frontend_id")
	}
	now := time.Now().UTC()
	if err := s.repo.Upsert(ctx, id, linked, now); err != nil {
		return fmt.Errorf("persist mapping %q: %w", id, err)
	}

	s.mu.Lock()
	prev, existed := s.table[id]
	s.table[id] = models.EquipmentMapping{FrontendID: id, Linked: linked, UpdatedAt: now}
	s.mu.Unlock()

	if existed && prev.Linked == linked {
		return nil
	}

	s.gateMu.Lock()
	gate := s.gate
	s.gateMu.Unlock()
	if gate != nil {
		if linked {
			gate.OnMappingEstablished(id)
		} else {
			gate.OnMappingRemoved(id)
		}
	}
	return nil
}
