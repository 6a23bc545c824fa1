package service

import (
	"testing"

	"floorwatch/internal/models"
)

func TestMappingGate_UnmappedInvariant(t *testing.T) {
	t.Parallel()

	id := models.EquipmentID("EQ-09-01")
	mapping := newMappingStub(map[models.EquipmentID]bool{id: false})
	store := NewStatusStore()
	renderer := &renderRecorder{}
	gate := NewMappingGate(mapping, store, renderer, nil)

	// Any sequence of statuses for an unmapped id must be rejected and the
	// record pinned to the disabled marker.
	for _, status := range []models.CanonicalStatus{
		models.StatusRun, models.StatusIdle, models.StatusSuddenStop, models.StatusRun,
	} {
		if _, ok := gate.Admit(id, status); ok {
			t.Fatalf("Admit(%v) must reject an unmapped id", status)
		}
		view, exists := store.Get(id)
		if !exists || !view.Disabled {
			t.Fatalf("store view after %v: want disabled, got %+v", status, view)
		}
	}

	// The disabled visual transition fires once, not per rejected message.
	if n := renderer.disabledCount(id); n != 1 {
		t.Fatalf("ApplyDisabled calls: want 1, got %d", n)
	}
}

func TestMappingGate_AdmitMapped(t *testing.T) {
	t.Parallel()

	id := models.EquipmentID("EQ-09-02")
	mapping := newMappingStub(map[models.EquipmentID]bool{id: true})
	gate := NewMappingGate(mapping, NewStatusStore(), &renderRecorder{}, nil)

	admitted, ok := gate.Admit(id, models.StatusRun)
	if !ok || admitted != models.StatusRun {
		t.Fatalf("Admit on mapped id: want (RUN, true), got (%v, %v)", admitted, ok)
	}
}

// A unit arriving mid-stream whose last buffered message was RUN must not
// snap to RUN the instant it becomes mapped: it starts neutral at OFF and
// waits for a fresh signal.
func TestMappingGate_MappingTransitionResetsToOff(t *testing.T) {
	t.Parallel()

	id := models.EquipmentID("EQ-09-03")
	mapping := newMappingStub(map[models.EquipmentID]bool{id: false})
	store := NewStatusStore()
	renderer := &renderRecorder{}
	gate := NewMappingGate(mapping, store, renderer, nil)

	// RUN arrives while unmapped: ignored, record disabled.
	if _, ok := gate.Admit(id, models.StatusRun); ok {
		t.Fatalf("RUN must be rejected while unmapped")
	}

	// Mapping is established externally.
	mapping.set(id, true)
	gate.OnMappingEstablished(id)

	view, _ := store.Get(id)
	if view.Disabled {
		t.Fatalf("record must not stay disabled after mapping")
	}
	if view.Status != models.StatusOff {
		t.Fatalf("after mapping: want OFF, got %v", view.Status)
	}
	calls := renderer.statusCalls(id)
	if len(calls) != 1 || calls[0] != models.StatusOff {
		t.Fatalf("renderer must see exactly one OFF transition, got %v", calls)
	}

	// A fresh signal now flows normally.
	if admitted, ok := gate.Admit(id, models.StatusRun); !ok || admitted != models.StatusRun {
		t.Fatalf("fresh RUN must be admitted after mapping")
	}
}

func TestMappingGate_OnMappingRemoved(t *testing.T) {
	t.Parallel()

	id := models.EquipmentID("EQ-09-04")
	mapping := newMappingStub(map[models.EquipmentID]bool{id: true})
	store := NewStatusStore()
	renderer := &renderRecorder{}
	gate := NewMappingGate(mapping, store, renderer, nil)

	if _, ok := gate.Admit(id, models.StatusRun); !ok {
		t.Fatalf("mapped id must be admitted")
	}
	store.Apply(id, models.StatusRun)

	mapping.set(id, false)
	gate.OnMappingRemoved(id)

	if !store.Disabled(id) {
		t.Fatalf("record must be disabled after unlink")
	}
	if n := renderer.disabledCount(id); n != 1 {
		t.Fatalf("ApplyDisabled calls: want 1, got %d", n)
	}
}

func TestMappingGate_DisableAllUnmapped(t *testing.T) {
	t.Parallel()

	mapping := newMappingStub(map[models.EquipmentID]bool{
		"EQ-10-01": true,
		"EQ-10-02": false,
		"EQ-10-03": false,
	})
	store := NewStatusStore()
	renderer := &renderRecorder{}
	gate := NewMappingGate(mapping, store, renderer, nil)

	gate.DisableAllUnmapped()

	if store.Disabled("EQ-10-01") {
		t.Fatalf("mapped id must not be disabled")
	}
	for _, id := range []models.EquipmentID{"EQ-10-02", "EQ-10-03"} {
		if !store.Disabled(id) {
			t.Fatalf("%s must be disabled", id)
		}
		if renderer.disabledCount(id) != 1 {
			t.Fatalf("%s: ApplyDisabled must fire once", id)
		}
	}
}
