package service

import (
	"testing"

	"floorwatch/internal/models"
)

func TestStatusStore_ApplyIdempotence(t *testing.T) {
	t.Parallel()

	store := NewStatusStore()
	id := models.EquipmentID("EQ-01-01")

	if !store.Apply(id, models.StatusRun) {
		t.Fatalf("first apply must report a change")
	}
	if store.Apply(id, models.StatusRun) {
		t.Fatalf("re-applying the same status must not report a change")
	}
	if !store.Apply(id, models.StatusStop) {
		t.Fatalf("applying a different status must report a change")
	}

	view, ok := store.Get(id)
	if !ok {
		t.Fatalf("record must exist after apply")
	}
	if view.Status != models.StatusStop {
		t.Fatalf("status: want STOP, got %v", view.Status)
	}
	if view.LastAppliedAt.IsZero() {
		t.Fatalf("LastAppliedAt must be set")
	}
}

func TestStatusStore_DisabledMarker(t *testing.T) {
	t.Parallel()

	store := NewStatusStore()
	id := models.EquipmentID("EQ-02-01")

	if !store.MarkDisabled(id) {
		t.Fatalf("first MarkDisabled must report a change")
	}
	if store.MarkDisabled(id) {
		t.Fatalf("MarkDisabled must be idempotent")
	}
	if !store.Disabled(id) {
		t.Fatalf("record must be disabled")
	}

	// Clearing resets to OFF, never to a leftover status.
	if !store.ClearDisabled(id) {
		t.Fatalf("ClearDisabled must report a change")
	}
	view, _ := store.Get(id)
	if view.Disabled {
		t.Fatalf("record must not be disabled after clear")
	}
	if view.Status != models.StatusOff {
		t.Fatalf("cleared record: want OFF, got %v", view.Status)
	}
	if store.ClearDisabled(id) {
		t.Fatalf("ClearDisabled on an OFF record must be a no-op")
	}
}

func TestStatusStore_ApplyAfterDisabledAlwaysChanges(t *testing.T) {
	t.Parallel()

	store := NewStatusStore()
	id := models.EquipmentID("EQ-02-02")

	store.Apply(id, models.StatusRun)
	store.MarkDisabled(id)

	// The stored canonical value is still RUN underneath the marker, but the
	// visible state was DISABLED, so re-applying RUN is a real transition.
	if !store.Apply(id, models.StatusRun) {
		t.Fatalf("apply over a disabled record must report a change")
	}
	if store.Disabled(id) {
		t.Fatalf("apply must clear the disabled marker")
	}
}

func TestStatusStore_Statistics(t *testing.T) {
	t.Parallel()

	store := NewStatusStore()
	store.Apply("a", models.StatusRun)
	store.Apply("b", models.StatusRun)
	store.Apply("c", models.StatusIdle)
	store.Apply("d", models.StatusSuddenStop)
	store.Apply("e", models.StatusDisconnected)
	store.Apply("f", models.StatusOff)
	store.MarkDisabled("g")

	stats := store.Statistics()
	if stats.Run != 2 || stats.Idle != 1 || stats.Stop != 0 ||
		stats.SuddenStop != 1 || stats.Disconnected != 1 || stats.Off != 1 {
		t.Fatalf("unexpected per-status counts: %+v", stats)
	}
	if stats.Disabled != 1 {
		t.Fatalf("disabled count: want 1, got %d", stats.Disabled)
	}
	if stats.Total != 7 {
		t.Fatalf("total: want 7, got %d", stats.Total)
	}
}

func TestStatusStore_GetAllAndReset(t *testing.T) {
	t.Parallel()

	store := NewStatusStore()
	store.Apply("a", models.StatusRun)
	store.MarkDisabled("b")

	all := store.GetAll()
	if len(all) != 2 {
		t.Fatalf("GetAll size: want 2, got %d", len(all))
	}
	if all["a"].Status != models.StatusRun || all["a"].Disabled {
		t.Fatalf("unexpected view for a: %+v", all["a"])
	}
	if !all["b"].Disabled {
		t.Fatalf("b must be disabled: %+v", all["b"])
	}

	// Mutating the snapshot must not touch the store.
	all["a"] = models.StatusView{}
	if view, _ := store.Get("a"); view.Status != models.StatusRun {
		t.Fatalf("snapshot mutation leaked into store")
	}

	store.Reset()
	if len(store.GetAll()) != 0 {
		t.Fatalf("Reset must drop all records")
	}
}
