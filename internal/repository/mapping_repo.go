package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"floorwatch/internal/models"
)

type MappingSQLite struct {
	db *sql.DB
}

func NewMappingSQLite(db *sql.DB) *MappingSQLite {
	return &MappingSQLite{db: db}
}

const (
	upsertMappingSQL = `
		INSERT INTO equipment_mappings (frontend_id, linked, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(frontend_id) DO UPDATE SET
			linked=excluded.linked,
			updated_at=excluded.updated_at
	`

	selectMappingsSQL = `
		SELECT frontend_id, linked, updated_at
		FROM equipment_mappings
		ORDER BY frontend_id
	`
)

// Load fetches every mapping row.
func (r *MappingSQLite) Load(ctx context.Context) ([]models.EquipmentMapping, error) {
	rows, err := r.db.QueryContext(ctx, selectMappingsSQL)
	if err != nil {
		return nil, fmt.Errorf("query mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.EquipmentMapping
	for rows.Next() {
		var m models.EquipmentMapping
		if err := rows.Scan(&m.FrontendID, &m.Linked, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan mapping row: %w", err)
		}
		m.UpdatedAt = m.UpdatedAt.UTC()
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mapping rows: %w", err)
	}
	return out, nil
}

// Upsert inserts or updates one mapping row. updatedAt is persisted as UTC;
// a zero value is replaced with the current time.
func (r *MappingSQLite) Upsert(ctx context.Context, id models.EquipmentID, linked bool, updatedAt time.Time) error {
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, upsertMappingSQL, string(id), linked, updatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert mapping %q: %w", id, err)
	}
	return nil
}
