package repository

import (
	"context"
	"database/sql"
	"time"

	"floorwatch/internal/models"
	"floorwatch/internal/repository/db"
)

// MappingRepo persists the equipment link table.
type MappingRepo interface {
	Load(ctx context.Context) ([]models.EquipmentMapping, error)
	Upsert(ctx context.Context, id models.EquipmentID, linked bool, updatedAt time.Time) error
}

type Repository struct {
	Mappings MappingRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Mappings: NewMappingSQLite(db),
	}
}

// InitDB opens the sqlite file and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
