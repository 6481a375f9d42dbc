package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ormdemo/internal/models"
)

// Migrate creates the demo tables that do not exist yet, parents first so
// the foreign keys have something to reference. Existing tables are left
// untouched, which makes it safe to call on every start.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()
	tables := models.All()

	for i, table := range tables {
		name := table.TableName()
		if migrator.HasTable(name) {
			log.Debug("Table already exists", zap.String("table", name))
			continue
		}

		log.Info("Running migration",
			zap.Int("step", i+1),
			zap.Int("total", len(tables)),
			zap.String("table", name),
		)
		if err := migrator.CreateTable(table); err != nil {
			return fmt.Errorf("%w: migration %d (%s) failed: %w", ErrSchema, i+1, name, err)
		}
	}

	return nil
}
