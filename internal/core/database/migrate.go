package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Names of the postgres exclusion constraints that forbid double booking.
const (
	ConstraintInstructorOverlap = "lessons_no_overlap_instructor"
	ConstraintVehicleOverlap    = "lessons_no_overlap_vehicle"
)

var postgresLessonConstraints = []struct{ name, ddl string }{
	{"lessons_time_order", `CHECK (ends_at > starts_at)`},
	{ConstraintInstructorOverlap, `EXCLUDE USING gist (
		instructor_id WITH =,
		tstzrange(starts_at, ends_at, '[)') WITH &&
	) WHERE (status <> 'cancelled')`},
	{ConstraintVehicleOverlap, `EXCLUDE USING gist (
		vehicle_id WITH =,
		tstzrange(starts_at, ends_at, '[)') WITH &&
	) WHERE (vehicle_id IS NOT NULL AND status <> 'cancelled')`},
}

// Migrate creates the tables for models and, on postgres, installs the
// lesson range-exclusion constraints.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("btree_gist: %w", err)
	}
	for _, c := range postgresLessonConstraints {
		stmt := fmt.Sprintf(`DO $$ BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
		ALTER TABLE lessons ADD CONSTRAINT %s %s;
	END IF;
END $$`, c.name, c.name, c.ddl)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("constraint %s: %w", c.name, err)
		}
	}
	return nil
}
