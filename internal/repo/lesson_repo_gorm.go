package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sentle-driving/internal/core/database"
	"sentle-driving/internal/domain"
	"sentle-driving/internal/feature/lesson"
	"sentle-driving/internal/feature/user"
	"sentle-driving/pkg/utils"
)

// LessonRepo persists lessons. Book serialises bookings that share an
// instructor or vehicle: on postgres and mysql by locking the instructor and
// vehicle rows with SELECT ... FOR UPDATE inside the booking transaction, on
// sqlite (no row locks, single process) with an in-process striped lock.
type LessonRepo struct {
	db    *gorm.DB
	local stripedLock
}

func NewLessonRepo(db *gorm.DB) *LessonRepo { return &LessonRepo{db: db} }

func (r *LessonRepo) rowLocks() bool {
	switch r.db.Dialector.Name() {
	case "postgres", "mysql":
		return true
	}
	return false
}

func (r *LessonRepo) Book(ctx context.Context, l *domain.Lesson) (*domain.LessonView, error) {
	if !r.rowLocks() {
		keys := []string{"instructor:" + l.InstructorID}
		if l.VehicleID != nil {
			keys = append(keys, "vehicle:"+*l.VehicleID)
		}
		unlock := r.local.Lock(keys...)
		defer unlock()
	}

	var view *domain.LessonView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 固定加锁顺序：先教练后车辆，避免死锁
		var instr user.InstructorModel
		if err := r.lockRow(tx, &instr, l.InstructorID); err != nil {
			return notFoundAs(err, "instructor")
		}
		var veh *lesson.VehicleModel
		if l.VehicleID != nil {
			veh = &lesson.VehicleModel{}
			if err := r.lockRow(tx, veh, *l.VehicleID); err != nil {
				return notFoundAs(err, "vehicle")
			}
			if !veh.IsActive {
				return domain.Invalid("vehicle is not active")
			}
		}
		var stu user.StudentModel
		if err := tx.Select("id", "full_name").First(&stu, "id = ?", l.StudentID).Error; err != nil {
			return notFoundAs(err, "student")
		}

		n, err := countOverlaps(tx, "instructor_id", l.InstructorID, l.StartsAt, l.EndsAt)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrInstructorConflict
		}
		if l.VehicleID != nil {
			n, err := countOverlaps(tx, "vehicle_id", *l.VehicleID, l.StartsAt, l.EndsAt)
			if err != nil {
				return err
			}
			if n > 0 {
				return domain.ErrVehicleConflict
			}
		}

		m := lesson.LessonModel{
			ID:           l.ID,
			StudentID:    l.StudentID,
			InstructorID: l.InstructorID,
			VehicleID:    l.VehicleID,
			StartsAt:     l.StartsAt.UTC(),
			EndsAt:       l.EndsAt.UTC(),
			Status:       string(domain.LessonScheduled),
			Notes:        l.Notes,
		}
		if m.ID == "" {
			m.ID = utils.NewID()
		}
		if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
			return translateBookingErr(err)
		}

		view = &domain.LessonView{
			Lesson:         m.ToDomain(),
			StudentName:    stu.FullName,
			InstructorName: instr.FullName,
		}
		if veh != nil {
			label := veh.ToDomain().Label()
			view.VehicleLabel = &label
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (r *LessonRepo) lockRow(tx *gorm.DB, dst any, id string) error {
	q := tx
	if r.rowLocks() {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q.First(dst, "id = ?", id).Error
}

// countOverlaps counts non-cancelled lessons on col = id intersecting
// [start, end). Lessons that merely touch do not overlap.
func countOverlaps(tx *gorm.DB, col, id string, start, end time.Time) (int64, error) {
	var n int64
	err := tx.Model(&lesson.LessonModel{}).
		Where(col+" = ?", id).
		Where("status <> ?", string(domain.LessonCancelled)).
		Where("starts_at < ? AND ends_at > ?", end.UTC(), start.UTC()).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("overlap scan on %s: %w", col, err)
	}
	return n, nil
}

func translateBookingErr(err error) error {
	if name, ok := database.ExclusionViolation(err); ok {
		switch name {
		case database.ConstraintInstructorOverlap:
			return domain.ErrInstructorConflict
		case database.ConstraintVehicleOverlap:
			return domain.ErrVehicleConflict
		}
	}
	return fmt.Errorf("insert lesson: %w", err)
}

func notFoundAs(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(what)
	}
	return err
}

type lessonRow struct {
	ID             string
	StudentID      string
	InstructorID   string
	VehicleID      *string
	StartsAt       time.Time
	EndsAt         time.Time
	Status         string
	Notes          *string
	StudentName    string
	InstructorName string
	VehicleMake    *string
	VehicleModel   *string
	VehicleReg     *string
}

func (row lessonRow) toView() domain.LessonView {
	v := domain.LessonView{
		Lesson: lesson.LessonModel{
			ID:           row.ID,
			StudentID:    row.StudentID,
			InstructorID: row.InstructorID,
			VehicleID:    row.VehicleID,
			StartsAt:     row.StartsAt,
			EndsAt:       row.EndsAt,
			Status:       row.Status,
			Notes:        row.Notes,
		}.ToDomain(),
		StudentName:    row.StudentName,
		InstructorName: row.InstructorName,
	}
	if row.VehicleMake != nil && row.VehicleModel != nil && row.VehicleReg != nil {
		label := domain.Vehicle{Make: *row.VehicleMake, Model: *row.VehicleModel, RegistrationNumber: *row.VehicleReg}.Label()
		v.VehicleLabel = &label
	}
	return v
}

// ListVisible returns the lessons in scope, most recent start first.
func (r *LessonRepo) ListVisible(ctx context.Context, scope domain.LessonScope, limit int) ([]domain.LessonView, error) {
	q := r.db.WithContext(ctx).
		Table("lessons AS l").
		Select(`l.id, l.student_id, l.instructor_id, l.vehicle_id, l.starts_at, l.ends_at, l.status, l.notes,
			s.full_name AS student_name, i.full_name AS instructor_name,
			v.make AS vehicle_make, v.model AS vehicle_model, v.registration_number AS vehicle_reg`).
		Joins("JOIN students s ON s.id = l.student_id").
		Joins("JOIN instructors i ON i.id = l.instructor_id").
		Joins("LEFT JOIN vehicles v ON v.id = l.vehicle_id")

	switch {
	case scope.All:
	case scope.Role == domain.RoleInstructor:
		q = q.Where("i.user_id = ?", scope.UserID)
	case scope.Role == domain.RoleStudent:
		q = q.Where("s.user_id = ?", scope.UserID)
	default:
		return []domain.LessonView{}, nil
	}

	var rows []lessonRow
	if err := q.Order("l.starts_at DESC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.LessonView, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toView())
	}
	return out, nil
}
