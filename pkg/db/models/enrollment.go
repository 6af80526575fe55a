package models

import (
	"time"

	"github.com/compliqo/compliqo-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Enrollment records a learner's progress through a course. CompletedAt
// non-null is the external fact that gates certificate issuance.
type Enrollment struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID              `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_enrollments_user_course"`
	CourseID     uuid.UUID              `gorm:"column:course_id;type:uuid;not null;uniqueIndex:idx_enrollments_user_course"`
	Status       enums.EnrollmentStatus `gorm:"column:status;not null;default:'active'"`
	CompletedAt  *time.Time             `gorm:"column:completed_at"`
	PercentScore *decimal.Decimal       `gorm:"column:percent_score;type:numeric(5,2)"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// IsCompleted reports whether the enrollment satisfies the issuance
// precondition.
func (e Enrollment) IsCompleted() bool {
	return e.Status == enums.EnrollmentStatusCompleted && e.CompletedAt != nil
}
