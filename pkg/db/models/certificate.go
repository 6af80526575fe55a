package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UniqueUserCourseConstraint names the unique index that enforces one
// certificate per (user, course). Inserts that violate it are resolved to
// the existing record, never surfaced as errors.
const UniqueUserCourseConstraint = "uq_certificates_user_course"

// Certificate is the permanent attestation created once per completed
// (user, course) pair. Rows are never updated or deleted. CourseName and
// Framework are denormalized at issuance: a certificate is a point-in-time
// attestation and must not drift when the source course changes.
type Certificate struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CertificateID  string           `gorm:"column:certificate_id;not null;uniqueIndex:uq_certificates_certificate_id"`
	UserID         uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_certificates_user_course"`
	CourseID       uuid.UUID        `gorm:"column:course_id;type:uuid;not null;uniqueIndex:uq_certificates_user_course"`
	CourseName     string           `gorm:"column:course_name;not null"`
	Framework      string           `gorm:"column:framework;not null"`
	StudentName    string           `gorm:"column:student_name;not null"`
	CompletionDate time.Time        `gorm:"column:completion_date;not null"`
	IssuedAt       time.Time        `gorm:"column:issued_at;not null"`
	PercentScore   *decimal.Decimal `gorm:"column:percent_score;type:numeric(5,2)"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
