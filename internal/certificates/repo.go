package certificates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/compliqo/compliqo-backend/pkg/db/models"
)

// Repository exposes certificate persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a certificate repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new certificate row. Unique-violation errors bubble up
// unchanged so the caller can resolve concurrent issuance races.
func (r *Repository) Create(ctx context.Context, cert *models.Certificate) (*models.Certificate, error) {
	if err := r.db.WithContext(ctx).Create(cert).Error; err != nil {
		return nil, err
	}
	return cert, nil
}

// FindByUserAndCourse returns the certificate for the (user, course) pair.
func (r *Repository) FindByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error) {
	var cert models.Certificate
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// FindByCertificateID performs the exact-match public lookup. The value is
// compared byte-for-byte; no normalization happens here or in the schema.
func (r *Repository) FindByCertificateID(ctx context.Context, certificateID string) (*models.Certificate, error) {
	var cert models.Certificate
	if err := r.db.WithContext(ctx).
		Where("certificate_id = ?", certificateID).
		First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// ListByUser returns all certificates owned by the user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error) {
	var rows []models.Certificate
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UserRepository reads learner identity for rendering and delivery.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a user repository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns the user row.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CourseRepository reads course metadata for denormalization at issuance.
type CourseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID returns the course row.
func (r *CourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// EnrollmentRepository reads enrollment state for the issuance precondition.
type EnrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository constructs an enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindByUserAndCourse returns the learner's enrollment in the course.
func (r *EnrollmentRepository) FindByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}
