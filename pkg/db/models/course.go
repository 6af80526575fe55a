package models

import (
	"time"

	"github.com/google/uuid"
)

// Course is a compliance-training course. Title and framework are copied
// onto certificates at issuance time; later renames never touch issued
// certificates.
type Course struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Framework string    `gorm:"column:framework;not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
