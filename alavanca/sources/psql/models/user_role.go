package models

import "github.com/google/uuid"

// UserRole rows are provisioned out of band; this service only checks for
// the presence of an admin entitlement.
type UserRole struct {
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	Role   string    `json:"role" gorm:"type:varchar(50);primaryKey"`
}
