package dao

import (
	"context"
	"errors"

	"alavanca/alavanca/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRoleDAO struct {
	DB *gorm.DB
}

func NewUserRoleDAO(db *gorm.DB) *UserRoleDAO {
	return &UserRoleDAO{DB: db}
}

// GetRole looks up a single role row for the user. Absence is nil, nil;
// callers decide how to treat lookup errors.
func (dao *UserRoleDAO) GetRole(ctx context.Context, userID uuid.UUID, role string) (*models.UserRole, error) {
	var row models.UserRole
	err := dao.DB.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
