package dao

import (
	"context"

	"alavanca/alavanca/sources/psql/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeadDAO struct {
	DB *gorm.DB
}

func NewLeadDAO(db *gorm.DB) *LeadDAO {
	return &LeadDAO{DB: db}
}

// GetAllLeads returns every lead, newest attendance first, the order the
// dashboard table renders in.
func (dao *LeadDAO) GetAllLeads(ctx context.Context) ([]models.Lead, error) {
	var leads []models.Lead
	err := dao.DB.WithContext(ctx).Order("inicio_atendimento DESC").Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}

// GetLeadsForSync returns every lead ordered by creation, the order the
// mirror batch is assembled in.
func (dao *LeadDAO) GetLeadsForSync(ctx context.Context) ([]models.Lead, error) {
	var leads []models.Lead
	err := dao.DB.WithContext(ctx).Order("created_at DESC").Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}

type ExternalLeadDAO struct {
	DB *gorm.DB
}

func NewExternalLeadDAO(db *gorm.DB) *ExternalLeadDAO {
	return &ExternalLeadDAO{DB: db}
}

// UpsertLeads writes the whole batch, keyed on id so repeated syncs update
// rather than duplicate. A single failure aborts the batch.
func (dao *ExternalLeadDAO) UpsertLeads(ctx context.Context, leads []models.ExternalLead) error {
	if len(leads) == 0 {
		return nil
	}
	return dao.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&leads).Error
}
