package psql

import (
	"context"
	"fmt"

	"alavanca/alavanca/config"
	"alavanca/alavanca/sources/psql/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Database struct {
	DB *gorm.DB
}

// leadsNotifyDDL emits one NOTIFY per row change on leads so the admin
// dashboard feed sees inserts from the external pipeline without polling.
// Statements run one at a time; the pgx extended protocol rejects batches.
var leadsNotifyDDL = []string{
	`CREATE OR REPLACE FUNCTION leads_notify() RETURNS trigger AS $$
DECLARE
  payload json;
BEGIN
  IF TG_OP = 'DELETE' THEN
    payload := json_build_object('action', TG_OP, 'lead', row_to_json(OLD));
  ELSE
    payload := json_build_object('action', TG_OP, 'lead', row_to_json(NEW));
  END IF;
  PERFORM pg_notify('leads_changed', payload::text);
  RETURN NULL;
END;
$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS leads_notify_trigger ON leads`,
	`CREATE TRIGGER leads_notify_trigger
AFTER INSERT OR UPDATE OR DELETE ON leads
FOR EACH ROW EXECUTE FUNCTION leads_notify()`,
}

func NewDatabase(ctx context.Context, cfg config.Config) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.ChatMessage{},
		&models.Lead{},
		&models.UserRole{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to auto-migrate: %w", err)
	}

	for _, stmt := range leadsNotifyDDL {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("failed to install leads notify trigger: %w", err)
		}
	}

	return &Database{DB: db}, nil
}

// NewExternalDatabase opens the mirror project that receives synced leads.
func NewExternalDatabase(ctx context.Context, dsn string) (*Database, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).AutoMigrate(&models.ExternalLead{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate external leads: %w", err)
	}
	return &Database{DB: db}, nil
}

func (db *Database) Close() {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return
	}
	sqlDB.Close()
}
