package controllers

import (
	"context"
	"errors"
	"testing"
	"time"

	"alavanca/alavanca/sources/psql/dao"
	"alavanca/alavanca/sources/psql/models"
	"alavanca/alavanca/utils/logging"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSyncTestEnv(t *testing.T) (*SyncController, *gorm.DB, *gorm.DB) {
	logging.InitLogger()
	internal, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open internal sqlite: %v", err)
	}
	if err := internal.AutoMigrate(&models.Lead{}); err != nil {
		t.Fatalf("failed to migrate internal: %v", err)
	}
	external, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open external sqlite: %v", err)
	}
	if err := external.AutoMigrate(&models.ExternalLead{}); err != nil {
		t.Fatalf("failed to migrate external: %v", err)
	}
	ctrl := NewSyncController(dao.NewLeadDAO(internal), dao.NewExternalLeadDAO(external))
	return ctrl, internal, external
}

func TestSyncLeadsEmptySet(t *testing.T) {
	ctrl, _, _ := setupSyncTestEnv(t)
	synced, err := ctrl.SyncLeads(context.Background())
	if err != nil {
		t.Fatalf("SyncLeads failed: %v", err)
	}
	if synced != 0 {
		t.Errorf("expected 0 synced, got %d", synced)
	}
}

func TestSyncLeadsCopiesAllRows(t *testing.T) {
	ctrl, internal, external := setupSyncTestEnv(t)
	for i := 0; i < 3; i++ {
		internal.Create(&models.Lead{
			ID:                uuid.New(),
			Email:             "lead@x.com",
			Nome:              strptr("Lead"),
			InicioAtendimento: time.Now(),
		})
	}

	synced, err := ctrl.SyncLeads(context.Background())
	if err != nil {
		t.Fatalf("SyncLeads failed: %v", err)
	}
	if synced != 3 {
		t.Errorf("expected 3 synced, got %d", synced)
	}
	var count int64
	external.Model(&models.ExternalLead{}).Count(&count)
	if count != 3 {
		t.Errorf("expected 3 external rows, got %d", count)
	}
}

func TestSyncLeadsUpsertIsIdempotentOnID(t *testing.T) {
	ctrl, internal, external := setupSyncTestEnv(t)
	id := uuid.New()
	internal.Create(&models.Lead{
		ID:                id,
		Email:             "antes@x.com",
		InicioAtendimento: time.Now(),
	})

	if _, err := ctrl.SyncLeads(context.Background()); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	internal.Model(&models.Lead{}).Where("id = ?", id).Update("email", "depois@x.com")
	if _, err := ctrl.SyncLeads(context.Background()); err != nil {
		t.Fatalf("second sync failed: %v", err)
	}

	var rows []models.ExternalLead
	external.Find(&rows)
	if len(rows) != 1 {
		t.Fatalf("repeated sync must not duplicate, got %d rows", len(rows))
	}
	if rows[0].Email != "depois@x.com" {
		t.Errorf("upsert must refresh fields, got %q", rows[0].Email)
	}
}

func TestSyncLeadsWithoutExternalTarget(t *testing.T) {
	logging.InitLogger()
	internal, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := internal.AutoMigrate(&models.Lead{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	ctrl := NewSyncController(dao.NewLeadDAO(internal), nil)

	_, err = ctrl.SyncLeads(context.Background())
	var syncErr *SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("expected SyncError, got %v", err)
	}
	if syncErr.Label != "Erro ao sincronizar leads" {
		t.Errorf("unexpected label %q", syncErr.Label)
	}
}

func TestMapLeadsForSyncAllowlist(t *testing.T) {
	now := time.Now()
	l := models.Lead{
		ID:                uuid.New(),
		Email:             "x@x.com",
		Nome:              strptr("X"),
		ServicoInteresse:  strptr("Automação"),
		ObjetivoProjeto:   strptr("objetivo"),
		ResumoDaConversa:  strptr("resumo"),
		InicioAtendimento: now,
		SessionID:         "session_1_a",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	mapped := MapLeadsForSync([]models.Lead{l})
	if len(mapped) != 1 {
		t.Fatalf("expected 1 mapped row, got %d", len(mapped))
	}
	m := mapped[0]
	if m.ID != l.ID || m.Email != l.Email || m.SessionID != l.SessionID {
		t.Errorf("identity fields must carry over unchanged")
	}
	if m.Nome == nil || *m.Nome != "X" || m.ResumoDaConversa == nil || *m.ResumoDaConversa != "resumo" {
		t.Errorf("allowlisted fields must carry over")
	}
}
