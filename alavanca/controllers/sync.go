package controllers

import (
	"context"
	"errors"

	"alavanca/alavanca/sources/psql/dao"
	"alavanca/alavanca/sources/psql/models"
)

// SyncError keeps the user-facing label separate from the underlying
// platform message so handlers can build {error, details} responses.
type SyncError struct {
	Label string
	Err   error
}

func (e *SyncError) Error() string {
	return e.Label + ": " + e.Err.Error()
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

type SyncController struct {
	leadDAO     *dao.LeadDAO
	externalDAO *dao.ExternalLeadDAO
}

func NewSyncController(leadDAO *dao.LeadDAO, externalDAO *dao.ExternalLeadDAO) *SyncController {
	return &SyncController{leadDAO: leadDAO, externalDAO: externalDAO}
}

// SyncLeads is the one-shot mirror: fetch everything, map through the field
// allowlist and upsert into the external table keyed by id. Any failure
// aborts the whole batch. Internal deletions are never propagated; the
// external copy is a one-way append-preserving mirror.
func (c *SyncController) SyncLeads(ctx context.Context) (int, error) {
	if c.externalDAO == nil {
		return 0, &SyncError{Label: "Erro ao sincronizar leads", Err: errors.New("banco externo não configurado")}
	}
	leads, err := c.leadDAO.GetLeadsForSync(ctx)
	if err != nil {
		return 0, &SyncError{Label: "Erro ao buscar leads", Err: err}
	}
	if len(leads) == 0 {
		return 0, nil
	}
	mapped := MapLeadsForSync(leads)
	if err := c.externalDAO.UpsertLeads(ctx, mapped); err != nil {
		return 0, &SyncError{Label: "Erro ao sincronizar leads", Err: err}
	}
	return len(mapped), nil
}

// MapLeadsForSync applies the explicit field allowlist; nothing outside it
// ever reaches the external project.
func MapLeadsForSync(leads []models.Lead) []models.ExternalLead {
	mapped := make([]models.ExternalLead, 0, len(leads))
	for _, lead := range leads {
		mapped = append(mapped, models.ExternalLead{
			ID:                lead.ID,
			Email:             lead.Email,
			Nome:              lead.Nome,
			ServicoInteresse:  lead.ServicoInteresse,
			ObjetivoProjeto:   lead.ObjetivoProjeto,
			ResumoDaConversa:  lead.ResumoDaConversa,
			InicioAtendimento: lead.InicioAtendimento,
			SessionID:         lead.SessionID,
			CreatedAt:         lead.CreatedAt,
			UpdatedAt:         lead.UpdatedAt,
		})
	}
	return mapped
}
