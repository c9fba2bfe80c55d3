package controllers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"alavanca/alavanca/sources/psql/dao"
	"alavanca/alavanca/sources/psql/models"
	"alavanca/alavanca/sources/storage"
	"alavanca/alavanca/utils/logging"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportController struct {
	leadDAO *dao.LeadDAO
	store   *storage.Client
}

// store may be nil; snapshots are skipped when object storage is not
// configured.
func NewExportController(leadDAO *dao.LeadDAO, store *storage.Client) *ExportController {
	return &ExportController{leadDAO: leadDAO, store: store}
}

// ExportLeads builds the xlsx workbook for every lead and, when storage is
// available, archives a snapshot copy. The snapshot is best-effort.
func (c *ExportController) ExportLeads(ctx context.Context) ([]byte, string, error) {
	leads, err := c.leadDAO.GetAllLeads(ctx)
	if err != nil {
		return nil, "", err
	}
	f, err := BuildLeadsWorkbook(leads)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("leads_%s.xlsx", time.Now().Format("20060102_150405"))

	if c.store != nil {
		if _, err := c.store.UploadExport(ctx, name, buf.Bytes(), xlsxContentType); err != nil {
			logging.ErrorLogger.Error("failed to archive export snapshot",
				zap.String("name", name), zap.Error(err))
		}
	}
	return buf.Bytes(), name, nil
}

func BuildLeadsWorkbook(leads []models.Lead) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"Nome", "Email", "Serviço", "Objetivo", "Resumo", "Início do Atendimento", "Sessão"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, lead := range leads {
		values := []interface{}{
			deref(lead.Nome),
			lead.Email,
			deref(lead.ServicoInteresse),
			deref(lead.ObjetivoProjeto),
			deref(lead.ResumoDaConversa),
			lead.InicioAtendimento.Format("02/01/2006 15:04"),
			lead.SessionID,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
