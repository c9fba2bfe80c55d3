package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead rows are written by the external automation pipeline; this service
// only reads them, except for the mirrored copy kept by the sync endpoint.
type Lead struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email             string    `json:"email" gorm:"type:varchar(255);not null"`
	Nome              *string   `json:"nome" gorm:"type:varchar(255)"`
	ServicoInteresse  *string   `json:"servico_interesse" gorm:"type:varchar(255)"`
	ObjetivoProjeto   *string   `json:"objetivo_projeto" gorm:"type:text"`
	ResumoDaConversa  *string   `json:"resumo_da_conversa" gorm:"type:text"`
	InicioAtendimento time.Time `json:"inicio_atendimento" gorm:"not null;index"`
	SessionID         string    `json:"session_id" gorm:"type:varchar(255)"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ExternalLead is the allowlisted shape mirrored into the external project.
// The id is stable across both copies and serves as the upsert conflict key.
type ExternalLead struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email             string    `json:"email" gorm:"type:varchar(255)"`
	Nome              *string   `json:"nome" gorm:"type:varchar(255)"`
	ServicoInteresse  *string   `json:"servico_interesse" gorm:"type:varchar(255)"`
	ObjetivoProjeto   *string   `json:"objetivo_projeto" gorm:"type:text"`
	ResumoDaConversa  *string   `json:"resumo_da_conversa" gorm:"type:text"`
	InicioAtendimento time.Time `json:"inicio_atendimento"`
	SessionID         string    `json:"session_id" gorm:"type:varchar(255)"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (ExternalLead) TableName() string {
	return "chatbot_alavanca_ai"
}
