package types

import (
	"time"

	"alavanca/alavanca/sources/psql/models"

	"github.com/google/uuid"
)

type LeadKPIs struct {
	TotalLeads     int    `json:"total_leads"`
	LeadsToday     int    `json:"leads_today"`
	TopService     string `json:"top_service"`
	LastAttendance string `json:"last_attendance"`
}

// DayPoint is one entry of the 30-day series; Date is the "dd/MM" label.
type DayPoint struct {
	Date  string `json:"date"`
	Leads int    `json:"leads"`
}

type ChartPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type LeadsSummary struct {
	KPIs              LeadKPIs     `json:"kpis"`
	LeadsPerDay       []DayPoint   `json:"leads_per_day"`
	LeadsPerService   []ChartPoint `json:"leads_per_service"`
	LeadsPerObjective []ChartPoint `json:"leads_per_objective"`
	Services          []string     `json:"services"`
}

type ConversationGroup struct {
	SessionID     string               `json:"session_id"`
	UserID        uuid.UUID            `json:"user_id"`
	Messages      []models.ChatMessage `json:"messages"`
	LastMessageAt time.Time            `json:"last_message_at"`
}

type SyncResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Synced  int    `json:"synced"`
}

type SyncErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}
