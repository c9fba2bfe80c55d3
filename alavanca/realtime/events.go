package realtime

import "alavanca/alavanca/sources/psql/models"

// Actions mirror the postgres TG_OP values carried in the notify payload.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

type LeadEvent struct {
	Action string      `json:"action"`
	Lead   models.Lead `json:"lead"`
}

// ApplyLeadEvent converges an in-memory lead list with one change event:
// INSERT prepends, UPDATE replaces the row with the matching id, DELETE
// removes it. Unknown actions leave the list untouched.
func ApplyLeadEvent(leads []models.Lead, ev LeadEvent) []models.Lead {
	switch ev.Action {
	case ActionInsert:
		out := make([]models.Lead, 0, len(leads)+1)
		out = append(out, ev.Lead)
		return append(out, leads...)
	case ActionUpdate:
		out := make([]models.Lead, len(leads))
		for i, lead := range leads {
			if lead.ID == ev.Lead.ID {
				out[i] = ev.Lead
			} else {
				out[i] = lead
			}
		}
		return out
	case ActionDelete:
		out := make([]models.Lead, 0, len(leads))
		for _, lead := range leads {
			if lead.ID != ev.Lead.ID {
				out = append(out, lead)
			}
		}
		return out
	}
	return leads
}
