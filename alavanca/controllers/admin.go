package controllers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"alavanca/alavanca/sources/psql/dao"
	"alavanca/alavanca/sources/psql/models"
	"alavanca/alavanca/types"
	"alavanca/alavanca/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	AdminRole       = "admin"
	serviceUnknown  = "Não informado"
	objectiveMaxLen = 30
	chartDays       = 30
	topServices     = 6
	topObjectives   = 5
)

// Entitlement is the result of the admin capability check. The zero value
// is unauthorized, which is also what every failure path returns.
type Entitlement struct {
	Authorized bool
	Role       string
}

type AdminController struct {
	roleDAO *dao.UserRoleDAO
	leadDAO *dao.LeadDAO
	chatDAO *dao.ChatMessageDAO
}

func NewAdminController(roleDAO *dao.UserRoleDAO, leadDAO *dao.LeadDAO, chatDAO *dao.ChatMessageDAO) *AdminController {
	return &AdminController{roleDAO: roleDAO, leadDAO: leadDAO, chatDAO: chatDAO}
}

// CheckEntitlement fails closed: a role-query error denies access the same
// way a missing role row does.
func (c *AdminController) CheckEntitlement(ctx context.Context, userID uuid.UUID) Entitlement {
	row, err := c.roleDAO.GetRole(ctx, userID, AdminRole)
	if err != nil {
		logging.ErrorLogger.Error("admin role lookup failed",
			zap.String("user_id", userID.String()), zap.Error(err))
		return Entitlement{}
	}
	if row == nil {
		return Entitlement{}
	}
	return Entitlement{Authorized: true, Role: row.Role}
}

func (c *AdminController) Leads(ctx context.Context, search, service string) ([]models.Lead, error) {
	leads, err := c.leadDAO.GetAllLeads(ctx)
	if err != nil {
		return nil, err
	}
	return FilterLeads(leads, search, service), nil
}

func (c *AdminController) Summary(ctx context.Context) (*types.LeadsSummary, error) {
	leads, err := c.leadDAO.GetAllLeads(ctx)
	if err != nil {
		return nil, err
	}
	return BuildLeadsSummary(leads, time.Now()), nil
}

// FilterLeads intersects a case-insensitive substring match on nome or
// email with an exact service match. "all" or empty bypasses the service
// predicate.
func FilterLeads(leads []models.Lead, search, service string) []models.Lead {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Lead, 0, len(leads))
	for _, lead := range leads {
		if term != "" {
			nome := ""
			if lead.Nome != nil {
				nome = *lead.Nome
			}
			if !strings.Contains(strings.ToLower(nome), term) &&
				!strings.Contains(strings.ToLower(lead.Email), term) {
				continue
			}
		}
		if service != "" && service != "all" {
			if lead.ServicoInteresse == nil || *lead.ServicoInteresse != service {
				continue
			}
		}
		out = append(out, lead)
	}
	return out
}

// BuildLeadsSummary derives KPIs, chart series and the service filter list
// from the full lead set. now is injected so the "today" and 30-day windows
// are testable.
func BuildLeadsSummary(leads []models.Lead, now time.Time) *types.LeadsSummary {
	summary := &types.LeadsSummary{
		KPIs: types.LeadKPIs{
			TotalLeads:     len(leads),
			TopService:     "N/A",
			LastAttendance: "N/A",
		},
		Services: serviceList(leads),
	}

	today := startOfDay(now)
	var latest *models.Lead
	for i := range leads {
		lead := &leads[i]
		if startOfDay(lead.InicioAtendimento).Equal(today) {
			summary.KPIs.LeadsToday++
		}
		if latest == nil || lead.InicioAtendimento.After(latest.InicioAtendimento) {
			latest = lead
		}
	}
	if latest != nil {
		summary.KPIs.LastAttendance = fmt.Sprintf("%s às %s",
			latest.InicioAtendimento.Format("02/01"),
			latest.InicioAtendimento.Format("15:04"))
	}

	if top := topNonNullService(leads); top != "" {
		summary.KPIs.TopService = top
	}

	summary.LeadsPerDay = leadsPerDay(leads, now)
	summary.LeadsPerService = rankBy(leads, topServices, func(l models.Lead) string {
		if l.ServicoInteresse != nil && *l.ServicoInteresse != "" {
			return *l.ServicoInteresse
		}
		return serviceUnknown
	})
	summary.LeadsPerObjective = rankBy(leads, topObjectives, func(l models.Lead) string {
		if l.ObjetivoProjeto == nil || *l.ObjetivoProjeto == "" {
			return serviceUnknown
		}
		return truncate(*l.ObjetivoProjeto, objectiveMaxLen)
	})
	return summary
}

// leadsPerDay builds the 30-entry daily count series, zero-count days
// included, oldest day first.
func leadsPerDay(leads []models.Lead, now time.Time) []types.DayPoint {
	points := make([]types.DayPoint, 0, chartDays)
	for d := chartDays - 1; d >= 0; d-- {
		day := startOfDay(now.AddDate(0, 0, -d))
		count := 0
		for _, lead := range leads {
			if startOfDay(lead.InicioAtendimento).Equal(day) {
				count++
			}
		}
		points = append(points, types.DayPoint{Date: day.Format("02/01"), Leads: count})
	}
	return points
}

// topNonNullService returns the most frequent non-null service; ties keep
// the first-encountered value in slice order.
func topNonNullService(leads []models.Lead) string {
	counts := map[string]int{}
	var order []string
	for _, lead := range leads {
		if lead.ServicoInteresse == nil || *lead.ServicoInteresse == "" {
			continue
		}
		s := *lead.ServicoInteresse
		if _, seen := counts[s]; !seen {
			order = append(order, s)
		}
		counts[s]++
	}
	top := ""
	best := 0
	for _, s := range order {
		if counts[s] > best {
			top, best = s, counts[s]
		}
	}
	return top
}

// rankBy groups leads by key and returns the top n buckets by count,
// first-encounter order breaking ties.
func rankBy(leads []models.Lead, n int, key func(models.Lead) string) []types.ChartPoint {
	counts := map[string]int{}
	var order []string
	for _, lead := range leads {
		k := key(lead)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	points := make([]types.ChartPoint, 0, len(order))
	for _, k := range order {
		points = append(points, types.ChartPoint{Name: k, Value: counts[k]})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Value > points[j].Value })
	if len(points) > n {
		points = points[:n]
	}
	return points
}

// serviceList collects distinct non-null services for the filter dropdown,
// in first-encounter order.
func serviceList(leads []models.Lead) []string {
	seen := map[string]bool{}
	services := []string{}
	for _, lead := range leads {
		if lead.ServicoInteresse == nil || *lead.ServicoInteresse == "" {
			continue
		}
		if !seen[*lead.ServicoInteresse] {
			seen[*lead.ServicoInteresse] = true
			services = append(services, *lead.ServicoInteresse)
		}
	}
	return services
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Conversations groups all chat messages by user and session for the
// transcript browser, most recent activity first. search matches the user
// id or any message content, case-insensitively.
func (c *AdminController) Conversations(ctx context.Context, search string) ([]types.ConversationGroup, error) {
	msgs, err := c.chatDAO.GetAllMessages(ctx)
	if err != nil {
		return nil, err
	}
	grouped := map[string]*types.ConversationGroup{}
	var order []string
	for _, msg := range msgs {
		key := msg.UserID.String() + "_" + msg.SessionID
		g, ok := grouped[key]
		if !ok {
			g = &types.ConversationGroup{SessionID: msg.SessionID, UserID: msg.UserID}
			grouped[key] = g
			order = append(order, key)
		}
		g.Messages = append(g.Messages, msg)
		g.LastMessageAt = msg.CreatedAt
	}

	groups := make([]types.ConversationGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, *grouped[key])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].LastMessageAt.After(groups[j].LastMessageAt)
	})

	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return groups, nil
	}
	filtered := groups[:0]
	for _, g := range groups {
		if strings.Contains(strings.ToLower(g.UserID.String()), term) {
			filtered = append(filtered, g)
			continue
		}
		for _, m := range g.Messages {
			if strings.Contains(strings.ToLower(m.Content), term) {
				filtered = append(filtered, g)
				break
			}
		}
	}
	return filtered, nil
}
