package handler

import (
	"net/http"
	"strconv"
	"time"

	"halqa-daily/internal/middleware"
	"halqa-daily/internal/model"
	"halqa-daily/internal/scoring"
	"halqa-daily/internal/service"

	"github.com/gin-gonic/gin"
)

type SupervisorHandler struct {
	scope     *service.ScopeService
	cards     *service.CardService
	analytics *service.AnalyticsService
	admin     *service.AdminService
}

func NewSupervisorHandler(scope *service.ScopeService, cards *service.CardService, analytics *service.AnalyticsService, admin *service.AdminService) *SupervisorHandler {
	return &SupervisorHandler{scope: scope, cards: cards, analytics: analytics, admin: admin}
}

// resolveScope picks the caller's halqa and member set in one step.
func (h *SupervisorHandler) resolveScope(c *gin.Context) (*model.Halqa, []model.User, bool) {
	caller := middleware.CurrentUser(c)
	halqa, err := h.scope.ResolveHalqa(c.Request.Context(), caller, queryInt(c, "halqa_id"))
	if err != nil {
		fail(c, err)
		return nil, nil, false
	}
	members, err := h.scope.Members(c.Request.Context(), halqa)
	if err != nil {
		fail(c, err)
		return nil, nil, false
	}
	return halqa, members, true
}

func (h *SupervisorHandler) memberView(c *gin.Context, member *model.User) model.UserView {
	views, err := h.scope.MemberViews(c.Request.Context(), []model.User{*member})
	if err != nil || len(views) == 0 {
		return model.UserView{User: *member}
	}
	return views[0]
}

// Halqas lists what the caller may see: admins all halqas, a
// supervisor only their own.
func (h *SupervisorHandler) Halqas(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	if caller.Role == model.RoleAdmin {
		views, err := h.admin.Halqas(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"halqas": views})
		return
	}

	halqa, err := h.scope.ResolveHalqa(c.Request.Context(), caller, nil)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"halqas": []model.HalqaView{}})
		return
	}
	view, err := h.admin.HalqaView(c.Request.Context(), halqa)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"halqas": []model.HalqaView{*view}})
}

func (h *SupervisorHandler) Members(c *gin.Context) {
	halqa, members, ok := h.resolveScope(c)
	if !ok {
		return
	}
	halqaView, err := h.admin.HalqaView(c.Request.Context(), halqa)
	if err != nil {
		fail(c, err)
		return
	}
	views, err := h.scope.MemberViews(c.Request.Context(), members)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"halqa": halqaView, "members": views})
}

func (h *SupervisorHandler) MemberCards(c *gin.Context) {
	memberID, _ := strconv.Atoi(c.Param("id"))
	caller := middleware.CurrentUser(c)

	member, err := h.scope.VerifyMemberAccess(c.Request.Context(), caller, memberID)
	if err != nil {
		fail(c, err)
		return
	}
	cards, err := h.cards.List(c.Request.Context(), member.ID)
	if err != nil {
		fail(c, err)
		return
	}
	views := make([]model.CardView, len(cards))
	for i, card := range cards {
		views[i] = model.NewCardView(card)
	}
	c.JSON(http.StatusOK, gin.H{"member": h.memberView(c, member), "cards": views})
}

func (h *SupervisorHandler) MemberCardDetail(c *gin.Context) {
	memberID, _ := strconv.Atoi(c.Param("id"))
	caller := middleware.CurrentUser(c)

	member, err := h.scope.VerifyMemberAccess(c.Request.Context(), caller, memberID)
	if err != nil {
		fail(c, err)
		return
	}
	card, err := h.cards.Get(c.Request.Context(), member.ID, c.Param("date"))
	if err != nil {
		fail(c, err)
		return
	}
	if card == nil {
		c.JSON(http.StatusOK, gin.H{"member": h.memberView(c, member), "card": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": h.memberView(c, member), "card": model.NewCardView(*card)})
}

// UpdateMemberCard upserts a member's card on their behalf.
func (h *SupervisorHandler) UpdateMemberCard(c *gin.Context) {
	memberID, _ := strconv.Atoi(c.Param("id"))
	caller := middleware.CurrentUser(c)

	member, err := h.scope.VerifyMemberAccess(c.Request.Context(), caller, memberID)
	if err != nil {
		fail(c, err)
		return
	}

	var req model.CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.Date = c.Param("date")

	card, err := h.cards.SaveForced(c.Request.Context(), member.ID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member card updated", "card": model.NewCardView(*card)})
}

func (h *SupervisorHandler) Leaderboard(c *gin.Context) {
	halqa, members, ok := h.resolveScope(c)
	if !ok {
		return
	}
	results, err := h.analytics.Leaderboard(c.Request.Context(), members)
	if err != nil {
		fail(c, err)
		return
	}
	halqaView, err := h.admin.HalqaView(c.Request.Context(), halqa)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"halqa": halqaView, "leaderboard": results})
}

func (h *SupervisorHandler) DailySummary(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format(scoring.DateLayout)
	}

	halqa, members, ok := h.resolveScope(c)
	if !ok {
		return
	}
	summary, err := h.analytics.DailySummaryFor(c.Request.Context(), members, date)
	if err != nil {
		fail(c, err)
		return
	}
	halqaView, err := h.admin.HalqaView(c.Request.Context(), halqa)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":                summary.Date,
		"halqa":               halqaView,
		"submitted":           summary.Submitted,
		"not_submitted":       summary.NotSubmitted,
		"submitted_count":     summary.SubmittedCount,
		"not_submitted_count": summary.NotSubmittedCount,
		"total_members":       summary.TotalMembers,
	})
}

// RangeSummary covers an explicit [from, to] range, defaulting to the
// trailing seven days.
func (h *SupervisorHandler) RangeSummary(c *gin.Context) {
	today := time.Now()
	from := c.Query("date_from")
	if from == "" {
		from = today.AddDate(0, 0, -6).Format(scoring.DateLayout)
	}
	to := c.Query("date_to")
	if to == "" {
		to = today.Format(scoring.DateLayout)
	}

	start, err := time.Parse(scoring.DateLayout, from)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_from is malformed", "field": "date_from"})
		return
	}
	end, err := time.Parse(scoring.DateLayout, to)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_to is malformed", "field": "date_to"})
		return
	}
	totalDays := int(end.Sub(start).Hours()/24) + 1

	halqa, members, ok := h.resolveScope(c)
	if !ok {
		return
	}
	entries, err := h.analytics.RangeSummaryFor(c.Request.Context(), members, from, to, totalDays)
	if err != nil {
		fail(c, err)
		return
	}
	halqaView, err := h.admin.HalqaView(c.Request.Context(), halqa)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"halqa":      halqaView,
		"date_from":  from,
		"date_to":    to,
		"total_days": totalDays,
		"summary":    entries,
	})
}

// WeeklySummary covers Monday of the current week through today.
func (h *SupervisorHandler) WeeklySummary(c *gin.Context) {
	today := time.Now()
	weekStart := scoring.WeekStart(today).Format(scoring.DateLayout)
	weekEnd := today.Format(scoring.DateLayout)

	halqa, members, ok := h.resolveScope(c)
	if !ok {
		return
	}
	entries, err := h.analytics.RangeSummaryFor(c.Request.Context(), members, weekStart, weekEnd, 0)
	if err != nil {
		fail(c, err)
		return
	}
	halqaView, err := h.admin.HalqaView(c.Request.Context(), halqa)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"halqa":      halqaView,
		"week_start": weekStart,
		"week_end":   weekEnd,
		"summary":    entries,
	})
}
