package handler

import (
	"net/http"

	"halqa-daily/internal/model"
	"halqa-daily/internal/service"

	"github.com/gin-gonic/gin"
)

type ParticipantHandler struct {
	cards     *service.CardService
	scope     *service.ScopeService
	analytics *service.AnalyticsService
}

func NewParticipantHandler(cards *service.CardService, scope *service.ScopeService, analytics *service.AnalyticsService) *ParticipantHandler {
	return &ParticipantHandler{cards: cards, scope: scope, analytics: analytics}
}

func (h *ParticipantHandler) SaveCard(c *gin.Context) {
	var req model.CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	card, err := h.cards.Save(c.Request.Context(), c.GetInt("user_id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "card saved", "card": model.NewCardView(*card)})
}

func (h *ParticipantHandler) GetCard(c *gin.Context) {
	card, err := h.cards.Get(c.Request.Context(), c.GetInt("user_id"), c.Param("date"))
	if err != nil {
		fail(c, err)
		return
	}
	if card == nil {
		c.JSON(http.StatusOK, gin.H{"card": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": model.NewCardView(*card)})
}

func (h *ParticipantHandler) ListCards(c *gin.Context) {
	cards, err := h.cards.List(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	views := make([]model.CardView, len(cards))
	for i, card := range cards {
		views[i] = model.NewCardView(card)
	}
	c.JSON(http.StatusOK, gin.H{"cards": views})
}

func (h *ParticipantHandler) Stats(c *gin.Context) {
	stats, err := h.cards.Stats(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Leaderboard ranks every active member all-time.
func (h *ParticipantHandler) Leaderboard(c *gin.Context) {
	members, err := h.scope.AllActive(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	results, err := h.analytics.Leaderboard(c.Request.Context(), members)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": results})
}
