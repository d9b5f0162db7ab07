package handler

import (
	"net/http"
	"strconv"

	"halqa-daily/internal/logger"
	"halqa-daily/internal/middleware"
	"halqa-daily/internal/model"
	"halqa-daily/internal/scoring"
	"halqa-daily/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin     *service.AdminService
	analytics *service.AnalyticsService
}

func NewAdminHandler(admin *service.AdminService, analytics *service.AnalyticsService) *AdminHandler {
	return &AdminHandler{admin: admin, analytics: analytics}
}

func (h *AdminHandler) Registrations(c *gin.Context) {
	status := c.DefaultQuery("status", "pending")
	users, err := h.admin.Registrations(c.Request.Context(), status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) Approve(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	user, err := h.admin.Approve(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("registration approved", "uid", id)
	c.JSON(http.StatusOK, gin.H{"message": "registration approved", "user": user})
}

func (h *AdminHandler) Reject(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	var req model.RejectRequest
	c.ShouldBindJSON(&req) // note is optional

	user, err := h.admin.Reject(c.Request.Context(), id, req.Note)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("registration rejected", "uid", id)
	c.JSON(http.StatusOK, gin.H{"message": "registration rejected", "user": user})
}

func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.admin.Users(c.Request.Context(), service.UserFilters{
		Status:  c.Query("status"),
		Gender:  c.Query("gender"),
		HalqaID: queryInt(c, "halqa_id"),
		Search:  c.Query("search"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	user, err := h.admin.GetUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	var req model.AdminUserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.admin.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user updated", "user": user})
}

func (h *AdminHandler) ResetPassword(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	var req model.AdminResetPassword
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.admin.ResetPassword(c.Request.Context(), id, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	logger.Info("password reset by admin", "uid", id)
	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}

func (h *AdminHandler) Withdraw(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	user, err := h.admin.Withdraw(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member withdrawn", "user": user})
}

func (h *AdminHandler) Activate(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	user, err := h.admin.Activate(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member activated", "user": user})
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	var req model.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.admin.SetRole(c.Request.Context(), middleware.CurrentUser(c), id, req.Role)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("role updated", "uid", id, "role", req.Role)
	c.JSON(http.StatusOK, gin.H{"message": "role updated", "user": user})
}

func (h *AdminHandler) Halqas(c *gin.Context) {
	halqas, err := h.admin.Halqas(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"halqas": halqas})
}

func (h *AdminHandler) CreateHalqa(c *gin.Context) {
	var req model.HalqaCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	halqa, err := h.admin.CreateHalqa(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("halqa created", "halqa", halqa.ID)
	c.JSON(http.StatusOK, gin.H{"message": "halqa created", "halqa": halqa})
}

func (h *AdminHandler) UpdateHalqa(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	var req model.HalqaUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	halqa, err := h.admin.UpdateHalqa(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "halqa updated", "halqa": halqa})
}

func (h *AdminHandler) AssignMembers(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	var req model.AssignMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.admin.AssignMembers(c.Request.Context(), id, req.UserIDs); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "members assigned"})
}

func (h *AdminHandler) AssignHalqa(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	var req model.AssignHalqaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.admin.AssignHalqa(c.Request.Context(), id, req.HalqaID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "halqa assigned", "user": user})
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	report, err := h.analytics.Analytics(c.Request.Context(), service.AnalyticsFilters{
		Gender:     c.Query("gender"),
		HalqaID:    queryInt(c, "halqa_id"),
		Supervisor: c.Query("supervisor"),
		Member:     c.Query("member"),
		MinPct:     queryFloat(c, "min_pct"),
		MaxPct:     queryFloat(c, "max_pct"),
		Period:     scoring.Period(c.DefaultQuery("period", "all")),
		SortBy:     c.DefaultQuery("sort_by", scoring.SortByScore),
		SortOrder:  c.DefaultQuery("sort_order", scoring.OrderDesc),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AdminHandler) Settings(c *gin.Context) {
	settings, err := h.admin.Settings(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req model.SettingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	settings, err := h.admin.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "settings updated", "settings": settings})
}
