package handler

import (
	"net/http"
	"time"

	"halqa-daily/internal/logger"
	"halqa-daily/internal/middleware"
	"halqa-daily/internal/model"
	"halqa-daily/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   *service.AuthService
	secret []byte
	expire time.Duration
}

func NewAuthHandler(auth *service.AuthService, secret []byte, expire time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, secret: secret, expire: expire}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	logger.Info("registration received", "uid", u.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "registration submitted, awaiting approval"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login failed", "email", req.Email)
		fail(c, err)
		return
	}

	token, err := middleware.NewToken(h.secret, u, h.expire)
	if err != nil {
		fail(c, err)
		return
	}

	view, err := h.auth.Me(c.Request.Context(), u.ID)
	if err != nil {
		fail(c, err)
		return
	}

	logger.Info("login ok", "uid", u.ID, "role", u.Role)
	c.JSON(http.StatusOK, model.LoginResponse{Token: token, User: *view})
}

func (h *AuthHandler) Me(c *gin.Context) {
	view, err := h.auth.Me(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req model.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	view, err := h.auth.UpdateProfile(c.Request.Context(), c.GetInt("user_id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "user": view})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), c.GetInt("user_id"), req); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		fail(c, err)
		return
	}
	// Same reply whether or not the email is registered.
	c.JSON(http.StatusOK, gin.H{"message": "if the email is registered, a reset code has been sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}
