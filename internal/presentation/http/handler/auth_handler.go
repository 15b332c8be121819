package handler

import (
	"github.com/erpdesk/erpdesk-api/internal/application/service"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/dto/request"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves sign-in and the signed-in user's own account
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login exchanges email and password for a token pair
// @Summary Login
// @Tags auth
// @Param request body request.LoginRequest true "Credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Login successful", session)
}

// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req request.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Token refreshed successfully", session)
}

// Logout only acknowledges; tokens are stateless and the client drops them.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.OK(c, "Logged out successfully", nil)
}

// @Security BearerAuth
// @Router /profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	user, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Profile retrieved successfully", gin.H{"user": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.auth.UpdateProfile(c.Request.Context(), userID, req.FirstName, req.LastName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Profile updated successfully", gin.H{"user": user})
}

// ChangePassword needs the current password and a confirmed new one
// @Security BearerAuth
// @Param request body request.ChangePasswordRequest true "Passwords"
// @Router /profile/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Password changed successfully", nil)
}
