package handler

import (
	"github.com/erpdesk/erpdesk-api/internal/domain/enum"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/dto/response"
	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/erpdesk/erpdesk-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the auth middleware
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserEmail extracts the user email from the Gin context
func GetUserEmail(c *gin.Context) string {
	return c.GetString(ContextUserEmail)
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) enum.Role {
	return enum.Role(c.GetString(ContextUserRole))
}

// IsAdmin checks if the signed-in user holds the admin role
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == enum.RoleAdmin
}

// requireUser writes a 401 and returns false when no user is on the context
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *userID, true
}

// parseIDParam reads the :id path parameter
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ID")
		return uuid.Nil, false
	}
	return id, true
}

// pageFromQuery reads page and per_page, falling back to defaults
func pageFromQuery(c *gin.Context) *pagination.PaginationParams {
	return pagination.FromQuery(c.Query("page"), c.Query("per_page"))
}

// optionalUUIDQuery parses an optional UUID query value
func optionalUUIDQuery(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "Invalid "+key)
		return nil, false
	}
	return &id, true
}

// optionalDateQuery parses an optional date query value
func optionalDateQuery(c *gin.Context, key string) (*datetime.Date, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	d, err := datetime.ParseDate(raw)
	if err != nil {
		response.BadRequest(c, "Invalid "+key+", expected YYYY-MM-DD")
		return nil, false
	}
	return &d, true
}
