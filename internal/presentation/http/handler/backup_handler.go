package handler

import (
	"github.com/erpdesk/erpdesk-api/internal/application/service"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// BackupHandler exposes on-demand database backups to admins
type BackupHandler struct {
	backupService *service.BackupService
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// List returns stored backups, newest first
func (h *BackupHandler) List(c *gin.Context) {
	files, err := h.backupService.List()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Backups retrieved successfully", files)
}

// Create writes a new backup now
func (h *BackupHandler) Create(c *gin.Context) {
	file, err := h.backupService.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Backup created successfully", file)
}
