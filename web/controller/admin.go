package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"userhub/web/middleware"
	"userhub/web/service"
)

// AdminController exposes the audit trail and server status to admins.
type AdminController struct {
	audit  *service.AuditLogService
	status *service.StatusService
}

func NewAdminController(g *gin.RouterGroup, auth *service.AuthService, revoked *service.RevocationService, audit *service.AuditLogService, status *service.StatusService) *AdminController {
	c := &AdminController{audit: audit, status: status}

	admin := g.Group("/admin")
	admin.Use(middleware.TokenAuth(auth, revoked), middleware.RequireRole("admin"))
	{
		admin.GET("/audit", c.auditLog)
		admin.GET("/status", c.serverStatus)
	}

	return c
}

func (a *AdminController) auditLog(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	entries, total, err := a.audit.List(page, limit)
	if err != nil {
		jsonMessage(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"items": entries,
	})
}

func (a *AdminController) serverStatus(c *gin.Context) {
	c.JSON(http.StatusOK, a.status.GetStatus())
}
