package controller

import (
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"userhub/database/model"
	"userhub/logger"
	"userhub/util/etag"
	"userhub/web/entity"
	"userhub/web/middleware"
	"userhub/web/service"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// UserController serves the user list, statistics and the PATCH endpoint.
type UserController struct {
	users *service.UserService
	audit *service.AuditLogService
}

// NewUserController registers the user routes. When adminPatch is set the
// PATCH route demands an admin bearer token; by default it is open, like
// the shipped API.
func NewUserController(g *gin.RouterGroup, users *service.UserService, audit *service.AuditLogService, auth *service.AuthService, revoked *service.RevocationService, adminPatch bool) *UserController {
	c := &UserController{users: users, audit: audit}

	group := g.Group("/users")
	{
		group.GET("", c.list)
		group.GET("/stats", c.stats)

		if adminPatch {
			group.PATCH("/:id", middleware.TokenAuth(auth, revoked), middleware.RequireRole("admin"), c.patch)
		} else {
			group.PATCH("/:id", c.patch)
		}
	}

	return c
}

// list answers GET /users?search=&page=&limit= with a weak ETag. A matching
// If-None-Match short-circuits to 304 with an empty body.
func (u *UserController) list(c *gin.Context) {
	search := c.Query("search")

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

	filtered := u.users.Filter(search)
	total := len(filtered)

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	payload := entity.UserPage{
		Page:  page,
		Limit: limit,
		Total: total,
		Items: filtered[start:end],
	}

	tag, err := etag.ETagFor(payload)
	if err != nil {
		logger.Warning("compute etag failed:", err)
		c.JSON(http.StatusOK, payload)
		return
	}

	if c.GetHeader("If-None-Match") == tag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("ETag", tag)
	c.JSON(http.StatusOK, payload)
}

type patchReq struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	City   *string `json:"city"`
	Active *bool   `json:"active"`
}

// patch answers PATCH /users/:id. An empty body flips the active flag; a
// JSON object body merges the provided fields into the record.
func (u *UserController) patch(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		jsonMessage(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	upd := service.UserUpdate{}
	toggle := len(strings.TrimSpace(string(body))) == 0
	if !toggle {
		var req patchReq
		if err := json.Unmarshal(body, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Bad request", "error": err.Error()})
			return
		}
		if msg, ok := validatePatch(&req); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Bad request", "error": msg})
			return
		}
		upd = service.UserUpdate{Name: req.Name, Email: req.Email, City: req.City, Active: req.Active}
	}

	updated, err := u.applyPatch(id, toggle, upd)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrEmailExists):
			jsonMessage(c, http.StatusConflict, "Email already exists")
		default:
			jsonMessage(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	u.audit.LogAction(updated.Id, updated.Email, "UPDATE", "user", updated.Id, getRemoteIp(c), map[string]any{"toggle": toggle})
	c.JSON(http.StatusOK, entity.UpdateResult{
		Message: "User updated successfully",
		User:    updated,
	})
}

func (u *UserController) applyPatch(id int64, toggle bool, upd service.UserUpdate) (model.PublicUser, error) {
	if toggle {
		return u.users.ToggleActive(id)
	}
	return u.users.Update(id, upd)
}

// stats answers GET /users/stats with aggregate counts.
func (u *UserController) stats(c *gin.Context) {
	c.JSON(http.StatusOK, u.users.Stats())
}

func validatePatch(req *patchReq) (string, bool) {
	if req.Name != nil && len(strings.TrimSpace(*req.Name)) < 2 {
		return "name must be at least 2 characters", false
	}
	if req.City != nil && len(strings.TrimSpace(*req.City)) < 2 {
		return "city must be at least 2 characters", false
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return "email is not valid", false
		}
	}
	return "", true
}
