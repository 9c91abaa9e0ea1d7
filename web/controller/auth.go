package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"userhub/logger"
	"userhub/web/entity"
	"userhub/web/middleware"
	"userhub/web/service"
)

// AuthController serves registration, login and logout.
type AuthController struct {
	auth  *service.AuthService
	audit *service.AuditLogService
}

func NewAuthController(g *gin.RouterGroup, auth *service.AuthService, revoked *service.RevocationService, audit *service.AuditLogService) *AuthController {
	c := &AuthController{auth: auth, audit: audit}

	group := g.Group("/auth")
	{
		group.POST("/register", c.register)
		group.POST("/login", c.login)
		group.POST("/logout", middleware.TokenAuth(auth, revoked), c.logout)
	}

	return c
}

type registerReq struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	City     string `json:"city" binding:"required,min=2"`
	Active   *bool  `json:"active"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad request", "error": err.Error()})
		return
	}

	// Accounts start active unless the payload says otherwise.
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	user, err := a.auth.Register(req.Name, req.Email, req.City, active, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			jsonMessage(c, http.StatusConflict, "Email already exists")
			return
		}
		logger.Warning("register user failed:", err)
		jsonMessage(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	a.audit.LogAction(user.Id, user.Email, "CREATE", "user", user.Id, getRemoteIp(c), nil)
	c.JSON(http.StatusCreated, user)
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad request", "error": err.Error()})
		return
	}

	accessToken, refreshToken, err := a.auth.Login(req.Email, req.Password)
	if err != nil {
		// Same body whether the account is missing or the password is
		// wrong, so responses cannot enumerate accounts.
		jsonMessage(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	a.audit.LogAction(0, req.Email, "LOGIN", "token", 0, getRemoteIp(c), nil)
	c.JSON(http.StatusOK, entity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

func (a *AuthController) logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		jsonMessage(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := a.auth.Logout(c.GetString(middleware.CtxToken), claims); err != nil {
		jsonMessage(c, http.StatusForbidden, "Forbidden")
		return
	}

	a.audit.LogAction(claims.UserID, claims.Email, "LOGOUT", "token", 0, getRemoteIp(c), nil)
	jsonMessage(c, http.StatusOK, "Logged out successfully")
}
