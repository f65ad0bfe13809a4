package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fonuscebu/coop-admin-api/internal/middleware"
	"github.com/fonuscebu/coop-admin-api/internal/models"
	"github.com/fonuscebu/coop-admin-api/internal/service"
	appErrors "github.com/fonuscebu/coop-admin-api/pkg/errors"
	"github.com/fonuscebu/coop-admin-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service      *service.AuthService
	cookieMaxAge int
	secureCookie bool
}

// NewAuthHandler creates a new handler. cookieMaxAge is seconds.
func NewAuthHandler(svc *service.AuthService, cookieMaxAge int, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: svc, cookieMaxAge: cookieMaxAge, secureCookie: secureCookie}
}

// Login godoc
// @Summary Authenticate admin
// @Description Authenticate by email and password; also sets the session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetCookie(middleware.AuthCookieName, res.AccessToken, h.cookieMaxAge, "/", "", h.secureCookie, true)
	response.JSON(c, http.StatusOK, res, nil)
}

// Logout godoc
// @Summary Clear the admin session
// @Tags Authentication
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", h.secureCookie, true)
	response.NoContent(c)
}

// Me godoc
// @Summary Current admin identity
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claimsValue, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	claims := claimsValue.(*models.JWTClaims)

	info, err := h.service.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}
