package handler

import (
	"net/http"
	"time"

	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// SessionCookie describes the cookie carrying the signed session
type SessionCookie struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	service IdentityServiceInterface
	cookie  SessionCookie
}

func NewAuthHandler(service IdentityServiceInterface, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{service: service, cookie: cookie}
}

// RegisterHandler handles POST /register
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req helpers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	user, token, err := h.service.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		helpers.RespondError(c, "RegisterHandler", err, map[string]any{"username": req.Username})
		return
	}

	resp := helpers.AuthResponse{
		Token: token,
		User:  helpers.ToUserResponse(model.UserProfile{User: user}, helpers.BaseURL(c)),
	}
	utils.JSONResponse(c, http.StatusCreated, resp, "user registered successfully")
	helpers.LogSuccess("RegisterHandler", "user registered successfully", map[string]any{"user_id": user.UserID})
}

// LoginHandler handles POST /login; it also starts a cookie session
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		helpers.RespondError(c, "LoginHandler", err, map[string]any{"username": req.Username})
		return
	}

	session, exp, err := h.service.IssueSession(user)
	if err != nil {
		helpers.RespondError(c, "LoginHandler", err, map[string]any{"user_id": user.UserID})
		return
	}
	h.setSessionCookie(c, session, maxAgeFrom(exp))

	resp := helpers.AuthResponse{
		Token: token,
		User:  helpers.ToUserResponse(model.UserProfile{User: user}, helpers.BaseURL(c)),
	}
	utils.JSONResponse(c, http.StatusOK, resp, "login successful")
	helpers.LogSuccess("LoginHandler", "login successful", map[string]any{"user_id": user.UserID})
}

// LogoutHandler handles POST /logout by expiring the session cookie
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	utils.JSONResponse(c, http.StatusOK, nil, "logged out")
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
