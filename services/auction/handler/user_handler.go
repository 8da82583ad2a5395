package handler

import (
	"net/http"

	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service IdentityServiceInterface
}

func NewUserHandler(service IdentityServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// ListUsersHandler handles GET /users (admin only)
func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	profiles, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "ListUsersHandler", err, nil)
		return
	}

	base := helpers.BaseURL(c)
	resp := make([]helpers.UserResponse, 0, len(profiles))
	for _, p := range profiles {
		resp = append(resp, helpers.ToUserResponse(p, base))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "users retrieved successfully")
}

// GetUserHandler handles GET /users/:id (admin only)
func (h *UserHandler) GetUserHandler(c *gin.Context) {
	userID := c.Param("id")
	profile, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondError(c, "GetUserHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToUserResponse(profile, helpers.BaseURL(c)), "user retrieved successfully")
}
