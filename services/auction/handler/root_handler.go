package handler

import (
	"net/http"

	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// RootHandler handles GET / with links to the collections
func RootHandler(c *gin.Context) {
	base := helpers.BaseURL(c)
	utils.JSONResponse(c, http.StatusOK, helpers.RootResponse{
		Users:    base + "/users",
		Listings: base + "/listings",
	}, "auction api")
}

// HealthHandler handles GET /health
func HealthHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, gin.H{"state": "ok"}, "healthy")
}
