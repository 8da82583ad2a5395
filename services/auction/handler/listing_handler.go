package handler

import (
	"net/http"

	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	service ListingServiceInterface
}

func NewListingHandler(service ListingServiceInterface) *ListingHandler {
	return &ListingHandler{service: service}
}

// ListListingsHandler handles GET /listings
func (h *ListingHandler) ListListingsHandler(c *gin.Context) {
	details, err := h.service.List(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "ListListingsHandler", err, nil)
		return
	}

	base := helpers.BaseURL(c)
	resp := make([]helpers.ListingResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, helpers.ToListingResponse(d, base))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "listings retrieved successfully")
}

// CreateListingHandler handles POST /listings
func (h *ListingHandler) CreateListingHandler(c *gin.Context) {
	owner, _ := helpers.Principal(c)

	var req helpers.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateListingHandler", err)
		return
	}

	detail, err := h.service.Create(c.Request.Context(), owner, model.ListingInput{
		Name:          req.Name,
		Description:   req.Description,
		StartingPrice: *req.StartingBid,
		Category:      req.Category,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		helpers.RespondError(c, "CreateListingHandler", err, map[string]any{"owner_id": owner.UserID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToListingResponse(detail, helpers.BaseURL(c)), "listing created successfully")
	helpers.LogSuccess("CreateListingHandler", "listing created successfully", map[string]any{
		"listing_id":   detail.Listing.ListingID,
		"owner_id":     owner.UserID,
		"starting_bid": detail.Listing.StartingPrice,
	})
}

// GetListingHandler handles GET /listings/:id
func (h *ListingHandler) GetListingHandler(c *gin.Context) {
	listingID := c.Param("id")
	detail, err := h.service.Get(c.Request.Context(), listingID)
	if err != nil {
		helpers.RespondError(c, "GetListingHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToListingResponse(detail, helpers.BaseURL(c)), "listing retrieved successfully")
}

// UpdateListingHandler handles PUT and PATCH /listings/:id
func (h *ListingHandler) UpdateListingHandler(c *gin.Context) {
	listingID := c.Param("id")
	caller, _ := helpers.Principal(c)

	var req helpers.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateListingHandler", err)
		return
	}

	detail, err := h.service.Update(c.Request.Context(), listingID, caller, model.ListingUpdate{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
		Category:    req.Category,
	})
	if err != nil {
		helpers.RespondError(c, "UpdateListingHandler", err, map[string]any{
			"listing_id": listingID,
			"caller_id":  caller.UserID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToListingResponse(detail, helpers.BaseURL(c)), "listing updated successfully")
	helpers.LogSuccess("UpdateListingHandler", "listing updated successfully", map[string]any{"listing_id": listingID})
}

// DeleteListingHandler handles DELETE /listings/:id
func (h *ListingHandler) DeleteListingHandler(c *gin.Context) {
	listingID := c.Param("id")
	caller, _ := helpers.Principal(c)

	if err := h.service.Delete(c.Request.Context(), listingID, caller); err != nil {
		helpers.RespondError(c, "DeleteListingHandler", err, map[string]any{
			"listing_id": listingID,
			"caller_id":  caller.UserID,
		})
		return
	}

	c.Status(http.StatusNoContent)
	helpers.LogSuccess("DeleteListingHandler", "listing deleted successfully", map[string]any{"listing_id": listingID})
}
