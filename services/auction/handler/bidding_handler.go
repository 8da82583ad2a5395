package handler

import (
	"net/http"

	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// PlaceBidHandler handles POST /listings/:id/bids
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	listingID := c.Param("id")
	bidder, _ := helpers.Principal(c)

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), listingID, bidder, *req.Amount)
	if err != nil {
		helpers.RespondError(c, "PlaceBidHandler", err, map[string]any{
			"listing_id": listingID,
			"bidder_id":  bidder.UserID,
			"amount":     *req.Amount,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToBidResponse(bid), "bid recorded successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     bid.BidID,
		"listing_id": listingID,
		"bidder_id":  bidder.UserID,
		"amount":     bid.Amount,
	})
}

// GetBidsHandler handles GET /listings/:id/bids
func (h *BiddingHandler) GetBidsHandler(c *gin.Context) {
	listingID := c.Param("id")
	bids, err := h.service.GetBidsForListing(c.Request.Context(), listingID)
	if err != nil {
		helpers.RespondError(c, "GetBidsHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetBidsHandler", "bids retrieved successfully", map[string]any{
		"listing_id": listingID,
		"count":      len(bids),
	})
}

// GetWinningBidHandler handles GET /listings/:id/bids/highest
func (h *BiddingHandler) GetWinningBidHandler(c *gin.Context) {
	listingID := c.Param("id")
	bid, err := h.service.GetWinningBid(c.Request.Context(), listingID)
	if err != nil {
		helpers.RespondError(c, "GetWinningBidHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":     bid.BidID,
		"listing_id": listingID,
		"amount":     bid.Amount,
	})
}
