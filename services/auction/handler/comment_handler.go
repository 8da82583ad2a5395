package handler

import (
	"net/http"

	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	service CommentServiceInterface
}

func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// AddCommentHandler handles POST /listings/:id/comments
func (h *CommentHandler) AddCommentHandler(c *gin.Context) {
	listingID := c.Param("id")
	commentor, _ := helpers.Principal(c)

	var req helpers.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AddCommentHandler", err)
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), listingID, commentor, req.Text)
	if err != nil {
		helpers.RespondError(c, "AddCommentHandler", err, map[string]any{
			"listing_id":   listingID,
			"commentor_id": commentor.UserID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToCommentResponse(comment), "comment added successfully")
	helpers.LogSuccess("AddCommentHandler", "comment added successfully", map[string]any{
		"comment_id": comment.CommentID,
		"listing_id": listingID,
	})
}

// GetCommentsHandler handles GET /listings/:id/comments
func (h *CommentHandler) GetCommentsHandler(c *gin.Context) {
	listingID := c.Param("id")
	comments, err := h.service.GetCommentsForListing(c.Request.Context(), listingID)
	if err != nil {
		helpers.RespondError(c, "GetCommentsHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToCommentResponses(comments), "comments retrieved successfully")
}
