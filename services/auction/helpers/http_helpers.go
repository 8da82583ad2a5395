package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONValidationError(c, http.StatusBadRequest, wrappedErr, "invalid request payload", ToDetails(err))
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error(), "request_id": c.GetString("request_id")})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusBadRequest, auctionerrors.BidTooLowMessage
	case errors.Is(err, auctionerrors.ErrInvalidComment):
		return http.StatusBadRequest, auctionerrors.EmptyCommentMessage
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, auctionerrors.ErrValidation):
		return http.StatusBadRequest, "validation failed"
	case errors.Is(err, auctionerrors.ErrDuplicateUsername):
		return http.StatusBadRequest, "username already exists"
	case errors.Is(err, auctionerrors.ErrInvalidCredentials):
		return http.StatusBadRequest, "bad request"
	case errors.Is(err, auctionerrors.ErrUnauthorized):
		return http.StatusForbidden, "authentication credentials were not provided or are invalid"
	case errors.Is(err, auctionerrors.ErrForbidden):
		return http.StatusForbidden, "you do not have permission to perform this action"
	case errors.Is(err, auctionerrors.ErrListingNotFound):
		return http.StatusNotFound, "listing not found"
	case errors.Is(err, auctionerrors.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusNotFound, "no bids found for listing"
	case errors.Is(err, auctionerrors.ErrConflict):
		return http.StatusServiceUnavailable, "listing is busy, try again"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes the mapped error envelope and logs it at a level matching the status
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["status"] = status
	fields["error"] = err.Error()
	fields["request_id"] = c.GetString("request_id")
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// SetPrincipal stores the authenticated user on the request context
func SetPrincipal(c *gin.Context, user model.User) {
	c.Set(principalKey, user)
}

// Principal returns the authenticated user, if any
func Principal(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}

// BaseURL derives scheme://host of the current request for absolute links
func BaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
