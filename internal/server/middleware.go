package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// Authenticator resolves credentials to a user
type Authenticator interface {
	VerifyToken(ctx context.Context, token string) (model.User, error)
	VerifySession(ctx context.Context, value string) (model.User, error)
}

// RequestIDMiddleware injects a unique request_id into the Gin context for every request
func RequestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.New().String()
	}
	c.Set("request_id", id)
	c.Header(requestIDHeader, id)
	c.Next()
}

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"latency":    time.Since(start).String(),
		"request_id": c.GetString("request_id"),
	}
	if user, ok := helpers.Principal(c); ok {
		fields["user_id"] = user.UserID
	}
	utils.Info("HTTP Request", fields)
}

// CORSMiddleware allows the configured origins; with none configured it is a no-op
func CORSMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// AuthenticateMiddleware resolves the principal from an Authorization header
// ("Token <key>" or "Bearer <key>") or else from the session cookie. Requests
// without credentials pass through anonymously. An invalid header is rejected;
// an invalid session cookie is cleared and the request continues anonymously.
func AuthenticateMiddleware(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			token, ok := parseAuthorization(header)
			if !ok {
				rejectCredentials(c, "token", fmt.Errorf("middleware: %w - malformed authorization header", auctionerrors.ErrUnauthorized))
				return
			}
			user, err := auth.VerifyToken(c.Request.Context(), token)
			if err != nil {
				rejectCredentials(c, "token", err)
				return
			}
			helpers.SetPrincipal(c, user)
			c.Next()
			return
		}

		session, cerr := c.Cookie(cookieName)
		if cerr != nil || session == "" {
			c.Next()
			return
		}

		user, err := auth.VerifySession(c.Request.Context(), session)
		if err != nil {
			if !errors.Is(err, auctionerrors.ErrUnauthorized) {
				rejectCredentials(c, "session", err)
				return
			}
			// stale or forged session: expire it and continue anonymously
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(cookieName, "", -1, "/", "", false, true)
			utils.Warn("AuthenticateMiddleware: cleared invalid session cookie", map[string]any{
				"path":       c.Request.URL.Path,
				"request_id": c.GetString("request_id"),
				"error":      err.Error(),
			})
			c.Next()
			return
		}

		helpers.SetPrincipal(c, user)
		c.Next()
	}
}

// rejectCredentials answers 403 for bad credentials and 500 when they could not be checked
func rejectCredentials(c *gin.Context, via string, err error) {
	status, message := http.StatusForbidden, "authentication credentials were not provided or are invalid"
	if !errors.Is(err, auctionerrors.ErrUnauthorized) {
		status, message = http.StatusInternalServerError, "internal server error"
	}
	utils.AbortJSONError(c, status, err, message)
	utils.Warn("AuthenticateMiddleware: rejected credentials", map[string]any{
		"via":        via,
		"path":       c.Request.URL.Path,
		"request_id": c.GetString("request_id"),
		"error":      err.Error(),
	})
}

func parseAuthorization(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	if strings.EqualFold(scheme, "Token") || strings.EqualFold(scheme, "Bearer") {
		return token, true
	}
	return "", false
}

// RequireAuth rejects anonymous requests
func RequireAuth(c *gin.Context) {
	if _, ok := helpers.Principal(c); !ok {
		utils.AbortJSONError(c, http.StatusForbidden, auctionerrors.ErrUnauthorized, "authentication credentials were not provided or are invalid")
		return
	}
	c.Next()
}

// RequireAdmin rejects requests whose principal is not staff
func RequireAdmin(c *gin.Context) {
	user, ok := helpers.Principal(c)
	if !ok {
		utils.AbortJSONError(c, http.StatusForbidden, auctionerrors.ErrUnauthorized, "authentication credentials were not provided or are invalid")
		return
	}
	if !user.IsAdmin {
		utils.AbortJSONError(c, http.StatusForbidden, auctionerrors.ErrForbidden, "you do not have permission to perform this action")
		return
	}
	c.Next()
}
