package server

import (
	"auction-house/services/auction/handler"
	"auction-house/services/auction/helpers"

	"github.com/gin-gonic/gin"
)

// Services bundles what the router needs to serve the API
type Services struct {
	Identity interface {
		Authenticator
		handler.IdentityServiceInterface
	}
	Listings handler.ListingServiceInterface
	Bidding  handler.BiddingServiceInterface
	Comments handler.CommentServiceInterface
}

// RouterConfig holds the HTTP-facing settings
type RouterConfig struct {
	CookieName         string
	CookieSecure       bool
	CORSAllowedOrigins []string
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(svc Services, cfg RouterConfig) *gin.Engine {
	helpers.RegisterValidators()

	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery()) // recover from panics
	router.Use(RequestIDMiddleware)
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(CORSMiddleware(cfg.CORSAllowedOrigins))
	router.Use(AuthenticateMiddleware(svc.Identity, cfg.CookieName))

	authHandler := handler.NewAuthHandler(svc.Identity, handler.SessionCookie{Name: cfg.CookieName, Secure: cfg.CookieSecure})
	userHandler := handler.NewUserHandler(svc.Identity)
	listingHandler := handler.NewListingHandler(svc.Listings)
	biddingHandler := handler.NewBiddingHandler(svc.Bidding)
	commentHandler := handler.NewCommentHandler(svc.Comments)

	router.GET("/", handler.RootHandler)
	router.GET("/health", handler.HealthHandler)
	router.POST("/register", authHandler.RegisterHandler)
	router.POST("/login", authHandler.LoginHandler)
	router.POST("/logout", authHandler.LogoutHandler)

	users := router.Group("/users", RequireAdmin)
	{
		users.GET("", userHandler.ListUsersHandler)
		users.GET("/:id", userHandler.GetUserHandler)
	}

	listings := router.Group("/listings")
	{
		listings.GET("", listingHandler.ListListingsHandler)
		listings.GET("/:id", listingHandler.GetListingHandler)
		listings.POST("", RequireAuth, listingHandler.CreateListingHandler)
		listings.PUT("/:id", RequireAuth, listingHandler.UpdateListingHandler)
		listings.PATCH("/:id", RequireAuth, listingHandler.UpdateListingHandler)
		listings.DELETE("/:id", RequireAuth, listingHandler.DeleteListingHandler)

		listings.GET("/:id/bids", RequireAuth, biddingHandler.GetBidsHandler)
		listings.GET("/:id/bids/highest", RequireAuth, biddingHandler.GetWinningBidHandler)
		listings.POST("/:id/bids", RequireAuth, biddingHandler.PlaceBidHandler)

		listings.GET("/:id/comments", RequireAuth, commentHandler.GetCommentsHandler)
		listings.POST("/:id/comments", RequireAuth, commentHandler.AddCommentHandler)
	}

	return router
}
