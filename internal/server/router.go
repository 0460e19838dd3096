package server

import (
	auction "auction-house/internal/auctionService"
	auth "auction-house/internal/authService"
	"auction-house/internal/session"
	handler "auction-house/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(authService *auth.AuthService, auctionService *auction.AuctionService, sessions *session.Store) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(authService, auctionService)

	router.POST("/register", auctionHandler.RegisterHandler)
	router.POST("/login", auctionHandler.LoginHandler)

	auctions := router.Group("/auctions", AuthRequired(sessions))
	{
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.POST("/:auction_id/bids", auctionHandler.PlaceBidHandler)
	}

	return router
}
