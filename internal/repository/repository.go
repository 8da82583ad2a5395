package repository

import (
	"context"

	model "auction-house/internal/models"
)

// UserStore persists users and their API tokens
type UserStore interface {
	// CreateUser stores the user and its first token as one unit.
	CreateUser(ctx context.Context, user model.User, token string) error
	GetUserByID(ctx context.Context, userID string) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserByToken(ctx context.Context, token string) (model.User, error)
	// GetOrCreateToken returns the user's token, storing candidate if none exists yet.
	GetOrCreateToken(ctx context.Context, userID, candidate string) (string, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	GetListingIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
}

// ListingStore persists listings
type ListingStore interface {
	CreateListing(ctx context.Context, listing model.Listing) error
	GetListing(ctx context.Context, listingID string) (model.Listing, error)
	ListListings(ctx context.Context) ([]model.Listing, error)
	// UpdateListing writes the mutable fields only; owner and prices are never touched.
	UpdateListing(ctx context.Context, listing model.Listing) error
	// DeleteListing removes the listing together with its bids and comments.
	DeleteListing(ctx context.Context, listingID string) error
}

// BidStore defines the bid storage interface for the auction system
type BidStore interface {
	// RecordBid accepts the bid only if its amount is strictly greater than the
	// listing's current price, raising the price and appending the bid atomically.
	RecordBid(ctx context.Context, bid model.Bid) (model.Bid, error)
	GetBidsByListing(ctx context.Context, listingID string) ([]model.Bid, error)
	GetWinningBid(ctx context.Context, listingID string) (model.Bid, error)
}

// CommentStore persists listing comments
type CommentStore interface {
	AddComment(ctx context.Context, comment model.Comment) (model.Comment, error)
	GetCommentsByListing(ctx context.Context, listingID string) ([]model.Comment, error)
}

// AuctionDB is the complete storage surface used by the services
type AuctionDB interface {
	UserStore
	ListingStore
	BidStore
	CommentStore
	Close() error
}
