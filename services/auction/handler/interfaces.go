package handler

import (
	"context"
	"time"

	model "auction-house/internal/models"
)

type IdentityServiceInterface interface {
	Register(ctx context.Context, username, email, password string) (model.User, string, error)
	Login(ctx context.Context, username, password string) (model.User, string, error)
	IssueSession(user model.User) (string, time.Time, error)
	GetUser(ctx context.Context, userID string) (model.UserProfile, error)
	ListUsers(ctx context.Context) ([]model.UserProfile, error)
}

type ListingServiceInterface interface {
	Create(ctx context.Context, owner model.User, input model.ListingInput) (model.ListingDetail, error)
	Get(ctx context.Context, listingID string) (model.ListingDetail, error)
	List(ctx context.Context) ([]model.ListingDetail, error)
	Update(ctx context.Context, listingID string, caller model.User, update model.ListingUpdate) (model.ListingDetail, error)
	Delete(ctx context.Context, listingID string, caller model.User) error
}

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, listingID string, bidder model.User, amount float64) (model.Bid, error)
	GetBidsForListing(ctx context.Context, listingID string) ([]model.Bid, error)
	GetWinningBid(ctx context.Context, listingID string) (model.Bid, error)
}

type CommentServiceInterface interface {
	AddComment(ctx context.Context, listingID string, commentor model.User, text string) (model.Comment, error)
	GetCommentsForListing(ctx context.Context, listingID string) ([]model.Comment, error)
}
