package bidding

import (
	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	maxAttempts  = 3
	retryBackoff = 10 * time.Millisecond
)

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	repo    repository.BidStore
	backoff time.Duration
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.BidStore) *BiddingService {
	return &BiddingService{
		repo:    repo,
		backoff: retryBackoff,
	}
}

// PlaceBid validates and records a user's bid on a listing. The store accepts it
// only if amount is strictly greater than the listing's current price.
func (s *BiddingService) PlaceBid(ctx context.Context, listingID string, bidder models.User, amount float64) (models.Bid, error) {
	if err := s.validateBid(listingID, bidder.UserID, amount); err != nil {
		return models.Bid{}, err
	}

	bid := models.Bid{
		BidID:      utils.GenerateID(),
		ListingID:  listingID,
		BidderID:   bidder.UserID,
		BidderName: bidder.Username,
		Amount:     models.RoundAmount(amount),
		CreatedAt:  time.Now().UTC(),
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var recorded models.Bid
		recorded, err = s.repo.RecordBid(ctx, bid)
		if err == nil {
			return recorded, nil
		}
		if !errors.Is(err, auctionerrors.ErrConflict) || attempt == maxAttempts {
			break
		}

		utils.Warn("bid conflict, retrying", map[string]any{
			"listing_id": listingID,
			"bidder_id":  bidder.UserID,
			"attempt":    attempt,
		})
		select {
		case <-ctx.Done():
			return models.Bid{}, fmt.Errorf("service: bid on listing %s cancelled: %w", listingID, ctx.Err())
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}

	return models.Bid{}, fmt.Errorf("service: failed to record bid for listing %s by user %s: %w", listingID, bidder.UserID, err)
}

// validateBid checks input validity for bidding
func (s *BiddingService) validateBid(listingID, bidderID string, amount float64) error {
	if listingID == "" || bidderID == "" {
		return fmt.Errorf("service: %w - missing listingID or bidderID", auctionerrors.ErrInvalidBid)
	}
	// every listing price is positive, so a non-positive bid is simply too low
	if amount <= 0 {
		return fmt.Errorf("service: %w - amount %.2f", auctionerrors.ErrBidTooLow, amount)
	}
	if !models.IsValidAmount(amount) {
		return fmt.Errorf("service: %w - amount must be at most %.2f with 2 decimals", auctionerrors.ErrInvalidBid, models.MaxAmount)
	}
	return nil
}

// GetBidsForListing returns all bids for a specific listing
func (s *BiddingService) GetBidsForListing(ctx context.Context, listingID string) ([]models.Bid, error) {
	if listingID == "" {
		return nil, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrListingNotFound)
	}

	bids, err := s.repo.GetBidsByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for listing %s: %w", listingID, err)
	}

	return bids, nil
}

// GetWinningBid returns the highest bid for a specific listing
func (s *BiddingService) GetWinningBid(ctx context.Context, listingID string) (models.Bid, error) {
	if listingID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrListingNotFound)
	}

	winningBid, err := s.repo.GetWinningBid(ctx, listingID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for listing %s: %w", listingID, err)
	}

	return winningBid, nil
}
