package listing

import (
	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// ListingService defines the business logic for listings and their ownership
type ListingService struct {
	listings repository.ListingStore
	bids     repository.BidStore
	comments repository.CommentStore
	validate *validator.Validate
}

// NewListingService creates a new ListingService instance
func NewListingService(listings repository.ListingStore, bids repository.BidStore, comments repository.CommentStore) *ListingService {
	return &ListingService{
		listings: listings,
		bids:     bids,
		comments: comments,
		validate: validator.New(),
	}
}

// CanMutate reports whether caller may change or delete the listing
func CanMutate(caller models.User, listing models.Listing) bool {
	return caller.UserID != "" && caller.UserID == listing.OwnerID
}

// Create validates input and stores a listing whose current price starts at the starting price
func (s *ListingService) Create(ctx context.Context, owner models.User, input models.ListingInput) (models.ListingDetail, error) {
	if owner.UserID == "" {
		return models.ListingDetail{}, fmt.Errorf("service: %w - missing owner", auctionerrors.ErrUnauthorized)
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	input.Category = strings.TrimSpace(input.Category)
	if input.Category == "" {
		input.Category = models.DefaultCategory
	}

	if err := s.validateFields(input.Name, input.Description, input.ImageURL, input.Category); err != nil {
		return models.ListingDetail{}, err
	}
	if !models.IsValidAmount(input.StartingPrice) {
		return models.ListingDetail{}, fmt.Errorf("service: %w - starting_bid must be a positive amount up to %.2f with at most 2 decimals", auctionerrors.ErrValidation, models.MaxAmount)
	}

	price := models.RoundAmount(input.StartingPrice)
	listing := models.Listing{
		ListingID:     utils.GenerateID(),
		OwnerID:       owner.UserID,
		OwnerName:     owner.Username,
		Name:          input.Name,
		Description:   input.Description,
		StartingPrice: price,
		CurrentPrice:  price,
		CreatedAt:     time.Now().UTC(),
		ImageURL:      input.ImageURL,
		Active:        true,
		Category:      input.Category,
	}

	if err := s.listings.CreateListing(ctx, listing); err != nil {
		return models.ListingDetail{}, fmt.Errorf("service: failed to create listing for %s: %w", owner.UserID, err)
	}

	return models.ListingDetail{Listing: listing, Bids: []models.Bid{}, Comments: []models.Comment{}}, nil
}

// validateFields checks the lengths and formats shared by create and update
func (s *ListingService) validateFields(name, description, imageURL, category string) error {
	if name == "" || utf8.RuneCountInString(name) > models.MaxListingNameLength {
		return fmt.Errorf("service: %w - name must be 1-%d characters", auctionerrors.ErrValidation, models.MaxListingNameLength)
	}
	if description == "" || utf8.RuneCountInString(description) > models.MaxDescriptionLength {
		return fmt.Errorf("service: %w - description must be 1-%d characters", auctionerrors.ErrValidation, models.MaxDescriptionLength)
	}
	if imageURL != "" {
		if err := s.validate.Var(imageURL, fmt.Sprintf("url,max=%d", models.MaxImageURLLength)); err != nil {
			return fmt.Errorf("service: %w - image_url must be a valid URL up to %d characters", auctionerrors.ErrValidation, models.MaxImageURLLength)
		}
	}
	if !models.IsValidCategory(category) {
		return fmt.Errorf("service: %w - unknown category %q", auctionerrors.ErrValidation, category)
	}
	return nil
}

// Get returns a listing with its bids and comments
func (s *ListingService) Get(ctx context.Context, listingID string) (models.ListingDetail, error) {
	if listingID == "" {
		return models.ListingDetail{}, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrListingNotFound)
	}

	listing, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		return models.ListingDetail{}, fmt.Errorf("service: failed to get listing %s: %w", listingID, err)
	}
	return s.detail(ctx, listing)
}

// List returns every listing with its bids and comments, oldest first
func (s *ListingService) List(ctx context.Context) ([]models.ListingDetail, error) {
	listings, err := s.listings.ListListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list listings: %w", err)
	}

	details := make([]models.ListingDetail, 0, len(listings))
	for _, l := range listings {
		d, err := s.detail(ctx, l)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *ListingService) detail(ctx context.Context, listing models.Listing) (models.ListingDetail, error) {
	bids, err := s.bids.GetBidsByListing(ctx, listing.ListingID)
	if err != nil {
		return models.ListingDetail{}, fmt.Errorf("service: failed to get bids for listing %s: %w", listing.ListingID, err)
	}
	comments, err := s.comments.GetCommentsByListing(ctx, listing.ListingID)
	if err != nil {
		return models.ListingDetail{}, fmt.Errorf("service: failed to get comments for listing %s: %w", listing.ListingID, err)
	}
	return models.ListingDetail{Listing: listing, Bids: bids, Comments: comments}, nil
}

// Update applies the provided mutable fields. Missing listings report NotFound
// before ownership is checked.
func (s *ListingService) Update(ctx context.Context, listingID string, caller models.User, update models.ListingUpdate) (models.ListingDetail, error) {
	listing, err := s.authorize(ctx, listingID, caller)
	if err != nil {
		return models.ListingDetail{}, err
	}

	if update.Name != nil {
		listing.Name = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		listing.Description = strings.TrimSpace(*update.Description)
	}
	if update.ImageURL != nil {
		listing.ImageURL = strings.TrimSpace(*update.ImageURL)
	}
	if update.Category != nil {
		listing.Category = strings.TrimSpace(*update.Category)
	}
	if update.Active != nil {
		listing.Active = *update.Active
	}

	if err := s.validateFields(listing.Name, listing.Description, listing.ImageURL, listing.Category); err != nil {
		return models.ListingDetail{}, err
	}

	if err := s.listings.UpdateListing(ctx, listing); err != nil {
		return models.ListingDetail{}, fmt.Errorf("service: failed to update listing %s: %w", listingID, err)
	}

	// reload so a bid that landed meanwhile is reflected in the price
	return s.Get(ctx, listingID)
}

// Delete removes a listing owned by caller, together with its bids and comments
func (s *ListingService) Delete(ctx context.Context, listingID string, caller models.User) error {
	if _, err := s.authorize(ctx, listingID, caller); err != nil {
		return err
	}

	if err := s.listings.DeleteListing(ctx, listingID); err != nil {
		return fmt.Errorf("service: failed to delete listing %s: %w", listingID, err)
	}

	utils.Info("listing deleted", map[string]any{"listing_id": listingID, "owner_id": caller.UserID})
	return nil
}

func (s *ListingService) authorize(ctx context.Context, listingID string, caller models.User) (models.Listing, error) {
	listing, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to get listing %s: %w", listingID, err)
	}
	if !CanMutate(caller, listing) {
		return models.Listing{}, fmt.Errorf("service: %w - listing %s belongs to another user", auctionerrors.ErrForbidden, listingID)
	}
	return listing, nil
}
