package repository

import (
	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"context"
	"fmt"
	"sync"
)

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu           sync.RWMutex
	users        map[string]model.User      // key: userID -> value: user
	userOrder    []string                   // userIDs in registration order
	tokens       map[string]string          // key: token -> value: userID
	userTokens   map[string]string          // key: userID -> value: token
	listings     map[string]model.Listing   // key: listingID -> value: listing
	listingOrder []string                   // listingIDs in creation order
	bids         map[string][]model.Bid     // key: listingID -> value: list of bids
	comments     map[string][]model.Comment // key: listingID -> value: list of comments
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:      make(map[string]model.User),
		tokens:     make(map[string]string),
		userTokens: make(map[string]string),
		listings:   make(map[string]model.Listing),
		bids:       make(map[string][]model.Bid),
		comments:   make(map[string][]model.Comment),
	}
}

// Close is a no-op for the in-memory store
func (r *MemoryRepo) Close() error { return nil }

// CreateUser stores a user and its first token
func (r *MemoryRepo) CreateUser(_ context.Context, user model.User, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return fmt.Errorf("create user %s: %w", user.Username, auctionerrors.ErrDuplicateUsername)
		}
	}

	r.users[user.UserID] = user
	r.userOrder = append(r.userOrder, user.UserID)
	if token != "" {
		r.tokens[token] = user.UserID
		r.userTokens[user.UserID] = token
	}
	return nil
}

// GetUserByID returns a user by id
func (r *MemoryRepo) GetUserByID(_ context.Context, userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return u, nil
}

// GetUserByUsername returns a user by username
func (r *MemoryRepo) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("get user by username %s: %w", username, auctionerrors.ErrUserNotFound)
}

// GetUserByToken resolves a token to its user
func (r *MemoryRepo) GetUserByToken(_ context.Context, token string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.tokens[token]
	if !ok {
		return model.User{}, fmt.Errorf("get user by token: %w", auctionerrors.ErrUserNotFound)
	}
	u, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user by token: %w", auctionerrors.ErrUserNotFound)
	}
	return u, nil
}

// GetOrCreateToken returns the existing token for the user or stores candidate
func (r *MemoryRepo) GetOrCreateToken(_ context.Context, userID, candidate string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return "", fmt.Errorf("get or create token for %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	if existing, ok := r.userTokens[userID]; ok {
		return existing, nil
	}
	r.tokens[candidate] = userID
	r.userTokens[userID] = candidate
	return candidate, nil
}

// ListUsers returns all users in registration order
func (r *MemoryRepo) ListUsers(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.userOrder))
	for _, id := range r.userOrder {
		users = append(users, r.users[id])
	}
	return users, nil
}

// GetListingIDsByOwner returns the ids of listings a user owns
func (r *MemoryRepo) GetListingIDsByOwner(_ context.Context, ownerID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := []string{}
	for _, id := range r.listingOrder {
		if r.listings[id].OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// CreateListing stores a new listing
func (r *MemoryRepo) CreateListing(_ context.Context, listing model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, ok := r.users[listing.OwnerID]
	if !ok {
		return fmt.Errorf("create listing for owner %s: %w", listing.OwnerID, auctionerrors.ErrUserNotFound)
	}
	listing.OwnerName = owner.Username
	r.listings[listing.ListingID] = listing
	r.listingOrder = append(r.listingOrder, listing.ListingID)
	return nil
}

// GetListing returns a listing by id
func (r *MemoryRepo) GetListing(_ context.Context, listingID string) (model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.listings[listingID]
	if !ok {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return l, nil
}

// ListListings returns all listings in creation order
func (r *MemoryRepo) ListListings(_ context.Context) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listings := make([]model.Listing, 0, len(r.listingOrder))
	for _, id := range r.listingOrder {
		listings = append(listings, r.listings[id])
	}
	return listings, nil
}

// UpdateListing overwrites the mutable fields of a stored listing
func (r *MemoryRepo) UpdateListing(_ context.Context, listing model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.listings[listing.ListingID]
	if !ok {
		return fmt.Errorf("update listing %s: %w", listing.ListingID, auctionerrors.ErrListingNotFound)
	}
	stored.Name = listing.Name
	stored.Description = listing.Description
	stored.ImageURL = listing.ImageURL
	stored.Active = listing.Active
	stored.Category = listing.Category
	r.listings[listing.ListingID] = stored
	return nil
}

// DeleteListing removes a listing and everything attached to it
func (r *MemoryRepo) DeleteListing(_ context.Context, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listingID]; !ok {
		return fmt.Errorf("delete listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	delete(r.listings, listingID)
	delete(r.bids, listingID)
	delete(r.comments, listingID)
	for i, id := range r.listingOrder {
		if id == listingID {
			r.listingOrder = append(r.listingOrder[:i], r.listingOrder[i+1:]...)
			break
		}
	}
	return nil
}

// RecordBid records a user's bid on a listing if it beats the current price.
// The write lock is held across the compare and the price raise.
func (r *MemoryRepo) RecordBid(_ context.Context, bid model.Bid) (model.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[bid.ListingID]
	if !ok {
		return model.Bid{}, fmt.Errorf("record bid for listing %s: %w", bid.ListingID, auctionerrors.ErrListingNotFound)
	}
	if bid.Amount <= listing.CurrentPrice {
		return model.Bid{}, fmt.Errorf("record bid for listing %s: %w", bid.ListingID, auctionerrors.ErrBidTooLow)
	}

	listing.CurrentPrice = bid.Amount
	r.listings[bid.ListingID] = listing

	bid.ListingName = listing.Name
	if u, ok := r.users[bid.BidderID]; ok {
		bid.BidderName = u.Username
	}
	r.bids[bid.ListingID] = append(r.bids[bid.ListingID], bid)
	return bid, nil
}

// GetBidsByListing returns all bids for a listing in placement order
func (r *MemoryRepo) GetBidsByListing(_ context.Context, listingID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.listings[listingID]; !ok {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return append([]model.Bid{}, r.bids[listingID]...), nil
}

// GetWinningBid returns the highest bid for a listing
func (r *MemoryRepo) GetWinningBid(_ context.Context, listingID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.listings[listingID]; !ok {
		return model.Bid{}, fmt.Errorf("get winning bid for listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	bids := r.bids[listingID]
	if len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get winning bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}

	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > winning.Amount {
			winning = b
		}
	}
	return winning, nil
}

// AddComment attaches a comment to a listing
func (r *MemoryRepo) AddComment(_ context.Context, comment model.Comment) (model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[comment.ListingID]
	if !ok {
		return model.Comment{}, fmt.Errorf("add comment to listing %s: %w", comment.ListingID, auctionerrors.ErrListingNotFound)
	}
	comment.ListingName = listing.Name
	if u, ok := r.users[comment.CommentorID]; ok {
		comment.CommentorName = u.Username
	}
	r.comments[comment.ListingID] = append(r.comments[comment.ListingID], comment)
	return comment, nil
}

// GetCommentsByListing returns a listing's comments in posting order
func (r *MemoryRepo) GetCommentsByListing(_ context.Context, listingID string) ([]model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.listings[listingID]; !ok {
		return nil, fmt.Errorf("get comments for listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return append([]model.Comment{}, r.comments[listingID]...), nil
}
