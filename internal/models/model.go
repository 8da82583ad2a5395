package models

import "time"

// User represents a registered marketplace participant
type User struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	DateJoined   time.Time `json:"date_joined"`
}

// UserProfile is a user together with the listings they own
type UserProfile struct {
	User       User
	ListingIDs []string
}

// Listing represents an item for sale whose price rises through bidding
type Listing struct {
	ListingID     string    `json:"listing_id"`
	OwnerID       string    `json:"owner_id"`
	OwnerName     string    `json:"owner"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	StartingPrice float64   `json:"starting_bid"`
	CurrentPrice  float64   `json:"current_bid"`
	CreatedAt     time.Time `json:"created_at"`
	ImageURL      string    `json:"image_url,omitempty"`
	Active        bool      `json:"active"`
	Category      string    `json:"category"`
}

// ListingDetail bundles a listing with its bid and comment history
type ListingDetail struct {
	Listing  Listing
	Bids     []Bid
	Comments []Comment
}

// ListingInput carries the fields accepted when a listing is created
type ListingInput struct {
	Name          string
	Description   string
	StartingPrice float64
	Category      string
	ImageURL      string
}

// ListingUpdate carries the mutable listing fields; nil means unchanged
type ListingUpdate struct {
	Name        *string
	Description *string
	ImageURL    *string
	Active      *bool
	Category    *string
}

// Bid represents a user's bid on a listing
type Bid struct {
	BidID       string    `json:"bid_id"`
	ListingID   string    `json:"listing_id"`
	ListingName string    `json:"listing"`
	BidderID    string    `json:"bidder_id"`
	BidderName  string    `json:"bidder"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// Comment represents a free-text remark attached to a listing
type Comment struct {
	CommentID     string    `json:"comment_id"`
	ListingID     string    `json:"listing_id"`
	ListingName   string    `json:"listing"`
	CommentorID   string    `json:"commentor_id"`
	CommentorName string    `json:"commentor"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"created_at"`
}
