package helpers

import (
	"time"

	model "auction-house/internal/models"
)

// Request DTOs
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateListingRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Description string   `json:"description" binding:"required,max=1000"`
	StartingBid *float64 `json:"starting_bid" binding:"required,gt=0,lte=9999.99"`
	Category    string   `json:"category" binding:"omitempty,category"`
	ImageURL    string   `json:"image_url" binding:"omitempty,url,max=200"`
}

// UpdateListingRequest leaves fields that are absent from the body unchanged
type UpdateListingRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,min=1,max=1000"`
	ImageURL    *string `json:"image_url" binding:"omitempty,max=200"`
	Active      *bool   `json:"active"`
	Category    *string `json:"category" binding:"omitempty,category"`
}

type PlaceBidRequest struct {
	Amount *float64 `json:"bid_amount" binding:"required"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

// Response DTOs
type UserResponse struct {
	URL      string   `json:"url"`
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	IsAdmin  bool     `json:"is_admin"`
	Listings []string `json:"listings"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type BidResponse struct {
	ID      string  `json:"id"`
	Listing string  `json:"listing"`
	Bidder  string  `json:"bidder"`
	Amount  float64 `json:"bid_amount"`
	BidDate string  `json:"bid_date"`
}

type CommentResponse struct {
	ID        string `json:"id"`
	Listing   string `json:"listing"`
	Commentor string `json:"commentor"`
	Text      string `json:"text"`
	CommentAt string `json:"comment_at"`
}

type ListingResponse struct {
	ID          string            `json:"id"`
	URL         string            `json:"url"`
	Owner       string            `json:"owner"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	StartingBid float64           `json:"starting_bid"`
	CurrentBid  float64           `json:"current_bid"`
	Bids        []BidResponse     `json:"bids"`
	Comments    []CommentResponse `json:"comments"`
	CreatedAt   string            `json:"created_at"`
	ImageURL    *string           `json:"image_url"`
	Active      bool              `json:"active"`
	Category    string            `json:"category"`
}

type RootResponse struct {
	Users    string `json:"users"`
	Listings string `json:"listings"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ToBidResponse converts a bid to its API shape
func ToBidResponse(b model.Bid) BidResponse {
	return BidResponse{
		ID:      b.BidID,
		Listing: b.ListingName,
		Bidder:  b.BidderName,
		Amount:  b.Amount,
		BidDate: formatTime(b.CreatedAt),
	}
}

// ToBidResponses converts a bid history, never returning nil
func ToBidResponses(bids []model.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, ToBidResponse(b))
	}
	return out
}

// ToCommentResponse converts a comment to its API shape
func ToCommentResponse(c model.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.CommentID,
		Listing:   c.ListingName,
		Commentor: c.CommentorName,
		Text:      c.Text,
		CommentAt: formatTime(c.CreatedAt),
	}
}

// ToCommentResponses converts a comment list, never returning nil
func ToCommentResponses(comments []model.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, ToCommentResponse(c))
	}
	return out
}

// ToListingResponse converts a listing with its history; baseURL prefixes the url field
func ToListingResponse(d model.ListingDetail, baseURL string) ListingResponse {
	l := d.Listing
	var image *string
	if l.ImageURL != "" {
		image = &l.ImageURL
	}
	return ListingResponse{
		ID:          l.ListingID,
		URL:         ListingURL(baseURL, l.ListingID),
		Owner:       l.OwnerName,
		Name:        l.Name,
		Description: l.Description,
		StartingBid: l.StartingPrice,
		CurrentBid:  l.CurrentPrice,
		Bids:        ToBidResponses(d.Bids),
		Comments:    ToCommentResponses(d.Comments),
		CreatedAt:   formatTime(l.CreatedAt),
		ImageURL:    image,
		Active:      l.Active,
		Category:    l.Category,
	}
}

// ToUserResponse converts a profile; owned listings are rendered as absolute URLs
func ToUserResponse(p model.UserProfile, baseURL string) UserResponse {
	listings := make([]string, 0, len(p.ListingIDs))
	for _, id := range p.ListingIDs {
		listings = append(listings, ListingURL(baseURL, id))
	}
	return UserResponse{
		URL:      baseURL + "/users/" + p.User.UserID,
		ID:       p.User.UserID,
		Username: p.User.Username,
		Email:    p.User.Email,
		IsAdmin:  p.User.IsAdmin,
		Listings: listings,
	}
}

// ListingURL returns the absolute detail URL of a listing
func ListingURL(baseURL, listingID string) string {
	return baseURL + "/listings/" + listingID
}
