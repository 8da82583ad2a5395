package auctionerrors

import "errors"

// User-facing messages that must reach the client verbatim.
const (
	BidTooLowMessage    = "Bid amount must be greater than current bid."
	EmptyCommentMessage = "Comment must not be empty."
)

// Repository-level errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrListingNotFound   = errors.New("listing not found")
	ErrNoBids            = errors.New("no bids found for listing")
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrConflict marks a transient write conflict that is safe to retry.
	ErrConflict = errors.New("concurrent write conflict")
)

// business logic errors
var (
	ErrValidation     = errors.New("validation error")
	ErrInvalidBid     = errors.New("invalid bid")
	ErrBidTooLow      = errors.New("bid amount must be greater than current bid")
	ErrInvalidComment = errors.New("comment must not be empty")
)

// auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("authentication credentials were not provided or are invalid")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
)
