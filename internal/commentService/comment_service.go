package comment

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
)

// CommentService defines the business logic for listing comments
type CommentService struct {
	repo repository.CommentStore
}

// NewCommentService creates a new CommentService instance
func NewCommentService(repo repository.CommentStore) *CommentService {
	return &CommentService{repo: repo}
}

// AddComment attaches a non-empty remark to a listing
func (s *CommentService) AddComment(ctx context.Context, listingID string, commentor models.User, text string) (models.Comment, error) {
	if listingID == "" {
		return models.Comment{}, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrListingNotFound)
	}
	if commentor.UserID == "" {
		return models.Comment{}, fmt.Errorf("service: %w - missing commentor", auctionerrors.ErrUnauthorized)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, fmt.Errorf("service: %w", auctionerrors.ErrInvalidComment)
	}
	if utf8.RuneCountInString(text) > models.MaxCommentLength {
		return models.Comment{}, fmt.Errorf("service: %w - comment longer than %d characters", auctionerrors.ErrValidation, models.MaxCommentLength)
	}

	comment := models.Comment{
		CommentID:     utils.GenerateID(),
		ListingID:     listingID,
		CommentorID:   commentor.UserID,
		CommentorName: commentor.Username,
		Text:          text,
		CreatedAt:     time.Now().UTC(),
	}

	saved, err := s.repo.AddComment(ctx, comment)
	if err != nil {
		return models.Comment{}, fmt.Errorf("service: failed to add comment to listing %s: %w", listingID, err)
	}
	return saved, nil
}

// GetCommentsForListing returns a listing's comments in insertion order
func (s *CommentService) GetCommentsForListing(ctx context.Context, listingID string) ([]models.Comment, error) {
	if listingID == "" {
		return nil, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrListingNotFound)
	}

	comments, err := s.repo.GetCommentsByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get comments for listing %s: %w", listingID, err)
	}
	return comments, nil
}
