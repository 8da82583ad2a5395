package repository

import (
	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const (
	insertCommentSQL  = `INSERT INTO comments (id, listing_id, commentor_id, text, created_at) VALUES (?, ?, ?, ?, ?)`
	selectCommentsSQL = `SELECT c.id, c.listing_id, l.name, c.commentor_id, u.username, c.text, c.created_at FROM comments c JOIN listings l ON l.id = c.listing_id JOIN users u ON u.id = c.commentor_id WHERE c.listing_id = ? ORDER BY c.seq`
)

// AddComment stores a comment after checking the listing exists
func (r *SQLRepo) AddComment(ctx context.Context, comment model.Comment) (model.Comment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Comment{}, wrapSQLError("begin add comment", err)
	}
	defer func() { _ = tx.Rollback() }()

	name, err := r.listingName(ctx, tx, comment.ListingID)
	if err != nil {
		return model.Comment{}, err
	}

	op := fmt.Sprintf("add comment to listing %s", comment.ListingID)
	if _, err := tx.ExecContext(ctx, r.q(insertCommentSQL),
		comment.CommentID, comment.ListingID, comment.CommentorID, comment.Text, comment.CreatedAt.UTC()); err != nil {
		return model.Comment{}, wrapSQLError(op, err)
	}

	var commentor string
	if err := tx.QueryRowContext(ctx, r.q(selectUsernameSQL), comment.CommentorID).Scan(&commentor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Comment{}, fmt.Errorf("%s: commentor %s: %w", op, comment.CommentorID, auctionerrors.ErrUserNotFound)
		}
		return model.Comment{}, wrapSQLError(op, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Comment{}, wrapSQLError("commit add comment", err)
	}

	comment.ListingName = name
	comment.CommentorName = commentor
	return comment, nil
}

// GetCommentsByListing returns a listing's comments oldest first
func (r *SQLRepo) GetCommentsByListing(ctx context.Context, listingID string) ([]model.Comment, error) {
	if _, err := r.listingName(ctx, r.db, listingID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, r.q(selectCommentsSQL), listingID)
	if err != nil {
		return nil, wrapSQLError(fmt.Sprintf("select comments for listing %s", listingID), err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.CommentID, &c.ListingID, &c.ListingName, &c.CommentorID, &c.CommentorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}
