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
	// raiseCurrentBidSQL only matches while the stored price is below the new amount.
	raiseCurrentBidSQL  = `UPDATE listings SET current_bid = ? WHERE id = ? AND current_bid < ?`
	insertBidSQL        = `INSERT INTO bids (id, listing_id, bidder_id, amount, created_at) VALUES (?, ?, ?, ?, ?)`
	selectUsernameSQL   = `SELECT username FROM users WHERE id = ?`
	bidColumns          = `b.id, b.listing_id, l.name, b.bidder_id, u.username, b.amount, b.created_at`
	bidJoins            = ` FROM bids b JOIN listings l ON l.id = b.listing_id JOIN users u ON u.id = b.bidder_id`
	selectBidsSQL       = `SELECT ` + bidColumns + bidJoins + ` WHERE b.listing_id = ? ORDER BY b.seq`
	selectWinningBidSQL = `SELECT ` + bidColumns + bidJoins + ` WHERE b.listing_id = ? ORDER BY b.amount DESC, b.seq ASC LIMIT 1`
)

func scanBid(row rowScanner) (model.Bid, error) {
	var b model.Bid
	err := row.Scan(&b.BidID, &b.ListingID, &b.ListingName, &b.BidderID, &b.BidderName, &b.Amount, &b.CreatedAt)
	return b, err
}

// RecordBid raises the listing price and appends the bid in one transaction.
// A bid that does not beat the stored price changes nothing.
func (r *SQLRepo) RecordBid(ctx context.Context, bid model.Bid) (model.Bid, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Bid{}, wrapSQLError("begin record bid", err)
	}
	defer func() { _ = tx.Rollback() }()

	op := fmt.Sprintf("record bid for listing %s", bid.ListingID)

	res, err := tx.ExecContext(ctx, r.q(raiseCurrentBidSQL), bid.Amount, bid.ListingID, bid.Amount)
	if err != nil {
		return model.Bid{}, wrapSQLError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Bid{}, fmt.Errorf("%s: rows affected: %w", op, err)
	}

	name, err := r.listingName(ctx, tx, bid.ListingID)
	if err != nil {
		return model.Bid{}, err
	}
	if n == 0 {
		return model.Bid{}, fmt.Errorf("%s: %w", op, auctionerrors.ErrBidTooLow)
	}

	if _, err := tx.ExecContext(ctx, r.q(insertBidSQL),
		bid.BidID, bid.ListingID, bid.BidderID, bid.Amount, bid.CreatedAt.UTC()); err != nil {
		return model.Bid{}, wrapSQLError(op, err)
	}

	var bidder string
	if err := tx.QueryRowContext(ctx, r.q(selectUsernameSQL), bid.BidderID).Scan(&bidder); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Bid{}, fmt.Errorf("%s: bidder %s: %w", op, bid.BidderID, auctionerrors.ErrUserNotFound)
		}
		return model.Bid{}, wrapSQLError(op, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Bid{}, wrapSQLError("commit record bid", err)
	}

	bid.ListingName = name
	bid.BidderName = bidder
	return bid, nil
}

// GetBidsByListing returns all bids for a listing in placement order
func (r *SQLRepo) GetBidsByListing(ctx context.Context, listingID string) ([]model.Bid, error) {
	if _, err := r.listingName(ctx, r.db, listingID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, r.q(selectBidsSQL), listingID)
	if err != nil {
		return nil, wrapSQLError(fmt.Sprintf("select bids for listing %s", listingID), err)
	}
	defer rows.Close()

	bids := []model.Bid{}
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bid: %w", err)
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bids: %w", err)
	}
	return bids, nil
}

// GetWinningBid returns the highest bid; the earliest wins a tie
func (r *SQLRepo) GetWinningBid(ctx context.Context, listingID string) (model.Bid, error) {
	b, err := scanBid(r.db.QueryRowContext(ctx, r.q(selectWinningBidSQL), listingID))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, wrapSQLError(fmt.Sprintf("select winning bid for listing %s", listingID), err)
	}

	if _, err := r.listingName(ctx, r.db, listingID); err != nil {
		return model.Bid{}, err
	}
	return model.Bid{}, fmt.Errorf("select winning bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
}
