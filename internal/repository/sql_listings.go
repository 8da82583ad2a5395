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
	insertListingSQL     = `INSERT INTO listings (id, owner_id, name, description, starting_bid, current_bid, created_at, image_url, active, category) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	listingColumns       = `l.id, l.owner_id, u.username, l.name, l.description, l.starting_bid, l.current_bid, l.created_at, l.image_url, l.active, l.category`
	selectListingSQL     = `SELECT ` + listingColumns + ` FROM listings l JOIN users u ON u.id = l.owner_id WHERE l.id = ?`
	selectListingsSQL    = `SELECT ` + listingColumns + ` FROM listings l JOIN users u ON u.id = l.owner_id ORDER BY l.seq`
	updateListingSQL     = `UPDATE listings SET name = ?, description = ?, image_url = ?, active = ?, category = ? WHERE id = ?`
	deleteListingSQL     = `DELETE FROM listings WHERE id = ?`
	selectListingNameSQL = `SELECT name FROM listings WHERE id = ?`
)

func scanListing(row rowScanner) (model.Listing, error) {
	var (
		l        model.Listing
		imageURL sql.NullString
	)
	err := row.Scan(&l.ListingID, &l.OwnerID, &l.OwnerName, &l.Name, &l.Description,
		&l.StartingPrice, &l.CurrentPrice, &l.CreatedAt, &imageURL, &l.Active, &l.Category)
	if err != nil {
		return model.Listing{}, err
	}
	l.ImageURL = imageURL.String
	return l, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateListing inserts a listing
func (r *SQLRepo) CreateListing(ctx context.Context, listing model.Listing) error {
	_, err := r.db.ExecContext(ctx, r.q(insertListingSQL),
		listing.ListingID, listing.OwnerID, listing.Name, listing.Description,
		listing.StartingPrice, listing.CurrentPrice, listing.CreatedAt.UTC(),
		nullableString(listing.ImageURL), listing.Active, listing.Category)
	if err != nil {
		return wrapSQLError(fmt.Sprintf("insert listing %s", listing.ListingID), err)
	}
	return nil
}

// GetListing fetches a listing with its owner's username
func (r *SQLRepo) GetListing(ctx context.Context, listingID string) (model.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx, r.q(selectListingSQL), listingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Listing{}, fmt.Errorf("select listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
		}
		return model.Listing{}, wrapSQLError(fmt.Sprintf("select listing %s", listingID), err)
	}
	return l, nil
}

// ListListings returns all listings in creation order
func (r *SQLRepo) ListListings(ctx context.Context) ([]model.Listing, error) {
	rows, err := r.db.QueryContext(ctx, r.q(selectListingsSQL))
	if err != nil {
		return nil, wrapSQLError("select listings", err)
	}
	defer rows.Close()

	listings := []model.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

// UpdateListing writes the mutable columns of a listing
func (r *SQLRepo) UpdateListing(ctx context.Context, listing model.Listing) error {
	res, err := r.db.ExecContext(ctx, r.q(updateListingSQL),
		listing.Name, listing.Description, nullableString(listing.ImageURL),
		listing.Active, listing.Category, listing.ListingID)
	if err != nil {
		return wrapSQLError(fmt.Sprintf("update listing %s", listing.ListingID), err)
	}
	return expectAffected(res, fmt.Sprintf("update listing %s", listing.ListingID))
}

// DeleteListing removes a listing; bids and comments go with it through the foreign keys
func (r *SQLRepo) DeleteListing(ctx context.Context, listingID string) error {
	res, err := r.db.ExecContext(ctx, r.q(deleteListingSQL), listingID)
	if err != nil {
		return wrapSQLError(fmt.Sprintf("delete listing %s", listingID), err)
	}
	return expectAffected(res, fmt.Sprintf("delete listing %s", listingID))
}

func expectAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, auctionerrors.ErrListingNotFound)
	}
	return nil
}

// listingName looks up a listing name through q, which may be a transaction.
func (r *SQLRepo) listingName(ctx context.Context, q querier, listingID string) (string, error) {
	var name string
	err := q.QueryRowContext(ctx, r.q(selectListingNameSQL), listingID).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("select listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
		}
		return "", wrapSQLError(fmt.Sprintf("select listing %s", listingID), err)
	}
	return name, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
