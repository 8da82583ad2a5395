package perftests

import (
	"context"
	"fmt"
	"testing"
	"time"

	bidding "auction-house/internal/biddingService"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
)

const startingPrice = 50

var benchBidder = model.User{UserID: "bench_bidder", Username: "bench_bidder"}

// storeFactories lists the stores every benchmark runs against
func storeFactories() map[string]func(b *testing.B) repository.AuctionDB {
	return map[string]func(b *testing.B) repository.AuctionDB{
		"memory": func(b *testing.B) repository.AuctionDB {
			return repository.NewMemoryRepo()
		},
		"sqlite": func(b *testing.B) repository.AuctionDB {
			store, err := repository.NewStore("sqlite", ":memory:", 1)
			if err != nil {
				b.Fatalf("open sqlite: %v", err)
			}
			return store
		},
	}
}

// setupStore creates the store, the bidder and numListings listings named listing_<i>
func setupStore(b *testing.B, newStore func(b *testing.B) repository.AuctionDB, numListings int) (repository.AuctionDB, *bidding.BiddingService) {
	b.Helper()
	ctx := context.Background()
	store := newStore(b)
	b.Cleanup(func() { _ = store.Close() })

	if err := store.CreateUser(ctx, benchBidder, ""); err != nil {
		b.Fatalf("create bidder: %v", err)
	}
	for i := 0; i < numListings; i++ {
		listing := model.Listing{
			ListingID:     fmt.Sprintf("listing_%d", i),
			OwnerID:       benchBidder.UserID,
			OwnerName:     benchBidder.Username,
			Name:          fmt.Sprintf("Benchmark listing %d", i),
			Description:   "Benchmark listing",
			StartingPrice: startingPrice,
			CurrentPrice:  startingPrice,
			CreatedAt:     time.Now().UTC(),
			Active:        true,
			Category:      model.DefaultCategory,
		}
		if err := store.CreateListing(ctx, listing); err != nil {
			b.Fatalf("create listing: %v", err)
		}
	}
	return store, bidding.NewBiddingService(store)
}
