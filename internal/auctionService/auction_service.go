package auction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"
)

// maxBidAttempts bounds the read-evaluate-write retry loop in PlaceBid.
// Past this, the caller gets ErrContention and may retry itself.
const maxBidAttempts = 5

// AuctionService keeps auction state consistent under concurrent bids.
// It holds no auction state of its own; every decision is made against a
// fresh snapshot from the store and committed with a versioned write.
type AuctionService struct {
	store repository.AuctionStore
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(store repository.AuctionStore) *AuctionService {
	return &AuctionService{
		store: store,
	}
}

// CreateAuction validates and persists a new listing owned by owner.
// The auction starts with no bids: highest bid 0, empty highest bidder.
func (s *AuctionService) CreateAuction(ctx context.Context, owner, item string, startingPrice float64, endTime time.Time) (model.Auction, error) {
	if owner == "" || item == "" {
		return model.Auction{}, fmt.Errorf("service: %w - missing owner or item", auctionerrors.ErrInvalidInput)
	}
	if startingPrice < 0 {
		return model.Auction{}, fmt.Errorf("service: %w - negative starting price", auctionerrors.ErrInvalidInput)
	}

	auction := model.Auction{
		AuctionID:     utils.GenerateID(),
		Item:          item,
		StartingPrice: startingPrice,
		HighestBid:    0,
		HighestBidder: "",
		EndTime:       endTime,
		Owner:         owner,
	}

	if err := s.store.CreateAuction(ctx, auction); err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to create auction for %s: %w", owner, err)
	}

	return auction, nil
}

// GetAuction returns one auction by id
func (s *AuctionService) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	if auctionID == "" {
		return model.Auction{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidInput)
	}

	auction, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// ListAuctions returns a snapshot of all auctions
func (s *AuctionService) ListAuctions(ctx context.Context) ([]model.Auction, error) {
	auctions, err := s.store.ListAuctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return auctions, nil
}

// PlaceBid submits a bid by bidder on one auction. Each attempt reads a
// snapshot, evaluates the bid against that exact snapshot, and commits with
// a compare-and-swap on the snapshot's version. A version conflict means
// another bid landed in between; the whole cycle restarts so the bid is
// re-judged against the new state. Rejections (closed auction, too-low
// amount) and hard store errors are final and never retried.
func (s *AuctionService) PlaceBid(ctx context.Context, auctionID, bidder string, amount float64, now time.Time) (model.Auction, error) {
	if auctionID == "" || bidder == "" {
		return model.Auction{}, fmt.Errorf("service: %w - missing auctionID or bidder", auctionerrors.ErrInvalidInput)
	}
	if amount <= 0 {
		return model.Auction{}, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidInput)
	}

	for attempt := 0; attempt < maxBidAttempts; attempt++ {
		current, err := s.store.GetAuction(ctx, auctionID)
		if err != nil {
			return model.Auction{}, fmt.Errorf("service: failed to read auction %s: %w", auctionID, err)
		}

		next, err := EvaluateBid(current, now, amount, bidder)
		if err != nil {
			return model.Auction{}, fmt.Errorf("service: bid by %s rejected: %w", bidder, err)
		}

		err = s.store.ApplyBid(ctx, auctionID, current.Version, next.HighestBid, next.HighestBidder)
		if err == nil {
			next.Version = current.Version + 1
			return next, nil
		}
		if !errors.Is(err, auctionerrors.ErrConflict) {
			return model.Auction{}, fmt.Errorf("service: failed to apply bid on auction %s: %w", auctionID, err)
		}
		// Lost the race; loop around and evaluate against the new state.
	}

	return model.Auction{}, fmt.Errorf("service: gave up after %d attempts on auction %s: %w", maxBidAttempts, auctionID, auctionerrors.ErrContention)
}
