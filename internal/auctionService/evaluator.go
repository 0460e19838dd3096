package auction

import (
	"fmt"
	"time"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
)

// EvaluateBid is the pure bid decision: given one auction snapshot and a
// proposed bid, it either returns the accepted next state or a rejection.
// It never touches storage, and identical inputs always produce identical
// outputs, which is what lets the engine resolve write races by simply
// re-reading and re-evaluating.
//
// Rules, in order:
//  1. a closed auction rejects everything
//  2. the proposal must strictly beat the current highest bid
func EvaluateBid(auction model.Auction, now time.Time, amount float64, bidder string) (model.Auction, error) {
	if auction.Closed(now) {
		return model.Auction{}, fmt.Errorf("auction %s: %w", auction.AuctionID, auctionerrors.ErrAuctionClosed)
	}
	if amount <= auction.HighestBid {
		return model.Auction{}, fmt.Errorf("auction %s: %w - current highest bid is %.2f", auction.AuctionID, auctionerrors.ErrBidTooLow, auction.HighestBid)
	}

	next := auction
	next.HighestBid = amount
	next.HighestBidder = bidder
	return next, nil
}
