package models

import "time"

// User represents a registered account in the marketplace
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Auction represents a timed listing. HighestBid and HighestBidder always
// change together, guarded by Version: writers must present the Version they
// read, and the store rejects the write if the row moved underneath them.
// A zero EndTime means the auction never closes by time.
type Auction struct {
	AuctionID     string    `json:"auction_id"`
	Item          string    `json:"item"`
	StartingPrice float64   `json:"starting_price"`
	HighestBid    float64   `json:"highest_bid"`
	HighestBidder string    `json:"highest_bidder"`
	EndTime       time.Time `json:"end_time"`
	Owner         string    `json:"owner"`
	Version       uint64    `json:"-"`
}

// Closed reports whether the auction has ended as of now.
func (a Auction) Closed(now time.Time) bool {
	return !a.EndTime.IsZero() && !now.Before(a.EndTime)
}
