package helpers

import "time"

// EndTimeLayout is the wire format for auction end times.
const EndTimeLayout = "2006-01-02 15:04:05"

// Request/Response DTOs
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type CreateAuctionRequest struct {
	Item          string  `json:"item" binding:"required"`
	StartingPrice float64 `json:"starting_price" binding:"gte=0"`
	EndTime       string  `json:"end_time"`
}

type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Bidder string  `json:"bidder"`
}

type AuctionResponse struct {
	AuctionID     string  `json:"auction_id"`
	Item          string  `json:"item"`
	StartingPrice float64 `json:"starting_price"`
	HighestBid    float64 `json:"highest_bid"`
	HighestBidder string  `json:"highest_bidder"`
	EndTime       string  `json:"end_time"`
	Owner         string  `json:"owner"`
}

// ParseEndTime converts a wire end time to a time.Time. Empty or
// unparsable input yields the zero time, meaning the auction never closes.
func ParseEndTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(EndTimeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// FormatEndTime converts an end time back to the wire format; the zero
// time becomes an empty string.
func FormatEndTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(EndTimeLayout)
}
