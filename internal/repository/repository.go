package repository

import (
	"context"
	"fmt"
	"sync"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
)

// AuctionStore defines the auction row storage for the marketplace.
// ApplyBid is the only mutation of live auction state: it writes the
// highest bid and highest bidder as a single atomic pair, succeeding only
// if the row's version still equals expectedVersion. A stale version
// returns ErrConflict and leaves the row untouched.
type AuctionStore interface {
	CreateAuction(ctx context.Context, auction model.Auction) error
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	ListAuctions(ctx context.Context) ([]model.Auction, error)
	ApplyBid(ctx context.Context, auctionID string, expectedVersion uint64, highestBid float64, highestBidder string) error
}

// UserStore defines account storage for registration and login.
type UserStore interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, username string) (model.User, error)
}

// auctionRow pairs an auction record with its own lock so bids on
// different auctions never contend with each other.
type auctionRow struct {
	mu      sync.Mutex
	auction model.Auction
}

// MemoryStore is a concurrency-safe in-memory implementation of
// AuctionStore and UserStore. The map mutex covers only lookup and insert;
// per-row locks plus version counters serialize updates to a single auction.
type MemoryStore struct {
	mu       sync.RWMutex
	auctions map[string]*auctionRow // key: auctionID
	order    []string               // insertion order for ListAuctions
	users    map[string]model.User  // key: username
}

// NewMemoryStore creates a new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions: make(map[string]*auctionRow),
		users:    make(map[string]model.User),
	}
}

// CreateAuction inserts a new auction row at version 1
func (s *MemoryStore) CreateAuction(_ context.Context, auction model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[auction.AuctionID]; ok {
		return fmt.Errorf("create auction %s: %w", auction.AuctionID, auctionerrors.ErrPersistence)
	}

	auction.Version = 1
	s.auctions[auction.AuctionID] = &auctionRow{auction: auction}
	s.order = append(s.order, auction.AuctionID)
	return nil
}

func (s *MemoryStore) row(auctionID string) (*auctionRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.auctions[auctionID]
	return row, ok
}

// GetAuction returns a snapshot of one auction, including its version
func (s *MemoryStore) GetAuction(_ context.Context, auctionID string) (model.Auction, error) {
	row, ok := s.row(auctionID)
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}

	row.mu.Lock()
	defer row.mu.Unlock()
	return row.auction, nil
}

// ListAuctions returns a snapshot of all auctions in insertion order
func (s *MemoryStore) ListAuctions(_ context.Context) ([]model.Auction, error) {
	s.mu.RLock()
	ids := append([]string(nil), s.order...)
	rows := make([]*auctionRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, s.auctions[id])
	}
	s.mu.RUnlock()

	auctions := make([]model.Auction, 0, len(rows))
	for _, row := range rows {
		row.mu.Lock()
		auctions = append(auctions, row.auction)
		row.mu.Unlock()
	}
	return auctions, nil
}

// ApplyBid updates highest bid and highest bidder together, guarded by the
// row version. Callers observing ErrConflict must re-read and re-evaluate.
func (s *MemoryStore) ApplyBid(_ context.Context, auctionID string, expectedVersion uint64, highestBid float64, highestBidder string) error {
	row, ok := s.row(auctionID)
	if !ok {
		return fmt.Errorf("apply bid on auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}

	row.mu.Lock()
	defer row.mu.Unlock()

	if row.auction.Version != expectedVersion {
		return fmt.Errorf("apply bid on auction %s: %w", auctionID, auctionerrors.ErrConflict)
	}

	row.auction.HighestBid = highestBid
	row.auction.HighestBidder = highestBidder
	row.auction.Version++
	return nil
}

// CreateUser inserts a new account, rejecting duplicate usernames
func (s *MemoryStore) CreateUser(_ context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return fmt.Errorf("create user %s: %w", user.Username, auctionerrors.ErrAlreadyExists)
	}
	s.users[user.Username] = user
	return nil
}

// GetUser returns the account for a username
func (s *MemoryStore) GetUser(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", username, auctionerrors.ErrUserNotFound)
	}
	return user, nil
}
