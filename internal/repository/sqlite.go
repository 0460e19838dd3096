package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	username      TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS auctions (
	id             TEXT PRIMARY KEY,
	item           TEXT NOT NULL,
	starting_price REAL NOT NULL,
	highest_bid    REAL NOT NULL,
	highest_bidder TEXT NOT NULL,
	end_time       INTEGER NOT NULL,
	owner          TEXT NOT NULL,
	created_at     INTEGER NOT NULL,
	version        INTEGER NOT NULL
);`

// SQLiteStore persists auctions and users in SQLite. Bid writes use the
// version column as a compare-and-swap: UPDATE ... WHERE version = ?, so
// two racing bids on one auction can never both land on the same snapshot.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the auction database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("open sqlite store: path is required")
	}
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// end_time is stored as unix milliseconds; 0 means the auction never closes.
func endTimeToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixMilli()
}

func endTimeFromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func isConstraintViolation(err error) bool {
	var serr *msqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

// CreateAuction inserts a new auction row at version 1
func (s *SQLiteStore) CreateAuction(ctx context.Context, auction model.Auction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO auctions (id, item, starting_price, highest_bid, highest_bidder, end_time, owner, created_at, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		auction.AuctionID,
		auction.Item,
		auction.StartingPrice,
		auction.HighestBid,
		auction.HighestBidder,
		endTimeToMillis(auction.EndTime),
		auction.Owner,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("create auction %s: %w: %v", auction.AuctionID, auctionerrors.ErrPersistence, err)
	}
	return nil
}

func scanAuction(row interface{ Scan(...any) error }) (model.Auction, error) {
	var a model.Auction
	var endMillis int64
	err := row.Scan(&a.AuctionID, &a.Item, &a.StartingPrice, &a.HighestBid, &a.HighestBidder, &endMillis, &a.Owner, &a.Version)
	if err != nil {
		return model.Auction{}, err
	}
	a.EndTime = endTimeFromMillis(endMillis)
	return a, nil
}

// GetAuction returns a snapshot of one auction, including its version
func (s *SQLiteStore) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, item, starting_price, highest_bid, highest_bidder, end_time, owner, version
		 FROM auctions WHERE id = ?`, auctionID)

	auction, err := scanAuction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("get auction %s: %w: %v", auctionID, auctionerrors.ErrPersistence, err)
	}
	return auction, nil
}

// ListAuctions returns all auctions in insertion order
func (s *SQLiteStore) ListAuctions(ctx context.Context) ([]model.Auction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item, starting_price, highest_bid, highest_bidder, end_time, owner, version
		 FROM auctions ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w: %v", auctionerrors.ErrPersistence, err)
	}
	defer rows.Close()

	var auctions []model.Auction
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return nil, fmt.Errorf("list auctions: %w: %v", auctionerrors.ErrPersistence, err)
		}
		auctions = append(auctions, auction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list auctions: %w: %v", auctionerrors.ErrPersistence, err)
	}
	return auctions, nil
}

// ApplyBid updates highest bid and highest bidder together, guarded by the
// version column. A zero-row update means either the row vanished or the
// version moved; the follow-up read disambiguates.
func (s *SQLiteStore) ApplyBid(ctx context.Context, auctionID string, expectedVersion uint64, highestBid float64, highestBidder string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE auctions SET highest_bid = ?, highest_bidder = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		highestBid, highestBidder, auctionID, expectedVersion)
	if err != nil {
		return fmt.Errorf("apply bid on auction %s: %w: %v", auctionID, auctionerrors.ErrPersistence, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply bid on auction %s: %w: %v", auctionID, auctionerrors.ErrPersistence, err)
	}
	if affected == 1 {
		return nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM auctions WHERE id = ?`, auctionID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("apply bid on auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return fmt.Errorf("apply bid on auction %s: %w: %v", auctionID, auctionerrors.ErrPersistence, err)
	}
	return fmt.Errorf("apply bid on auction %s: %w", auctionID, auctionerrors.ErrConflict)
}

// CreateUser inserts a new account, rejecting duplicate usernames
func (s *SQLiteStore) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		user.Username, user.PasswordHash)
	if isConstraintViolation(err) {
		return fmt.Errorf("create user %s: %w", user.Username, auctionerrors.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("create user %s: %w: %v", user.Username, auctionerrors.ErrPersistence, err)
	}
	return nil
}

// GetUser returns the account for a username
func (s *SQLiteStore) GetUser(ctx context.Context, username string) (model.User, error) {
	var user model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT username, password_hash FROM users WHERE username = ?`, username).
		Scan(&user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("get user %s: %w", username, auctionerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %s: %w: %v", username, auctionerrors.ErrPersistence, err)
	}
	return user, nil
}
