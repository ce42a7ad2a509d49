package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id"`            // primary key, auto-generated UUID
	Username     string    `db:"username"`      // unique username
	Email        string    `db:"email"`         // unique email
	PasswordHash string    `db:"password_hash"` // hashed password
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// UsageRecord tracks one user's generation attempts and successes for a
// single calendar day. A record whose Date is not today is logically zero
// and gets reset before any counter is consulted.
type UsageRecord struct {
	ID        int64     `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Date      string    `db:"date"` // calendar day, YYYY-MM-DD
	Attempts  int       `db:"attempts"`
	Successes int       `db:"successes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// VideoLog is one row per attempted video generation, appended after the
// item's pipeline run finishes either way.
type VideoLog struct {
	ID        int64          `db:"id"`
	UserID    uuid.UUID      `db:"user_id"`
	ImageURL  string         `db:"image_url"` // truncated to 500 chars before insert
	DriveLink sql.NullString `db:"drive_link"`
	Status    int            `db:"status"` // 1 = success, 0 = failure
	CreatedAt time.Time      `db:"created_at"`
}

type ScrapeLog struct {
	ID         int64     `db:"id"`
	UserID     uuid.UUID `db:"user_id"`
	URL        string    `db:"url"`
	ImageCount int       `db:"image_count"`
	CreatedAt  time.Time `db:"created_at"`
}
