package queries

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/luminalabs/lumina-video-api/pkg/db"
)

// GetUsage retrieves the usage record for a user, or nil, nil when the user
// has never generated anything. Each user keeps at most one row; the quota
// tracker rewrites it in place when the stored date goes stale.
func (s *Store) GetUsage(userID uuid.UUID) (*db.UsageRecord, error) {
	rec := &db.UsageRecord{}
	query := `SELECT id, user_id, date, attempts, successes, created_at, updated_at FROM user_usage WHERE user_id = $1`
	err := s.db.Get(rec, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("No usage record for user '%s'.", userID.String())
			return nil, nil
		}
		log.Errorf("Error finding usage record for user '%s': %v", userID.String(), err)
		return nil, fmt.Errorf("error finding usage record: %w", err)
	}
	return rec, nil
}

// InsertUsage creates the lazily-initialized usage row for a user.
func (s *Store) InsertUsage(rec *db.UsageRecord) error {
	query := `
		INSERT INTO user_usage (user_id, date, attempts, successes)
		VALUES (:user_id, :date, :attempts, :successes)
		RETURNING id, created_at, updated_at`

	rows, err := s.db.NamedQuery(query, rec)
	if err != nil {
		log.Errorf("Error inserting usage record for user '%s': %v", rec.UserID.String(), err)
		return fmt.Errorf("failed to insert usage record: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.StructScan(rec); err != nil {
			log.Errorf("Error scanning usage record after insert: %v", err)
			return fmt.Errorf("error scanning usage record after insert: %w", err)
		}
	}

	log.Infof("Usage record created for user '%s' (date %s).", rec.UserID.String(), rec.Date)
	return nil
}

// UpdateUsage rewrites the date and counters of an existing usage row.
func (s *Store) UpdateUsage(rec *db.UsageRecord) error {
	rec.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE user_usage
		SET date = :date, attempts = :attempts, successes = :successes, updated_at = :updated_at
		WHERE user_id = :user_id`

	result, err := s.db.NamedExec(query, rec)
	if err != nil {
		log.Errorf("Error updating usage record for user '%s': %v", rec.UserID.String(), err)
		return fmt.Errorf("failed to update usage record: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warnf("No usage record found for user '%s' for update.", rec.UserID.String())
		return sql.ErrNoRows
	}

	return nil
}
