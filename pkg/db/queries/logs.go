package queries

import (
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/luminalabs/lumina-video-api/pkg/db"
)

// InsertVideoLog appends one generation outcome to the video log.
func (s *Store) InsertVideoLog(entry *db.VideoLog) error {
	query := `
		INSERT INTO video_logs (user_id, image_url, drive_link, status)
		VALUES (:user_id, :image_url, :drive_link, :status)
		RETURNING id, created_at`

	rows, err := s.db.NamedQuery(query, entry)
	if err != nil {
		log.Errorf("Error inserting video log for user '%s': %v", entry.UserID.String(), err)
		return fmt.Errorf("failed to insert video log: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.StructScan(entry); err != nil {
			log.Errorf("Error scanning video log after insert: %v", err)
			return fmt.Errorf("error scanning video log after insert: %w", err)
		}
	}
	return nil
}

// CountSuccessfulVideoLogs counts all-time successful generations across
// every user. The quota tracker compares this against the beta cap.
func (s *Store) CountSuccessfulVideoLogs() (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM video_logs WHERE status = 1`
	if err := s.db.Get(&count, query); err != nil {
		log.Errorf("Error counting successful video logs: %v", err)
		return 0, fmt.Errorf("error counting successful video logs: %w", err)
	}
	return count, nil
}

// RecentSuccessfulVideoLogs retrieves the most recent successful generations
// for a user, newest first.
func (s *Store) RecentSuccessfulVideoLogs(userID uuid.UUID, limit int) ([]db.VideoLog, error) {
	var entries []db.VideoLog
	query := `SELECT id, user_id, image_url, drive_link, status, created_at FROM video_logs WHERE user_id = $1 AND status = 1 ORDER BY created_at DESC LIMIT $2`
	if err := s.db.Select(&entries, query, userID, limit); err != nil {
		log.Errorf("Error finding recent video logs for user '%s': %v", userID.String(), err)
		return nil, fmt.Errorf("error finding recent video logs: %w", err)
	}
	return entries, nil
}

// InsertScrapeLog records one scrape attempt and how many images it yielded.
func (s *Store) InsertScrapeLog(entry *db.ScrapeLog) error {
	query := `
		INSERT INTO scrape_logs (user_id, url, image_count)
		VALUES (:user_id, :url, :image_count)
		RETURNING id, created_at`

	rows, err := s.db.NamedQuery(query, entry)
	if err != nil {
		log.Errorf("Error inserting scrape log for user '%s': %v", entry.UserID.String(), err)
		return fmt.Errorf("failed to insert scrape log: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.StructScan(entry); err != nil {
			log.Errorf("Error scanning scrape log after insert: %v", err)
			return fmt.Errorf("error scanning scrape log after insert: %w", err)
		}
	}
	return nil
}
