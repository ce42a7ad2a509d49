package quota

import (
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/luminalabs/lumina-video-api/pkg/db"
)

// Fixed beta limits.
const (
	DailyAttemptLimit = 4
	DailySuccessLimit = 2
	GlobalBetaLimit   = 50
)

var (
	// ErrGlobalLimitExceeded denies every request once the beta-wide
	// success count reaches the cap, regardless of per-user state.
	ErrGlobalLimitExceeded = errors.New("global beta limit reached, please try again later")
	// ErrAttemptLimitExceeded denies a user who spent today's attempts.
	ErrAttemptLimitExceeded = errors.New("daily attempt limit reached, please try again tomorrow")
	// ErrSuccessLimitExceeded denies a user who spent today's successes.
	ErrSuccessLimitExceeded = errors.New("daily success limit reached, please try again tomorrow")
)

// UsageStore is the persistence contract the tracker needs: keyed usage
// records plus the beta-wide success count.
type UsageStore interface {
	GetUsage(userID uuid.UUID) (*db.UsageRecord, error)
	InsertUsage(rec *db.UsageRecord) error
	UpdateUsage(rec *db.UsageRecord) error
	CountSuccessfulVideoLogs() (int64, error)
}

// Usage is the snapshot returned to callers.
type Usage struct {
	Attempts     int `json:"attempts"`
	Successes    int `json:"successes"`
	AttemptLimit int `json:"attemptLimit"`
	SuccessLimit int `json:"successLimit"`
}

// Tracker enforces the per-user daily limits and the global beta cap.
type Tracker struct {
	store UsageStore
	now   func() time.Time
}

func NewTracker(store UsageStore) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

func (t *Tracker) today() string {
	return t.now().UTC().Format("2006-01-02")
}

// CheckAndIncrementAttempt gates one batch. The global cap is checked before
// any per-user state; a granted attempt is charged immediately.
func (t *Tracker) CheckAndIncrementAttempt(userID uuid.UUID) error {
	globalCount, err := t.store.CountSuccessfulVideoLogs()
	if err != nil {
		return err
	}
	if globalCount >= GlobalBetaLimit {
		log.Warnf("Quota: global beta limit reached (%d successes), denying user %s.", globalCount, userID.String())
		return ErrGlobalLimitExceeded
	}

	rec, err := t.currentRecord(userID)
	if err != nil {
		return err
	}

	if rec.Attempts >= DailyAttemptLimit {
		log.Debugf("Quota: user %s hit the daily attempt limit (%d).", userID.String(), rec.Attempts)
		return ErrAttemptLimitExceeded
	}
	if rec.Successes >= DailySuccessLimit {
		log.Debugf("Quota: user %s hit the daily success limit (%d).", userID.String(), rec.Successes)
		return ErrSuccessLimitExceeded
	}

	rec.Attempts++
	return t.store.UpdateUsage(rec)
}

// RecordSuccess charges one completed video. The limit was already enforced
// by the preceding CheckAndIncrementAttempt; none is re-checked here.
func (t *Tracker) RecordSuccess(userID uuid.UUID) error {
	rec, err := t.currentRecord(userID)
	if err != nil {
		return err
	}
	rec.Successes++
	return t.store.UpdateUsage(rec)
}

// CurrentUsage returns the user's counters for today. A missing or stale
// record reads as zeros without writing anything.
func (t *Tracker) CurrentUsage(userID uuid.UUID) (*Usage, error) {
	usage := &Usage{AttemptLimit: DailyAttemptLimit, SuccessLimit: DailySuccessLimit}

	rec, err := t.store.GetUsage(userID)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Date != t.today() {
		return usage, nil
	}

	usage.Attempts = rec.Attempts
	usage.Successes = rec.Successes
	return usage, nil
}

// currentRecord loads the user's usage row, creating it lazily on first use
// and rewriting a stale day to zeros before the caller's operation proceeds.
func (t *Tracker) currentRecord(userID uuid.UUID) (*db.UsageRecord, error) {
	today := t.today()

	rec, err := t.store.GetUsage(userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &db.UsageRecord{UserID: userID, Date: today}
		if err := t.store.InsertUsage(rec); err != nil {
			return nil, err
		}
		return rec, nil
	}

	if rec.Date != today {
		log.Debugf("Quota: resetting stale usage record for user %s (%s -> %s).", userID.String(), rec.Date, today)
		rec.Date = today
		rec.Attempts = 0
		rec.Successes = 0
		if err := t.store.UpdateUsage(rec); err != nil {
			return nil, err
		}
	}
	return rec, nil
}
