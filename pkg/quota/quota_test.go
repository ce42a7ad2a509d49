package quota

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminalabs/lumina-video-api/pkg/db"
)

type fakeUsageStore struct {
	records      map[uuid.UUID]*db.UsageRecord
	successCount int64
	inserts      int
	updates      int
}

func newFakeUsageStore() *fakeUsageStore {
	return &fakeUsageStore{records: make(map[uuid.UUID]*db.UsageRecord)}
}

func (f *fakeUsageStore) GetUsage(userID uuid.UUID) (*db.UsageRecord, error) {
	rec, ok := f.records[userID]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeUsageStore) InsertUsage(rec *db.UsageRecord) error {
	f.inserts++
	copied := *rec
	f.records[rec.UserID] = &copied
	return nil
}

func (f *fakeUsageStore) UpdateUsage(rec *db.UsageRecord) error {
	f.updates++
	copied := *rec
	f.records[rec.UserID] = &copied
	return nil
}

func (f *fakeUsageStore) CountSuccessfulVideoLogs() (int64, error) {
	return f.successCount, nil
}

func newTestTracker(store *fakeUsageStore) *Tracker {
	tracker := NewTracker(store)
	tracker.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}
	return tracker
}

func TestCheckAndIncrementAttemptCreatesRecordLazily(t *testing.T) {
	store := newFakeUsageStore()
	tracker := newTestTracker(store)
	userID := uuid.New()

	require.NoError(t, tracker.CheckAndIncrementAttempt(userID))

	rec := store.records[userID]
	require.NotNil(t, rec)
	assert.Equal(t, "2026-08-28", rec.Date)
	assert.Equal(t, 1, rec.Attempts)
	assert.Equal(t, 0, rec.Successes)
}

func TestCheckAndIncrementAttemptDeniesAtAttemptLimit(t *testing.T) {
	store := newFakeUsageStore()
	tracker := newTestTracker(store)
	userID := uuid.New()
	store.records[userID] = &db.UsageRecord{UserID: userID, Date: "2026-08-28", Attempts: 4}

	err := tracker.CheckAndIncrementAttempt(userID)

	assert.ErrorIs(t, err, ErrAttemptLimitExceeded)
	// A denied check must not mutate state further.
	assert.Equal(t, 4, store.records[userID].Attempts)
	assert.Zero(t, store.updates)
}

func TestCheckAndIncrementAttemptDeniesAtSuccessLimit(t *testing.T) {
	store := newFakeUsageStore()
	tracker := newTestTracker(store)
	userID := uuid.New()
	store.records[userID] = &db.UsageRecord{UserID: userID, Date: "2026-08-28", Attempts: 1, Successes: 2}

	err := tracker.CheckAndIncrementAttempt(userID)

	assert.ErrorIs(t, err, ErrSuccessLimitExceeded)
}

func TestCheckAndIncrementAttemptResetsStaleDay(t *testing.T) {
	store := newFakeUsageStore()
	tracker := newTestTracker(store)
	userID := uuid.New()
	// Yesterday's exhausted record must read as zeros today.
	store.records[userID] = &db.UsageRecord{UserID: userID, Date: "2026-08-27", Attempts: 4, Successes: 2}

	require.NoError(t, tracker.CheckAndIncrementAttempt(userID))

	rec := store.records[userID]
	assert.Equal(t, "2026-08-28", rec.Date)
	assert.Equal(t, 1, rec.Attempts)
	assert.Equal(t, 0, rec.Successes)
}

func TestGlobalBetaCapDeniesBeforePerUserChecks(t *testing.T) {
	store := newFakeUsageStore()
	store.successCount = 50
	tracker := newTestTracker(store)
	userID := uuid.New()

	err := tracker.CheckAndIncrementAttempt(userID)

	assert.ErrorIs(t, err, ErrGlobalLimitExceeded)
	// No per-user record must be touched or created.
	assert.Empty(t, store.records)
	assert.Zero(t, store.inserts)
}

func TestRecordSuccessIncrementsWithoutLimitCheck(t *testing.T) {
	store := newFakeUsageStore()
	tracker := newTestTracker(store)
	userID := uuid.New()
	store.records[userID] = &db.UsageRecord{UserID: userID, Date: "2026-08-28", Attempts: 2, Successes: 2}

	require.NoError(t, tracker.RecordSuccess(userID))

	assert.Equal(t, 3, store.records[userID].Successes)
}

func TestCurrentUsageReturnsZerosForMissingOrStaleRecord(t *testing.T) {
	store := newFakeUsageStore()
	tracker := newTestTracker(store)
	userID := uuid.New()

	usage, err := tracker.CurrentUsage(userID)
	require.NoError(t, err)
	assert.Equal(t, &Usage{AttemptLimit: 4, SuccessLimit: 2}, usage)

	store.records[userID] = &db.UsageRecord{UserID: userID, Date: "2026-08-27", Attempts: 3, Successes: 1}
	usage, err = tracker.CurrentUsage(userID)
	require.NoError(t, err)
	assert.Zero(t, usage.Attempts)
	assert.Zero(t, usage.Successes)
	// The read-only path must not write a reset.
	assert.Zero(t, store.updates)
}

func TestCurrentUsageIsIdempotent(t *testing.T) {
	store := newFakeUsageStore()
	tracker := newTestTracker(store)
	userID := uuid.New()
	store.records[userID] = &db.UsageRecord{UserID: userID, Date: "2026-08-28", Attempts: 3, Successes: 1}

	first, err := tracker.CurrentUsage(userID)
	require.NoError(t, err)
	second, err := tracker.CurrentUsage(userID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 3, first.Attempts)
	assert.Equal(t, 1, first.Successes)
}
