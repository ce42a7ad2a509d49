package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminalabs/lumina-video-api/pkg/db"
	"github.com/luminalabs/lumina-video-api/pkg/drive"
)

type fakeGenerator struct {
	failOn map[string]error
	calls  []string
}

func (f *fakeGenerator) GenerateVideo(_ context.Context, imageRef, _ string) (string, error) {
	f.calls = append(f.calls, imageRef)
	if err, ok := f.failOn[imageRef]; ok {
		return "", err
	}
	return "data:video/mp4;base64,dmlkZW8=", nil
}

type fakeUploader struct {
	failOnCall int // 1-based; 0 means never fail
	calls      int
}

func (f *fakeUploader) Upload(_ context.Context, _, _, _, _ string) (*drive.UploadResult, error) {
	f.calls++
	if f.failOnCall == f.calls {
		return nil, errors.New("upload rejected")
	}
	return &drive.UploadResult{FileID: "file-1", DriveLink: "https://drive.example.com/file-1"}, nil
}

type fakeQuota struct {
	denyWith  error
	attempts  int
	successes int
}

func (f *fakeQuota) CheckAndIncrementAttempt(uuid.UUID) error {
	if f.denyWith != nil {
		return f.denyWith
	}
	f.attempts++
	return nil
}

func (f *fakeQuota) RecordSuccess(uuid.UUID) error {
	f.successes++
	return nil
}

type fakeLogStore struct {
	entries []db.VideoLog
}

func (f *fakeLogStore) InsertVideoLog(entry *db.VideoLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func newTestProcessor(gen *fakeGenerator, up *fakeUploader, q *fakeQuota, logs *fakeLogStore) *Processor {
	return NewProcessor(gen, up, q, logs)
}

func validRequest(images ...string) BatchRequest {
	return BatchRequest{ImageURLs: images, AccessToken: "ya29.token"}
}

func TestProcessBatchPreservesInputOrderAndLength(t *testing.T) {
	gen := &fakeGenerator{}
	q := &fakeQuota{}
	logs := &fakeLogStore{}
	p := newTestProcessor(gen, &fakeUploader{}, q, logs)

	images := []string{
		"https://shop.example.com/a.jpg",
		"https://shop.example.com/b.jpg",
		"https://shop.example.com/c.jpg",
	}
	result, err := p.ProcessBatch(context.Background(), uuid.New(), validRequest(images...))

	require.NoError(t, err)
	require.Len(t, result.Results, 3)
	for i, r := range result.Results {
		assert.Equal(t, images[i], r.ImageURL)
		assert.Equal(t, StatusSuccess, r.Status)
		assert.NotEmpty(t, r.VideoURL)
		assert.NotEmpty(t, r.DriveLink)
	}
	assert.Equal(t, 3, result.TotalProcessed)
	assert.Zero(t, result.Errors)
	assert.Equal(t, images, gen.calls)
}

func TestProcessBatchIsolatesPerItemFailure(t *testing.T) {
	images := []string{
		"https://shop.example.com/a.jpg",
		"https://shop.example.com/b.jpg",
		"https://shop.example.com/c.jpg",
	}
	gen := &fakeGenerator{failOn: map[string]error{images[1]: errors.New("model refused the image")}}
	logs := &fakeLogStore{}
	p := newTestProcessor(gen, &fakeUploader{}, &fakeQuota{}, logs)

	result, err := p.ProcessBatch(context.Background(), uuid.New(), validRequest(images...))

	require.NoError(t, err)
	require.Len(t, result.Results, 3)
	assert.Equal(t, StatusSuccess, result.Results[0].Status)
	assert.Equal(t, StatusError, result.Results[1].Status)
	assert.Equal(t, "model refused the image", result.Results[1].Error)
	assert.Empty(t, result.Results[1].VideoURL)
	assert.Equal(t, StatusSuccess, result.Results[2].Status)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 3, result.TotalProcessed)
	// All three images must have been attempted despite the middle failure.
	assert.Equal(t, images, gen.calls)
}

func TestProcessBatchUploadFailureSurfacesAsItemError(t *testing.T) {
	gen := &fakeGenerator{}
	up := &fakeUploader{failOnCall: 1}
	q := &fakeQuota{}
	logs := &fakeLogStore{}
	p := newTestProcessor(gen, up, q, logs)

	result, err := p.ProcessBatch(context.Background(), uuid.New(), validRequest("https://shop.example.com/a.jpg"))

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, StatusError, result.Results[0].Status)
	// A successful generation with failed storage counts as a failed item.
	assert.Zero(t, q.successes)
	require.Len(t, logs.entries, 1)
	assert.Equal(t, 0, logs.entries[0].Status)
}

func TestProcessBatchQuotaAccounting(t *testing.T) {
	gen := &fakeGenerator{failOn: map[string]error{"https://shop.example.com/bad.jpg": errors.New("boom")}}
	q := &fakeQuota{}
	logs := &fakeLogStore{}
	p := newTestProcessor(gen, &fakeUploader{}, q, logs)

	_, err := p.ProcessBatch(context.Background(), uuid.New(), validRequest(
		"https://shop.example.com/a.jpg",
		"https://shop.example.com/bad.jpg",
		"https://shop.example.com/b.jpg",
	))

	require.NoError(t, err)
	// One attempt per batch, one success per completed item.
	assert.Equal(t, 1, q.attempts)
	assert.Equal(t, 2, q.successes)
}

func TestProcessBatchDeniedByQuotaProcessesNothing(t *testing.T) {
	gen := &fakeGenerator{}
	quotaErr := errors.New("daily attempt limit reached")
	p := newTestProcessor(gen, &fakeUploader{}, &fakeQuota{denyWith: quotaErr}, &fakeLogStore{})

	_, err := p.ProcessBatch(context.Background(), uuid.New(), validRequest("https://shop.example.com/a.jpg"))

	assert.ErrorIs(t, err, quotaErr)
	assert.Empty(t, gen.calls)
}

func TestProcessBatchValidatesBeforeQuota(t *testing.T) {
	q := &fakeQuota{}
	p := newTestProcessor(&fakeGenerator{}, &fakeUploader{}, q, &fakeLogStore{})

	_, err := p.ProcessBatch(context.Background(), uuid.New(), BatchRequest{AccessToken: "tok"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = p.ProcessBatch(context.Background(), uuid.New(), BatchRequest{ImageURLs: []string{"https://a.example.com/1.jpg"}})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	// No attempt may be charged for rejected requests.
	assert.Zero(t, q.attempts)
}

func TestProcessBatchLogsEveryItemWithTruncatedURL(t *testing.T) {
	longURL := "https://shop.example.com/" + strings.Repeat("p", 600)
	gen := &fakeGenerator{failOn: map[string]error{longURL: errors.New("boom")}}
	logs := &fakeLogStore{}
	p := newTestProcessor(gen, &fakeUploader{}, &fakeQuota{}, logs)

	_, err := p.ProcessBatch(context.Background(), uuid.New(), validRequest(
		"https://shop.example.com/a.jpg",
		longURL,
	))

	require.NoError(t, err)
	require.Len(t, logs.entries, 2)
	assert.Equal(t, 1, logs.entries[0].Status)
	assert.True(t, logs.entries[0].DriveLink.Valid)
	assert.Equal(t, 0, logs.entries[1].Status)
	assert.False(t, logs.entries[1].DriveLink.Valid)
	assert.Len(t, logs.entries[1].ImageURL, 500)
}
