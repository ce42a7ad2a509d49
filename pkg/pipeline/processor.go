package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/luminalabs/lumina-video-api/pkg/db"
	"github.com/luminalabs/lumina-video-api/pkg/drive"
)

// Item statuses in the batch result.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// maxLoggedImageURL bounds the source reference stored per log row.
const maxLoggedImageURL = 500

// ErrInvalidRequest rejects a malformed batch before any quota mutation or
// remote call happens.
var ErrInvalidRequest = errors.New("invalid batch request")

// Generator produces one video from one image reference.
type Generator interface {
	GenerateVideo(ctx context.Context, imageRef, prompt string) (string, error)
}

// Uploader stores one generated video and returns its shareable link.
type Uploader interface {
	Upload(ctx context.Context, videoData, accessToken, folderID, fileName string) (*drive.UploadResult, error)
}

// QuotaTracker gates the batch and charges completed items.
type QuotaTracker interface {
	CheckAndIncrementAttempt(userID uuid.UUID) error
	RecordSuccess(userID uuid.UUID) error
}

// LogStore appends per-item generation outcomes.
type LogStore interface {
	InsertVideoLog(entry *db.VideoLog) error
}

// BatchRequest is one user-submitted generation batch.
type BatchRequest struct {
	ImageURLs   []string
	AccessToken string
	FolderID    string
	Prompt      string
}

// VideoResult is the outcome for a single image, in input order.
type VideoResult struct {
	ImageURL  string `json:"imageUrl"`
	VideoURL  string `json:"videoUrl"`
	DriveLink string `json:"driveLink,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// BatchResult aggregates every item's outcome.
type BatchResult struct {
	Results        []VideoResult `json:"results"`
	TotalProcessed int           `json:"totalProcessed"`
	Errors         int           `json:"errors"`
}

// Processor drives the per-image generation pipeline for one batch at a
// time: generate, upload, log, charge quota, strictly in input order.
type Processor struct {
	generator Generator
	uploader  Uploader
	quota     QuotaTracker
	logs      LogStore
}

func NewProcessor(generator Generator, uploader Uploader, quota QuotaTracker, logs LogStore) *Processor {
	return &Processor{
		generator: generator,
		uploader:  uploader,
		quota:     quota,
		logs:      logs,
	}
}

// ProcessBatch validates the request, charges one quota attempt for the
// whole batch, then processes every image sequentially. One item's failure
// never aborts its siblings; the result list always has one entry per input
// image, in input order.
func (p *Processor) ProcessBatch(ctx context.Context, userID uuid.UUID, req BatchRequest) (*BatchResult, error) {
	if len(req.ImageURLs) == 0 {
		return nil, fmt.Errorf("%w: imageUrls array is required", ErrInvalidRequest)
	}
	if req.AccessToken == "" {
		return nil, fmt.Errorf("%w: storage access token is required", ErrInvalidRequest)
	}

	// One attempt covers the whole batch, however many images it carries.
	// The success counter below is charged per item. This asymmetry is the
	// observed product behavior.
	if err := p.quota.CheckAndIncrementAttempt(userID); err != nil {
		return nil, err
	}

	log.Infof("Processing batch of %d images for user %s.", len(req.ImageURLs), userID.String())

	results := make([]VideoResult, 0, len(req.ImageURLs))
	for _, imageURL := range req.ImageURLs {
		results = append(results, p.processImage(ctx, userID, imageURL, req))
	}

	errorCount := 0
	for _, r := range results {
		if r.Status == StatusError {
			errorCount++
		}
	}

	log.Infof("Batch for user %s finished: %d processed, %d errors.", userID.String(), len(results), errorCount)
	return &BatchResult{
		Results:        results,
		TotalProcessed: len(results),
		Errors:         errorCount,
	}, nil
}

func (p *Processor) processImage(ctx context.Context, userID uuid.UUID, imageURL string, req BatchRequest) VideoResult {
	videoURL, err := p.generator.GenerateVideo(ctx, imageURL, req.Prompt)
	if err != nil {
		log.Warnf("Pipeline: generation failed for %s: %v", truncate(imageURL, 120), err)
		p.logOutcome(userID, imageURL, "", false)
		return VideoResult{ImageURL: imageURL, Status: StatusError, Error: err.Error()}
	}

	uploaded, err := p.uploader.Upload(ctx, videoURL, req.AccessToken, req.FolderID, "")
	if err != nil {
		// The generated video is discarded; a storage failure surfaces as
		// an item error with no storage-only retry.
		log.Warnf("Pipeline: upload failed for %s: %v", truncate(imageURL, 120), err)
		p.logOutcome(userID, imageURL, "", false)
		return VideoResult{ImageURL: imageURL, Status: StatusError, Error: err.Error()}
	}

	p.logOutcome(userID, imageURL, uploaded.DriveLink, true)
	if err := p.quota.RecordSuccess(userID); err != nil {
		log.Warnf("Pipeline: failed to record success for user %s: %v", userID.String(), err)
	}

	return VideoResult{
		ImageURL:  imageURL,
		VideoURL:  videoURL,
		DriveLink: uploaded.DriveLink,
		Status:    StatusSuccess,
	}
}

// logOutcome appends one best-effort log row; a log write failure must not
// fail the item it describes.
func (p *Processor) logOutcome(userID uuid.UUID, imageURL, driveLink string, success bool) {
	entry := &db.VideoLog{
		UserID:   userID,
		ImageURL: truncate(imageURL, maxLoggedImageURL),
	}
	if success {
		entry.Status = 1
		entry.DriveLink = sql.NullString{String: driveLink, Valid: driveLink != ""}
	}

	if err := p.logs.InsertVideoLog(entry); err != nil {
		log.Warnf("Pipeline: failed to append video log for user %s: %v", userID.String(), err)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
