package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// ErrUpload wraps any failure while storing a video in Drive.
var ErrUpload = errors.New("drive upload failed")

// UploadResult identifies the stored video.
type UploadResult struct {
	FileID    string
	DriveLink string
}

// Uploader stores generated videos in the caller's Google Drive. It holds no
// credentials of its own; every call carries the user's OAuth access token.
type Uploader struct{}

func NewUploader() *Uploader {
	return &Uploader{}
}

// Upload decodes the video payload, uploads it under the optional folder and
// grants anyone-with-the-link read access before returning the file id and
// shareable link. A single attempt; transient failures propagate.
func (u *Uploader) Upload(ctx context.Context, videoData, accessToken, folderID, fileName string) (*UploadResult, error) {
	raw, err := decodeVideoPayload(videoData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	service, err := drive.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		log.Errorf("Drive: failed to create service: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	if fileName == "" {
		timestamp := strings.ReplaceAll(time.Now().UTC().Format(time.RFC3339), ":", "-")
		fileName = fmt.Sprintf("lumina-video-%s.mp4", timestamp)
	}

	metadata := &drive.File{Name: fileName}
	if folderID != "" {
		metadata.Parents = []string{folderID}
	}

	created, err := service.Files.Create(metadata).
		Media(bytes.NewReader(raw)).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		log.Errorf("Drive: failed to upload %s: %v", fileName, err)
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	// Make the file accessible to anyone with the link.
	_, err = service.Permissions.Create(created.Id, &drive.Permission{
		Role: "reader",
		Type: "anyone",
	}).Context(ctx).Do()
	if err != nil {
		log.Errorf("Drive: failed to grant link access on %s: %v", created.Id, err)
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	log.Infof("Drive: uploaded %s (file id %s).", fileName, created.Id)
	return &UploadResult{FileID: created.Id, DriveLink: created.WebViewLink}, nil
}
