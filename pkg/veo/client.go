package veo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const (
	videoModel   = "veo-3.1-generate-preview"
	pollInterval = 10 * time.Second
	// maxPolls bounds the completion wait at roughly 15 minutes so a remote
	// operation that never finishes cannot hold the batch forever.
	maxPolls = 90
)

// DefaultPrompt is used when the caller supplies no prompt of their own.
const DefaultPrompt = `Create a professional product showcase video.
The camera should slowly orbit around the product with smooth, cinematic movements.
Add subtle lighting effects that highlight the product's features.
The background should be clean and minimalist.
Make it feel premium and high-end, like a luxury advertisement.`

// ErrGeneration wraps failures reported by the remote generation operation.
var ErrGeneration = errors.New("video generation failed")

// Client wraps the Google GenAI video generation API.
type Client struct {
	genai *genai.Client
}

// NewClient creates a new Veo client instance.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{genai: client}, nil
}

// GenerateVideo turns one product image into a short video and returns it as
// a data URL. imageRef is either a data URL or a fetchable remote URL. The
// remote operation is polled every 10 seconds until it completes, the poll
// budget runs out, or ctx is cancelled.
func (c *Client) GenerateVideo(ctx context.Context, imageRef, prompt string) (string, error) {
	if prompt == "" {
		prompt = DefaultPrompt
	}

	mimeType, imageBytes, err := resolveImage(ctx, imageRef)
	if err != nil {
		return "", err
	}

	log.Debug("Starting video generation with Veo...")
	operation, err := c.genai.Models.GenerateVideos(ctx, videoModel, prompt, &genai.Image{
		ImageBytes: imageBytes,
		MIMEType:   mimeType,
	}, nil)
	if err != nil {
		log.Errorf("Veo: failed to start generation operation: %v", err)
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	polls := 0
	for !operation.Done {
		if polls >= maxPolls {
			log.Errorf("Veo: operation %s still pending after %d polls, giving up.", operation.Name, polls)
			return "", fmt.Errorf("%w: operation did not complete within the poll budget", ErrGeneration)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(pollInterval):
		}
		polls++

		operation, err = c.genai.Operations.GetVideosOperation(ctx, operation, nil)
		if err != nil {
			log.Errorf("Veo: failed to poll operation: %v", err)
			return "", fmt.Errorf("%w: %v", ErrGeneration, err)
		}
		log.Debugf("Veo: waiting for video generation to complete (poll %d)...", polls)
	}

	if operation.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrGeneration, operationErrorMessage(operation.Error))
	}

	if operation.Response == nil || len(operation.Response.GeneratedVideos) == 0 || operation.Response.GeneratedVideos[0].Video == nil {
		return "", fmt.Errorf("%w: no video returned", ErrGeneration)
	}
	video := operation.Response.GeneratedVideos[0].Video

	if len(video.VideoBytes) > 0 {
		return "data:video/mp4;base64," + base64.StdEncoding.EncodeToString(video.VideoBytes), nil
	}

	raw, err := c.downloadVideo(ctx, video)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return "data:video/mp4;base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// downloadVideo fetches a video whose bytes were not attached inline,
// staging it in an exclusively-owned temp file removed on every path.
func (c *Client) downloadVideo(ctx context.Context, video *genai.Video) ([]byte, error) {
	tmp, err := os.CreateTemp("", "veo-video-*.mp4")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	data, err := c.genai.Files.Download(ctx, video, nil)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to download video: %w", err)
	}
	if len(data) == 0 {
		data = video.VideoBytes
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to stage video: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage video: %w", err)
	}

	return os.ReadFile(tmpPath)
}

func operationErrorMessage(opErr map[string]any) string {
	if msg, ok := opErr["message"].(string); ok && msg != "" {
		return msg
	}
	return "video generation failed"
}
