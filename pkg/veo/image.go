package veo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrFetch means a remote image reference could not be retrieved.
var ErrFetch = errors.New("failed to fetch image")

var imageHTTPClient = &http.Client{Timeout: 30 * time.Second}

// resolveImage turns an image reference into raw bytes plus a MIME type.
// Data URLs are decoded inline; anything else is fetched over HTTP.
func resolveImage(ctx context.Context, imageRef string) (string, []byte, error) {
	if strings.HasPrefix(imageRef, "data:") {
		return decodeImageDataURL(imageRef)
	}
	return fetchRemoteImage(ctx, imageRef)
}

func decodeImageDataURL(dataURL string) (string, []byte, error) {
	rest, found := strings.CutPrefix(dataURL, "data:")
	if !found {
		return "", nil, fmt.Errorf("invalid data URL format")
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("invalid data URL format")
	}
	mimeType := strings.TrimSuffix(meta, ";base64")
	if mimeType == "" {
		return "", nil, fmt.Errorf("invalid data URL format")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid data URL payload: %w", err)
	}
	return mimeType, raw, nil
}

func fetchRemoteImage(ctx context.Context, imageURL string) (string, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := imageHTTPClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, fmt.Errorf("%w: %s", ErrFetch, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return mimeType, raw, nil
}
