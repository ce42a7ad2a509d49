package drive

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// decodeVideoPayload accepts either a data URL or bare base64 and returns
// the raw video bytes.
func decodeVideoPayload(videoData string) ([]byte, error) {
	payload := videoData
	if strings.HasPrefix(videoData, "data:") {
		_, rest, found := strings.Cut(videoData, ";base64,")
		if !found {
			return nil, fmt.Errorf("invalid video data URL")
		}
		payload = rest
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 video payload: %w", err)
	}
	return raw, nil
}
