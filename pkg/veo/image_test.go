package veo

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImageDataURL(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff, 0xe0}
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(payload)

	mimeType, raw, err := decodeImageDataURL(dataURL)

	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)
	assert.Equal(t, payload, raw)
}

func TestDecodeImageDataURLInvalid(t *testing.T) {
	for _, dataURL := range []string{
		"data:image/jpeg;base64",      // no payload separator
		"data:image/jpeg,notbase64",   // missing base64 marker
		"data:;base64,AAAA",           // missing MIME type
		"data:image/jpeg;base64,@@@@", // bad payload
	} {
		_, _, err := decodeImageDataURL(dataURL)
		assert.Error(t, err, dataURL)
	}
}

func TestResolveImageFetchesRemoteURL(t *testing.T) {
	payload := []byte("fake-png-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}))
	defer srv.Close()

	mimeType, raw, err := resolveImage(context.Background(), srv.URL+"/product.png")

	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, payload, raw)
}

func TestResolveImageDefaultsMIMEType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	mimeType, _, err := resolveImage(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)
}

func TestResolveImageNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, _, err := resolveImage(context.Background(), srv.URL)

	assert.ErrorIs(t, err, ErrFetch)
}
