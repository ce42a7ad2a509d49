package scraper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectProductImagesFiltersNonProductAssets(t *testing.T) {
	candidates := []imageCandidate{
		{Src: "https://shop.example.com/assets/logo.png"},
		{Src: "https://shop.example.com/images/product-1.jpg"},
		{Src: "https://shop.example.com/assets/icon.svg"},
		{Src: "https://shop.example.com/assets/tracking-pixel.png"},
		{Src: "https://shop.example.com/images/product-2.jpg"},
	}

	images := selectProductImages(candidates, maxImages)

	assert.Equal(t, []string{
		"https://shop.example.com/images/product-1.jpg",
		"https://shop.example.com/images/product-2.jpg",
	}, images)
}

func TestSelectProductImagesDeduplicatesAcrossAttributes(t *testing.T) {
	// The same absolute URL appears as src of one element and inside the
	// srcset of another; it must survive exactly once.
	candidates := []imageCandidate{
		{Src: "https://shop.example.com/images/product-1.jpg"},
		{Srcset: "https://shop.example.com/images/product-1.jpg 1x, https://shop.example.com/images/product-1-2x.jpg 2x"},
	}

	images := selectProductImages(candidates, maxImages)

	assert.Equal(t, []string{
		"https://shop.example.com/images/product-1.jpg",
		"https://shop.example.com/images/product-1-2x.jpg",
	}, images)
}

func TestSelectProductImagesCapsAtLimitPreservingOrder(t *testing.T) {
	candidates := make([]imageCandidate, 0, 80)
	for i := 0; i < 80; i++ {
		candidates = append(candidates, imageCandidate{
			Src: fmt.Sprintf("https://shop.example.com/images/product-%03d.jpg", i),
		})
	}

	images := selectProductImages(candidates, maxImages)

	require.Len(t, images, 50)
	assert.Equal(t, "https://shop.example.com/images/product-000.jpg", images[0])
	assert.Equal(t, "https://shop.example.com/images/product-049.jpg", images[49])
}

func TestSelectProductImagesRejectsRelativeAndNonHTTP(t *testing.T) {
	candidates := []imageCandidate{
		{Src: "/images/product-relative.jpg"},
		{Src: "data:image/png;base64,AAAA"},
		{Src: "ftp://shop.example.com/product.jpg"},
		{DataSrc: "https://shop.example.com/images/lazy-product.jpg"},
	}

	images := selectProductImages(candidates, maxImages)

	assert.Equal(t, []string{"https://shop.example.com/images/lazy-product.jpg"}, images)
}

func TestSelectProductImagesEmptyInput(t *testing.T) {
	assert.Empty(t, selectProductImages(nil, maxImages))
}

func TestParseSrcset(t *testing.T) {
	urls := parseSrcset("https://a.example.com/1.jpg 320w, https://a.example.com/2.jpg 640w,https://a.example.com/3.jpg")
	assert.Equal(t, []string{
		"https://a.example.com/1.jpg",
		"https://a.example.com/2.jpg",
		"https://a.example.com/3.jpg",
	}, urls)

	assert.Nil(t, parseSrcset("   "))
}
