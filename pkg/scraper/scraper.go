package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

const (
	// navigationTimeout bounds the page load, DOM walk included.
	navigationTimeout = 30 * time.Second
	// settleDelay gives lazy-loaded images a chance to materialize. This is
	// a heuristic, not a guarantee.
	settleDelay = 2 * time.Second
	// maxImages caps the returned list.
	maxImages = 50
)

var (
	// ErrBrowser means the automation session could not be established.
	ErrBrowser = errors.New("browser session could not be established")
	// ErrNavigation means the target page could not be loaded in time.
	ErrNavigation = errors.New("page could not be loaded")
)

// imageCandidate mirrors the attributes collected from one <img> element.
type imageCandidate struct {
	Src     string `json:"src"`
	Srcset  string `json:"srcset"`
	DataSrc string `json:"dataSrc"`
}

const collectImagesJS = `Array.from(document.querySelectorAll('img')).map((img) => ({
	src: img.src || '',
	srcset: img.getAttribute('srcset') || '',
	dataSrc: img.getAttribute('data-src') || '',
}))`

// Harvester extracts candidate product image URLs from live web pages.
type Harvester struct {
	// browserlessWSURL points at a pooled remote Chrome (Browserless-style
	// websocket endpoint). Empty means launch a local headless instance.
	browserlessWSURL string
}

func NewHarvester(browserlessWSURL string) *Harvester {
	return &Harvester{browserlessWSURL: browserlessWSURL}
}

// HarvestImages loads pageURL in a scoped browser session, walks every image
// element and returns up to 50 deduplicated product image URLs in first-seen
// order. An empty slice is a valid result. The session is released on every
// exit path.
func (h *Harvester) HarvestImages(ctx context.Context, pageURL string) ([]string, error) {
	allocCtx, cancelAlloc := h.newAllocator(ctx)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// An empty Run starts the browser, so a launch/connect failure is
	// reported as a session error rather than a navigation one.
	if err := chromedp.Run(browserCtx); err != nil {
		log.Errorf("Harvester: failed to establish browser session: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrBrowser, err)
	}

	runCtx, cancelRun := context.WithTimeout(browserCtx, navigationTimeout)
	defer cancelRun()

	var candidates []imageCandidate
	err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(settleDelay),
		chromedp.Evaluate(collectImagesJS, &candidates),
	)
	if err != nil {
		log.Warnf("Harvester: navigation to %s failed: %v", pageURL, err)
		return nil, fmt.Errorf("%w: %v", ErrNavigation, err)
	}

	images := selectProductImages(candidates, maxImages)
	log.Infof("Harvester: %s yielded %d candidate elements, %d product images.", pageURL, len(candidates), len(images))
	return images, nil
}

func (h *Harvester) newAllocator(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.browserlessWSURL != "" {
		log.Debugf("Harvester: using remote browser pool at %s", h.browserlessWSURL)
		return chromedp.NewRemoteAllocator(ctx, h.browserlessWSURL)
	}
	return chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
}
