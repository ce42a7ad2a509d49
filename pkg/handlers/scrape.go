package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/luminalabs/lumina-video-api/pkg/db"
	"github.com/luminalabs/lumina-video-api/pkg/middleware"
	"github.com/luminalabs/lumina-video-api/pkg/scraper"
	"github.com/luminalabs/lumina-video-api/pkg/utils"
)

type ScrapeImagesRequest struct {
	CollectionURL string `json:"collectionUrl" binding:"required"`
}

// ScrapeImages harvests candidate product image URLs from a live page.
func (h *Handlers) ScrapeImages(c *gin.Context) {
	var req ScrapeImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("ScrapeImages: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "collectionUrl is required", err.Error())
		return
	}

	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		log.Error("ScrapeImages: User claims not found in context.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error: User claims not found", nil)
		return
	}

	parsed, err := url.ParseRequestURI(req.CollectionURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		log.Debugf("ScrapeImages: Invalid URL '%s'.", req.CollectionURL)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid URL format", nil)
		return
	}

	images, err := h.Harvester.HarvestImages(c.Request.Context(), req.CollectionURL)
	if err != nil {
		log.Errorf("ScrapeImages: Harvest of %s failed for user %s: %v", req.CollectionURL, claims.UserID.String(), err)
		status := http.StatusInternalServerError
		if errors.Is(err, scraper.ErrNavigation) {
			status = http.StatusBadGateway
		}
		utils.ResponseWithError(c, status, "Failed to scrape images", err.Error())
		return
	}

	// Best-effort audit row; a log failure must not fail the scrape.
	if err := h.Store.InsertScrapeLog(&db.ScrapeLog{
		UserID:     claims.UserID,
		URL:        req.CollectionURL,
		ImageCount: len(images),
	}); err != nil {
		log.Warnf("ScrapeImages: Failed to log scrape for user %s: %v", claims.UserID.String(), err)
	}

	log.Infof("ScrapeImages: %d images found on %s for user %s.", len(images), req.CollectionURL, claims.UserID.String())
	utils.ResponseWithSuccess(c, http.StatusOK, "Images scraped successfully", gin.H{"images": images})
}
