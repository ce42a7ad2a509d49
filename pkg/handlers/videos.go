package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/luminalabs/lumina-video-api/pkg/middleware"
	"github.com/luminalabs/lumina-video-api/pkg/pipeline"
	"github.com/luminalabs/lumina-video-api/pkg/quota"
	"github.com/luminalabs/lumina-video-api/pkg/utils"
)

type GenerateVideosRequest struct {
	ImageURLs   []string `json:"imageUrls" binding:"required,min=1"`
	AccessToken string   `json:"accessToken" binding:"required"`
	FolderID    string   `json:"folderId"`
	Prompt      string   `json:"prompt"`
}

// RecentVideo is one entry of the recent-generations list.
type RecentVideo struct {
	ID        int64  `json:"id"`
	DriveLink string `json:"drive_link"`
	ImageURL  string `json:"image_url"`
	CreatedAt string `json:"created_at"`
}

// GenerateVideos runs the batch pipeline over the selected images.
func (h *Handlers) GenerateVideos(c *gin.Context) {
	var req GenerateVideosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("GenerateVideos: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "imageUrls array and accessToken are required", err.Error())
		return
	}

	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		log.Error("GenerateVideos: User claims not found in context.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error: User claims not found", nil)
		return
	}

	result, err := h.Processor.ProcessBatch(c.Request.Context(), claims.UserID, pipeline.BatchRequest{
		ImageURLs:   req.ImageURLs,
		AccessToken: req.AccessToken,
		FolderID:    req.FolderID,
		Prompt:      req.Prompt,
	})
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrInvalidRequest):
			utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request", err.Error())
		case errors.Is(err, quota.ErrGlobalLimitExceeded),
			errors.Is(err, quota.ErrAttemptLimitExceeded),
			errors.Is(err, quota.ErrSuccessLimitExceeded):
			log.Infof("GenerateVideos: Quota denied batch for user %s: %v", claims.UserID.String(), err)
			utils.ResponseWithError(c, http.StatusTooManyRequests, err.Error(), nil)
		default:
			log.Errorf("GenerateVideos: Batch failed for user %s: %v", claims.UserID.String(), err)
			utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to generate videos", nil)
		}
		return
	}

	utils.ResponseWithSuccess(c, http.StatusOK, "Batch processed", result)
}

// UserUsage returns the caller's counters and limits for today.
func (h *Handlers) UserUsage(c *gin.Context) {
	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		log.Error("UserUsage: User claims not found in context.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error: User claims not found", nil)
		return
	}

	usage, err := h.Quota.CurrentUsage(claims.UserID)
	if err != nil {
		log.Errorf("UserUsage: Failed to load usage for user %s: %v", claims.UserID.String(), err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to get usage", nil)
		return
	}

	utils.ResponseWithSuccess(c, http.StatusOK, "Usage retrieved successfully", gin.H{"usage": usage})
}

// GetRecents returns the caller's 5 most recent successful generations.
func (h *Handlers) GetRecents(c *gin.Context) {
	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		log.Error("GetRecents: User claims not found in context.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error: User claims not found", nil)
		return
	}

	entries, err := h.Store.RecentSuccessfulVideoLogs(claims.UserID, 5)
	if err != nil {
		log.Errorf("GetRecents: Failed to load recents for user %s: %v", claims.UserID.String(), err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to get recent videos", nil)
		return
	}

	recents := make([]RecentVideo, len(entries))
	for i, e := range entries {
		recents[i] = RecentVideo{
			ID:        e.ID,
			DriveLink: e.DriveLink.String,
			ImageURL:  e.ImageURL,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
	}

	utils.ResponseWithSuccess(c, http.StatusOK, "Recent videos retrieved successfully", gin.H{"recents": recents})
}
