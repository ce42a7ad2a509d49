package handlers

import (
	"github.com/luminalabs/lumina-video-api/pkg/db/queries"
	"github.com/luminalabs/lumina-video-api/pkg/pipeline"
	"github.com/luminalabs/lumina-video-api/pkg/quota"
	"github.com/luminalabs/lumina-video-api/pkg/scraper"
	"github.com/luminalabs/lumina-video-api/pkg/services"
)

// Handlers holds the dependencies shared by every endpoint.
type Handlers struct {
	Store     *queries.Store
	Harvester *scraper.Harvester
	Processor *pipeline.Processor
	Quota     *quota.Tracker
	Tokens    *services.TokenService
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(store *queries.Store, harvester *scraper.Harvester, processor *pipeline.Processor, tracker *quota.Tracker, tokens *services.TokenService) *Handlers {
	return &Handlers{
		Store:     store,
		Harvester: harvester,
		Processor: processor,
		Quota:     tracker,
		Tokens:    tokens,
	}
}
