package handler

import (
	"github.com/habitlog/internal/service"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	tracker *service.TrackerService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(tracker *service.TrackerService) *API {
	return &API{tracker: tracker}
}
