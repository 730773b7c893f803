package controllers

import (
	"net/http"

	"github.com/rzbill/replay/internal/runtime"
	exportsvc "github.com/rzbill/replay/internal/services/exports"
	recordingsvc "github.com/rzbill/replay/internal/services/recordings"
)

// ControllerRegistry manages all HTTP controllers.
type ControllerRegistry struct {
	recordings *RecordingsController
	exports    *ExportsController
}

// NewControllerRegistry initializes all controllers with the provided
// runtime and services.
func NewControllerRegistry(rt *runtime.Runtime, recSvc *recordingsvc.Service, expSvc *exportsvc.Service) *ControllerRegistry {
	return &ControllerRegistry{
		recordings: NewRecordingsController(rt, recSvc),
		exports:    NewExportsController(rt, expSvc),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.recordings.RegisterRoutes(mux)
	r.exports.RegisterRoutes(mux)
}
