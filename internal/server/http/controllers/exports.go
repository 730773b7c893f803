package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rzbill/replay/internal/runtime"
	exportsvc "github.com/rzbill/replay/internal/services/exports"
)

// ExportsController handles exported-asset endpoints: creating assets,
// reading their metadata, and serving content through signed public URLs.
type ExportsController struct {
	rt  *runtime.Runtime
	svc *exportsvc.Service
}

// NewExportsController creates a new exports controller.
func NewExportsController(rt *runtime.Runtime, svc *exportsvc.Service) *ExportsController {
	return &ExportsController{rt: rt, svc: svc}
}

// RegisterRoutes registers export routes with the given mux.
func (c *ExportsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/exports", c.handleCreate)
	mux.HandleFunc("/api/exports/", c.handleGet)
	mux.HandleFunc("/exporter/", c.handleExporter)
}

type createExportReq struct {
	TeamID        int64                  `json:"team_id"`
	Format        string                 `json:"export_format"`
	Content       []byte                 `json:"content"`
	ExportContext map[string]interface{} `json:"export_context"`
}

type exportResp struct {
	ID         string    `json:"id"`
	TeamID     int64     `json:"team_id"`
	Format     string    `json:"export_format"`
	Filename   string    `json:"filename"`
	HasContent bool      `json:"has_content"`
	CreatedAt  time.Time `json:"created_at"`
	URL        string    `json:"url,omitempty"`
}

func (c *ExportsController) toResp(asset exportsvc.Asset, withURL bool) exportResp {
	resp := exportResp{
		ID:         asset.ID.String(),
		TeamID:     asset.TeamID,
		Format:     string(asset.Format),
		Filename:   asset.Filename(),
		HasContent: asset.HasContent(),
		CreatedAt:  asset.CreatedAt,
	}
	if withURL {
		if path, err := c.svc.PublicPath(asset); err == nil {
			resp.URL = path
		}
	}
	return resp
}

// handleCreate stores a new exported asset.
func (c *ExportsController) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req createExportReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	asset, err := c.svc.Create(r.Context(), req.TeamID, exportsvc.Format(req.Format), req.Content, req.ExportContext)
	if err != nil {
		if errors.Is(err, exportsvc.ErrBadFormat) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create export")
		return
	}
	writeCreated(w, c.toResp(asset, true))
}

// handleGet returns asset metadata by id: /api/exports/{id}.
func (c *ExportsController) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, "/api/exports/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid export id")
		return
	}
	asset, err := c.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, exportsvc.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Export not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load export")
		return
	}
	writeJSON(w, c.toResp(asset, true))
}

// handleExporter serves asset content for a valid public token:
// /exporter/{filename}?token=...
func (c *ExportsController) handleExporter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Token is required")
		return
	}
	asset, err := c.svc.AssetForToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, exportsvc.ErrBadToken), errors.Is(err, exportsvc.ErrNoSigner):
			writeError(w, http.StatusUnauthorized, "Invalid token")
		case errors.Is(err, exportsvc.ErrNotFound):
			writeError(w, http.StatusNotFound, "Export not found")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to load export")
		}
		return
	}
	content, err := c.svc.Content(r.Context(), asset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load export content")
		return
	}
	w.Header().Set("Content-Type", string(asset.Format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", asset.Filename()))
	_, _ = w.Write(content)
}
