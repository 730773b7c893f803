package exports

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Format enumerates the supported export content types.
type Format string

const (
	FormatPNG Format = "image/png"
	FormatPDF Format = "application/pdf"
	FormatCSV Format = "text/csv"
)

// Valid reports whether the format is one of the supported types.
func (f Format) Valid() bool {
	switch f {
	case FormatPNG, FormatPDF, FormatCSV:
		return true
	}
	return false
}

// Ext returns the filename extension for the format.
func (f Format) Ext() string {
	if i := strings.IndexByte(string(f), '/'); i >= 0 {
		return string(f)[i+1:]
	}
	return string(f)
}

// Asset is one exported artifact. Small content is stored inline; large
// content lives gzipped in the object store under ContentLocation.
type Asset struct {
	ID     uuid.UUID `json:"id"`
	TeamID int64     `json:"team_id"`
	Format Format    `json:"export_format"`
	// Content holds inline bytes when ContentLocation is empty.
	Content []byte `json:"content,omitempty"`
	// ContentLocation is the object-store location of gzipped content.
	ContentLocation string `json:"content_location,omitempty"`
	// ExportContext carries caller-provided context, e.g. a filename hint.
	ExportContext map[string]interface{} `json:"export_context,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// HasContent reports whether any content is attached.
func (a Asset) HasContent() bool {
	return len(a.Content) > 0 || a.ContentLocation != ""
}

// Filename derives a download name from the export context and format.
func (a Asset) Filename() string {
	name := "export"
	if a.ExportContext != nil {
		if v, ok := a.ExportContext["filename"].(string); ok && v != "" {
			name = slugify(v)
		}
	}
	return fmt.Sprintf("%s.%s", name, a.Format.Ext())
}

var slugStrip = regexp.MustCompile(`[^a-z0-9-]+`)

// slugify lowercases and collapses anything outside [a-z0-9-] to dashes.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugStrip.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "export"
	}
	return s
}
