package memhunter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// IndexingStatus mirrors /api/index/status and the indexing_status block of
// /api/stats.
type IndexingStatus struct {
	IsIndexing bool   `json:"is_indexing"`
	Progress   int    `json:"progress"`
	Total      int    `json:"total"`
	Message    string `json:"message,omitempty"`
}

// ProgressText renders the "{progress}/{total}" counter shown while indexing.
func (s IndexingStatus) ProgressText() string {
	return fmt.Sprintf("%d/%d", s.Progress, s.Total)
}

// Fraction returns progress as a value in [0,1].
func (s IndexingStatus) Fraction() float64 {
	if s.Total <= 0 || s.Progress <= 0 {
		return 0
	}
	if s.Progress >= s.Total {
		return 1
	}
	return float64(s.Progress) / float64(s.Total)
}

// StatsSnapshot mirrors /api/stats.
type StatsSnapshot struct {
	TotalImages    int            `json:"total_images"`
	IndexingStatus IndexingStatus `json:"indexing_status"`
	ModelInfo      map[string]any `json:"model_info,omitempty"`
}

// Accepted is the body returned by endpoints that start background work.
type Accepted struct {
	Status   string `json:"status,omitempty"`
	Message  string `json:"message"`
	FolderID string `json:"folder_id,omitempty"`
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query     string  `json:"query"`
	TopK      int     `json:"top_k"`
	Threshold float64 `json:"threshold"`
}

// SearchResponse mirrors POST /api/search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// SearchResult is one ranked hit. Objects carries the detection list exactly as
// the backend sent it (usually a JSON-encoded string) and is interpreted by the
// viewer.
type SearchResult struct {
	Path     string          `json:"path"`
	Filename string          `json:"filename"`
	Score    float64         `json:"score"`
	Objects  json.RawMessage `json:"objects,omitempty"`
	OCRText  string          `json:"ocr_text,omitempty"`
}

// ScoreText formats the similarity score as a percentage with one decimal.
func (r SearchResult) ScoreText() string {
	return fmt.Sprintf("%.1f%%", r.Score*100)
}

// DetectedObject is a single detection box in image pixel coordinates.
type DetectedObject struct {
	Label string     `json:"label"`
	Score float64    `json:"score"`
	Box   [4]float64 `json:"box"`
}

// FolderStatus is the lifecycle state of a monitored folder.
type FolderStatus string

const (
	FolderPending  FolderStatus = "pending"
	FolderIndexing FolderStatus = "indexing"
	FolderActive   FolderStatus = "active"
	FolderPaused   FolderStatus = "paused"
	FolderError    FolderStatus = "error"
)

// Folder mirrors an entry of GET /api/folders.
type Folder struct {
	ID           string       `json:"id"`
	Path         string       `json:"path"`
	Name         string       `json:"name"`
	AddedAt      string       `json:"added_at,omitempty"`
	LastScan     string       `json:"last_scan,omitempty"`
	ImageCount   int          `json:"image_count"`
	IndexedCount int          `json:"indexed_count"`
	Status       FolderStatus `json:"status"`
}

// ParsedLastScan returns the last scan time, or zero when the folder was never scanned.
func (f Folder) ParsedLastScan() time.Time {
	return parseTime(f.LastScan)
}

// ParsedAddedAt returns when the folder was registered.
func (f Folder) ParsedAddedAt() time.Time {
	return parseTime(f.AddedAt)
}

// BrowseEntry is one child directory returned by the folder browser.
type BrowseEntry struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	IsFolder   bool   `json:"is_folder"`
	ImageCount int    `json:"image_count"`
	Accessible *bool  `json:"accessible,omitempty"`
}

// CanEnter reports whether the entry may be browsed into or selected. Entries
// without an accessible flag are treated as accessible.
func (e BrowseEntry) CanEnter() bool {
	return e.Accessible == nil || *e.Accessible
}

// BrowseResponse mirrors GET /api/folders/browse.
type BrowseResponse struct {
	CurrentPath string        `json:"current_path"`
	ParentPath  string        `json:"parent_path,omitempty"`
	IsRoot      bool          `json:"is_root"`
	Folders     []BrowseEntry `json:"folders"`
}

// ScanResult mirrors POST /api/folders/{id}/scan.
type ScanResult struct {
	FolderID    string `json:"folder_id"`
	TotalImages int    `json:"total_images"`
	ValidImages int    `json:"valid_images"`
	Errors      int    `json:"errors"`
}

// HealthReport mirrors POST /api/maintenance/health-check. DeletionRate is a
// percentage.
type HealthReport struct {
	TotalRecords    int      `json:"total_records"`
	ValidFiles      int      `json:"valid_files"`
	DeletedFiles    int      `json:"deleted_files"`
	DeletionRate    float64  `json:"deletion_rate"`
	Recommendations []string `json:"recommendations"`
}

// DeletedFile is a vector record whose source image no longer exists.
type DeletedFile struct {
	ID       string `json:"id,omitempty"`
	Path     string `json:"path"`
	Filename string `json:"filename"`
}

// CleanupReport mirrors POST /api/maintenance/cleanup.
type CleanupReport struct {
	Found        int           `json:"found"`
	Cleaned      int           `json:"cleaned"`
	DeletedFiles []DeletedFile `json:"deleted_files"`
}

// MaintenanceStats mirrors GET /api/maintenance/stats.
type MaintenanceStats struct {
	TotalRecords      int    `json:"total_records"`
	DeletedFilesCount int    `json:"deleted_files_count"`
	DatabaseHealth    string `json:"database_health"`
}

// ServiceHealth mirrors GET /api/health.
type ServiceHealth struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Version    string `json:"version"`
	VLMEnabled string `json:"vlm_enabled"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts
		}
	}
	return time.Time{}
}
