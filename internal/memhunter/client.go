package memhunter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Client talks to the MemoryHunter HTTP API.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	userAgent  string
	photosRoot string
	log        logrus.FieldLogger
}

const (
	defaultAPIBase    = "127.0.0.1:8000"
	defaultUserAgent  = "hunter/0.3"
	defaultPhotosRoot = "/app/photos"
	requestTimeout    = 10 * time.Second

	maxErrorBody = 64 << 10
	maxPhotoSize = 64 << 20
)

// Option customises a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithPhotosRoot sets the server-side directory that /photos/ is served from.
func WithPhotosRoot(root string) Option {
	return func(c *Client) {
		if strings.TrimSpace(root) != "" {
			c.photosRoot = strings.TrimSpace(root)
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the given base URL or host:port.
func NewClient(apiBase string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent:  defaultUserAgent,
		photosRoot: defaultPhotosRoot,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("component", "api")
	return c, nil
}

// BaseURL returns the normalised API base.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Stats retrieves the library size and indexing status.
func (c *Client) Stats(ctx context.Context) (*StatsSnapshot, error) {
	var payload StatsSnapshot
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// StartIndex asks the backend to start a full indexing run.
func (c *Client) StartIndex(ctx context.Context) (*Accepted, error) {
	var payload Accepted
	if err := c.do(ctx, http.MethodPost, "/api/index", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// IndexStatus retrieves the current indexing status.
func (c *Client) IndexStatus(ctx context.Context) (*IndexingStatus, error) {
	var payload IndexingStatus
	if err := c.do(ctx, http.MethodGet, "/api/index/status", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Search runs a similarity search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var payload SearchResponse
	if err := c.do(ctx, http.MethodPost, "/api/search", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Folders lists monitored folders.
func (c *Client) Folders(ctx context.Context) ([]Folder, error) {
	var payload []Folder
	if err := c.do(ctx, http.MethodGet, "/api/folders", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateFolder registers a new monitored folder.
func (c *Client) CreateFolder(ctx context.Context, path, name string) (*Folder, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("folder path required")
	}
	body := struct {
		Path string `json:"path"`
		Name string `json:"name,omitempty"`
	}{Path: path, Name: name}
	var payload Folder
	if err := c.do(ctx, http.MethodPost, "/api/folders", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteFolder stops monitoring a folder. When deleteVectors is set the
// backend also drops that folder's vectors.
func (c *Client) DeleteFolder(ctx context.Context, id string, deleteVectors bool) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("folder id required")
	}
	values := url.Values{}
	if deleteVectors {
		values.Set("delete_vectors", strconv.FormatBool(true))
	}
	rel := &url.URL{Path: "/api/folders/" + id, RawQuery: values.Encode()}
	return c.doURL(ctx, http.MethodDelete, rel, nil, nil)
}

// ScanFolder counts the images in a folder.
func (c *Client) ScanFolder(ctx context.Context, id string) (*ScanResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("folder id required")
	}
	var payload ScanResult
	if err := c.do(ctx, http.MethodPost, "/api/folders/"+id+"/scan", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// IndexFolder starts indexing a single folder.
func (c *Client) IndexFolder(ctx context.Context, id string, forceReindex bool) (*Accepted, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("folder id required")
	}
	body := struct {
		ForceReindex bool `json:"force_reindex"`
	}{ForceReindex: forceReindex}
	var payload Accepted
	if err := c.do(ctx, http.MethodPost, "/api/folders/"+id+"/index", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Browse lists child directories of path. An empty path returns the roots.
func (c *Client) Browse(ctx context.Context, path string) (*BrowseResponse, error) {
	values := url.Values{}
	if p := strings.TrimSpace(path); p != "" {
		values.Set("path", p)
	}
	rel := &url.URL{Path: "/api/folders/browse", RawQuery: values.Encode()}
	var payload BrowseResponse
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// HealthCheck asks the backend to verify every indexed file still exists.
func (c *Client) HealthCheck(ctx context.Context) (*HealthReport, error) {
	var payload HealthReport
	if err := c.do(ctx, http.MethodPost, "/api/maintenance/health-check", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Cleanup previews (autoRemove=false) or removes records of deleted files.
func (c *Client) Cleanup(ctx context.Context, autoRemove bool) (*CleanupReport, error) {
	body := struct {
		AutoRemove bool `json:"auto_remove"`
	}{AutoRemove: autoRemove}
	var payload CleanupReport
	if err := c.do(ctx, http.MethodPost, "/api/maintenance/cleanup", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Optimize triggers background database optimisation.
func (c *Client) Optimize(ctx context.Context) (*Accepted, error) {
	var payload Accepted
	if err := c.do(ctx, http.MethodPost, "/api/maintenance/optimize", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// MaintenanceStats retrieves record counts relevant to cleanup.
func (c *Client) MaintenanceStats(ctx context.Context) (*MaintenanceStats, error) {
	var payload MaintenanceStats
	if err := c.do(ctx, http.MethodGet, "/api/maintenance/stats", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Health pings the service.
func (c *Client) Health(ctx context.Context) (*ServiceHealth, error) {
	var payload ServiceHealth
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchPhoto downloads the image for a server-side path.
func (c *Client) FetchPhoto(ctx context.Context, serverPath string) ([]byte, error) {
	rel := c.photoRef(serverPath)
	resp, err := c.send(ctx, http.MethodGet, rel, nil, "image/*")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoSize+1))
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if len(data) > maxPhotoSize {
		return nil, fmt.Errorf("photo %s exceeds %d bytes", rel.Path, maxPhotoSize)
	}
	return data, nil
}

// PhotoPath maps an absolute server path onto the public /photos/ route.
func (c *Client) PhotoPath(serverPath string) string {
	root := strings.TrimRight(c.photosRoot, "/") + "/"
	rel := strings.TrimPrefix(serverPath, root)
	rel = strings.TrimLeft(rel, "/")
	parts := strings.Split(rel, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return "/photos/" + strings.Join(parts, "/")
}

// PhotoURL returns the absolute URL of a result image.
func (c *Client) PhotoURL(serverPath string) string {
	return c.baseURL.ResolveReference(c.photoRef(serverPath)).String()
}

func (c *Client) photoRef(serverPath string) *url.URL {
	escaped := c.PhotoPath(serverPath)
	decoded, err := url.PathUnescape(escaped)
	if err != nil {
		decoded = escaped
	}
	return &url.URL{Path: decoded, RawPath: escaped}
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	resp, err := c.send(ctx, method, rel, body, "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return &DecodeError{Method: method, Path: rel.Path, Err: err}
	}
	return nil
}

// send issues the request and converts non-2xx answers into *APIError. The
// caller owns the returned body.
func (c *Client) send(ctx context.Context, method string, rel *url.URL, body any, accept string) (*http.Response, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	entry := c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       rel.Path,
		"request_id": requestID,
	})
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		entry.WithError(err).Warn("request failed")
		return nil, &TransportError{Method: method, Path: rel.Path, Err: err}
	}
	entry = entry.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"elapsed": time.Since(started).Round(time.Millisecond),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{
			Method: method,
			Path:   rel.Path,
			Status: resp.StatusCode,
			Detail: parseDetail(raw),
		}
		entry.WithField("detail", apiErr.Detail).Warn("request rejected")
		return nil, apiErr
	}
	entry.Debug("request completed")
	return resp, nil
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base %q: missing host", apiBase)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
