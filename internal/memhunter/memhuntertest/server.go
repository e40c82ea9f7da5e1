// Package memhuntertest provides an in-memory MemoryHunter backend for tests.
package memhuntertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/memoryhunter/hunter/internal/memhunter"
)

// Failure forces a route to answer with Status and {"detail": Detail}.
type Failure struct {
	Status int
	Detail string
}

// Server is a fake backend. Routes are keyed as "METHOD /path" for failures and
// request counters, e.g. "POST /api/index".
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	totalImages   int
	indexSteps    []memhunter.IndexingStatus
	indexStep     int
	indexStarted  bool
	searchResults []memhunter.SearchResult
	lastSearch    memhunter.SearchRequest
	folders       []memhunter.Folder
	nextFolderID  int
	browse        map[string]memhunter.BrowseResponse
	health        memhunter.HealthReport
	deleted       []memhunter.DeletedFile
	photos        map[string][]byte
	failures      map[string]Failure
	counts        map[string]int
	onRequest     func(key string)
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		browse:   make(map[string]memhunter.BrowseResponse),
		photos:   make(map[string][]byte),
		failures: make(map[string]Failure),
		counts:   make(map[string]int),
		health: memhunter.HealthReport{
			Recommendations: []string{"数据库健康状态良好"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("POST /api/index", s.handleStartIndex)
	mux.HandleFunc("GET /api/index/status", s.handleIndexStatus)
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/folders", s.handleListFolders)
	mux.HandleFunc("POST /api/folders", s.handleCreateFolder)
	mux.HandleFunc("GET /api/folders/browse", s.handleBrowse)
	mux.HandleFunc("DELETE /api/folders/{id}", s.handleDeleteFolder)
	mux.HandleFunc("POST /api/folders/{id}/scan", s.handleScanFolder)
	mux.HandleFunc("POST /api/folders/{id}/index", s.handleIndexFolder)
	mux.HandleFunc("POST /api/maintenance/health-check", s.handleHealthCheck)
	mux.HandleFunc("POST /api/maintenance/cleanup", s.handleCleanup)
	mux.HandleFunc("POST /api/maintenance/optimize", s.handleOptimize)
	mux.HandleFunc("GET /api/maintenance/stats", s.handleMaintenanceStats)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /photos/{rel...}", s.handlePhoto)

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.counts[key]++
		failure, failing := s.failures[key]
		hook := s.onRequest
		s.mu.Unlock()

		if hook != nil {
			hook(key)
		}
		if failing {
			writeDetail(w, failure.Status, failure.Detail)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// Client returns a memhunter client pointed at the fake.
func (s *Server) Client(t testing.TB) *memhunter.Client {
	t.Helper()
	c, err := memhunter.NewClient(s.URL, memhunter.WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

// Fail makes every request to key answer with the given failure.
func (s *Server) Fail(key string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key] = Failure{Status: status, Detail: detail}
}

// Recover removes a failure installed by Fail.
func (s *Server) Recover(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, key)
}

// Requests returns how many requests reached key.
func (s *Server) Requests(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key]
}

// TotalRequests returns the number of requests of any kind.
func (s *Server) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// OnRequest installs a hook that runs before each request is served. It may
// block to hold a response back.
func (s *Server) OnRequest(fn func(key string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRequest = fn
}

// SetTotalImages sets the image count reported by /api/stats.
func (s *Server) SetTotalImages(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalImages = n
}

// SetIndexSteps scripts the answers of /api/index/status after a start. Each
// poll consumes one step and the last step repeats.
func (s *Server) SetIndexSteps(steps ...memhunter.IndexingStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexSteps = append([]memhunter.IndexingStatus(nil), steps...)
	s.indexStep = 0
}

// SetSearchResults sets the ranked results returned by /api/search.
func (s *Server) SetSearchResults(results ...memhunter.SearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchResults = append([]memhunter.SearchResult(nil), results...)
}

// LastSearch returns the body of the most recent search.
func (s *Server) LastSearch() memhunter.SearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSearch
}

// SetFolderStatus changes a folder's status as the backend would while indexing.
func (s *Server) SetFolderStatus(id string, status memhunter.FolderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.folders {
		if s.folders[i].ID == id {
			s.folders[i].Status = status
		}
	}
}

// SetFolderImages sets the image count a scan will report for a folder.
func (s *Server) SetFolderImages(id string, images int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.folders {
		if s.folders[i].ID == id {
			s.folders[i].ImageCount = images
		}
	}
}

// Folders returns the folders currently held by the fake.
func (s *Server) Folders() []memhunter.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]memhunter.Folder(nil), s.folders...)
}

// RemoveFolder drops a folder without going through the API.
func (s *Server) RemoveFolder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

// SetBrowse registers the listing returned for path. The empty path is the root.
func (s *Server) SetBrowse(p string, resp memhunter.BrowseResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.browse[p] = resp
}

// SetHealth sets the health-check report.
func (s *Server) SetHealth(report memhunter.HealthReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = report
}

// SetDeletedFiles sets the records a cleanup will find.
func (s *Server) SetDeletedFiles(files ...memhunter.DeletedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append([]memhunter.DeletedFile(nil), files...)
}

// SetPhoto serves data at /photos/<rel>.
func (s *Server) SetPhoto(rel string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos[strings.TrimLeft(rel, "/")] = data
}

func (s *Server) currentStatusLocked() memhunter.IndexingStatus {
	if !s.indexStarted || len(s.indexSteps) == 0 {
		return memhunter.IndexingStatus{Message: "就绪"}
	}
	idx := s.indexStep
	if idx >= len(s.indexSteps) {
		idx = len(s.indexSteps) - 1
	}
	return s.indexSteps[idx]
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	payload := memhunter.StatsSnapshot{
		TotalImages:    s.totalImages,
		IndexingStatus: s.currentStatusLocked(),
		ModelInfo:      map[string]any{"model": "chinese-clip-vit-base-patch16"},
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleStartIndex(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	if s.indexStarted && s.currentStatusLocked().IsIndexing {
		s.mu.Unlock()
		writeDetail(w, http.StatusConflict, "索引正在进行中，请稍后再试")
		return
	}
	s.indexStarted = true
	s.indexStep = 0
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, memhunter.Accepted{Status: "started", Message: "索引任务已启动，将在后台执行"})
}

func (s *Server) handleIndexStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	status := s.currentStatusLocked()
	if s.indexStarted && s.indexStep < len(s.indexSteps) {
		s.indexStep++
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req memhunter.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "query must not be empty")
		return
	}
	s.mu.Lock()
	s.lastSearch = req
	results := make([]memhunter.SearchResult, 0, len(s.searchResults))
	for _, res := range s.searchResults {
		if res.Score < req.Threshold {
			continue
		}
		results = append(results, res)
		if req.TopK > 0 && len(results) >= req.TopK {
			break
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, memhunter.SearchResponse{Query: req.Query, Results: results, Count: len(results)})
}

func (s *Server) handleListFolders(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := append([]memhunter.Folder{}, s.folders...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Path) == "" {
		writeDetail(w, http.StatusBadRequest, "路径不能为空")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.folders {
		if f.Path == req.Path {
			writeDetail(w, http.StatusBadRequest, "文件夹已存在: "+req.Path)
			return
		}
	}
	name := req.Name
	if name == "" {
		name = path.Base(req.Path)
	}
	s.nextFolderID++
	folder := memhunter.Folder{
		ID:      fmt.Sprintf("f%d", s.nextFolderID),
		Path:    req.Path,
		Name:    name,
		AddedAt: time.Now().Format("2006-01-02T15:04:05"),
		Status:  memhunter.FolderPending,
	}
	s.folders = append(s.folders, folder)
	writeJSON(w, http.StatusOK, folder)
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Query().Get("path")
	s.mu.Lock()
	resp, ok := s.browse[p]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "路径不存在: "+p)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	removed := s.removeLocked(id)
	s.mu.Unlock()
	if !removed {
		writeDetail(w, http.StatusNotFound, "文件夹不存在: "+id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"vectors_deleted": r.URL.Query().Get("delete_vectors") == "true",
	})
}

func (s *Server) handleScanFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.folders {
		if s.folders[i].ID != id {
			continue
		}
		s.folders[i].LastScan = time.Now().Format("2006-01-02T15:04:05")
		n := s.folders[i].ImageCount
		writeJSON(w, http.StatusOK, memhunter.ScanResult{FolderID: id, TotalImages: n, ValidImages: n})
		return
	}
	writeDetail(w, http.StatusNotFound, "文件夹不存在: "+id)
}

func (s *Server) handleIndexFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.folders {
		if s.folders[i].ID != id {
			continue
		}
		s.folders[i].Status = memhunter.FolderIndexing
		writeJSON(w, http.StatusOK, memhunter.Accepted{
			Status:   "started",
			Message:  "文件夹索引任务已启动: " + s.folders[i].Name,
			FolderID: id,
		})
		return
	}
	writeDetail(w, http.StatusNotFound, "文件夹不存在: "+id)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	report := s.health
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AutoRemove bool `json:"auto_remove"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	s.mu.Lock()
	defer s.mu.Unlock()
	report := memhunter.CleanupReport{
		Found:        len(s.deleted),
		DeletedFiles: append([]memhunter.DeletedFile{}, s.deleted...),
	}
	if req.AutoRemove {
		report.Cleaned = len(s.deleted)
		s.deleted = nil
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleOptimize(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, memhunter.Accepted{Status: "started", Message: "数据库优化任务已启动"})
}

func (s *Server) handleMaintenanceStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	stats := memhunter.MaintenanceStats{
		TotalRecords:      s.totalImages,
		DeletedFilesCount: len(s.deleted),
		DatabaseHealth:    "healthy",
	}
	s.mu.Unlock()
	if stats.DeletedFilesCount > 0 {
		stats.DatabaseHealth = "needs_attention"
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, memhunter.ServiceHealth{
		Status:     "healthy",
		Service:    "MemoryHunter",
		Version:    "2.0.0",
		VLMEnabled: "disabled",
	})
}

func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	rel := r.PathValue("rel")
	s.mu.Lock()
	data, ok := s.photos[rel]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "图片不存在")
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}

func (s *Server) removeLocked(id string) bool {
	for i := range s.folders {
		if s.folders[i].ID == id {
			s.folders = append(s.folders[:i], s.folders[i+1:]...)
			return true
		}
	}
	return false
}

// Keys lists every route key that has been requested, sorted.
func (s *Server) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.counts))
	for k := range s.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
