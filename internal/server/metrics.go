package server

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Metrics holds in-process transfer counters. They reset on restart;
// anything longer-lived belongs in an external scrape target.
type Metrics struct {
	mu sync.RWMutex

	uploadsTotal        int64
	uploadBytesTotal    int64
	uploadErrorsTotal   int64
	uploadDurationTotal time.Duration

	downloadsTotal        int64
	downloadBytesTotal    int64
	downloadErrorsTotal   int64
	downloadDurationTotal time.Duration

	listsTotal        int64
	listErrorsTotal   int64
	listDurationTotal time.Duration

	requestsTotal    int64
	requestErrors4xx int64
	requestErrors5xx int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordUpload records a successful upload
func (m *Metrics) RecordUpload(bytes int64, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadsTotal++
	m.uploadBytesTotal += bytes
	m.uploadDurationTotal += duration
}

// RecordUploadError records a rejected or failed upload
func (m *Metrics) RecordUploadError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadErrorsTotal++
}

// RecordDownload records a successful download
func (m *Metrics) RecordDownload(bytes int64, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloadsTotal++
	m.downloadBytesTotal += bytes
	m.downloadDurationTotal += duration
}

// RecordDownloadError records a failed or not-found download
func (m *Metrics) RecordDownloadError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloadErrorsTotal++
}

// RecordList records a successful listing
func (m *Metrics) RecordList(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listsTotal++
	m.listDurationTotal += duration
}

// RecordListError records a failed listing
func (m *Metrics) RecordListError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErrorsTotal++
}

// RecordRequest tallies every request by status class
func (m *Metrics) RecordRequest(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsTotal++
	switch {
	case status >= 500:
		m.requestErrors5xx++
	case status >= 400:
		m.requestErrors4xx++
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	UploadsTotal      int64 `json:"uploads_total"`
	UploadBytesTotal  int64 `json:"upload_bytes_total"`
	UploadErrorsTotal int64 `json:"upload_errors_total"`

	DownloadsTotal      int64 `json:"downloads_total"`
	DownloadBytesTotal  int64 `json:"download_bytes_total"`
	DownloadErrorsTotal int64 `json:"download_errors_total"`

	ListsTotal      int64 `json:"lists_total"`
	ListErrorsTotal int64 `json:"list_errors_total"`

	RequestsTotal    int64 `json:"requests_total"`
	RequestErrors4xx int64 `json:"request_errors_4xx"`
	RequestErrors5xx int64 `json:"request_errors_5xx"`
}

// Snapshot returns a snapshot of current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MetricsSnapshot{
		UploadsTotal:        m.uploadsTotal,
		UploadBytesTotal:    m.uploadBytesTotal,
		UploadErrorsTotal:   m.uploadErrorsTotal,
		DownloadsTotal:      m.downloadsTotal,
		DownloadBytesTotal:  m.downloadBytesTotal,
		DownloadErrorsTotal: m.downloadErrorsTotal,
		ListsTotal:          m.listsTotal,
		ListErrorsTotal:     m.listErrorsTotal,
		RequestsTotal:       m.requestsTotal,
		RequestErrors4xx:    m.requestErrors4xx,
		RequestErrors5xx:    m.requestErrors5xx,
	}
}

// handleMetrics exposes the counters in Prometheus text format so a
// scraper can pick them up without pulling a client library into the
// service.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap := s.metrics.Snapshot()

	var out strings.Builder
	writeCounter := func(name, help string, value int64) {
		fmt.Fprintf(&out, "# HELP %s %s\n", name, help)
		fmt.Fprintf(&out, "# TYPE %s counter\n", name)
		fmt.Fprintf(&out, "%s %d\n\n", name, value)
	}

	fmt.Fprintf(&out, "# HELP fstash_info Application version info\n")
	fmt.Fprintf(&out, "# TYPE fstash_info gauge\n")
	fmt.Fprintf(&out, "fstash_info{version=%q,commit=%q} 1\n\n", s.cfg.Build.Version, s.cfg.Build.Commit)

	writeCounter("fstash_requests_total", "Total number of HTTP requests", snap.RequestsTotal)
	writeCounter("fstash_request_errors_4xx_total", "Requests answered with a 4xx status", snap.RequestErrors4xx)
	writeCounter("fstash_request_errors_5xx_total", "Requests answered with a 5xx status", snap.RequestErrors5xx)
	writeCounter("fstash_uploads_total", "Total number of stored uploads", snap.UploadsTotal)
	writeCounter("fstash_upload_bytes_total", "Total decoded payload bytes stored", snap.UploadBytesTotal)
	writeCounter("fstash_upload_errors_total", "Uploads rejected or failed", snap.UploadErrorsTotal)
	writeCounter("fstash_downloads_total", "Total number of served downloads", snap.DownloadsTotal)
	writeCounter("fstash_download_bytes_total", "Total payload bytes served", snap.DownloadBytesTotal)
	writeCounter("fstash_download_errors_total", "Downloads failed or not found", snap.DownloadErrorsTotal)
	writeCounter("fstash_lists_total", "Total number of list calls", snap.ListsTotal)
	writeCounter("fstash_list_errors_total", "List calls failed", snap.ListErrorsTotal)

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out.String()))
}
