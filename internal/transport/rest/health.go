package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/heartmarshall/lexipath/internal/domain"
)

const healthTimeout = 3 * time.Second

// storagePinger is the readiness check of the configured storage backend.
type storagePinger interface {
	Ping(ctx context.Context) error
}

// collectionReader loads the vocabulary with resolved statuses.
type collectionReader interface {
	Find(ctx context.Context, filter domain.VocabularyFilter) ([]domain.VocabularyRecord, error)
}

// HealthDeps configures a HealthHandler. Collection is optional; without it
// /health reports storage only.
type HealthDeps struct {
	Storage    storagePinger
	Collection collectionReader
	Driver     string
	Version    string
}

// HealthHandler serves liveness, readiness and the collection report.
type HealthHandler struct {
	deps HealthDeps
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(deps HealthDeps) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HealthResponse is the JSON body of /live, /ready and /health.
type HealthResponse struct {
	Status     string           `json:"status"`
	Version    string           `json:"version,omitempty"`
	Storage    *StorageStatus   `json:"storage,omitempty"`
	Collection *CollectionStats `json:"collection,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// StorageStatus describes the key-value backend.
type StorageStatus struct {
	Driver  string `json:"driver"`
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CollectionStats counts stored words per learning status.
type CollectionStats struct {
	Status     string `json:"status"`
	Words      int    `json:"words"`
	Mastered   int    `json:"mastered"`
	Unmastered int    `json:"unmastered"`
}

// Live always answers 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready answers 200 when storage responds and 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	st := h.pingStorage(ctx)
	writeJSON(w, statusCode(st.Status), HealthResponse{
		Status:    st.Status,
		Storage:   &st,
		Timestamp: time.Now(),
	})
}

// Health reports storage latency and, when storage is up, the size of the
// collection. A collection that cannot be loaded marks the report down.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := HealthResponse{Version: h.deps.Version}
	st := h.pingStorage(ctx)
	resp.Storage = &st
	resp.Status = st.Status

	if st.Status == "ok" && h.deps.Collection != nil {
		stats := h.collectionStats(ctx)
		resp.Collection = &stats
		resp.Status = stats.Status
	}

	resp.Timestamp = time.Now()
	writeJSON(w, statusCode(resp.Status), resp)
}

func (h *HealthHandler) pingStorage(ctx context.Context) StorageStatus {
	st := StorageStatus{Driver: h.deps.Driver}
	if st.Driver == "" {
		st.Driver = "unknown"
	}

	start := time.Now()
	if err := h.deps.Storage.Ping(ctx); err != nil {
		st.Status = "down"
		st.Error = err.Error()
		return st
	}
	st.Status = "ok"
	st.Latency = time.Since(start).String()
	return st
}

func (h *HealthHandler) collectionStats(ctx context.Context) CollectionStats {
	records, err := h.deps.Collection.Find(ctx, domain.VocabularyFilter{})
	if err != nil {
		return CollectionStats{Status: "down"}
	}

	stats := CollectionStats{Status: "ok", Words: len(records)}
	for _, r := range records {
		if r.Status == domain.StatusMastered {
			stats.Mastered++
		} else {
			stats.Unmastered++
		}
	}
	return stats
}

func statusCode(status string) int {
	if status == "ok" {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
