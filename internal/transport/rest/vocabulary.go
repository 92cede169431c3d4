package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/heartmarshall/lexipath/internal/domain"
	"github.com/heartmarshall/lexipath/internal/export"
	"github.com/heartmarshall/lexipath/internal/ingest"
	"github.com/heartmarshall/lexipath/internal/service/vocabulary"
)

// vocabularyService defines the minimal interface needed by VocabularyHandler.
type vocabularyService interface {
	Import(ctx context.Context, src ingest.Source) (*vocabulary.ImportResult, error)
	AddWord(ctx context.Context, input vocabulary.AddWordInput) (domain.VocabularyRecord, error)
	EnrichRecord(ctx context.Context, id string) (domain.VocabularyRecord, error)
	Find(ctx context.Context, filter domain.VocabularyFilter) ([]domain.VocabularyRecord, error)
	SetStatus(ctx context.Context, id string, status domain.Status) error
	UpdateFields(ctx context.Context, id string, patch domain.RecordPatch) (domain.VocabularyRecord, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, input vocabulary.DeleteManyInput) (int, error)
	Clear(ctx context.Context) error
	Export(ctx context.Context, format domain.ExportFormat, w io.Writer) error
}

// VocabularyHandler serves the vocabulary REST endpoints.
type VocabularyHandler struct {
	svc       vocabularyService
	log       *slog.Logger
	maxUpload int64
}

// NewVocabularyHandler creates a VocabularyHandler. maxUpload bounds the
// import request body.
func NewVocabularyHandler(svc vocabularyService, logger *slog.Logger, maxUpload int64) *VocabularyHandler {
	return &VocabularyHandler{svc: svc, log: logger.With("handler", "vocabulary"), maxUpload: maxUpload}
}

type recordResponse struct {
	ID            string   `json:"id"`
	Word          string   `json:"word"`
	Pronunciation string   `json:"pronunciation"`
	MeaningEN     string   `json:"meaning_en"`
	MeaningCN     string   `json:"meaning_cn"`
	Examples      []string `json:"examples"`
	Synonyms      string   `json:"synonyms"`
	Collocations  string   `json:"collocations"`
	Status        string   `json:"status"`
}

func toRecordResponse(r domain.VocabularyRecord) recordResponse {
	return recordResponse{
		ID:            r.ID,
		Word:          r.Word,
		Pronunciation: r.Pronunciation,
		MeaningEN:     r.MeaningEN,
		MeaningCN:     r.MeaningCN,
		Examples:      r.AllExamples(),
		Synonyms:      r.Synonyms,
		Collocations:  r.Collocations,
		Status:        string(r.Status),
	}
}

type listResponse struct {
	Items []recordResponse `json:"items"`
	Total int              `json:"total"`
}

type addWordRequest struct {
	Word string `json:"word"`
}

type importURLRequest struct {
	URL string `json:"url"`
}

type importErrorResponse struct {
	LineNumber int    `json:"line_number"`
	Text       string `json:"text,omitempty"`
	Reason     string `json:"reason"`
}

type importResponse struct {
	RunID    string                `json:"run_id"`
	Source   string                `json:"source"`
	Format   string                `json:"format"`
	Imported int                   `json:"imported"`
	Updated  int                   `json:"updated"`
	Skipped  int                   `json:"skipped"`
	Errors   []importErrorResponse `json:"errors"`
}

// emptyImportResponse carries the skipped rows so a client can tell why
// nothing was imported.
type emptyImportResponse struct {
	Error string `json:"error"`
	importResponse
}

type patchRequest struct {
	Pronunciation *string  `json:"pronunciation"`
	MeaningEN     *string  `json:"meaning_en"`
	MeaningCN     *string  `json:"meaning_cn"`
	Examples      []string `json:"examples"`
	Synonyms      *string  `json:"synonyms"`
	Collocations  *string  `json:"collocations"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type batchDeleteRequest struct {
	IDs []string `json:"ids"`
}

// List handles GET /api/vocabulary?q=&status=.
func (h *VocabularyHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.VocabularyFilter{Query: r.URL.Query().Get("q")}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		filter.Status = &status
	}

	records, err := h.svc.Find(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := listResponse{Items: make([]recordResponse, 0, len(records)), Total: len(records)}
	for _, rec := range records {
		resp.Items = append(resp.Items, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Add handles POST /api/vocabulary.
func (h *VocabularyHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.AddWord(r.Context(), vocabulary.AddWordInput{Word: req.Word})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordResponse(rec))
}

// Import handles POST /api/vocabulary/import. A multipart "file" part, a
// JSON {"url": ...} body, or an empty body (sample data) select the source.
func (h *VocabularyHandler) Import(w http.ResponseWriter, r *http.Request) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}

	src, err := h.importSource(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Import(r.Context(), src)
	switch {
	case errors.Is(err, domain.ErrEmptySource) && res != nil:
		writeJSON(w, http.StatusUnprocessableEntity, emptyImportResponse{
			Error:          err.Error(),
			importResponse: toImportResponse(res),
		})
		return
	case err != nil:
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toImportResponse(res))
}

func (h *VocabularyHandler) importSource(r *http.Request) (ingest.Source, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return ingest.Source{}, errors.New("missing file part")
			}
			return ingest.Source{}, err
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return ingest.Source{}, err
		}
		return ingest.FileSource(header.Filename, bytes.NewReader(data)), nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ingest.Source{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return ingest.SampleSource(), nil
	}

	var req importURLRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return ingest.Source{}, errors.New("invalid request body")
	}
	return ingest.URLSource(req.URL), nil
}

func toImportResponse(res *vocabulary.ImportResult) importResponse {
	resp := importResponse{
		RunID:    res.RunID.String(),
		Source:   res.Source,
		Format:   res.Format,
		Imported: res.Imported,
		Updated:  res.Updated,
		Skipped:  res.Skipped,
		Errors:   make([]importErrorResponse, 0, len(res.Errors)),
	}
	for _, e := range res.Errors {
		resp.Errors = append(resp.Errors, importErrorResponse{LineNumber: e.LineNumber, Text: e.Text, Reason: e.Reason})
	}
	return resp
}

// Update handles PATCH /api/vocabulary/{id}.
func (h *VocabularyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.UpdateFields(r.Context(), r.PathValue("id"), domain.RecordPatch{
		Pronunciation: req.Pronunciation,
		MeaningEN:     req.MeaningEN,
		MeaningCN:     req.MeaningCN,
		Examples:      req.Examples,
		Synonyms:      req.Synonyms,
		Collocations:  req.Collocations,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

// SetStatus handles PUT /api/vocabulary/{id}/status.
func (h *VocabularyHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := h.svc.SetStatus(r.Context(), r.PathValue("id"), status); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": r.PathValue("id"), "status": string(status)})
}

// Enrich handles POST /api/vocabulary/{id}/enrich.
func (h *VocabularyHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.EnrichRecord(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

// Delete handles DELETE /api/vocabulary/{id}.
func (h *VocabularyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BatchDelete handles POST /api/vocabulary/batch-delete.
func (h *VocabularyHandler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	n, err := h.svc.DeleteMany(r.Context(), vocabulary.DeleteManyInput{IDs: req.IDs})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

// Clear handles DELETE /api/vocabulary.
func (h *VocabularyHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/vocabulary/export?format=xlsx|csv.
func (h *VocabularyHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := domain.ExportFormat(strings.ToLower(r.URL.Query().Get("format")))
	if format == "" {
		format = domain.ExportFormatXLSX
	}
	if !format.IsValid() {
		writeError(w, http.StatusBadRequest, "format must be xlsx or csv")
		return
	}

	// Buffer so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), format, &buf); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="lexicon.`+string(format)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}
