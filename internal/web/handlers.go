package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/tabwash/tabwash/internal/logging"
	"github.com/tabwash/tabwash/internal/pipeline"
)

// handleUpload ingests a delimited text file: multipart "file" field,
// content-sniffed, decoded, and parsed. Responds with the session ID and
// detection diagnostics.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody(pipeline.UserMessage{
			Code:    "FILE004",
			Message: fmt.Sprintf("File exceeds the %dMB limit or the form is invalid", maxSize/(1024*1024)),
			Action:  "Upload a smaller file",
		}))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(pipeline.UserMessage{
			Code:    "FILE005",
			Message: "No file provided",
			Action:  "Attach a file under the \"file\" form field",
		}))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	// Content sniffing keeps binary uploads out of the text pipeline.
	// Zero-length uploads pass through so they surface as EmptyInput.
	if len(data) > 0 && !isTextContent(data) {
		s.respondError(w, r, fmt.Errorf("%w: detected %s", pipeline.ErrNotText, mimetype.Detect(data)))
		return
	}

	report, err := s.service.Ingest(header.Filename, data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("file ingested",
		"file_id", report.FileID,
		"file_name", report.FileName,
		"encoding", report.EncodingLabel,
		"invalid_chars", report.InvalidCharacterCount,
		"delimiter", report.DetectedDelimiter,
		"rows", report.RowsBefore,
	)

	writeJSON(w, http.StatusCreated, report)
}

// handleStatus returns the session's current diagnostics record.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Status(chi.URLParam(r, "fileID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleClean runs the cleaning engine against a session. The JSON body
// holds cleaning options; absent fields keep their configured defaults,
// and an empty body means "defaults for everything".
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	opts := s.service.Defaults()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read clean request: %w", err))
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &opts); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(pipeline.UserMessage{
				Code:    "OPT001",
				Message: "Invalid options payload",
				Action:  "Send a JSON object of boolean toggles",
			}))
			return
		}
	}

	report, err := s.service.Clean(chi.URLParam(r, "fileID"), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("file cleaned",
		"file_id", report.FileID,
		"rows_before", report.RowsBefore,
		"rows_after", report.RowsAfter,
		"removed_empty", report.RemovedEmpty,
		"duplicates_removed", report.DuplicatesRemoved,
	)

	writeJSON(w, http.StatusOK, report)
}

// handleDownload streams the cleaned output as a CSV attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name, data, err := s.service.Download(chi.URLParam(r, "fileID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleDefaultOptions returns the configured default toggle set, so a
// client can reset its options without other state loss.
func (s *Server) handleDefaultOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Defaults())
}

// isTextContent reports whether sniffed content is some text format.
// Legacy single-byte encodings detect as text/plain, so this does not
// constrain the encoding resolver's candidates.
func isTextContent(data []byte) bool {
	m := mimetype.Detect(data)
	for ; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/") {
			return true
		}
	}
	return false
}
