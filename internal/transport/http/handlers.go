package http

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	dldomain "vidfetch/internal/domain/download"
)

type downloadUseCases interface {
	ListFormats(ctx context.Context, url string) ([]dldomain.Format, error)
	RunJob(ctx context.Context, req dldomain.JobRequest) (string, error)
}

type cookieJar interface {
	Save(r io.Reader) error
}

type Handler struct {
	downloads downloadUseCases
	jar       cookieJar
	logger    *log.Logger
}

// NewHandler wires HTTP handlers with application use cases.
func NewHandler(downloads downloadUseCases, jar cookieJar, logger *log.Logger) *Handler {
	return &Handler{downloads: downloads, jar: jar, logger: logger}
}

// Health handles GET /.well-known/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ListFormats handles POST /formats. Success and failure share one tagged
// shape: {"ok":true,"formats":[...]} or {"ok":false,"error":...}.
func (h *Handler) ListFormats(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"ok": false, "error": "invalid JSON body"})
		return
	}

	formats, err := h.downloads.ListFormats(r.Context(), body.URL)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": false, "error": err.Error()})
		return
	}

	resp := make([]map[string]interface{}, 0, len(formats))
	for _, f := range formats {
		resp = append(resp, formatDTO(f))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "formats": resp})
}

// Download handles POST /download: runs the job synchronously and streams the
// final artifact back as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL            string `json:"url"`
		FormatID       string `json:"format_id"`
		OutputFilename string `json:"output_filename"`
		TrimStart      string `json:"trim_start"`
		TrimEnd        string `json:"trim_end"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	req := dldomain.JobRequest{
		SourceURL:  body.URL,
		FormatID:   body.FormatID,
		OutputName: body.OutputFilename,
		TrimStart:  body.TrimStart,
		TrimEnd:    body.TrimEnd,
	}

	finalPath, err := h.downloads.RunJob(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(finalPath)+`"`)
	streamFile(w, r, finalPath, "video/mp4")
}

// UploadCookies handles POST /upload-cookies with a multipart "cookies" field.
func (h *Handler) UploadCookies(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	file, _, err := r.FormFile("cookies")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing cookies file"})
		return
	}
	defer file.Close()

	if err := h.jar.Save(file); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Recover converts any handler panic into a generic 500 without leaking
// internal detail.
func (h *Handler) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func formatDTO(f dldomain.Format) map[string]interface{} {
	resolution := "Audio Only"
	if f.Height > 0 {
		resolution = strconv.Itoa(f.Height) + "p"
	}

	var fps interface{} = "unknown"
	if f.FPS > 0 {
		fps = f.FPS
	}
	var filesize interface{} = "unknown"
	if f.Filesize > 0 {
		filesize = f.Filesize
	}

	return map[string]interface{}{
		"id":         f.ID,
		"resolution": resolution,
		"fps":        fps,
		"filesize":   filesize,
		"ext":        f.Ext,
		"type":       string(f.Kind),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
