package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	dldomain "vidfetch/internal/domain/download"
)

type stubService struct {
	formats []dldomain.Format
	listErr error

	jobPath string
	jobErr  error
	gotReq  dldomain.JobRequest
}

func (s *stubService) ListFormats(_ context.Context, _ string) ([]dldomain.Format, error) {
	return s.formats, s.listErr
}

func (s *stubService) RunJob(_ context.Context, req dldomain.JobRequest) (string, error) {
	s.gotReq = req
	return s.jobPath, s.jobErr
}

type stubJar struct {
	data []byte
	err  error
}

func (j *stubJar) Save(r io.Reader) error {
	if j.err != nil {
		return j.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	j.data = data
	return nil
}

func newTestHandler(svc *stubService, jar *stubJar) *Handler {
	return NewHandler(svc, jar, log.New(io.Discard, "", 0))
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(&stubService{}, &stubJar{})
	rec := httptest.NewRecorder()

	handler.Health(rec, httptest.NewRequest("GET", "/.well-known/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("unexpected status %q", body["status"])
	}
}

func TestListFormats_SuccessEnvelope(t *testing.T) {
	svc := &stubService{formats: []dldomain.Format{{
		ID:       "18",
		Height:   360,
		FPS:      30,
		Filesize: 1048576,
		Ext:      "mp4",
		Kind:     dldomain.KindBoth,
	}}}
	handler := newTestHandler(svc, &stubJar{})
	rec := httptest.NewRecorder()

	req := httptest.NewRequest("POST", "/formats", strings.NewReader(`{"url":"https://example.com/v"}`))
	handler.ListFormats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		OK      bool                     `json:"ok"`
		Formats []map[string]interface{} `json:"formats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if !body.OK || len(body.Formats) != 1 {
		t.Fatalf("unexpected envelope %s", rec.Body.String())
	}

	f := body.Formats[0]
	if f["id"] != "18" || f["resolution"] != "360p" || f["ext"] != "mp4" || f["type"] != "both" {
		t.Fatalf("unexpected descriptor %v", f)
	}
	if f["fps"] != float64(30) || f["filesize"] != float64(1048576) {
		t.Fatalf("unexpected numeric fields %v", f)
	}
}

func TestListFormats_UnknownFieldsRenderedAsStrings(t *testing.T) {
	svc := &stubService{formats: []dldomain.Format{{ID: "140", Ext: "m4a", Kind: dldomain.KindAudio}}}
	handler := newTestHandler(svc, &stubJar{})
	rec := httptest.NewRecorder()

	handler.ListFormats(rec, httptest.NewRequest("POST", "/formats", strings.NewReader(`{"url":"https://example.com/v"}`)))

	var body struct {
		Formats []map[string]interface{} `json:"formats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	f := body.Formats[0]
	if f["resolution"] != "Audio Only" {
		t.Fatalf("expected Audio Only resolution, got %v", f["resolution"])
	}
	if f["fps"] != "unknown" || f["filesize"] != "unknown" {
		t.Fatalf("expected unknown placeholders, got %v", f)
	}
}

func TestListFormats_FailureEnvelope(t *testing.T) {
	svc := &stubService{listErr: &dldomain.ResolutionError{Reason: "extraction failed"}}
	handler := newTestHandler(svc, &stubJar{})
	rec := httptest.NewRecorder()

	handler.ListFormats(rec, httptest.NewRequest("POST", "/formats", strings.NewReader(`{"url":"https://example.com/v"}`)))

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.OK || body.Error == "" {
		t.Fatalf("unexpected envelope %s", rec.Body.String())
	}
}

func TestDownload_ToolMissing(t *testing.T) {
	svc := &stubService{jobErr: dldomain.ErrToolUnavailable}
	handler := newTestHandler(svc, &stubJar{})
	rec := httptest.NewRecorder()

	payload := `{"url":"https://example.com/v","format_id":"18","output_filename":"clip"}`
	handler.Download(rec, httptest.NewRequest("POST", "/download", strings.NewReader(payload)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body["error"] != "FFmpeg not found. Cannot proceed." {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}

func TestDownload_StreamsArtifact(t *testing.T) {
	artifact := filepath.Join(t.TempDir(), "clip.mp4")
	content := []byte("fake mp4 bytes")
	if err := os.WriteFile(artifact, content, 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	svc := &stubService{jobPath: artifact}
	handler := newTestHandler(svc, &stubJar{})
	rec := httptest.NewRecorder()

	payload := `{"url":"https://example.com/v","format_id":"18","output_filename":"clip","trim_start":"00:00:01","trim_end":"00:00:05"}`
	handler.Download(rec, httptest.NewRequest("POST", "/download", strings.NewReader(payload)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !bytes.Equal(rec.Body.Bytes(), content) {
		t.Fatalf("artifact bytes not streamed")
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "clip.mp4") {
		t.Fatalf("unexpected disposition %q", cd)
	}

	if svc.gotReq.FormatID != "18" || svc.gotReq.TrimStart != "00:00:01" || svc.gotReq.TrimEnd != "00:00:05" {
		t.Fatalf("request fields not forwarded: %+v", svc.gotReq)
	}
}

func TestDownload_RangeRequest(t *testing.T) {
	artifact := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(artifact, []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	svc := &stubService{jobPath: artifact}
	handler := newTestHandler(svc, &stubJar{})
	rec := httptest.NewRecorder()

	req := httptest.NewRequest("POST", "/download", strings.NewReader(`{"url":"https://example.com/v","format_id":"18","output_filename":"clip"}`))
	req.Header.Set("Range", "bytes=2-5")
	handler.Download(rec, req)

	if rec.Code != http.StatusPartialContent {
		t.Fatalf("expected 206, got %d", rec.Code)
	}
	if rec.Body.String() != "2345" {
		t.Fatalf("unexpected range body %q", rec.Body.String())
	}
	if cr := rec.Header().Get("Content-Range"); cr != "bytes 2-5/10" {
		t.Fatalf("unexpected content range %q", cr)
	}
}

func TestUploadCookies(t *testing.T) {
	jar := &stubJar{}
	handler := newTestHandler(&stubService{}, jar)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("cookies", "cookies.txt")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	_, _ = part.Write([]byte("# Netscape HTTP Cookie File\n"))
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/upload-cookies", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.UploadCookies(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(string(jar.data), "Netscape") {
		t.Fatalf("jar did not receive uploaded bytes")
	}
}

func TestUploadCookies_MissingField(t *testing.T) {
	handler := newTestHandler(&stubService{}, &stubJar{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("other", "value")
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/upload-cookies", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.UploadCookies(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRecover_ConvertsPanicToGeneric500(t *testing.T) {
	handler := newTestHandler(&stubService{}, &stubJar{})
	wrapped := handler.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("secret internal detail")
	}))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("panic detail leaked to client: %q", rec.Body.String())
	}
}

func TestRouter_MethodsAndRoutes(t *testing.T) {
	handler := newTestHandler(&stubService{}, &stubJar{})
	router := NewRouter(handler, t.TempDir())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/.well-known/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health route: expected 200, got %d", rec.Code)
	}

	// GET on an API path falls through to the static file server.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/formats", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("formats GET: expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/formats", strings.NewReader("not json")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("formats POST with bad body: expected 400, got %d", rec.Code)
	}
}
