package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/outline/document"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/pipeline"
	"github.com/tsawler/outline/report"
)

// decoder serves fake documents by base name, ignoring file contents.
func decoder() document.Decoder {
	return document.DecoderFunc(func(ctx context.Context, path string) (document.Document, error) {
		name := filepath.Base(path)
		if name == "broken.pdf" {
			return nil, &document.DecodeError{Path: path, Err: errors.New("bad header")}
		}

		body := make([]string, 20)
		for i := range body {
			body[i] = fmt.Sprintf("Body line %d for %s.", i+1, name)
		}
		return document.NewMemory(path, &document.MemoryPage{BlockList: []model.Block{
			document.TextBlock(740, 24, "Helvetica-Bold", "Heading of "+name),
			document.TextBlock(700, 10, "Helvetica", body...),
		}}), nil
	})
}

func newTestServer() *httptest.Server {
	p := pipeline.New(pipeline.Config{Decoder: decoder(), Validate: true})
	return httptest.NewServer(New(p, 1, nil).Handler())
}

type part struct {
	field, filename, content string
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.filename == "" {
			require.NoError(t, mw.WriteField(p.field, p.content))
			continue
		}
		fw, err := mw.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(p.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func post(t *testing.T, url string, parts ...part) *http.Response {
	t.Helper()
	body, ct := multipartBody(t, parts...)
	resp, err := http.Post(url, ct, body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestOutline(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := post(t, srv.URL+"/v1/outline", part{"file", "report.pdf", "%PDF-1.4"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec report.Outline
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(t, "Heading of report.pdf", rec.Title)
	require.Len(t, rec.Outline, 1)
	assert.Equal(t, model.LevelH1, rec.Outline[0].Level)
}

func TestOutlineDecodeFailure(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := post(t, srv.URL+"/v1/outline", part{"file", "broken.pdf", "junk"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "bad header")
}

func TestOutlineRequiresOneFile(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := post(t, srv.URL+"/v1/outline", part{"other", "", "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, srv.URL+"/v1/outline",
		part{"file", "a.pdf", "x"},
		part{"file", "b.pdf", "y"},
	)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOutlineRejectsNonMultipart(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/outline", "application/json", bytes.NewBufferString("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := post(t, srv.URL+"/v1/analyze",
		part{"persona", "", "Researcher"},
		part{"job", "", "Summarise alpha"},
		part{"files", "alpha.pdf", "x"},
		part{"files", "beta.pdf", "y"},
		part{"files", "broken.pdf", "z"},
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var a report.Analysis
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&a))
	assert.Equal(t, "Researcher", a.Metadata.Persona)
	assert.Equal(t, []string{"alpha.pdf", "beta.pdf", "broken.pdf"}, a.Metadata.InputDocuments)
	require.Len(t, a.ExtractedSections, 2)
	assert.Equal(t, 1, a.ExtractedSections[0].ImportanceRank)
	assert.Equal(t, 2, a.ExtractedSections[1].ImportanceRank)
}

func TestAnalyzeRequiresPersonaAndJob(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := post(t, srv.URL+"/v1/analyze", part{"files", "a.pdf", "x"}, part{"persona", "", "p"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeRejectsDuplicateNames(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := post(t, srv.URL+"/v1/analyze",
		part{"persona", "", "p"},
		part{"job", "", "j"},
		part{"files", "a.pdf", "x"},
		part{"files", "a.pdf", "y"},
	)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAccessLogUsesLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	p := pipeline.New(pipeline.Config{Decoder: decoder(), Logger: logger})
	h := New(p, 1, logger).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "/healthz", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}
