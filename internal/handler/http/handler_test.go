package http

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/internal/mock"
	"github.com/MKhiriev/data-publish-agent/models"
)

func newTestServer(t *testing.T) (*httptest.Server, *mock.MockSyncDriver) {
	t.Helper()
	ctrl := gomock.NewController(t)
	driver := mock.NewMockSyncDriver(ctrl)

	h := NewHandler(driver, models.NewAppBuildInfo("v1.0.0", "2026-01-01", "abc123"), logger.Nop())
	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)
	return srv, driver
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	// keep the raw body so compression can be asserted
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandler_Healthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := get(t, srv.URL+"/healthz")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
}

func TestHandler_Status(t *testing.T) {
	srv, driver := newTestServer(t)

	report := models.SyncReport{
		RunID:      "run-1",
		StartedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC),
		ClientIDs:  []string{"1"},
		Reports: []models.CollectionReport{
			{Collection: "clients", Items: 1, Done: true, End: models.SyncCursor{Version: 5}},
			{Collection: "projects", Scope: models.Scope{ClientID: "1"}, Error: "fetch failed"},
		},
	}
	driver.EXPECT().LastReport().Return(report, true)

	resp := get(t, srv.URL+"/status")

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body statusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, report, body.Report)
	assert.Equal(t, 1, body.Items)
	assert.Equal(t, 1, body.Failed)
}

func TestHandler_Status_NoRunYet(t *testing.T) {
	srv, driver := newTestServer(t)
	driver.EXPECT().LastReport().Return(models.SyncReport{}, false)

	resp := get(t, srv.URL+"/status")

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, ErrNoReport.Error(), body["error"])
}

func TestHandler_Version(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := get(t, srv.URL+"/version")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Build version: v1.0.0")
	assert.Contains(t, string(body), "Build commit: abc123")
}

func TestHandler_UnknownMethodIsNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/status", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_TraceID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := get(t, srv.URL+"/healthz")
	_, err := uuid.Parse(resp.Header.Get(traceIDHeader))
	assert.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(traceIDHeader, "trace-42")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "trace-42", resp2.Header.Get(traceIDHeader))
}

func TestHandler_GZip(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/version", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")

	// a custom transport does not decompress transparently
	resp, err := (&http.Transport{DisableCompression: true}).RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	zr, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Build version: v1.0.0")
}

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	w.WriteHeader(http.StatusTeapot)
	w.WriteHeader(http.StatusOK)
	n, err := w.Write([]byte("hello"))

	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusTeapot, w.status)
	assert.Equal(t, 5, w.size)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
