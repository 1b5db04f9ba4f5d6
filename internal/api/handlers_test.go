// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSC714725/batchencoder/internal/batch"
	"github.com/ZSC714725/batchencoder/internal/config"
	"github.com/ZSC714725/batchencoder/internal/logger"
)

func testRouter(t *testing.T) (*gin.Engine, *batch.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	runner, err := batch.NewRunner(config.Default(), logger.New("test"))
	require.NoError(t, err)
	store := batch.NewStore(runner, logger.New("test"))

	h := NewHandler(store)
	r := gin.New()
	v1 := r.Group("/api/v1")
	{
		v1.GET("/scan", h.Scan)
		v1.POST("/jobs", h.AddJob)
		v1.GET("/jobs", h.ListJobs)
		v1.GET("/jobs/:id", h.GetJob)
		v1.GET("/jobs/:id/state", h.GetJobState)
		v1.PUT("/jobs/:id/stop", h.StopJob)
		v1.DELETE("/jobs/:id", h.DeleteJob)
	}
	return r, store
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func addDryRunJob(t *testing.T, r *gin.Engine) batch.Snapshot {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/jobs",
		`{"files":["/tmp/a.mp4"],"template":"ffmpeg -i {INPUT} {OUTPUT}","dry_run":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var snap batch.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.NotEmpty(t, snap.ID)
	return snap
}

func waitFinished(t *testing.T, store *batch.Store, id string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		j, err := store.Get(id)
		require.NoError(t, err)
		if s := j.State(); s != batch.JobRunning {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never left running state", id)
}

func TestAddJobAndGet(t *testing.T) {
	r, store := testRouter(t)

	snap := addDryRunJob(t, r)
	waitFinished(t, store, snap.ID)

	w := do(r, http.MethodGet, "/api/v1/jobs/"+snap.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var got batch.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, snap.ID, got.ID)
	require.Len(t, got.Files, 1)
}

func TestAddJobInvalid(t *testing.T) {
	r, _ := testRouter(t)

	w := do(r, http.MethodPost, "/api/v1/jobs", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/jobs", `{"files":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetJobState(t *testing.T) {
	r, store := testRouter(t)

	snap := addDryRunJob(t, r)
	waitFinished(t, store, snap.ID)

	w := do(r, http.MethodGet, "/api/v1/jobs/"+snap.ID+"/state", "")
	require.Equal(t, http.StatusOK, w.Code)

	var state JobStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, snap.ID, state.ID)
	assert.Equal(t, 1, state.Total)
	// The dry-run target is not a Matroska file, so it lands in errors.
	assert.Equal(t, 1, state.Errors)
}

func TestUnknownJobRoutes(t *testing.T) {
	r, _ := testRouter(t)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/jobs/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/jobs/nope/state", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/api/v1/jobs/nope/stop", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/v1/jobs/nope", "").Code)
}

func TestDeleteJob(t *testing.T) {
	r, store := testRouter(t)

	snap := addDryRunJob(t, r)
	waitFinished(t, store, snap.ID)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/v1/jobs/"+snap.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/jobs/"+snap.ID, "").Code)
}

func TestScan(t *testing.T) {
	r, _ := testRouter(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mkv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0o644))

	w := do(r, http.MethodGet, "/api/v1/scan?dir="+dir, "")
	require.Equal(t, http.StatusOK, w.Code)

	var entries []ScanEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(dir, "a.mkv"), entries[0].Path)
	assert.Equal(t, int64(1), entries[0].Size)
}

func TestScanMissingDirParam(t *testing.T) {
	r, _ := testRouter(t)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/scan", "").Code)
}
