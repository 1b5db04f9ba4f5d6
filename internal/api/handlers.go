// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ZSC714725/batchencoder/internal/batch"
	"github.com/ZSC714725/batchencoder/internal/scanner"
)

// Handler holds dependencies
type Handler struct {
	store *batch.Store
}

// NewHandler creates API handler
func NewHandler(store *batch.Store) *Handler {
	return &Handler{store: store}
}

func errResp(c *gin.Context, code int, msg, detail string) {
	c.JSON(code, ErrorResponse{Code: code, Message: msg, Detail: detail})
}

// AddJob POST /api/v1/jobs
func (h *Handler) AddJob(c *gin.Context) {
	var req batch.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	job, err := h.store.Add(req)
	if err != nil {
		errResp(c, http.StatusBadRequest, "Invalid job request", err.Error())
		return
	}

	c.JSON(http.StatusOK, job.Snapshot())
}

// ListJobs GET /api/v1/jobs
func (h *Handler) ListJobs(c *gin.Context) {
	jobs := h.store.List()
	out := make([]batch.Snapshot, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Snapshot())
	}
	c.JSON(http.StatusOK, out)
}

// GetJob GET /api/v1/jobs/:id
func (h *Handler) GetJob(c *gin.Context) {
	j, err := h.store.Get(c.Param("id"))
	if err != nil {
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}
	c.JSON(http.StatusOK, j.Snapshot())
}

// GetJobState GET /api/v1/jobs/:id/state
func (h *Handler) GetJobState(c *gin.Context) {
	j, err := h.store.Get(c.Param("id"))
	if err != nil {
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}

	snap := j.Snapshot()
	resp := JobStateResponse{
		ID:    snap.ID,
		State: string(snap.State),
		Total: len(snap.Files),
	}
	for _, f := range snap.Files {
		switch f.Status {
		case batch.StatusComplete:
			resp.Complete++
		case batch.StatusSkipped:
			resp.Skipped++
		case batch.StatusError:
			resp.Errors++
		}
	}
	c.JSON(http.StatusOK, resp)
}

// StopJob PUT /api/v1/jobs/:id/stop
func (h *Handler) StopJob(c *gin.Context) {
	if err := h.store.Stop(c.Param("id")); err != nil {
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}
	c.Status(http.StatusOK)
}

// DeleteJob DELETE /api/v1/jobs/:id
func (h *Handler) DeleteJob(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}
	c.Status(http.StatusOK)
}

// Scan GET /api/v1/scan?dir=...&recursive=true
func (h *Handler) Scan(c *gin.Context) {
	dir := c.Query("dir")
	if dir == "" {
		errResp(c, http.StatusBadRequest, "Missing dir parameter", "")
		return
	}
	recursive := true
	if v := c.Query("recursive"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			recursive = b
		}
	}

	files := scanner.ScanDirectory(dir, recursive)
	out := make([]ScanEntry, 0, len(files))
	for _, f := range files {
		out = append(out, ScanEntry{Path: f, Size: scanner.FileSize(f)})
	}
	c.JSON(http.StatusOK, out)
}
