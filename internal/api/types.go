// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package api

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ScanEntry is one discovered video file
type ScanEntry struct {
	Path string `json:"path"`
	Size int64  `json:"size_bytes"`
}

// JobStateResponse is the brief per-job state view
type JobStateResponse struct {
	ID       string `json:"id"`
	State    string `json:"state"`
	Total    int    `json:"total"`
	Complete int    `json:"complete"`
	Skipped  int    `json:"skipped"`
	Errors   int    `json:"errors"`
}
