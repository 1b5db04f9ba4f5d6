// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具
//
// Package batch runs the per-file analyze/select/build/encode pipeline
// over a list of videos. One file's failure never aborts the batch.

package batch

import (
	"context"
	"sync"

	"github.com/ZSC714725/batchencoder/internal/progress"
)

// FileStatus is the lifecycle state of one file in a job.
type FileStatus string

const (
	StatusPending   FileStatus = "pending"
	StatusAnalyzing FileStatus = "analyzing"
	StatusEncoding  FileStatus = "encoding"
	StatusComplete  FileStatus = "complete"
	StatusSkipped   FileStatus = "skipped"
	StatusError     FileStatus = "error"
)

// JobState is the lifecycle state of a whole job.
type JobState string

const (
	JobRunning  JobState = "running"
	JobFinished JobState = "finished"
	JobStopped  JobState = "stopped"
)

// EncoderKind selects which external tool a job drives.
const (
	EncoderFFmpeg    = "ffmpeg"
	EncoderHandBrake = "handbrake"
)

// Request describes a batch submission.
type Request struct {
	Files        []string `json:"files"`
	Encoder      string   `json:"encoder"`  // ffmpeg (default) or handbrake
	PresetPath   string   `json:"preset"`   // HandBrake preset JSON export
	Template     string   `json:"template"` // optional user command template (ffmpeg only)
	OutputFolder string   `json:"output_folder"`
	Suffix       string   `json:"suffix"`
	Mode         string   `json:"mode"` // sequential or parallel
	SkipExisting bool     `json:"skip_existing"`
	DryRun       bool     `json:"dry_run"`
}

// File is the per-file status record of a running or finished job.
type File struct {
	Path          string            `json:"path"`
	Status        FileStatus        `json:"status"`
	Error         string            `json:"error,omitempty"`
	AudioTrack    int               `json:"audio_track,omitempty"`
	SubtitleTrack int               `json:"subtitle_track,omitempty"`
	OutputPath    string            `json:"output_path,omitempty"`
	OutputSize    int64             `json:"output_size,omitempty"`
	Progress      progress.Progress `json:"progress"`
	CPUPercent    float64           `json:"cpu_percent,omitempty"`
	MemoryRSS     uint64            `json:"memory_rss,omitempty"`
}

// Job is one batch run. Mutable fields are guarded by mu; the API layer
// only ever sees copies taken via Snapshot.
type Job struct {
	ID        string
	Request   Request
	CreatedAt int64
	UpdatedAt int64

	mu     sync.Mutex
	state  JobState
	files  []*File
	cancel context.CancelFunc
}

// Snapshot is an immutable copy of a job for reporting.
type Snapshot struct {
	ID        string   `json:"id"`
	State     JobState `json:"state"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
	Request   Request  `json:"request"`
	Files     []File   `json:"files"`
}

// Snapshot copies the job's current state.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	files := make([]File, len(j.files))
	for i, f := range j.files {
		files[i] = *f
	}
	return Snapshot{
		ID:        j.ID,
		State:     j.state,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
		Request:   j.Request,
		Files:     files,
	}
}

// State returns the job state.
func (j *Job) State() JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

func (j *Job) setState(s JobState) {
	j.mu.Lock()
	j.state = s
	j.mu.Unlock()
}

func (j *Job) setFileStatus(f *File, status FileStatus) {
	j.mu.Lock()
	f.Status = status
	j.mu.Unlock()
}

func (j *Job) setFileError(f *File, status FileStatus, msg string) {
	j.mu.Lock()
	f.Status = status
	f.Error = msg
	j.mu.Unlock()
}

func (j *Job) setFileProgress(f *File, p progress.Progress, cpu float64, rss uint64) {
	j.mu.Lock()
	f.Progress = p
	f.CPUPercent = cpu
	f.MemoryRSS = rss
	j.mu.Unlock()
}
