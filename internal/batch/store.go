// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package batch

import (
	"context"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/ZSC714725/batchencoder/internal/logger"
	"github.com/ZSC714725/batchencoder/internal/preset"
)

// Store manages jobs in memory.
type Store struct {
	runner *Runner
	logger logger.Logger
	mu     sync.RWMutex
	jobs   map[string]*Job
}

// NewStore creates a job store.
func NewStore(runner *Runner, log logger.Logger) *Store {
	return &Store{
		runner: runner,
		logger: log,
		jobs:   make(map[string]*Job),
	}
}

// Add validates a request, registers a job, and starts running it.
func (s *Store) Add(req Request) (*Job, error) {
	if len(req.Files) == 0 {
		return nil, ErrInvalidRequest
	}
	if req.Template == "" && req.PresetPath == "" {
		return nil, ErrPresetRequired
	}
	s.runner.applyDefaults(&req)

	// A bad preset fails the whole submission up front rather than
	// every file individually.
	var pre *preset.Preset
	if req.PresetPath != "" {
		var err error
		pre, err = preset.Load(req.PresetPath)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().Unix()
	job := &Job{
		ID:        shortuuid.New(),
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
		state:     JobRunning,
	}
	for _, path := range req.Files {
		job.files = append(job.files, &File{Path: path, Status: StatusPending})
	}

	ctx, cancel := context.WithCancel(context.Background())
	job.cancel = cancel

	s.mu.Lock()
	if _, exists := s.jobs[job.ID]; exists {
		s.mu.Unlock()
		cancel()
		return nil, ErrJobExists
	}
	s.jobs[job.ID] = job
	s.mu.Unlock()

	s.logger.Info("job %s started: %d files, %s mode", job.ID, len(req.Files), req.Mode)
	go s.runner.run(ctx, job, pre)

	return job, nil
}

// Get returns a job by ID.
func (s *Store) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return j, nil
}

// List returns all jobs.
func (s *Store) List() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	return out
}

// Stop cancels a job's context. Only the addressed job is affected;
// concurrently running jobs keep their own cancellation scope.
func (s *Store) Stop(id string) error {
	j, err := s.Get(id)
	if err != nil {
		return err
	}
	j.cancel()
	s.logger.Info("job %s stop requested", id)
	return nil
}

// Delete stops and removes a job.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	j.cancel()
	delete(s.jobs, id)
	return nil
}
