// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具
//
// Package encoder owns the lifecycle of one encoder process: spawn,
// concurrent stream draining, progress routing, cooperative stop with
// escalation, and the terminal outcome.

package encoder

import (
	"container/ring"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ZSC714725/batchencoder/internal/command"
	"github.com/ZSC714725/batchencoder/internal/logger"
	"github.com/ZSC714725/batchencoder/internal/progress"
)

const (
	pollInterval     = 100 * time.Millisecond
	stopGrace        = 5 * time.Second
	fileWaitRetries  = 10
	fileWaitInitial  = 100 * time.Millisecond
	defaultTailLines = 1000
)

// Outcome is the terminal result of one encoder invocation.
type Outcome struct {
	Success  bool
	ExitCode int // -1 when the process never ran or was killed
	Stderr   []string
}

// RunOptions describe one invocation. Args[0] is the binary; OutputFile,
// when set, must exist on disk before a clean exit counts as success.
type RunOptions struct {
	Name       string // display name for log lines, e.g. "FFmpeg"
	Args       []string
	OutputFile string
	Dialect    progress.Dialect
}

// Supervisor drives encoder processes one invocation at a time. Progress
// and log events go to the caller-supplied sinks; cancellation is per
// Run call via its context, so concurrent supervisors stay independent.
type Supervisor struct {
	onProgress func(progress.Progress)
	log        logger.Sink
	tailLines  int
	usage      usageSampler

	// test seams
	stat  func(string) error
	sleep func(time.Duration)
}

// New creates a Supervisor. Nil sinks are allowed and discard events.
func New(onProgress func(progress.Progress), log logger.Sink) *Supervisor {
	if onProgress == nil {
		onProgress = func(progress.Progress) {}
	}
	if log == nil {
		log = func(string, string) {}
	}
	return &Supervisor{
		onProgress: onProgress,
		log:        log,
		tailLines:  defaultTailLines,
		stat: func(path string) error {
			_, err := os.Stat(path)
			return err
		},
		sleep: time.Sleep,
	}
}

// Usage returns the child's current CPU percent and RSS, zero when no
// process is running.
func (s *Supervisor) Usage() (cpu float64, rss uint64) {
	return s.usage.current()
}

// Run launches the encoder and blocks until it terminates. Cancelling
// ctx requests a cooperative stop: SIGINT, a bounded grace period, then
// kill. A stopped encode always reports failure, even if the child
// manages to exit cleanly first.
func (s *Supervisor) Run(ctx context.Context, opts RunOptions) Outcome {
	fail := Outcome{Success: false, ExitCode: -1}

	if len(opts.Args) == 0 {
		s.logf("ERROR", "%s args list is empty", opts.Name)
		return fail
	}

	s.logf("INFO", "Starting %s encoding...", opts.Name)
	s.logf("INFO", "Command: %s", command.CommandString(opts.Args))

	// ffmpeg may legitimately resolve via PATH at spawn time; any other
	// binary must exist up front.
	binary := opts.Args[0]
	if !strings.HasPrefix(filepath.Base(binary), "ffmpeg") {
		if err := s.stat(binary); err != nil {
			s.logf("ERROR", "Encoder executable not found: %s", binary)
			return fail
		}
	}

	cmd := exec.Command(binary, opts.Args[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.logf("ERROR", "Failed to open stdout pipe: %v", err)
		return fail
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.logf("ERROR", "Failed to open stderr pipe: %v", err)
		return fail
	}

	if err := cmd.Start(); err != nil {
		s.logf("ERROR", "Encoder executable not found: %s", binary)
		s.logf("ERROR", "Error details: %v", err)
		return fail
	}
	s.logf("INFO", "Process started (PID: %d)", cmd.Process.Pid)

	s.usage.attach(cmd.Process.Pid)
	defer s.usage.detach()

	// Each stream gets its own reader feeding an unbounded queue, so
	// neither OS pipe buffer can fill and stall the child. A serial
	// read of one pipe then the other deadlocks when the child
	// interleaves large writes to both.
	outQ := &lineQueue{}
	errQ := &lineQueue{}
	var readers sync.WaitGroup
	readers.Add(2)
	go readLines(stdout, outQ, &readers)
	go readLines(stderr, errQ, &readers)

	done := make(chan error, 1)
	go func() {
		readers.Wait()
		done <- cmd.Wait()
	}()

	session := progress.NewSession(opts.Dialect)
	tail := ring.New(s.tailLines)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logf("INFO", "Stop requested, terminating process...")
			s.terminate(cmd, done)
			tail = s.flush(opts.Name, outQ, errQ, session, tail)
			return Outcome{Success: false, ExitCode: exitCode(cmd), Stderr: ringLines(tail)}

		case waitErr := <-done:
			tail = s.flush(opts.Name, outQ, errQ, session, tail)
			code := exitCode(cmd)
			s.logf("INFO", "Process finished with return code: %d", code)

			// A stop request always wins, even when the child managed a
			// clean exit before the signal landed.
			if ctx.Err() != nil {
				s.logf("INFO", "Stop requested, discarding result")
				return Outcome{Success: false, ExitCode: code, Stderr: ringLines(tail)}
			}

			if waitErr != nil || code != 0 {
				lines := ringLines(tail)
				if len(lines) > 0 {
					s.logf("ERROR", "%s error output:\n%s", opts.Name, strings.Join(lines, "\n"))
				}
				s.logf("ERROR", "%s exited with code %d", opts.Name, code)
				return Outcome{Success: false, ExitCode: code, Stderr: lines}
			}

			if opts.OutputFile != "" && !s.waitForFile(opts.OutputFile) {
				s.logf("ERROR", "Process completed but output file not found")
				return Outcome{Success: false, ExitCode: code, Stderr: ringLines(tail)}
			}

			if opts.OutputFile != "" {
				s.logf("SUCCESS", "Encoding completed: %s", filepath.Base(opts.OutputFile))
			} else {
				s.logf("SUCCESS", "%s finished", opts.Name)
			}
			return Outcome{Success: true, ExitCode: code, Stderr: ringLines(tail)}

		case <-ticker.C:
			tail = s.flush(opts.Name, outQ, errQ, session, tail)
		}
	}
}

// terminate escalates from interrupt to kill after the grace period.
func (s *Supervisor) terminate(cmd *exec.Cmd, done chan error) {
	if runtime.GOOS == "windows" {
		_ = cmd.Process.Kill()
	} else if err := cmd.Process.Signal(os.Interrupt); err != nil {
		_ = cmd.Process.Kill()
	}

	select {
	case <-done:
	case <-time.After(stopGrace):
		_ = cmd.Process.Kill()
		<-done
	}
}

// flush drains both queues: stdout lines go to the log sink, stderr
// lines additionally feed the progress parser and the tail buffer.
// Stderr lines keep their write order; no order holds across streams.
func (s *Supervisor) flush(name string, outQ, errQ *lineQueue, session *progress.Session, tail *ring.Ring) *ring.Ring {
	for _, line := range outQ.drainAll() {
		s.logf("INFO", "[%s] %s", name, line)
	}
	for _, line := range errQ.drainAll() {
		tail.Value = line
		tail = tail.Next()
		s.onProgress(session.Parse(line))
		s.logf("DEBUG", "[%s] %s", name, line)
	}
	return tail
}

// waitForFile tolerates filesystem flush latency after a clean exit:
// bounded retries with exponentially increasing delay.
func (s *Supervisor) waitForFile(path string) bool {
	delay := fileWaitInitial
	for i := 0; i < fileWaitRetries; i++ {
		if s.stat(path) == nil {
			return true
		}
		s.sleep(delay)
		delay *= 2
	}
	return false
}

func (s *Supervisor) logf(level, format string, args ...interface{}) {
	s.log(level, fmt.Sprintf(format, args...))
}

func exitCode(cmd *exec.Cmd) int {
	if cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}

func ringLines(r *ring.Ring) []string {
	var out []string
	r.Do(func(v interface{}) {
		if v != nil {
			out = append(out, v.(string))
		}
	})
	return out
}
