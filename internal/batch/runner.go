// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package batch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ZSC714725/batchencoder/internal/analyzer"
	"github.com/ZSC714725/batchencoder/internal/command"
	"github.com/ZSC714725/batchencoder/internal/config"
	"github.com/ZSC714725/batchencoder/internal/encoder"
	"github.com/ZSC714725/batchencoder/internal/logger"
	"github.com/ZSC714725/batchencoder/internal/preset"
	"github.com/ZSC714725/batchencoder/internal/progress"
)

// Runner executes jobs against the configured external tools.
type Runner struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	logger   logger.Logger
}

// NewRunner compiles the selection rules and wires the analyzer.
func NewRunner(cfg *config.Config, log logger.Logger) (*Runner, error) {
	rules, err := analyzer.NewRules(cfg.Selection)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:      cfg,
		analyzer: analyzer.New(cfg.Tools.MKVInfo, rules),
		logger:   log,
	}, nil
}

func (r *Runner) applyDefaults(req *Request) {
	if req.Encoder == "" {
		req.Encoder = EncoderFFmpeg
	}
	if req.Mode == "" {
		req.Mode = r.cfg.Encoding.Mode
	}
	if req.Suffix == "" {
		req.Suffix = r.cfg.Output.Suffix
	}
	if req.OutputFolder == "" {
		req.OutputFolder = r.cfg.Output.Folder
	}
}

// run drives all files of a job to a terminal status. Parallel mode
// gives every file its own encode, all sharing the job's cancellation
// scope.
func (r *Runner) run(ctx context.Context, job *Job, pre *preset.Preset) {
	job.setState(JobRunning)

	if job.Request.Mode == "parallel" {
		var wg sync.WaitGroup
		for _, f := range job.files {
			wg.Add(1)
			go func(f *File) {
				defer wg.Done()
				r.runFile(ctx, job, f, pre)
			}(f)
		}
		wg.Wait()
	} else {
		for _, f := range job.files {
			if ctx.Err() != nil {
				break
			}
			r.runFile(ctx, job, f, pre)
		}
	}

	job.mu.Lock()
	job.UpdatedAt = time.Now().Unix()
	job.mu.Unlock()

	if ctx.Err() != nil {
		job.setState(JobStopped)
		r.logger.Info("job %s stopped", job.ID)
	} else {
		job.setState(JobFinished)
		r.logger.Info("job %s finished", job.ID)
	}
}

// runFile is the per-file pipeline: analyze, select, extract, build,
// encode. Every failure is converted into the file's status; nothing
// propagates out.
func (r *Runner) runFile(ctx context.Context, job *Job, f *File, pre *preset.Preset) {
	if ctx.Err() != nil {
		return
	}

	name := filepath.Base(f.Path)
	r.logger.Info("Analyzing tracks for: %s", name)
	job.setFileStatus(f, StatusAnalyzing)

	sel := r.analyzer.Analyze(ctx, f.Path)
	if sel.Error != "" {
		r.logger.Error("Track analysis failed: %s", sel.Error)
		job.setFileError(f, StatusError, "track analysis failed: "+sel.Error)
		return
	}
	if sel.AudioTrack == 0 {
		// Not an error: skip and move on.
		r.logger.Info("No matching audio track found for: %s", name)
		job.setFileStatus(f, StatusSkipped)
		return
	}

	job.mu.Lock()
	f.AudioTrack = sel.AudioTrack
	f.SubtitleTrack = sel.SubtitleTrack
	job.mu.Unlock()

	outputFile := r.outputPath(job.Request, f.Path)
	if job.Request.SkipExisting {
		if _, err := os.Stat(outputFile); err == nil {
			r.logger.Info("Skipping (exists): %s", filepath.Base(outputFile))
			job.setFileStatus(f, StatusSkipped)
			return
		}
	}

	job.setFileStatus(f, StatusEncoding)

	subtitleFile := ""
	if sel.SubtitleTrack != 0 && !job.Request.DryRun {
		sf, err := encoder.ExtractSubtitle(ctx, r.cfg.Tools.FFmpeg, f.Path, sel.SubtitleTrack-1)
		if err != nil {
			r.logger.Error("Subtitle extraction failed: %v", err)
		} else {
			subtitleFile = sf
			defer os.Remove(sf)
			r.logger.Info("Extracted subtitle to: %s", sf)
		}
	}

	args, encName, dialect, err := r.buildArgs(job.Request, pre, f.Path, outputFile, sel.AudioTrack, sel.SubtitleTrack, subtitleFile)
	if err != nil {
		r.logger.Error("Command build failed: %v", err)
		job.setFileError(f, StatusError, "command build failed: "+err.Error())
		return
	}

	if job.Request.DryRun {
		r.logger.Info("DRY RUN: Would encode %s to %s", f.Path, outputFile)
		job.setFileStatus(f, StatusComplete)
		return
	}

	var sup *encoder.Supervisor
	sup = encoder.New(
		func(p progress.Progress) {
			cpu, rss := sup.Usage()
			job.setFileProgress(f, p, cpu, rss)
		},
		logger.NewSink(r.logger),
	)
	outcome := sup.Run(ctx, encoder.RunOptions{
		Name:       encName,
		Args:       args,
		OutputFile: outputFile,
		Dialect:    dialect,
	})

	switch {
	case outcome.Success:
		job.mu.Lock()
		f.Status = StatusComplete
		f.OutputPath = outputFile
		if info, err := os.Stat(outputFile); err == nil {
			f.OutputSize = info.Size()
		}
		job.mu.Unlock()
	case ctx.Err() != nil:
		job.setFileError(f, StatusError, "encoding stopped")
	default:
		job.setFileError(f, StatusError, fmt.Sprintf("%s failed with exit code %d", encName, outcome.ExitCode))
	}
}

func (r *Runner) outputPath(req Request, input string) string {
	dir := req.OutputFolder
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+req.Suffix+".mp4")
}

// buildArgs picks the argv source: user template, HandBrake preset
// pass-through, or the preset-to-ffmpeg translation.
func (r *Runner) buildArgs(req Request, pre *preset.Preset, input, output string, audioTrack, subtitleTrack int, subtitleFile string) ([]string, string, progress.Dialect, error) {
	if req.Template != "" {
		toolPath := r.cfg.Tools.FFmpeg
		if resolved, err := exec.LookPath(toolPath); err == nil {
			toolPath = resolved
		}
		args, err := command.Expand(req.Template, command.Context{
			Input:         input,
			Output:        output,
			AudioTrack:    audioTrack,
			SubtitleTrack: subtitleTrack,
			SubtitleFile:  subtitleFile,
			ToolName:      "ffmpeg",
			ToolPath:      toolPath,
		})
		if err != nil {
			return nil, "", 0, err
		}
		return args, "FFmpeg", progress.DialectFFmpeg, nil
	}

	if req.Encoder == EncoderHandBrake {
		args := command.BuildHandBrake(r.cfg.Tools.HandBrake, req.PresetPath, pre.Name, input, output, audioTrack, subtitleTrack)
		return args, "HandBrake", progress.DialectHandBrake, nil
	}

	args := command.BuildFFmpeg(pre, input, output, audioTrack, subtitleTrack, subtitleFile)
	for i, a := range args {
		if a == "ffmpeg" {
			args[i] = r.cfg.Tools.FFmpeg
		}
	}
	return args, "FFmpeg", progress.DialectFFmpeg, nil
}
