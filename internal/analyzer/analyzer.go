// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package analyzer

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const mkvinfoTimeout = 30 * time.Second

// Analyzer runs mkvinfo against a file and classifies its tracks.
type Analyzer struct {
	mkvinfo string
	rules   *Rules
}

// New creates an Analyzer. The mkvinfo binary is resolved lazily so a
// missing tool surfaces as a per-file soft error, not a startup failure.
func New(mkvinfo string, rules *Rules) *Analyzer {
	if mkvinfo == "" {
		mkvinfo = "mkvinfo"
	}
	return &Analyzer{mkvinfo: mkvinfo, rules: rules}
}

// Analyze inspects path and returns the selected 1-based audio and
// subtitle track numbers. All failure modes land in Selection.Error;
// Analyze itself never returns an error value.
func (a *Analyzer) Analyze(ctx context.Context, path string) Selection {
	if !strings.EqualFold(filepath.Ext(path), ".mkv") {
		return Selection{Error: "no analyzer available for " + filepath.Ext(path) + " files"}
	}

	bin, err := exec.LookPath(a.mkvinfo)
	if err != nil {
		return Selection{Error: "mkvinfo not found"}
	}

	ctx, cancel := context.WithTimeout(ctx, mkvinfoTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, path)
	out, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Selection{Error: "mkvinfo timed out"}
		}
		return Selection{Error: "mkvinfo failed"}
	}

	tracks := ParseTracks(string(out))
	sel := a.Select(tracks)
	sel.Tracks = tracks
	return sel
}

// Select applies the rules to an ordered track list. First match wins
// per kind; scanning ascending by ID makes the lowest ID win ties.
func (a *Analyzer) Select(tracks []TrackRecord) Selection {
	sorted := make([]TrackRecord, len(tracks))
	copy(sorted, tracks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	sel := Selection{}
	for _, t := range sorted {
		if sel.AudioTrack == 0 && t.Type == TrackAudio && a.rules.AudioEnglish(t.Language, t.Name) {
			sel.AudioTrack = t.ID + 1 // encoder tools are 1-based
		}
		if sel.SubtitleTrack == 0 && t.Type == TrackSubtitle &&
			a.rules.SubtitleEnglish(t.Language, t.Name) && a.rules.SignsSongs(t.Name) {
			sel.SubtitleTrack = t.ID + 1
		}
		if sel.AudioTrack != 0 && sel.SubtitleTrack != 0 {
			break
		}
	}
	return sel
}
