// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSC714725/batchencoder/internal/preset"
)

func testPreset() *preset.Preset {
	return &preset.Preset{
		Name:           "Fast 1080p30",
		VideoEncoder:   "x264",
		VideoQuality:   22,
		VideoPreset:    "medium",
		VideoProfile:   "high",
		VideoLevel:     "4.0",
		Width:          1920,
		Height:         1080,
		ColorRange:     "limited",
		AudioEncoder:   "av_aac",
		AudioBitrate:   160,
		AudioMixdown:   "stereo",
		ChapterMarkers: true,
	}
}

func argAfter(t *testing.T, args []string, flag string) string {
	t.Helper()
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatalf("flag %s not found in %v", flag, args)
	return ""
}

func TestBuildFFmpegStreamMapping(t *testing.T) {
	args := BuildFFmpeg(testPreset(), "/media/in.mkv", "/media/out.mp4", 3, 0, "")

	assert.Equal(t, "ffmpeg", args[0])
	assert.Equal(t, "/media/in.mkv", argAfter(t, args, "-i"))

	// Audio track 3 (1-based) maps back to absolute stream index 2.
	var maps []string
	for i, a := range args {
		if a == "-map" {
			maps = append(maps, args[i+1])
		}
	}
	assert.Equal(t, []string{"0:v:0", "0:2"}, maps)

	assert.Equal(t, "libx264", argAfter(t, args, "-c:v"))
	assert.Equal(t, "22", argAfter(t, args, "-crf"))
	assert.Equal(t, "aac", argAfter(t, args, "-c:a"))
	assert.Equal(t, "160k", argAfter(t, args, "-b:a"))
	assert.Equal(t, "2", argAfter(t, args, "-ac"))
	assert.Equal(t, "yuv420p", argAfter(t, args, "-pix_fmt"))
	assert.Equal(t, "60", argAfter(t, args, "-g"))
	assert.Equal(t, "tv", argAfter(t, args, "-color_range"))
	assert.Equal(t, "/media/out.mp4", args[len(args)-1])
	assert.Equal(t, "-y", args[len(args)-2])
}

func TestBuildFFmpegScaleBeforeSubtitles(t *testing.T) {
	args := BuildFFmpeg(testPreset(), "in.mkv", "out.mp4", 2, 3, "/tmp/subs.ass")

	vf := argAfter(t, args, "-vf")
	scaleIdx := strings.Index(vf, "scale=")
	subIdx := strings.Index(vf, "subtitles=")
	require.GreaterOrEqual(t, scaleIdx, 0)
	require.GreaterOrEqual(t, subIdx, 0)
	assert.Less(t, scaleIdx, subIdx, "scale filter must precede burn-in")
}

func TestBuildFFmpegSubtitlePlaceholderWhenTrackOnly(t *testing.T) {
	args := BuildFFmpeg(testPreset(), "in.mkv", "out.mp4", 2, 3, "")
	vf := argAfter(t, args, "-vf")
	assert.Contains(t, vf, "subtitles='"+SubtitleFilePlaceholder+"'")
}

func TestBuildFFmpegNoSubtitleFilter(t *testing.T) {
	args := BuildFFmpeg(testPreset(), "in.mkv", "out.mp4", 2, 0, "")
	vf := argAfter(t, args, "-vf")
	assert.NotContains(t, vf, "subtitles=")
}

func TestEscapeFilterPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`/tmp/subs.ass`, `/tmp/subs.ass`},
		// Slash conversion runs before colon escaping, so the drive
		// colon is escaped and the backslashes are already gone.
		{`C:\media\subs.ass`, `C\:/media/subs.ass`},
		{`/tmp/it's.ass`, `/tmp/it'\''s.ass`},
		{`C:\media\it's subs.ass`, `C\:/media/it'\''s subs.ass`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeFilterPath(tt.in), "escapeFilterPath(%q)", tt.in)
	}
}

func TestBuildHandBrake(t *testing.T) {
	args := BuildHandBrake("/usr/bin/HandBrakeCLI", "/tmp/preset.json", "Fast 1080p30", "in.mkv", "out.mp4", 2, 0)
	assert.Equal(t, []string{
		"/usr/bin/HandBrakeCLI",
		"--preset-import-file", "/tmp/preset.json",
		"--preset", "Fast 1080p30",
		"--input", "in.mkv",
		"--output", "out.mp4",
		"--audio", "2",
	}, args)
}

func TestBuildHandBrakeWithSubtitleBurnIn(t *testing.T) {
	args := BuildHandBrake("HandBrakeCLI", "p.json", "Fast", "in.mkv", "out.mp4", 1, 4)
	assert.Equal(t, "--subtitle", args[len(args)-3])
	assert.Equal(t, "4", args[len(args)-2])
	assert.Equal(t, "--subtitle-burned", args[len(args)-1])
}

func TestCommandString(t *testing.T) {
	s := CommandString([]string{"ffmpeg", "-i", "/tmp/a b.mkv", "out.mp4"})
	assert.Equal(t, `ffmpeg -i "/tmp/a b.mkv" out.mp4`, s)
}
