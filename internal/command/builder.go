// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具
//
// Package command turns presets and user templates into encoder argument
// vectors.

package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ZSC714725/batchencoder/internal/preset"
)

// SubtitleFilePlaceholder marks where the extracted subtitle file path
// is substituted at encode time.
const SubtitleFilePlaceholder = "{SUBTITLE_FILE}"

// BuildFFmpeg translates a HandBrake preset into an ffmpeg argument
// vector. argv[0] is the bare "ffmpeg" name; the supervisor pins it to
// the configured binary before launch. audioTrack is the 1-based track
// number from the analyzer and is mapped back to the 0-based absolute
// stream index ffmpeg expects.
func BuildFFmpeg(p *preset.Preset, input, output string, audioTrack, subtitleTrack int, subtitleFile string) []string {
	cmd := []string{"ffmpeg", "-i", input}

	cmd = append(cmd, "-map", "0:v:0")
	cmd = append(cmd, "-map", fmt.Sprintf("0:%d", audioTrack-1))

	if p.VideoEncoder == "x264" {
		cmd = append(cmd, "-c:v", "libx264")
	} else {
		cmd = append(cmd, "-c:v", p.VideoEncoder)
	}
	cmd = append(cmd, "-crf", strconv.FormatFloat(p.VideoQuality, 'f', -1, 64))
	cmd = append(cmd, "-preset", p.VideoPreset)
	cmd = append(cmd, "-profile:v", p.VideoProfile)
	cmd = append(cmd, "-level", p.VideoLevel)

	// Scale first, burn-in second: the subtitles filter must see the
	// final frame size.
	filters := []string{fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", p.Width, p.Height)}
	if subtitleFile != "" {
		filters = append(filters, fmt.Sprintf("subtitles='%s'", escapeFilterPath(subtitleFile)))
	} else if subtitleTrack != 0 {
		filters = append(filters, fmt.Sprintf("subtitles='%s'", SubtitleFilePlaceholder))
	}
	cmd = append(cmd, "-vf", strings.Join(filters, ","))

	if p.ColorRange == "limited" {
		cmd = append(cmd, "-color_range", "tv")
	} else {
		cmd = append(cmd, "-color_range", "pc")
	}

	cmd = append(cmd, "-pix_fmt", "yuv420p")
	cmd = append(cmd, "-g", "60")

	if p.AudioEncoder == "av_aac" {
		cmd = append(cmd, "-c:a", "aac")
	} else {
		cmd = append(cmd, "-c:a", p.AudioEncoder)
	}
	cmd = append(cmd, "-b:a", fmt.Sprintf("%dk", p.AudioBitrate))

	switch p.AudioMixdown {
	case "stereo":
		cmd = append(cmd, "-ac", "2")
	case "mono":
		cmd = append(cmd, "-ac", "1")
	case "5.1":
		cmd = append(cmd, "-ac", "6")
	}

	if p.ChapterMarkers {
		cmd = append(cmd, "-map_chapters", "0")
	}
	cmd = append(cmd, "-map_metadata", "0")

	if p.Optimize {
		cmd = append(cmd, "-movflags", "+faststart")
	}

	cmd = append(cmd, "-y", output)
	return cmd
}

// BuildHandBrake builds the HandBrakeCLI argument vector for a preset
// file. Track numbers are 1-based as HandBrake expects.
func BuildHandBrake(binary, presetFile, presetName, input, output string, audioTrack, subtitleTrack int) []string {
	args := []string{
		binary,
		"--preset-import-file", presetFile,
		"--preset", presetName,
		"--input", input,
		"--output", output,
		"--audio", strconv.Itoa(audioTrack),
	}
	if subtitleTrack != 0 {
		args = append(args, "--subtitle", strconv.Itoa(subtitleTrack), "--subtitle-burned")
	}
	return args
}

// escapeFilterPath makes a path safe inside ffmpeg's filter-graph
// mini-syntax. Slash conversion must run before colon escaping or a
// Windows drive letter corrupts the filter string; quote escaping runs
// last.
func escapeFilterPath(path string) string {
	s := strings.ReplaceAll(path, `\`, "/")
	s = strings.ReplaceAll(s, ":", `\:`)
	s = strings.ReplaceAll(s, "'", `'\''`)
	return s
}

// CommandString renders an argument vector for display, quoting
// arguments containing spaces.
func CommandString(args []string) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if strings.Contains(a, " ") && !(strings.HasPrefix(a, `"`) && strings.HasSuffix(a, `"`)) {
			parts = append(parts, `"`+a+`"`)
		} else {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}
