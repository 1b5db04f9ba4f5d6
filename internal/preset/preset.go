// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具
//
// Package preset reads HandBrake JSON preset exports.

package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Preset is the subset of a HandBrake preset the translator consumes,
// with HandBrake's defaults filled in for missing fields.
type Preset struct {
	Name           string
	Description    string
	VideoEncoder   string
	VideoQuality   float64 // CRF
	VideoPreset    string
	VideoProfile   string
	VideoLevel     string
	Width          int
	Height         int
	ColorRange     string
	AudioEncoder   string
	AudioBitrate   int // kbps
	AudioMixdown   string
	FileFormat     string
	ChapterMarkers bool
	Optimize       bool
}

type presetFile struct {
	PresetList []rawPreset `json:"PresetList"`
}

type rawPreset struct {
	PresetName         string      `json:"PresetName"`
	PresetDescription  string      `json:"PresetDescription"`
	VideoEncoder       string      `json:"VideoEncoder"`
	VideoQualitySlider *float64    `json:"VideoQualitySlider"`
	VideoPreset        string      `json:"VideoPreset"`
	VideoProfile       string      `json:"VideoProfile"`
	VideoLevel         interface{} `json:"VideoLevel"` // string or number depending on export
	PictureWidth       int         `json:"PictureWidth"`
	PictureHeight      int         `json:"PictureHeight"`
	VideoColorRange    string      `json:"VideoColorRange"`
	FileFormat         string      `json:"FileFormat"`
	ChapterMarkers     *bool       `json:"ChapterMarkers"`
	Optimize           bool        `json:"Optimize"`
	AudioList          []rawAudio  `json:"AudioList"`
}

type rawAudio struct {
	AudioEncoder string `json:"AudioEncoder"`
	AudioBitrate int    `json:"AudioBitrate"`
	AudioMixdown string `json:"AudioMixdown"`
}

// Load reads and parses a preset file.
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	return Parse(data)
}

// Parse decodes a preset export and applies defaults. Only the first
// entry of PresetList is used.
func Parse(data []byte) (*Preset, error) {
	var file presetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse preset: %w", err)
	}
	if len(file.PresetList) == 0 {
		return nil, errors.New("preset list is empty or missing")
	}

	raw := file.PresetList[0]
	p := &Preset{
		Name:           stringOr(raw.PresetName, "Unknown"),
		Description:    raw.PresetDescription,
		VideoEncoder:   stringOr(raw.VideoEncoder, "x264"),
		VideoQuality:   22,
		VideoPreset:    stringOr(raw.VideoPreset, "medium"),
		VideoProfile:   stringOr(raw.VideoProfile, "high"),
		VideoLevel:     levelString(raw.VideoLevel),
		Width:          intOr(raw.PictureWidth, 1920),
		Height:         intOr(raw.PictureHeight, 1080),
		ColorRange:     stringOr(raw.VideoColorRange, "limited"),
		AudioEncoder:   "av_aac",
		AudioBitrate:   160,
		AudioMixdown:   "stereo",
		FileFormat:     stringOr(raw.FileFormat, "av_mp4"),
		ChapterMarkers: true,
		Optimize:       raw.Optimize,
	}

	if raw.VideoQualitySlider != nil {
		p.VideoQuality = *raw.VideoQualitySlider
	}
	if raw.ChapterMarkers != nil {
		p.ChapterMarkers = *raw.ChapterMarkers
	}
	if len(raw.AudioList) > 0 {
		a := raw.AudioList[0]
		p.AudioEncoder = stringOr(a.AudioEncoder, "av_aac")
		p.AudioBitrate = intOr(a.AudioBitrate, 160)
		p.AudioMixdown = stringOr(a.AudioMixdown, "stereo")
	}

	return p, nil
}

func stringOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func intOr(n, def int) int {
	if n == 0 {
		return def
	}
	return n
}

func levelString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "4.0"
	case string:
		return stringOr(strings.TrimSpace(x), "4.0")
	case float64:
		return strconv.FormatFloat(x, 'f', 1, 64)
	default:
		return fmt.Sprint(x)
	}
}
