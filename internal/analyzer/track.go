// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具
//
// Package analyzer inspects a video container with mkvinfo and picks the
// audio and subtitle tracks to encode with.

package analyzer

// TrackType is the kind of stream a track carries
type TrackType int

const (
	TrackUnknown TrackType = iota
	TrackVideo
	TrackAudio
	TrackSubtitle
)

func (t TrackType) String() string {
	switch t {
	case TrackVideo:
		return "video"
	case TrackAudio:
		return "audio"
	case TrackSubtitle:
		return "subtitles"
	}
	return "unknown"
}

// TrackRecord is one track parsed from the mkvinfo dump. ID is the
// 0-based mkvmerge/mkvextract track ID, not the container's internal
// track number.
type TrackRecord struct {
	ID       int       `json:"id"`
	Type     TrackType `json:"type"`
	Language string    `json:"language,omitempty"`
	Name     string    `json:"name,omitempty"`
}

// Selection is the result of analyzing one file. AudioTrack and
// SubtitleTrack are 1-based track numbers as expected by the encoder
// tools; 0 means no track was selected. A non-empty Error means the
// analysis itself could not run and the file should be skipped.
type Selection struct {
	AudioTrack    int           `json:"audio_track,omitempty"`
	SubtitleTrack int           `json:"subtitle_track,omitempty"`
	Error         string        `json:"error,omitempty"`
	Tracks        []TrackRecord `json:"tracks,omitempty"`
}
