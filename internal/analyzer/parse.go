// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package analyzer

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// mkvinfo nests track properties under "|+ Tracks" with pipe/indent
// prefixes. The parser strips the prefix and classifies each line; a
// "Track number" line opens a new record and closes the previous one.
var (
	reTrackNumber = regexp.MustCompile(`\+ Track number: (\d+) \(track ID for mkvmerge & mkvextract: (\d+)\)`)
	reTrackType   = regexp.MustCompile(`\+ Track type: (audio|subtitles|video)`)
	reLangIETF    = regexp.MustCompile(`\+ Language \(IETF BCP 47\): (\S+)`)
	reLangLegacy  = regexp.MustCompile(`\+ Language: (\w+)`)
	reTrackName   = regexp.MustCompile(`\+ Name: (.+)`)
)

// ParseTracks extracts the track records from an mkvinfo text dump in
// dump order.
func ParseTracks(dump string) []TrackRecord {
	var tracks []TrackRecord
	var current *TrackRecord

	scanner := bufio.NewScanner(strings.NewReader(dump))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimLeft(scanner.Text(), "| \t")

		if m := reTrackNumber.FindStringSubmatch(line); m != nil {
			if current != nil {
				tracks = append(tracks, *current)
			}
			// 取第二个捕获：mkvmerge 的 0 基 track ID
			id, _ := strconv.Atoi(m[2])
			current = &TrackRecord{ID: id}
			continue
		}

		if current == nil {
			continue
		}

		if m := reTrackType.FindStringSubmatch(line); m != nil {
			switch m[1] {
			case "audio":
				current.Type = TrackAudio
			case "subtitles":
				current.Type = TrackSubtitle
			case "video":
				current.Type = TrackVideo
			}
			continue
		}

		// The BCP 47 tag always wins over the legacy Language element,
		// regardless of which the dump lists first.
		if m := reLangIETF.FindStringSubmatch(line); m != nil {
			current.Language = m[1]
			continue
		}
		if m := reLangLegacy.FindStringSubmatch(line); m != nil {
			if current.Language == "" {
				current.Language = m[1]
			}
			continue
		}

		if m := reTrackName.FindStringSubmatch(line); m != nil {
			current.Name = strings.TrimSpace(m[1])
			continue
		}
	}

	if current != nil {
		tracks = append(tracks, *current)
	}
	return tracks
}
