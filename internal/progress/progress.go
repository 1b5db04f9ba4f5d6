// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具
//
// Package progress extracts progress snapshots from encoder stderr lines.
// FFmpeg reports elapsed time against a detected total duration,
// HandBrakeCLI reports a percentage directly.

package progress

import (
	"regexp"
	"strconv"

	"github.com/ZSC714725/batchencoder/internal/timecode"
)

// Dialect selects which encoder's output grammar a session parses.
type Dialect int

const (
	DialectFFmpeg Dialect = iota
	DialectHandBrake
)

// Progress is one snapshot parsed from a single line. Nil/empty fields
// were not present on that line. Values are never mutated after Parse
// returns.
type Progress struct {
	Percent *float64 `json:"percent,omitempty"`
	Time    string   `json:"time,omitempty"`
	Speed   *float64 `json:"speed,omitempty"`
	ETA     string   `json:"eta,omitempty"`
	FPS     *float64 `json:"fps,omitempty"`
}

var (
	reDuration = regexp.MustCompile(`Duration:\s*(\d{2}:\d{2}:\d{2}\.\d{2})`)
	reTime     = regexp.MustCompile(`time=(\d{2}:\d{2}:\d{2}\.\d{2})`)
	reSpeed    = regexp.MustCompile(`speed=\s*([\d.]+)x`)
	reFPS      = regexp.MustCompile(`fps=\s*([\d.]+)`)

	rePercent = regexp.MustCompile(`Encoding: task \d+ of \d+, ([\d.]+) %`)
	reETA     = regexp.MustCompile(`ETA (\d{2}:\d{2}:\d{2})`)
	reHBFPS   = regexp.MustCompile(`([\d.]+) fps`)
)

// Session holds the per-encode parser state. The only state is the
// total duration detected from FFmpeg's banner output; the first
// Duration line wins for the lifetime of the session.
type Session struct {
	dialect  Dialect
	duration float64 // seconds, 0 = not yet detected
}

// NewSession creates a parser session for one encoder invocation.
func NewSession(dialect Dialect) *Session {
	return &Session{dialect: dialect}
}

// Duration returns the detected total duration in seconds, 0 if none
// has been seen yet.
func (s *Session) Duration() float64 { return s.duration }

// Parse consumes one stderr line and returns a fresh snapshot. Each
// field is extracted independently; a line may populate any subset.
// Numeric parse failures leave the field absent and never error.
func (s *Session) Parse(line string) Progress {
	if s.dialect == DialectHandBrake {
		return s.parseHandBrake(line)
	}
	return s.parseFFmpeg(line)
}

func (s *Session) parseFFmpeg(line string) Progress {
	p := Progress{}

	if s.duration == 0 {
		if m := reDuration.FindStringSubmatch(line); m != nil {
			s.duration = timecode.Parse(m[1])
		}
	}

	var elapsed float64
	if m := reTime.FindStringSubmatch(line); m != nil {
		p.Time = m[1]
		elapsed = timecode.Parse(p.Time)
		if s.duration > 0 {
			pct := elapsed / s.duration * 100.0
			if pct > 100.0 {
				pct = 100.0
			}
			p.Percent = &pct
		}
	}

	if m := reSpeed.FindStringSubmatch(line); m != nil {
		if speed, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.Speed = &speed
			if p.Time != "" && s.duration > 0 && speed > 0 {
				remaining := (s.duration - elapsed) / speed
				if remaining > 0 {
					p.ETA = timecode.Format(remaining)
				}
			}
		}
	}

	if m := reFPS.FindStringSubmatch(line); m != nil {
		if fps, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.FPS = &fps
		}
	}

	return p
}

func (s *Session) parseHandBrake(line string) Progress {
	p := Progress{}

	if m := rePercent.FindStringSubmatch(line); m != nil {
		if pct, err := strconv.ParseFloat(m[1], 64); err == nil {
			if pct > 100.0 {
				pct = 100.0
			}
			p.Percent = &pct
		}
	}
	if m := reETA.FindStringSubmatch(line); m != nil {
		p.ETA = m[1]
	}
	if m := reHBFPS.FindStringSubmatch(line); m != nil {
		if fps, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.FPS = &fps
		}
	}

	return p
}
