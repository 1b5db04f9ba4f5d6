// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具
//
// Package timecode converts between HH:MM:SS[.ms] strings and seconds.

package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a "HH:MM:SS" or "HH:MM:SS.cc" string to seconds.
// Malformed input returns 0.0 instead of an error because Parse sits in
// the per-line progress path, where a bad match must not abort the stream.
func Parse(s string) float64 {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0.0
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0.0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0.0
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0.0
	}

	return float64(hours*3600+minutes*60) + seconds
}

// Format renders seconds as "HH:MM:SS". The sub-second part is truncated,
// not rounded.
func Format(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
