// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package encoder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"
)

const extractTimeout = 30 * time.Second

// ExtractSubtitle copies one subtitle stream into a temporary .ass file
// for burn-in. streamID is the 0-based absolute stream index. The
// caller removes the returned file when the encode finishes.
func ExtractSubtitle(ctx context.Context, ffmpegPath, input string, streamID int) (string, error) {
	tmp, err := os.CreateTemp("", "subtitle-*.ass")
	if err != nil {
		return "", fmt.Errorf("create temp subtitle file: %w", err)
	}
	output := tmp.Name()
	tmp.Close()

	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-i", input,
		"-map", "0:"+strconv.Itoa(streamID),
		"-c", "copy",
		"-y",
		output,
	)
	if err := cmd.Run(); err != nil {
		os.Remove(output)
		return "", fmt.Errorf("extract subtitle stream %d: %w", streamID, err)
	}

	if _, err := os.Stat(output); err != nil {
		return "", fmt.Errorf("extract subtitle stream %d: output missing", streamID)
	}
	return output, nil
}
