// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package batch

import "errors"

var (
	ErrNotFound       = errors.New("job not found")
	ErrJobExists      = errors.New("job already exists")
	ErrInvalidRequest = errors.New("invalid request: need at least one file and a preset or template")
	ErrPresetRequired = errors.New("a preset file is required when no command template is given")
)
