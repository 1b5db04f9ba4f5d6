// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package encoder

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

// lineQueue is an unbounded FIFO between a pipe reader and the poll
// loop. Unbounded on purpose: the reader must never block, or the
// child's pipe buffer fills and the encode stalls.
type lineQueue struct {
	mu    sync.Mutex
	lines []string
}

func (q *lineQueue) push(line string) {
	q.mu.Lock()
	q.lines = append(q.lines, line)
	q.mu.Unlock()
}

func (q *lineQueue) drainAll() []string {
	q.mu.Lock()
	out := q.lines
	q.lines = nil
	q.mu.Unlock()
	return out
}

// readLines drains a pipe into the queue until EOF. Runs until the
// child closes its end; the waiter joins on wg before calling Wait.
func readLines(pipe io.Reader, q *lineQueue, wg *sync.WaitGroup) {
	defer wg.Done()

	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanLine)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			q.push(line)
		}
	}
}

// scanLine splits on both \n and \r so ffmpeg's carriage-return
// progress updates arrive as individual lines.
func scanLine(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) {
		r, w := utf8.DecodeRune(data[start:])
		if r != '\n' && r != '\r' {
			break
		}
		start += w
	}

	for i := start; i < len(data); {
		r, w := utf8.DecodeRune(data[i:])
		if r == '\n' || r == '\r' {
			return i + w, data[start:i], nil
		}
		i += w
	}

	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}
