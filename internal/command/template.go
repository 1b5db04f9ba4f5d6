// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package command

import (
	"errors"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Context supplies the concrete values substituted into a user-editable
// command template.
type Context struct {
	Input         string
	Output        string
	AudioTrack    int // 1-based
	SubtitleTrack int // 1-based, 0 = none
	SubtitleFile  string
	ToolName      string // bare binary name, e.g. "ffmpeg"
	ToolPath      string // resolved absolute path
}

var (
	ErrEmptyTemplate = errors.New("command template is empty")

	reLegacyInput  = regexp.MustCompile(`(?i)input\.mkv`)
	reLegacyOutput = regexp.MustCompile(`(?i)output\.mp4`)
)

// Expand rewrites a user command template into an argument vector. The
// steps run in a fixed order: path quoting, legacy-literal replacement,
// {TOKEN}/<TOKEN> replacement, quoted-literal cleanup, quote-aware
// tokenization, quote stripping, and tool-path pinning. Tokenizing
// before substitution would split paths containing spaces.
func Expand(template string, ctx Context) ([]string, error) {
	if strings.TrimSpace(template) == "" {
		return nil, ErrEmptyTemplate
	}

	input := quoteIfSpaced(ctx.Input)
	output := quoteIfSpaced(ctx.Output)
	subFile := quoteIfSpaced(ctx.SubtitleFile)

	s := reLegacyInput.ReplaceAllLiteralString(template, input)
	s = reLegacyOutput.ReplaceAllLiteralString(s, output)

	for _, wrap := range []struct{ open, close string }{{"{", "}"}, {"<", ">"}} {
		s = strings.ReplaceAll(s, wrap.open+"INPUT"+wrap.close, input)
		s = strings.ReplaceAll(s, wrap.open+"OUTPUT"+wrap.close, output)
		s = strings.ReplaceAll(s, wrap.open+"AUDIO_TRACK"+wrap.close, strconv.Itoa(ctx.AudioTrack))
		s = strings.ReplaceAll(s, wrap.open+"SUBTITLE_TRACK"+wrap.close, strconv.Itoa(ctx.SubtitleTrack))
		s = strings.ReplaceAll(s, wrap.open+"SUBTITLE_FILE"+wrap.close, subFile)
	}

	// Presets sometimes ship the literal placeholder already quoted.
	// After substitution those quotes linger around the value (doubled,
	// if the path itself was quoted); collapse them.
	for _, q := range []string{`"`, `'`} {
		if input != "" {
			s = strings.ReplaceAll(s, q+input+q, input)
		}
		if output != "" {
			s = strings.ReplaceAll(s, q+output+q, output)
		}
	}

	tokens, err := Tokenize(s)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, ErrEmptyTemplate
	}

	for i, tok := range tokens {
		tokens[i] = stripQuotes(tok)
	}

	// The launcher receives argv element-wise, so a bare tool name must
	// be pinned to the resolved binary.
	if ctx.ToolPath != "" {
		for i, tok := range tokens {
			if isToolReference(tok, ctx.ToolName) {
				tokens[i] = ctx.ToolPath
			}
		}
	}

	return tokens, nil
}

func quoteIfSpaced(s string) string {
	if strings.Contains(s, " ") {
		return `"` + s + `"`
	}
	return s
}

func stripQuotes(tok string) string {
	if len(tok) >= 2 {
		first, last := tok[0], tok[len(tok)-1]
		if first == last && (first == '"' || first == '\'') {
			return tok[1 : len(tok)-1]
		}
	}
	return tok
}

func isToolReference(tok, toolName string) bool {
	if toolName == "" || filepath.IsAbs(tok) {
		return false
	}
	base := strings.ToLower(filepath.Base(tok))
	name := strings.ToLower(toolName)
	return base == name || base == name+".exe"
}
