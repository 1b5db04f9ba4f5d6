// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandSpacedPathsSurviveTokenization(t *testing.T) {
	args, err := Expand("ffmpeg -i {INPUT} {OUTPUT}", Context{
		Input:  "/tmp/a b.mkv",
		Output: "/tmp/out.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ffmpeg", "-i", "/tmp/a b.mkv", "/tmp/out.mp4"}, args)
	for _, a := range args {
		assert.NotContains(t, a, `"`)
		assert.NotContains(t, a, `'`)
	}
}

func TestExpandAngleBracketTokens(t *testing.T) {
	args, err := Expand("enc -a <AUDIO_TRACK> -s <SUBTITLE_TRACK> <INPUT> <OUTPUT>", Context{
		Input:         "in.mkv",
		Output:        "out.mp4",
		AudioTrack:    2,
		SubtitleTrack: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"enc", "-a", "2", "-s", "4", "in.mkv", "out.mp4"}, args)
}

func TestExpandLegacyLiterals(t *testing.T) {
	args, err := Expand("ffmpeg -i input.mkv output.mp4", Context{
		Input:  "/media/show.mkv",
		Output: "/media/show.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ffmpeg", "-i", "/media/show.mkv", "/media/show.mp4"}, args)

	// Case-insensitive: presets written on Windows often capitalize.
	args, err = Expand("ffmpeg -i INPUT.MKV Output.Mp4", Context{
		Input:  "a.mkv",
		Output: "a.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ffmpeg", "-i", "a.mkv", "a.mp4"}, args)
}

func TestExpandQuotedLegacyLiteral(t *testing.T) {
	args, err := Expand(`ffmpeg -i "input.mkv" "output.mp4"`, Context{
		Input:  "/tmp/a b.mkv",
		Output: "out.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ffmpeg", "-i", "/tmp/a b.mkv", "out.mp4"}, args)
}

func TestExpandSubtitleFile(t *testing.T) {
	args, err := Expand("ffmpeg -i {INPUT} -vf subtitles={SUBTITLE_FILE} {OUTPUT}", Context{
		Input:        "in.mkv",
		Output:       "out.mp4",
		SubtitleFile: "/tmp/subs.ass",
	})
	require.NoError(t, err)
	assert.Contains(t, args, "-vf")
	assert.Contains(t, args, "subtitles=/tmp/subs.ass")
}

func TestExpandToolPathPinning(t *testing.T) {
	args, err := Expand("ffmpeg -i {INPUT} {OUTPUT}", Context{
		Input:    "in.mkv",
		Output:   "out.mp4",
		ToolName: "ffmpeg",
		ToolPath: "/usr/local/bin/ffmpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/ffmpeg", args[0])

	// A .exe suffix still counts as a reference to the same tool.
	args, err = Expand("ffmpeg.exe -i {INPUT} {OUTPUT}", Context{
		Input:    "in.mkv",
		Output:   "out.mp4",
		ToolName: "ffmpeg",
		ToolPath: "/usr/local/bin/ffmpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/ffmpeg", args[0])

	// An absolute path in the template is already pinned; leave it.
	args, err = Expand("/opt/ffmpeg/ffmpeg -i {INPUT} {OUTPUT}", Context{
		Input:    "in.mkv",
		Output:   "out.mp4",
		ToolName: "ffmpeg",
		ToolPath: "/usr/local/bin/ffmpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, "/opt/ffmpeg/ffmpeg", args[0])
}

func TestExpandEmptyTemplate(t *testing.T) {
	_, err := Expand("", Context{})
	assert.ErrorIs(t, err, ErrEmptyTemplate)

	_, err = Expand("   \t ", Context{})
	assert.ErrorIs(t, err, ErrEmptyTemplate)
}

func TestExpandUnbalancedQuote(t *testing.T) {
	_, err := Expand(`ffmpeg -i "in.mkv out.mp4`, Context{Input: "a.mkv", Output: "a.mp4"})
	assert.ErrorIs(t, err, ErrUnbalancedQuote)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a b c", []string{"a", "b", "c"}},
		{"  a\t b \n", []string{"a", "b"}},
		{`a "b c" d`, []string{"a", `"b c"`, "d"}},
		{`a 'b c' d`, []string{"a", `'b c'`, "d"}},
		{`"nested 'single' quotes"`, []string{`"nested 'single' quotes"`}},
		{`C:\media\file.mkv`, []string{`C:\media\file.mkv`}}, // backslash is not an escape
		{"", nil},
	}
	for _, tt := range tests {
		got, err := Tokenize(tt.in)
		require.NoError(t, err, "Tokenize(%q)", tt.in)
		assert.Equal(t, tt.want, got, "Tokenize(%q)", tt.in)
	}
}

func TestTokenizeUnbalanced(t *testing.T) {
	_, err := Tokenize(`a "b c`)
	assert.ErrorIs(t, err, ErrUnbalancedQuote)
}

func TestStripQuotes(t *testing.T) {
	assert.Equal(t, "a b", stripQuotes(`"a b"`))
	assert.Equal(t, "a b", stripQuotes(`'a b'`))
	assert.Equal(t, `"mixed'`, stripQuotes(`"mixed'`))
	assert.Equal(t, "plain", stripQuotes("plain"))
	assert.Equal(t, `"`, stripQuotes(`"`))
}
