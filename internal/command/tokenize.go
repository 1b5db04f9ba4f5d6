// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package command

import "errors"

// ErrUnbalancedQuote reports a template whose quoting never closes.
var ErrUnbalancedQuote = errors.New("unbalanced quote in command template")

// Tokenize splits a command string on whitespace, honoring single and
// double quotes. Backslashes are ordinary characters (Windows-style
// paths pass through untouched). Quote characters are kept in the
// tokens; the caller strips surrounding quotes afterwards.
func Tokenize(s string) ([]string, error) {
	var tokens []string
	var cur []rune
	var quote rune // 0 = outside quotes
	inToken := false

	for _, r := range s {
		switch {
		case quote != 0:
			cur = append(cur, r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
			cur = append(cur, r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inToken {
				tokens = append(tokens, string(cur))
				cur = cur[:0]
				inToken = false
			}
		default:
			inToken = true
			cur = append(cur, r)
		}
	}

	if quote != 0 {
		return nil, ErrUnbalancedQuote
	}
	if inToken {
		tokens = append(tokens, string(cur))
	}
	return tokens, nil
}
