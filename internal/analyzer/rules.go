// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZSC714725/batchencoder/internal/config"
)

// Rules are the compiled selection predicates. Pattern lists come from
// configuration and are matched case-insensitively.
type Rules struct {
	audioTags        []string
	audioNames       []*regexp.Regexp
	audioExcludes    []*regexp.Regexp
	subtitleTags     []string
	subtitleNames    []*regexp.Regexp
	subtitleExcludes []*regexp.Regexp
}

// NewRules compiles the configured rule lists. Empty expressions are
// ignored; an invalid expression fails compilation.
func NewRules(sel config.SelectionConfig) (*Rules, error) {
	r := &Rules{
		audioTags:    sel.AudioLanguageTags,
		subtitleTags: sel.SubtitleLanguageTags,
	}

	var err error
	if r.audioNames, err = compileAll(sel.AudioNamePatterns); err != nil {
		return nil, err
	}
	if r.audioExcludes, err = compileAll(sel.AudioExcludePatterns); err != nil {
		return nil, err
	}
	if r.subtitleNames, err = compileAll(sel.SubtitleNamePatterns); err != nil {
		return nil, err
	}
	if r.subtitleExcludes, err = compileAll(sel.SubtitleExcludePatterns); err != nil {
		return nil, err
	}
	return r, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern '%s': %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// langMatches reports whether language equals tag or is a compound of it
// (e.g. "eng-eng" or "en_US").
func langMatches(language string, tags []string) bool {
	if language == "" {
		return false
	}
	lang := strings.ToLower(language)
	for _, tag := range tags {
		t := strings.ToLower(tag)
		if lang == t || strings.HasPrefix(lang, t+"-") || strings.HasPrefix(lang, t+"_") {
			return true
		}
	}
	return false
}

func matchesAny(name string, res []*regexp.Regexp) bool {
	for _, re := range res {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// AudioEnglish reports whether an audio track should be treated as the
// wanted language: either its language tag matches, or its name matches
// an inclusion pattern and none of the exclusion patterns.
func (r *Rules) AudioEnglish(language, name string) bool {
	if langMatches(language, r.audioTags) {
		return true
	}
	if name == "" {
		return false
	}
	if !matchesAny(name, r.audioNames) {
		return false
	}
	return !matchesAny(name, r.audioExcludes)
}

// SubtitleEnglish decides by language tag only; name inclusion patterns
// are reserved for SignsSongs. A matching track is still rejected when
// its name hits an exclusion pattern. The asymmetry with AudioEnglish is
// deliberate.
func (r *Rules) SubtitleEnglish(language, name string) bool {
	if !langMatches(language, r.subtitleTags) {
		return false
	}
	if name != "" && matchesAny(name, r.subtitleExcludes) {
		return false
	}
	return true
}

// SignsSongs reports whether a subtitle track name marks a partial
// signs-and-songs track.
func (r *Rules) SignsSongs(name string) bool {
	if name == "" {
		return false
	}
	return matchesAny(name, r.subtitleNames)
}
