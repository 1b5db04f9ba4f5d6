// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Tools     ToolsConfig     `yaml:"tools"`
	Output    OutputConfig    `yaml:"output"`
	Encoding  EncodingConfig  `yaml:"encoding"`
	Selection SelectionConfig `yaml:"selection"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Bind string `yaml:"bind"`
}

// ToolsConfig holds the external tool binaries
type ToolsConfig struct {
	FFmpeg    string `yaml:"ffmpeg"`
	HandBrake string `yaml:"handbrake"`
	MKVInfo   string `yaml:"mkvinfo"`
}

// OutputConfig controls where encoded files land
type OutputConfig struct {
	Folder string `yaml:"folder"`
	Suffix string `yaml:"suffix"`
}

// EncodingConfig 编码行为配置
type EncodingConfig struct {
	Mode         string `yaml:"mode"` // sequential or parallel
	SkipExisting bool   `yaml:"skip_existing"`
}

// SelectionConfig holds the ordered rule lists used to pick audio and
// subtitle tracks. All pattern entries are case-insensitive regexes.
type SelectionConfig struct {
	AudioLanguageTags       []string `yaml:"audio_language_tags"`
	AudioNamePatterns       []string `yaml:"audio_name_patterns"`
	AudioExcludePatterns    []string `yaml:"audio_exclude_patterns"`
	SubtitleLanguageTags    []string `yaml:"subtitle_language_tags"`
	SubtitleNamePatterns    []string `yaml:"subtitle_name_patterns"`
	SubtitleExcludePatterns []string `yaml:"subtitle_exclude_patterns"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{Bind: ":8080"},
		Tools: ToolsConfig{
			FFmpeg:    "ffmpeg",
			HandBrake: "HandBrakeCLI",
			MKVInfo:   "mkvinfo",
		},
		Output: OutputConfig{Suffix: "_encoded"},
		Encoding: EncodingConfig{
			Mode: "sequential",
		},
		Selection: SelectionConfig{
			AudioLanguageTags:       []string{"en", "eng"},
			AudioNamePatterns:       []string{"English", "ENG"},
			AudioExcludePatterns:    []string{"Japanese", "JPN", "日本語"},
			SubtitleLanguageTags:    []string{"en", "eng"},
			SubtitleNamePatterns:    []string{`Signs.*Song`, `Signs$`, `English Signs`, `^Signs\s*$`},
			SubtitleExcludePatterns: []string{"Japanese", "JPN", "日本語"},
		},
	}
}

// Load 从 YAML 文件加载配置
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// 填充空值
	if cfg.Server.Bind == "" {
		cfg.Server.Bind = ":8080"
	}
	if cfg.Tools.FFmpeg == "" {
		cfg.Tools.FFmpeg = "ffmpeg"
	}
	if cfg.Tools.HandBrake == "" {
		cfg.Tools.HandBrake = "HandBrakeCLI"
	}
	if cfg.Tools.MKVInfo == "" {
		cfg.Tools.MKVInfo = "mkvinfo"
	}
	if cfg.Output.Suffix == "" {
		cfg.Output.Suffix = "_encoded"
	}
	if cfg.Encoding.Mode == "" {
		cfg.Encoding.Mode = "sequential"
	}

	def := Default().Selection
	if len(cfg.Selection.AudioLanguageTags) == 0 {
		cfg.Selection.AudioLanguageTags = def.AudioLanguageTags
	}
	if len(cfg.Selection.AudioNamePatterns) == 0 {
		cfg.Selection.AudioNamePatterns = def.AudioNamePatterns
	}
	if len(cfg.Selection.AudioExcludePatterns) == 0 {
		cfg.Selection.AudioExcludePatterns = def.AudioExcludePatterns
	}
	if len(cfg.Selection.SubtitleLanguageTags) == 0 {
		cfg.Selection.SubtitleLanguageTags = def.SubtitleLanguageTags
	}
	if len(cfg.Selection.SubtitleNamePatterns) == 0 {
		cfg.Selection.SubtitleNamePatterns = def.SubtitleNamePatterns
	}
	if len(cfg.Selection.SubtitleExcludePatterns) == 0 {
		cfg.Selection.SubtitleExcludePatterns = def.SubtitleExcludePatterns
	}

	return cfg, nil
}
