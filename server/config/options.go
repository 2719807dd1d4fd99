// Copyright 2022-2023 Tigris Data, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"time"

	"github.com/tigrisdata/docmapper/tokenizer"
	"github.com/tigrisdata/docmapper/util/log"
)

type Config struct {
	Log        log.LogConfig    `mapstructure:"log" yaml:"log" json:"log"`
	Compiler   CompilerConfig   `mapstructure:"compiler" yaml:"compiler" json:"compiler"`
	Tokenizers []tokenizer.Spec `mapstructure:"tokenizers" yaml:"tokenizers" json:"tokenizers"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache" json:"cache"`
	Metrics    MetricsConfig    `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// normalize maps values that only differ in representation to a single one. An absent tokenizers section and an
// empty one both load as nil.
func (c *Config) normalize() {
	if len(c.Tokenizers) == 0 {
		c.Tokenizers = nil
	}
}

// CompilerConfig holds the index level defaults and limits applied while compiling configuration documents.
type CompilerConfig struct {
	DefaultSplitNumDocsTarget uint64 `mapstructure:"default_split_num_docs_target" yaml:"default_split_num_docs_target" json:"default_split_num_docs_target"`
	MaxSplitNumDocsTarget     uint64 `mapstructure:"max_split_num_docs_target" yaml:"max_split_num_docs_target" json:"max_split_num_docs_target"`
	DefaultCommitTimeoutSecs  uint64 `mapstructure:"default_commit_timeout_secs" yaml:"default_commit_timeout_secs" json:"default_commit_timeout_secs"`
	MaxNestingDepth           int    `mapstructure:"max_nesting_depth" yaml:"max_nesting_depth" json:"max_nesting_depth"`
}

type CacheConfig struct {
	// Size is the number of compiled configurations kept, 0 disables the cache.
	Size int           `mapstructure:"size" yaml:"size" json:"size"`
	TTL  time.Duration `mapstructure:"ttl" yaml:"ttl" json:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	// Addr serves the prometheus endpoint for long running commands, empty disables it.
	Addr string `mapstructure:"addr" yaml:"addr" json:"addr"`
}

var DefaultConfig = Config{
	Log: log.LogConfig{
		Level:  "info",
		Format: "console",
	},
	Compiler: CompilerConfig{
		DefaultSplitNumDocsTarget: 10_000_000,
		MaxSplitNumDocsTarget:     1_000_000_000,
		DefaultCommitTimeoutSecs:  60,
		MaxNestingDepth:           8,
	},
	Cache: CacheConfig{
		Size: 128,
		TTL:  10 * time.Minute,
	},
	Metrics: MetricsConfig{
		Enabled: false,
	},
}
