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

package index

import (
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tigrisdata/docmapper/schema"
	"github.com/tigrisdata/docmapper/server/config"
	"github.com/tigrisdata/docmapper/server/metrics"
	"github.com/tigrisdata/docmapper/tokenizer"
	ulog "github.com/tigrisdata/docmapper/util/log"
)

const sourceObject = "object"

// Compiler turns configuration documents into compiled index configurations. It holds no mutable state apart from
// the optional cache, so it can be used concurrently.
type Compiler struct {
	registry *tokenizer.Registry
	limits   config.CompilerConfig
	builder  *schema.DocumentBuilder
	binders  []Binder
	cache    *Cache
}

// NewCompiler creates a compiler over a built tokenizer registry. Zero limits are replaced by the defaults and the
// default split target never exceeds the maximum.
func NewCompiler(registry *tokenizer.Registry, limits config.CompilerConfig) *Compiler {
	defaults := config.DefaultConfig.Compiler
	if limits.DefaultSplitNumDocsTarget == 0 {
		limits.DefaultSplitNumDocsTarget = defaults.DefaultSplitNumDocsTarget
	}
	if limits.MaxSplitNumDocsTarget == 0 {
		limits.MaxSplitNumDocsTarget = defaults.MaxSplitNumDocsTarget
	}
	if limits.DefaultCommitTimeoutSecs == 0 {
		limits.DefaultCommitTimeoutSecs = defaults.DefaultCommitTimeoutSecs
	}
	if limits.MaxNestingDepth == 0 {
		limits.MaxNestingDepth = defaults.MaxNestingDepth
	}
	if limits.DefaultSplitNumDocsTarget > limits.MaxSplitNumDocsTarget {
		log.Warn().Uint64("default", limits.DefaultSplitNumDocsTarget).Uint64("max", limits.MaxSplitNumDocsTarget).
			Msg("default split target above the maximum, using the maximum")
		limits.DefaultSplitNumDocsTarget = limits.MaxSplitNumDocsTarget
	}

	return &Compiler{
		registry: registry,
		limits:   limits,
		builder:  schema.NewDocumentBuilder(schema.NewFieldResolver(registry, limits.MaxNestingDepth)),
		binders:  newBinders(limits),
	}
}

// NewCompilerFromConfig builds the tokenizer registry from the configured custom tokenizers and wires the cache.
func NewCompilerFromConfig(cfg *config.Config) (*Compiler, error) {
	registry, err := tokenizer.NewBuilder().Register(cfg.Tokenizers...).Build()
	if err != nil {
		return nil, err
	}

	return NewCompiler(registry, cfg.Compiler).WithCache(NewCache(cfg.Cache.Size, cfg.Cache.TTL)), nil
}

// WithCache makes CompileBytes return the previously compiled instance for identical input. A nil cache disables
// caching.
func (c *Compiler) WithCache(cache *Cache) *Compiler {
	c.cache = cache
	return c
}

func (c *Compiler) Registry() *tokenizer.Registry {
	return c.registry
}

func (c *Compiler) Limits() config.CompilerConfig {
	return c.limits
}

// Compile runs the whole pipeline on a parsed document: header checks, field resolution, schema assembly and
// settings binding. It stops at the first error.
func (c *Compiler) Compile(doc *Document) (*CompiledIndexConfig, error) {
	return c.compile(doc, sourceObject)
}

// CompileBytes parses and compiles a serialized document.
func (c *Compiler) CompileBytes(data []byte, format Format) (*CompiledIndexConfig, error) {
	if cfg, ok := c.cache.Get(data, format); ok {
		log.Debug().Str("index_id", cfg.IndexID).Msg("compiled config served from cache")
		return cfg, nil
	}

	doc, err := Load(data, format)
	if err != nil {
		tags := metrics.GetCompileTags("", string(format))
		metrics.CountCompile(tags, err)
		ulog.CompileErr(log.Warn(), err).Str("source", string(format)).Msg("config document rejected")
		return nil, err
	}

	cfg, err := c.compile(doc, string(format))
	if err != nil {
		return nil, err
	}

	c.cache.Put(data, format, cfg)
	return cfg, nil
}

// CompileFile reads, parses and compiles a configuration file.
func (c *Compiler) CompileFile(path string) (*CompiledIndexConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "reading config document '%s'", path)
	}

	return c.CompileBytes(data, FormatFromPath(path))
}

func (c *Compiler) compile(doc *Document, source string) (*CompiledIndexConfig, error) {
	tags := metrics.GetCompileTags(doc.IndexID, source)
	defer metrics.StartCompileTimer(tags).Stop()

	cfg, err := c.build(doc)
	metrics.CountCompile(tags, err)
	if err != nil {
		ulog.CompileErr(log.Warn(), err).Str("index_id", doc.IndexID).Msg("config document rejected")
		return nil, err
	}

	log.Debug().
		Str("index_id", cfg.IndexID).
		Str("version", cfg.Version).
		Int("fields", len(cfg.Schema.QueryableFields)).
		Str("timestamp_field", cfg.Schema.TimestampField).
		Msg("compiled config")

	return cfg, nil
}

func (c *Compiler) build(doc *Document) (*CompiledIndexConfig, error) {
	if err := validateHeader(doc); err != nil {
		return nil, err
	}

	s, err := c.builder.Build(&doc.DocMapping)
	if err != nil {
		return nil, err
	}

	cfg := &CompiledIndexConfig{
		IndexID: doc.IndexID,
		Version: doc.Version,
		Schema:  s,
	}
	for _, b := range c.binders {
		if err = b.Bind(cfg, doc); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
