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

package tokenizer

import (
	"regexp"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/porter"
	regexpTokenizer "github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
)

const (
	// Raw keeps the whole value as one case-sensitive term, only exact matches are possible.
	Raw = "raw"
	// Default lowercases and splits on Unicode word boundaries. No stop words are removed.
	Default = "default"
)

// Kind is the segmentation strategy of a tokenizer.
type Kind string

const (
	KindSingle  Kind = "single"
	KindUnicode Kind = "unicode"
	KindRegexp  Kind = "regexp"
)

const StemmerPorter = "porter"

// Spec declares a tokenizer. Built-in and custom tokenizers are described the same way, index mappings rebuild
// their analyzers from it.
type Spec struct {
	Name      string `mapstructure:"name" yaml:"name" json:"name"`
	Type      Kind   `mapstructure:"type" yaml:"type" json:"type"`
	Pattern   string `mapstructure:"pattern" yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Lowercase bool   `mapstructure:"lowercase" yaml:"lowercase,omitempty" json:"lowercase,omitempty"`
	Stemmer   string `mapstructure:"stemmer" yaml:"stemmer,omitempty" json:"stemmer,omitempty"`
}

var builtins = []Spec{
	{Name: Raw, Type: KindSingle},
	{Name: Default, Type: KindUnicode, Lowercase: true},
}

// IsBuiltin returns true for names that cannot be registered by users.
func IsBuiltin(name string) bool {
	for _, b := range builtins {
		if b.Name == name {
			return true
		}
	}
	return false
}

// Tokenizer is a resolved tokenizer. It is immutable and safe for concurrent use.
type Tokenizer struct {
	spec     Spec
	analyzer *analysis.DefaultAnalyzer
}

func newTokenizer(spec Spec, pattern *regexp.Regexp) *Tokenizer {
	analyzer := &analysis.DefaultAnalyzer{}
	switch spec.Type {
	case KindSingle:
		analyzer.Tokenizer = single.NewSingleTokenTokenizer()
	case KindUnicode:
		analyzer.Tokenizer = unicode.NewUnicodeTokenizer()
	case KindRegexp:
		analyzer.Tokenizer = regexpTokenizer.NewRegexpTokenizer(pattern)
	}
	if spec.Lowercase {
		analyzer.TokenFilters = append(analyzer.TokenFilters, nfcFilter{}, lowercase.NewLowerCaseFilter())
	}
	if spec.Stemmer == StemmerPorter {
		analyzer.TokenFilters = append(analyzer.TokenFilters, porter.NewPorterStemmer())
	}

	return &Tokenizer{
		spec:     spec,
		analyzer: analyzer,
	}
}

func (t *Tokenizer) Name() string {
	return t.spec.Name
}

func (t *Tokenizer) Spec() Spec {
	return t.spec
}

// SingleToken returns true if the tokenizer never splits its input. Such text fields support exact-match lookups
// and columnar (fast) storage.
func (t *Tokenizer) SingleToken() bool {
	return t.spec.Type == KindSingle
}

// Tokenize returns the terms produced for text, in order.
func (t *Tokenizer) Tokenize(text string) []string {
	stream := t.analyzer.Analyze([]byte(text))
	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		terms = append(terms, string(tok.Term))
	}
	return terms
}
