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
	"fmt"
	"regexp"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/tigrisdata/docmapper/errors"
)

var validTokenizerName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Builder collects tokenizer specs. Registration is additive and happens before any compilation; Build validates
// every spec and returns a read-only Registry.
type Builder struct {
	specs []Spec
}

// NewBuilder returns a builder that already contains the built-in tokenizers.
func NewBuilder() *Builder {
	b := &Builder{}
	b.specs = append(b.specs, builtins...)
	return b
}

// Register queues a custom tokenizer. Validation is deferred to Build.
func (b *Builder) Register(specs ...Spec) *Builder {
	b.specs = append(b.specs, specs...)
	return b
}

func (b *Builder) Build() (*Registry, error) {
	r := &Registry{
		tokenizers: make(map[string]*Tokenizer, len(b.specs)),
	}

	for i, spec := range b.specs {
		var pattern *regexp.Regexp
		var err error
		if pattern, err = validateSpec(spec, i < len(builtins)); err != nil {
			return nil, err
		}
		if _, found := r.tokenizers[spec.Name]; found {
			return nil, errors.NewSettingError(errors.InvalidTokenizerSpec, settingName(spec.Name),
				"tokenizer '%s' is registered more than once", spec.Name)
		}

		r.tokenizers[spec.Name] = newTokenizer(spec, pattern)
		r.names = append(r.names, spec.Name)
	}

	log.Debug().Strs("tokenizers", r.names).Msg("tokenizer registry built")

	return r, nil
}

func settingName(name string) string {
	return fmt.Sprintf("tokenizers[%s]", name)
}

func validateSpec(spec Spec, builtin bool) (*regexp.Regexp, error) {
	setting := settingName(spec.Name)
	if !validTokenizerName.MatchString(spec.Name) {
		return nil, errors.NewSettingError(errors.InvalidTokenizerSpec, setting,
			"invalid tokenizer name '%s', it can only contain [a-z0-9_] and must start with a letter", spec.Name)
	}
	if !builtin && IsBuiltin(spec.Name) {
		return nil, errors.NewSettingError(errors.InvalidTokenizerSpec, setting,
			"built-in tokenizer '%s' cannot be redefined", spec.Name)
	}
	if len(spec.Stemmer) > 0 && spec.Stemmer != StemmerPorter {
		return nil, errors.NewSettingError(errors.InvalidTokenizerSpec, setting,
			"unsupported stemmer '%s'", spec.Stemmer)
	}

	switch spec.Type {
	case KindSingle, KindUnicode:
		if len(spec.Pattern) > 0 {
			return nil, errors.NewSettingError(errors.InvalidTokenizerSpec, setting,
				"pattern is only allowed for '%s' tokenizers", KindRegexp)
		}
		return nil, nil
	case KindRegexp:
		if len(spec.Pattern) == 0 {
			return nil, errors.NewSettingError(errors.InvalidTokenizerSpec, setting, "missing pattern")
		}
		pattern, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, errors.NewSettingError(errors.InvalidTokenizerSpec, setting,
				"invalid pattern '%s': %s", spec.Pattern, err.Error())
		}
		return pattern, nil
	default:
		return nil, errors.NewSettingError(errors.InvalidTokenizerSpec, setting,
			"unsupported tokenizer type '%s'", spec.Type)
	}
}

// Registry resolves tokenizer names. It is never mutated after Build and is passed explicitly to the compiler.
type Registry struct {
	tokenizers map[string]*Tokenizer
	names      []string
}

// NewDefaultRegistry returns a registry with only the built-in tokenizers.
func NewDefaultRegistry() *Registry {
	r, err := NewBuilder().Build()
	if err != nil {
		// built-ins are static
		panic(err)
	}
	return r
}

func (r *Registry) Resolve(name string) (*Tokenizer, error) {
	if t, ok := r.tokenizers[name]; ok {
		return t, nil
	}

	return nil, errors.New(errors.UnknownTokenizer, "unknown tokenizer '%s', registered tokenizers are %v", name, r.Names())
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	sort.Strings(names)
	return names
}

// Specs returns the specs in registration order, built-ins first.
func (r *Registry) Specs() []Spec {
	specs := make([]Spec, 0, len(r.names))
	for _, n := range r.names {
		specs = append(specs, r.tokenizers[n].spec)
	}
	return specs
}
