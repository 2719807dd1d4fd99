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

package search

import (
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/porter"
	regexpTokenizer "github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/tigrisdata/docmapper/errors"
	"github.com/tigrisdata/docmapper/index"
	"github.com/tigrisdata/docmapper/schema"
	"github.com/tigrisdata/docmapper/tokenizer"
	"github.com/tigrisdata/docmapper/util"
	"github.com/tigrisdata/docmapper/value"
)

const analyzerPrefix = "docmapper_"

// AnalyzerName is the name of the bleve analyzer registered for a tokenizer. Raw text uses bleve's keyword analyzer.
func AnalyzerName(tokenizerName string) string {
	if tokenizerName == tokenizer.Raw {
		return keyword.Name
	}
	return analyzerPrefix + tokenizerName
}

// BuildIndexMapping translates a compiled index config into a bleve index mapping. Every tokenizer used by a text
// field becomes a custom analyzer, objects become sub-document mappings and the field options are carried over as
// is: fast to doc values, stored to store, indexed to index and default search fields are included in "_all".
func BuildIndexMapping(cfg *index.CompiledIndexConfig, registry *tokenizer.Registry) (*mapping.IndexMappingImpl, error) {
	im := mapping.NewIndexMapping()

	registered := make(map[string]struct{})
	register := func(name string) error {
		if _, ok := registered[name]; ok || name == tokenizer.Raw {
			return nil
		}
		tok, err := registry.Resolve(name)
		if err != nil {
			return err
		}
		if err := addAnalyzer(im, tok.Spec()); err != nil {
			return errors.Internal("registering analyzer for tokenizer '%s' failed: %s", name, err.Error())
		}
		registered[name] = struct{}{}
		return nil
	}

	if err := register(tokenizer.Default); err != nil {
		return nil, err
	}
	im.DefaultAnalyzer = AnalyzerName(tokenizer.Default)

	for _, q := range cfg.Schema.QueryableFields {
		if q.DataType == schema.TextType {
			if err := register(q.Tokenizer); err != nil {
				return nil, err
			}
		}
	}

	root := newDocumentMapping(cfg.Schema)
	addFields(root, cfg.Schema, cfg.SearchSettings, "", cfg.Schema.Fields)
	im.DefaultMapping = root
	im.StoreDynamic = false
	im.IndexDynamic = !cfg.Schema.IsStrict()

	if err := im.Validate(); err != nil {
		return nil, errors.Internal("index mapping of '%s' is invalid: %s", cfg.IndexID, err.Error())
	}

	return im, nil
}

func addAnalyzer(im *mapping.IndexMappingImpl, spec tokenizer.Spec) error {
	tokName := analyzerPrefix + "tokenizer_" + spec.Name

	var tokConfig map[string]interface{}
	switch spec.Type {
	case tokenizer.KindSingle:
		tokConfig = map[string]interface{}{"type": single.Name}
	case tokenizer.KindUnicode:
		tokConfig = map[string]interface{}{"type": unicode.Name}
	case tokenizer.KindRegexp:
		tokConfig = map[string]interface{}{"type": regexpTokenizer.Name, "regexp": spec.Pattern}
	}
	if err := im.AddCustomTokenizer(tokName, tokConfig); err != nil {
		return err
	}

	filters := []string{}
	if spec.Lowercase {
		filters = append(filters, tokenizer.NFCFilterName, lowercase.Name)
	}
	if spec.Stemmer == tokenizer.StemmerPorter {
		filters = append(filters, porter.Name)
	}

	return im.AddCustomAnalyzer(AnalyzerName(spec.Name), map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     tokName,
		"token_filters": filters,
	})
}

func newDocumentMapping(s *schema.DocumentSchema) *mapping.DocumentMapping {
	if s.IsStrict() {
		return mapping.NewDocumentStaticMapping()
	}
	return mapping.NewDocumentMapping()
}

func addFields(dm *mapping.DocumentMapping, s *schema.DocumentSchema, search index.CompiledSearchSettings, parent string, fields []*schema.Field) {
	for _, f := range fields {
		path := f.FieldName
		if len(parent) > 0 {
			path = parent + schema.ObjFlattenDelimiter + f.FieldName
		}

		if f.IsObject() {
			sub := newDocumentMapping(s)
			addFields(sub, s, search, path, f.Fields)
			dm.AddSubDocumentMapping(f.FieldName, sub)
			continue
		}

		fm := leafMapping(f)
		fm.Name = f.FieldName
		fm.Store = f.Stored
		fm.Index = f.Indexed
		fm.DocValues = f.Fast
		fm.IncludeInAll = search.IsDefaultSearchField(path)
		dm.AddFieldMappingsAt(f.FieldName, fm)
	}
}

func leafMapping(f *schema.Field) *mapping.FieldMapping {
	switch f.DataType {
	case schema.TextType:
		if f.Tokenizer == tokenizer.Raw {
			return mapping.NewKeywordFieldMapping()
		}
		fm := mapping.NewTextFieldMapping()
		fm.Analyzer = AnalyzerName(f.Tokenizer)
		return fm
	case schema.U64Type, schema.F64Type:
		return mapping.NewNumericFieldMapping()
	case schema.DateTimeType:
		return mapping.NewDateTimeFieldMapping()
	case schema.BoolType:
		return mapping.NewBooleanFieldMapping()
	default:
		// bytes are carried base64 encoded and matched as a whole
		return mapping.NewKeywordFieldMapping()
	}
}

// ToBleveDocument converts a coerced document into the nested shape bleve walks. Unsigned integers are widened to
// float64 and bytes are base64 encoded.
func ToBleveDocument(doc *value.Document) map[string]any {
	flat := make(map[string]any, doc.Len())
	for _, p := range doc.Paths() {
		flat[p] = bleveValue(doc.Get(p))
	}

	return util.UnFlatMap(flat, false)
}

func bleveValue(v value.Value) any {
	switch t := v.(type) {
	case *value.ArrayValue:
		out := make([]any, 0, len(t.Values()))
		for _, e := range t.Values() {
			out = append(out, bleveValue(e))
		}
		return out
	case *value.U64Value:
		return float64(*t)
	case *value.BytesValue:
		return t.Output()
	default:
		return v.AsInterface()
	}
}

