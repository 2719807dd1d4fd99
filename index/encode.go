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
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/ugorji/go/codec"
	"gopkg.in/yaml.v2"
)

// Document converts the compiled configuration back to a configuration document with every default made explicit.
// Compiling the returned document yields a configuration equal to cfg.
func (cfg *CompiledIndexConfig) Document() *Document {
	split := int64(cfg.IndexingSettings.SplitNumDocsTarget)
	timeout := int64(cfg.IndexingSettings.CommitTimeout / time.Second)

	doc := &Document{
		Version:    cfg.Version,
		IndexID:    cfg.IndexID,
		DocMapping: *cfg.Schema.DocMapping(),
		SearchSettings: SearchSettings{
			DefaultSearchFields: cfg.SearchSettings.Names(),
		},
		IndexingSettings: IndexingSettings{
			SplitNumDocsTarget: &split,
			CommitTimeoutSecs:  &timeout,
		},
	}
	if cfg.Retention != nil {
		doc.Retention = &RetentionPolicy{
			Period:   cfg.Retention.Expr,
			Schedule: string(cfg.Retention.Schedule),
		}
	}

	return doc
}

// Encode serializes a configuration document.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSON:
		return jsoniter.MarshalIndent(doc, "", "  ")
	case FormatMsgpack:
		var out []byte
		if err := codec.NewEncoderBytes(&out, msgpackHandle).Encode(doc); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format '%s'", format)
	}
}
