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
	"time"

	"github.com/tigrisdata/docmapper/schema"
)

// Document is an index configuration document as written by its author. Optional settings are pointers so that
// an omitted value can be told apart from an explicit zero.
type Document struct {
	Version          string            `json:"version" yaml:"version"`
	IndexID          string            `json:"index_id" yaml:"index_id"`
	DocMapping       schema.DocMapping `json:"doc_mapping" yaml:"doc_mapping"`
	SearchSettings   SearchSettings    `json:"search_settings" yaml:"search_settings"`
	IndexingSettings IndexingSettings  `json:"indexing_settings" yaml:"indexing_settings"`
	Retention        *RetentionPolicy  `json:"retention,omitempty" yaml:"retention,omitempty"`
}

type SearchSettings struct {
	DefaultSearchFields []string `json:"default_search_fields,omitempty" yaml:"default_search_fields,omitempty"`
}

type IndexingSettings struct {
	SplitNumDocsTarget *int64 `json:"split_num_docs_target,omitempty" yaml:"split_num_docs_target,omitempty"`
	CommitTimeoutSecs  *int64 `json:"commit_timeout_secs,omitempty" yaml:"commit_timeout_secs,omitempty"`
}

type RetentionPolicy struct {
	// Period is "<n> <unit>", e.g. "90 days".
	Period   string `json:"period" yaml:"period"`
	Schedule string `json:"schedule,omitempty" yaml:"schedule,omitempty"`
}

// CompiledIndexConfig is the result of a successful compilation. It is never modified after Compile returns and
// can be shared between goroutines; a changed document produces a new instance.
type CompiledIndexConfig struct {
	IndexID          string
	Version          string
	Schema           *schema.DocumentSchema
	SearchSettings   CompiledSearchSettings
	IndexingSettings CompiledIndexingSettings
	// Retention is nil when the document has no retention policy.
	Retention *Retention
}

type CompiledSearchSettings struct {
	// DefaultSearchFields are the resolved leaves, in the order they were listed.
	DefaultSearchFields []*schema.QueryableField
}

// IsDefaultSearchField reports whether the flattened path is one of the default search fields.
func (s CompiledSearchSettings) IsDefaultSearchField(path string) bool {
	for _, f := range s.DefaultSearchFields {
		if f.FieldName == path {
			return true
		}
	}
	return false
}

// Names returns the flattened names of the default search fields.
func (s CompiledSearchSettings) Names() []string {
	if len(s.DefaultSearchFields) == 0 {
		return nil
	}

	names := make([]string, 0, len(s.DefaultSearchFields))
	for _, f := range s.DefaultSearchFields {
		names = append(names, f.FieldName)
	}
	return names
}

type CompiledIndexingSettings struct {
	SplitNumDocsTarget uint64
	CommitTimeout      time.Duration
}

type Retention struct {
	Period   time.Duration
	Schedule Schedule
	// Expr is the normalized period expression.
	Expr string
}
