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
	"github.com/tigrisdata/docmapper/index"
	tsApi "github.com/tigrisdata/typesense-go/typesense/api"
)

// BuildCollectionSchema translates the queryable fields of a compiled index config into a typesense collection
// schema. Fast fields are sortable and facetable, datetimes are int64 unix nanos and the timestamp field becomes the
// default sorting field.
func BuildCollectionSchema(name string, cfg *index.CompiledIndexConfig) *tsApi.CollectionSchema {
	s := cfg.Schema
	tsFields := make([]tsApi.Field, 0, len(s.QueryableFields))
	for _, q := range s.QueryableFields {
		fast, indexed := q.Fast, q.Indexed
		optional := q.FieldName != s.TimestampField
		tsFields = append(tsFields, tsApi.Field{
			Name:     q.Name(),
			Type:     q.SearchType,
			Facet:    &fast,
			Index:    &indexed,
			Sort:     &fast,
			Optional: &optional,
		})
	}

	collection := &tsApi.CollectionSchema{
		Name:   name,
		Fields: tsFields,
	}
	if s.HasTimestamp() {
		ts := s.TimestampField
		collection.DefaultSortingField = &ts
	}

	return collection
}
