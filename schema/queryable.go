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

package schema

import (
	"strings"
)

const (
	searchStringType = "string"
	searchInt64Type  = "int64"
	searchDoubleType = "float"
	searchBoolType   = "bool"
)

// QueryableField is internal structure used after flattening the fields i.e. the representation of the queryable field
// is of the following form "field" OR "parent.field". This allows us to perform look faster by just checking in this
// structure. Objects are never queryable themselves, only their leaves are.
type QueryableField struct {
	FieldName  string
	DataType   FieldType
	Fast       bool
	Stored     bool
	Indexed    bool
	Tokenizer  string
	SearchType string
	// Field is the resolved leaf mapping.
	Field *Field
}

// Name returns the flattened name of this field.
func (q *QueryableField) Name() string {
	return q.FieldName
}

// Type returns the data type of this field.
func (q *QueryableField) Type() FieldType {
	return q.DataType
}

func (q *QueryableField) KeyPath() []string {
	return strings.Split(q.FieldName, ObjFlattenDelimiter)
}

// IsNested returns true if the field is declared inside an object.
func (q *QueryableField) IsNested() bool {
	return strings.Contains(q.FieldName, ObjFlattenDelimiter)
}

type QueryableFieldsBuilder struct{}

func NewQueryableFieldsBuilder() *QueryableFieldsBuilder {
	return &QueryableFieldsBuilder{}
}

func (builder *QueryableFieldsBuilder) NewQueryableField(name string, f *Field) *QueryableField {
	return &QueryableField{
		FieldName:  name,
		DataType:   f.DataType,
		Fast:       f.Fast,
		Stored:     f.Stored,
		Indexed:    f.Indexed,
		Tokenizer:  f.Tokenizer,
		SearchType: toSearchFieldType(f.DataType),
		Field:      f,
	}
}

func (builder *QueryableFieldsBuilder) BuildQueryableFields(fields []*Field) []*QueryableField {
	var queryableFields []*QueryableField

	for _, f := range fields {
		if f.DataType == ObjectType {
			queryableFields = append(queryableFields, builder.buildQueryableForObject(f.FieldName, f.Fields)...)
		} else {
			queryableFields = append(queryableFields, builder.buildQueryableField("", f))
		}
	}

	return queryableFields
}

func (builder *QueryableFieldsBuilder) buildQueryableForObject(parent string, fields []*Field) []*QueryableField {
	var queryable []*QueryableField
	for _, nested := range fields {
		if nested.DataType == ObjectType {
			queryable = append(queryable, builder.buildQueryableForObject(parent+ObjFlattenDelimiter+nested.FieldName, nested.Fields)...)
		} else {
			queryable = append(queryable, builder.buildQueryableField(parent, nested))
		}
	}

	return queryable
}

func (builder *QueryableFieldsBuilder) buildQueryableField(parent string, f *Field) *QueryableField {
	name := f.FieldName
	if len(parent) > 0 {
		name = parent + ObjFlattenDelimiter + f.FieldName
	}

	return builder.NewQueryableField(name, f)
}

// toSearchFieldType is the type a search store column uses for the field. Datetimes are stored as unix nanos.
func toSearchFieldType(fieldType FieldType) string {
	switch fieldType {
	case TextType, BytesType:
		return searchStringType
	case U64Type, DateTimeType:
		return searchInt64Type
	case F64Type:
		return searchDoubleType
	case BoolType:
		return searchBoolType
	}

	return ""
}
