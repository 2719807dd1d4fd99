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
	"regexp"
	"strings"
)

type FieldType int

const (
	UnknownType FieldType = iota
	TextType
	U64Type
	F64Type
	BoolType
	// BytesType values are base64 encoded in documents.
	BytesType
	DateTimeType
	ObjectType
)

var FieldNames = [...]string{
	UnknownType:  "unknown",
	TextType:     "text",
	U64Type:      "u64",
	F64Type:      "f64",
	BoolType:     "bool",
	BytesType:    "bytes",
	DateTimeType: "datetime",
	ObjectType:   "object",
}

func (t FieldType) String() string {
	if t >= 0 && int(t) < len(FieldNames) {
		return FieldNames[t]
	}
	return FieldNames[UnknownType]
}

var (
	MsgFieldNameInvalidPattern = "invalid field name, field name can only contain [a-zA-Z0-9_$-] and it can only start with [a-zA-Z_$] for fieldName = '%s'"
	ValidFieldNamePattern      = regexp.MustCompile(`^[a-zA-Z_$][a-zA-Z0-9_$-]*$`)
)

// ToFieldType maps a declared type name to the field type. Names are case-sensitive.
func ToFieldType(name string) FieldType {
	for t, n := range FieldNames {
		if t != int(UnknownType) && n == name {
			return FieldType(t)
		}
	}
	return UnknownType
}

func IsNumericType(t FieldType) bool {
	return t == U64Type || t == F64Type
}

// IsLeafType returns true for every type that holds a value rather than nested fields.
func IsLeafType(t FieldType) bool {
	return t != UnknownType && t != ObjectType
}

// SupportedFastType returns true if columnar storage is allowed for the field. Text is only eligible when its
// tokenizer never splits the value.
func SupportedFastType(f *Field) bool {
	switch f.DataType {
	case U64Type, F64Type, DateTimeType:
		return true
	case TextType:
		return f.SingleToken
	default:
		return false
	}
}

// SupportedTagType returns true if the field can be used as a tag, i.e. its values are exact terms.
func SupportedTagType(f *Field) bool {
	switch f.DataType {
	case U64Type, BoolType:
		return true
	case TextType:
		return f.SingleToken
	default:
		return false
	}
}

// Field is a resolved field mapping. Once returned by the resolver it is never modified.
type Field struct {
	FieldName   string
	Description string
	DataType    FieldType
	// Tokenizer is the resolved tokenizer name for text fields.
	Tokenizer string
	// SingleToken is true when the tokenizer never splits the value.
	SingleToken bool
	// Datetime options, only set for datetime fields.
	Datetime *DatetimeOptions
	Fast     bool
	Stored   bool
	Indexed  bool
	// Fields are the nested mappings of an object, in declaration order.
	Fields []*Field
}

func (f *Field) Name() string {
	return f.FieldName
}

func (f *Field) Type() FieldType {
	return f.DataType
}

func (f *Field) IsFast() bool {
	return f.Fast
}

func (f *Field) IsStored() bool {
	return f.Stored
}

func (f *Field) IsIndexed() bool {
	return f.Indexed
}

func (f *Field) IsObject() bool {
	return f.DataType == ObjectType
}

func (f *Field) GetNestedField(name string) *Field {
	return GetField(f.Fields, name)
}

func GetField(fields []*Field, name string) *Field {
	for _, r := range fields {
		if r.FieldName == name {
			return r
		}
	}

	return nil
}

// GetFieldByPath resolves a dotted path like "parent.child" against a list of fields.
func GetFieldByPath(fields []*Field, path string) *Field {
	keys := strings.Split(path, ObjFlattenDelimiter)
	var f *Field
	for i, k := range keys {
		if f = GetField(fields, k); f == nil {
			return nil
		}
		if i < len(keys)-1 {
			if !f.IsObject() {
				return nil
			}
			fields = f.Fields
		}
	}

	return f
}
