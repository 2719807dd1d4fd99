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
	"github.com/tigrisdata/docmapper/errors"
	"github.com/tigrisdata/docmapper/lib/container"
)

// Mode controls what happens to document fields that are not declared in the mapping.
type Mode string

const (
	// StrictMode rejects documents with undeclared fields.
	StrictMode Mode = "strict"
	// LenientMode drops undeclared fields.
	LenientMode Mode = "lenient"
)

const (
	settingMode           = "doc_mapping.mode"
	settingTimestampField = "doc_mapping.timestamp_field"
	settingTagFields      = "doc_mapping.tag_fields"
)

// DocMapping is the doc_mapping section of the configuration document.
type DocMapping struct {
	Mode           string          `json:"mode,omitempty" yaml:"mode,omitempty"`
	StoreSource    *bool           `json:"store_source,omitempty" yaml:"store_source,omitempty"`
	TimestampField string          `json:"timestamp_field,omitempty" yaml:"timestamp_field,omitempty"`
	TagFields      []string        `json:"tag_fields,omitempty" yaml:"tag_fields,omitempty"`
	FieldMappings  []*FieldBuilder `json:"field_mappings" yaml:"field_mappings"`
}

// DocumentSchema is the compiled document model. It is immutable and safe to share between goroutines.
type DocumentSchema struct {
	Mode        Mode
	StoreSource bool
	// Fields are the top level mappings in declaration order.
	Fields []*Field
	// QueryableFields is the flattened view of all leaves, in declaration order.
	QueryableFields []*QueryableField
	TimestampField  string
	TagFields       []string

	fieldsByName map[string]*Field
	queryable    map[string]*QueryableField
}

// Field returns the top level field with the given name.
func (d *DocumentSchema) Field(name string) *Field {
	return d.fieldsByName[name]
}

// Lookup returns the leaf addressed by a flattened path, e.g. "attributes.status".
func (d *DocumentSchema) Lookup(path string) *QueryableField {
	return d.queryable[path]
}

// FieldByPath returns the field addressed by a flattened path, objects included.
func (d *DocumentSchema) FieldByPath(path string) *Field {
	return GetFieldByPath(d.Fields, path)
}

// HasTimestamp is false when no timestamp field is bound. Time based operations like retention are then unavailable.
func (d *DocumentSchema) HasTimestamp() bool {
	return len(d.TimestampField) > 0
}

func (d *DocumentSchema) Timestamp() *QueryableField {
	if !d.HasTimestamp() {
		return nil
	}
	return d.queryable[d.TimestampField]
}

func (d *DocumentSchema) IsStrict() bool {
	return d.Mode == StrictMode
}

// DocMapping converts the schema back to a declaration with defaults made explicit.
func (d *DocumentSchema) DocMapping() *DocMapping {
	storeSource := d.StoreSource
	m := &DocMapping{
		Mode:           string(d.Mode),
		StoreSource:    &storeSource,
		TimestampField: d.TimestampField,
		TagFields:      append([]string(nil), d.TagFields...),
		FieldMappings:  make([]*FieldBuilder, 0, len(d.Fields)),
	}
	for _, f := range d.Fields {
		m.FieldMappings = append(m.FieldMappings, f.Builder())
	}

	return m
}

// DocumentBuilder compiles doc mappings into document schemas.
type DocumentBuilder struct {
	resolver *FieldResolver
}

func NewDocumentBuilder(resolver *FieldResolver) *DocumentBuilder {
	return &DocumentBuilder{
		resolver: resolver,
	}
}

// Build resolves the field declarations in order, binds the timestamp and tag fields, and returns the schema. It
// stops at the first error, nothing is returned on failure.
func (b *DocumentBuilder) Build(m *DocMapping) (*DocumentSchema, error) {
	mode := LenientMode
	switch Mode(m.Mode) {
	case "", LenientMode:
	case StrictMode:
		mode = StrictMode
	default:
		return nil, errors.NewSettingError(errors.InvalidMode, settingMode,
			"unsupported mode '%s', expected '%s' or '%s'", m.Mode, StrictMode, LenientMode)
	}

	fields, err := b.resolver.ResolveFields(m.FieldMappings)
	if err != nil {
		return nil, err
	}

	schema := &DocumentSchema{
		Mode:            mode,
		StoreSource:     boolOrDefault(m.StoreSource, false),
		Fields:          fields,
		QueryableFields: NewQueryableFieldsBuilder().BuildQueryableFields(fields),
		fieldsByName:    make(map[string]*Field, len(fields)),
	}
	for _, f := range fields {
		schema.fieldsByName[f.FieldName] = f
	}
	schema.queryable = make(map[string]*QueryableField, len(schema.QueryableFields))
	for _, q := range schema.QueryableFields {
		schema.queryable[q.FieldName] = q
	}

	if len(m.TimestampField) > 0 {
		if err = bindTimestamp(schema, m.TimestampField); err != nil {
			return nil, err
		}
	}
	if err = bindTags(schema, m.TagFields); err != nil {
		return nil, err
	}

	return schema, nil
}

func bindTimestamp(schema *DocumentSchema, name string) error {
	f := schema.FieldByPath(name)
	if f == nil {
		return errors.NewSettingError(errors.InvalidTimestampField, settingTimestampField,
			"timestamp field '%s' is not declared", name).WithField(name)
	}
	if f.DataType != DateTimeType {
		return errors.NewSettingError(errors.InvalidTimestampField, settingTimestampField,
			"timestamp field '%s' must be of type '%s', found '%s'", name, DateTimeType, f.DataType).WithField(name)
	}

	schema.TimestampField = name
	return nil
}

func bindTags(schema *DocumentSchema, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	seen := container.NewOrderedSet()
	for _, name := range tags {
		q := schema.Lookup(name)
		switch {
		case q == nil:
			return errors.NewSettingError(errors.InvalidTagField, settingTagFields,
				"tag field '%s' is not a declared leaf field", name).WithField(name)
		case !SupportedTagType(q.Field):
			return errors.NewSettingError(errors.InvalidTagField, settingTagFields,
				"tag fields must be u64, bool or single token text, '%s' is '%s'", name, q.DataType).WithField(name)
		case !seen.Insert(name):
			return errors.NewSettingError(errors.InvalidTagField, settingTagFields,
				"tag field '%s' is listed more than once", name).WithField(name)
		}
	}

	schema.TagFields = seen.ToList()
	return nil
}
