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

	"github.com/tigrisdata/docmapper/errors"
	"github.com/tigrisdata/docmapper/lib/container"
	"github.com/tigrisdata/docmapper/tokenizer"
)

// DefaultMaxNestingDepth is used when the resolver is created without an explicit limit.
const DefaultMaxNestingDepth = 8

// FieldBuilder is a field declaration as it appears in the configuration document.
type FieldBuilder struct {
	FieldName     string          `json:"name" yaml:"name"`
	Type          string          `json:"type" yaml:"type"`
	Description   string          `json:"description,omitempty" yaml:"description,omitempty"`
	Tokenizer     string          `json:"tokenizer,omitempty" yaml:"tokenizer,omitempty"`
	InputFormats  []string        `json:"input_formats,omitempty" yaml:"input_formats,omitempty"`
	OutputFormat  string          `json:"output_format,omitempty" yaml:"output_format,omitempty"`
	Precision     string          `json:"precision,omitempty" yaml:"precision,omitempty"`
	Fast          *bool           `json:"fast,omitempty" yaml:"fast,omitempty"`
	Stored        *bool           `json:"stored,omitempty" yaml:"stored,omitempty"`
	Indexed       *bool           `json:"indexed,omitempty" yaml:"indexed,omitempty"`
	FieldMappings []*FieldBuilder `json:"field_mappings,omitempty" yaml:"field_mappings,omitempty"`
}

// FieldResolver turns declarations into resolved fields. It only reads the tokenizer registry, so a single resolver
// can be used from multiple goroutines.
type FieldResolver struct {
	registry *tokenizer.Registry
	maxDepth int
}

func NewFieldResolver(registry *tokenizer.Registry, maxDepth int) *FieldResolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxNestingDepth
	}

	return &FieldResolver{
		registry: registry,
		maxDepth: maxDepth,
	}
}

// ResolveFields resolves a list of sibling declarations in order. The first duplicate name fails the whole list
// and is reported with its full path.
func (r *FieldResolver) ResolveFields(builders []*FieldBuilder) ([]*Field, error) {
	return r.resolveFields("", builders, 1)
}

func (r *FieldResolver) resolveFields(parent string, builders []*FieldBuilder, depth int) ([]*Field, error) {
	fields := make([]*Field, 0, len(builders))
	names := container.NewHashSet()
	for _, b := range builders {
		if names.Contains(b.FieldName) {
			path := fieldPath(parent, b.FieldName)
			return nil, errors.NewFieldError(errors.DuplicateField, path, "field '%s' is declared more than once", path)
		}
		names.Insert(b.FieldName)

		f, err := r.resolve(parent, b, depth)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	return fields, nil
}

// Resolve validates a single top level declaration.
func (r *FieldResolver) Resolve(b *FieldBuilder) (*Field, error) {
	return r.resolve("", b, 1)
}

func (r *FieldResolver) resolve(parent string, b *FieldBuilder, depth int) (*Field, error) {
	path := fieldPath(parent, b.FieldName)
	if err := validateFieldName(b.FieldName); err != nil {
		return nil, err.WithField(path)
	}

	field := &Field{
		FieldName:   b.FieldName,
		Description: b.Description,
		DataType:    ToFieldType(b.Type),
		Stored:      boolOrDefault(b.Stored, true),
		Indexed:     boolOrDefault(b.Indexed, true),
	}
	if field.DataType == UnknownType {
		return nil, errors.NewFieldError(errors.UnknownType, path, "unknown type '%s', supported types are %s",
			b.Type, strings.Join(FieldNames[1:], ", "))
	}
	if err := b.validateOptions(field.DataType); err != nil {
		return nil, err.WithField(path)
	}

	switch field.DataType {
	case TextType:
		name := b.Tokenizer
		if len(name) == 0 {
			name = tokenizer.Default
		}
		t, err := r.registry.Resolve(name)
		if err != nil {
			return nil, withField(err, path)
		}
		field.Tokenizer = t.Name()
		field.SingleToken = t.SingleToken()
	case DateTimeType:
		opts, err := NewDatetimeOptions(b.InputFormats, b.OutputFormat, b.Precision)
		if err != nil {
			return nil, withField(err, path)
		}
		field.Datetime = opts
	case ObjectType:
		if len(b.FieldMappings) == 0 {
			return nil, errors.NewFieldError(errors.EmptyObject, path, "object field requires at least one nested field mapping")
		}
		if depth >= r.maxDepth {
			return nil, errors.NewFieldError(errors.NestingTooDeep, path, "object nesting is limited to %d levels", r.maxDepth)
		}
		nested, err := r.resolveFields(path, b.FieldMappings, depth+1)
		if err != nil {
			return nil, err
		}
		field.Fields = nested
	}

	if b.Fast != nil && *b.Fast {
		if !SupportedFastType(field) {
			if field.DataType == TextType {
				return nil, errors.NewFieldError(errors.IneligibleFastField, path,
					"fast is only supported on text fields with a single token tokenizer, '%s' splits values", field.Tokenizer)
			}
			return nil, errors.NewFieldError(errors.IneligibleFastField, path, "fast is not supported on '%s' fields", field.DataType)
		}
		field.Fast = true
	}

	return field, nil
}

// validateOptions rejects sub-options that do not apply to the declared type.
func (b *FieldBuilder) validateOptions(t FieldType) *errors.Error {
	unsupported := func(option string) *errors.Error {
		return errors.New(errors.UnsupportedOption, "option '%s' is not supported on '%s' fields", option, t)
	}

	if t != TextType && len(b.Tokenizer) > 0 {
		return unsupported("tokenizer")
	}
	if t != DateTimeType {
		switch {
		case len(b.InputFormats) > 0:
			return unsupported("input_formats")
		case len(b.OutputFormat) > 0:
			return unsupported("output_format")
		case len(b.Precision) > 0:
			return unsupported("precision")
		}
	}
	if t != ObjectType && len(b.FieldMappings) > 0 {
		return unsupported("field_mappings")
	}
	if t == ObjectType {
		switch {
		case b.Stored != nil:
			return unsupported("stored")
		case b.Indexed != nil:
			return unsupported("indexed")
		}
	}

	return nil
}

func validateFieldName(name string) *errors.Error {
	if len(name) == 0 {
		return errors.New(errors.InvalidFieldName, "field name cannot be empty")
	}
	if IsReservedField(name) {
		return errors.New(errors.ReservedField, "'%s' is a reserved name", name)
	}
	if !ValidFieldNamePattern.MatchString(name) {
		return errors.New(errors.InvalidFieldName, MsgFieldNameInvalidPattern, name)
	}

	return nil
}

// Builder converts a resolved field back to a declaration with every default made explicit. Resolving the
// returned builder yields a field equal to f.
func (f *Field) Builder() *FieldBuilder {
	b := &FieldBuilder{
		FieldName:   f.FieldName,
		Type:        f.DataType.String(),
		Description: f.Description,
	}

	switch f.DataType {
	case TextType:
		b.Tokenizer = f.Tokenizer
	case DateTimeType:
		b.InputFormats = f.Datetime.inputFormatNames()
		b.OutputFormat = string(f.Datetime.OutputFormat)
		b.Precision = string(f.Datetime.Precision)
	case ObjectType:
		for _, nested := range f.Fields {
			b.FieldMappings = append(b.FieldMappings, nested.Builder())
		}
		return b
	}

	fast, stored, indexed := f.Fast, f.Stored, f.Indexed
	b.Fast, b.Stored, b.Indexed = &fast, &stored, &indexed

	return b
}

func fieldPath(parent string, name string) string {
	if len(parent) == 0 {
		return name
	}
	return parent + ObjFlattenDelimiter + name
}

func withField(err error, path string) error {
	var e *errors.Error
	if errors.As(err, &e) {
		return e.WithField(path)
	}
	return err
}

func boolOrDefault(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
