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

package value

import (
	"sort"
	"time"

	"github.com/buger/jsonparser"
	"github.com/tigrisdata/docmapper/errors"
	"github.com/tigrisdata/docmapper/schema"
	"github.com/tigrisdata/docmapper/util"
)

// Document is a JSON document coerced against a document schema. Values are keyed by their flattened path.
type Document struct {
	values map[string]Value
	// Source is the original document, only kept when the schema stores sources.
	Source []byte
}

func (d *Document) Get(path string) Value {
	return d.values[path]
}

func (d *Document) Len() int {
	return len(d.values)
}

// Paths returns the flattened paths of all values, sorted.
func (d *Document) Paths() []string {
	paths := make([]string, 0, len(d.values))
	for p := range d.values {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Timestamp returns the value of the timestamp field, if the schema has one.
func (d *Document) Timestamp(s *schema.DocumentSchema) (time.Time, bool) {
	if !s.HasTimestamp() {
		return time.Time{}, false
	}
	dt, ok := d.values[s.TimestampField].(*DateTimeValue)
	if !ok {
		return time.Time{}, false
	}
	return dt.Time(), true
}

// Flat returns the index representation keyed by flattened path.
func (d *Document) Flat() map[string]any {
	flat := make(map[string]any, len(d.values))
	for p, v := range d.values {
		flat[p] = v.AsInterface()
	}
	return flat
}

// Output returns the document as rendered back to users, nested objects are restored.
func (d *Document) Output() map[string]any {
	flat := make(map[string]any, len(d.values))
	for p, v := range d.values {
		flat[p] = v.Output()
	}
	return util.UnFlatMap(flat, false)
}

// ParseDocument walks the JSON object and coerces every declared field. Undeclared fields are rejected in strict
// mode and dropped otherwise. A document of a schema with a timestamp field must carry a single timestamp value.
func ParseDocument(s *schema.DocumentSchema, doc []byte) (*Document, error) {
	d := &Document{
		values: make(map[string]Value),
	}

	if _, dataType, _, err := jsonparser.Get(doc); err != nil || dataType != jsonparser.Object {
		return nil, errors.New(errors.InvalidValue, "document must be a JSON object")
	}
	if err := d.parseObject(s, "", s.Fields, doc); err != nil {
		return nil, err
	}

	if s.HasTimestamp() {
		v, ok := d.values[s.TimestampField]
		if !ok {
			return nil, errors.NewFieldError(errors.InvalidValue, s.TimestampField, "document is missing the timestamp field")
		}
		if _, single := v.(*DateTimeValue); !single {
			return nil, errors.NewFieldError(errors.InvalidValue, s.TimestampField, "timestamp field must hold a single value")
		}
	}

	if s.StoreSource {
		d.Source = append([]byte(nil), doc...)
	}

	return d, nil
}

func (d *Document) parseObject(s *schema.DocumentSchema, parent string, fields []*schema.Field, obj []byte) error {
	return jsonparser.ObjectEach(obj, func(key []byte, v []byte, dataType jsonparser.ValueType, _ int) error {
		name := string(key)
		path := name
		if len(parent) > 0 {
			path = parent + util.ObjFlattenDelimiter + name
		}

		field := schema.GetField(fields, name)
		if field == nil {
			if s.IsStrict() {
				return errors.NewFieldError(errors.UnknownDocumentField, path, "field '%s' is not declared in the doc mapping", path)
			}
			return nil
		}

		if field.IsObject() {
			switch dataType {
			case jsonparser.Null:
				return nil
			case jsonparser.Object:
				return d.parseObject(s, path, field.Fields, v)
			}
			return errors.NewFieldError(errors.InvalidValue, path, "expected an object, found %s", dataType.String())
		}

		val, err := NewValue(field, v, dataType)
		if err != nil {
			var e *errors.Error
			if errors.As(err, &e) {
				return e.WithField(path)
			}
			return err
		}
		if val != nil {
			d.values[path] = val
		}
		return nil
	})
}
