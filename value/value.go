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
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/tigrisdata/docmapper/errors"
	"github.com/tigrisdata/docmapper/schema"
)

// Value is a document value coerced to the type of its field mapping.
// Note: bytes values are base64 decoded, AsInterface returns the raw bytes and Output encodes them again.
type Value interface {
	fmt.Stringer

	// AsInterface returns the Go value handed to an index.
	AsInterface() any
	// Output returns the value as it is rendered back to users, datetimes use the field output format.
	Output() any
	DataType() schema.FieldType
}

// NewValue coerces a raw JSON value to the type of the field. A JSON null returns a nil value and no error, the
// caller skips it. Arrays are coerced element by element.
func NewValue(field *schema.Field, raw []byte, dataType jsonparser.ValueType) (Value, error) {
	switch dataType {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Array:
		return newArrayValue(field, raw)
	case jsonparser.Object:
		return nil, invalidValue(field, "object")
	}

	switch field.DataType {
	case schema.TextType:
		if dataType != jsonparser.String {
			return nil, invalidValue(field, dataType.String())
		}
		parsed, err := jsonparser.ParseString(raw)
		if err != nil {
			return nil, errors.New(errors.InvalidValue, "%s", err.Error())
		}
		return NewTextValue(parsed), nil
	case schema.U64Type:
		s, err := numericString(field, raw, dataType)
		if err != nil {
			return nil, err
		}
		val, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, errors.New(errors.InvalidValue, "'%s' is not an unsigned 64 bit integer", s)
		}
		return NewU64Value(val), nil
	case schema.F64Type:
		s, err := numericString(field, raw, dataType)
		if err != nil {
			return nil, err
		}
		val, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.New(errors.InvalidValue, "'%s' is not a 64 bit float", s)
		}
		return NewF64Value(val), nil
	case schema.BoolType:
		switch dataType {
		case jsonparser.Boolean:
			b, err := jsonparser.ParseBoolean(raw)
			if err != nil {
				return nil, errors.New(errors.InvalidValue, "%s", err.Error())
			}
			return NewBoolValue(b), nil
		case jsonparser.String:
			switch string(raw) {
			case "true":
				return NewBoolValue(true), nil
			case "false":
				return NewBoolValue(false), nil
			}
			return nil, errors.New(errors.InvalidValue, "'%s' is not a boolean", string(raw))
		}
		return nil, invalidValue(field, dataType.String())
	case schema.BytesType:
		if dataType != jsonparser.String {
			return nil, invalidValue(field, dataType.String())
		}
		parsed, err := jsonparser.ParseString(raw)
		if err != nil {
			return nil, errors.New(errors.InvalidValue, "%s", err.Error())
		}
		decoded, err := base64.StdEncoding.DecodeString(parsed)
		if err != nil {
			return nil, errors.New(errors.InvalidValue, "bytes must be base64 encoded: %s", err.Error())
		}
		return NewBytesValue(decoded), nil
	case schema.DateTimeType:
		return newDateTimeValue(field, raw, dataType)
	}

	return nil, invalidValue(field, dataType.String())
}

func newDateTimeValue(field *schema.Field, raw []byte, dataType jsonparser.ValueType) (Value, error) {
	var (
		t   time.Time
		err error
	)
	switch dataType {
	case jsonparser.String:
		var parsed string
		if parsed, err = jsonparser.ParseString(raw); err != nil {
			return nil, errors.New(errors.InvalidValue, "%s", err.Error())
		}
		t, err = field.Datetime.ParseString(parsed)
	case jsonparser.Number:
		if i, perr := strconv.ParseInt(string(raw), 10, 64); perr == nil {
			t, err = field.Datetime.FromUnixInt(i)
		} else {
			var f float64
			if f, err = strconv.ParseFloat(string(raw), 64); err == nil {
				t, err = field.Datetime.FromUnix(f)
			}
		}
	default:
		return nil, invalidValue(field, dataType.String())
	}
	if err != nil {
		return nil, errors.New(errors.InvalidValue, "%s", err.Error())
	}

	return NewDateTimeValue(t, field.Datetime), nil
}

// numericString accepts JSON numbers and numeric strings.
func numericString(field *schema.Field, raw []byte, dataType jsonparser.ValueType) (string, error) {
	switch dataType {
	case jsonparser.Number:
		return string(raw), nil
	case jsonparser.String:
		parsed, err := jsonparser.ParseString(raw)
		if err != nil {
			return "", errors.New(errors.InvalidValue, "%s", err.Error())
		}
		return strings.TrimSpace(parsed), nil
	}

	return "", invalidValue(field, dataType.String())
}

func invalidValue(field *schema.Field, found string) *errors.Error {
	return errors.New(errors.InvalidValue, "expected a value of type '%s', found %s", field.DataType, found)
}

type ArrayValue struct {
	elemType schema.FieldType
	values   []Value
}

func newArrayValue(field *schema.Field, raw []byte) (Value, error) {
	arr := &ArrayValue{elemType: field.DataType}

	var err error
	_, perr := jsonparser.ArrayEach(raw, func(v []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if err != nil {
			return
		}
		if dataType == jsonparser.Array {
			err = errors.New(errors.InvalidValue, "nested arrays are not supported")
			return
		}

		var elem Value
		if elem, err = NewValue(field, v, dataType); err == nil && elem != nil {
			arr.values = append(arr.values, elem)
		}
	})
	if err != nil {
		return nil, err
	}
	if perr != nil {
		return nil, errors.New(errors.InvalidValue, "malformed array: %s", perr.Error())
	}

	return arr, nil
}

func (a *ArrayValue) Values() []Value {
	return a.values
}

func (a *ArrayValue) AsInterface() any {
	out := make([]any, len(a.values))
	for i, v := range a.values {
		out[i] = v.AsInterface()
	}
	return out
}

func (a *ArrayValue) Output() any {
	out := make([]any, len(a.values))
	for i, v := range a.values {
		out[i] = v.Output()
	}
	return out
}

func (a *ArrayValue) DataType() schema.FieldType {
	return a.elemType
}

func (a *ArrayValue) String() string {
	if a == nil {
		return ""
	}

	parts := make([]string, len(a.values))
	for i, v := range a.values {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type TextValue string

func NewTextValue(v string) *TextValue {
	s := TextValue(v)
	return &s
}

func (s *TextValue) AsInterface() any {
	return string(*s)
}

func (s *TextValue) Output() any {
	return string(*s)
}

func (*TextValue) DataType() schema.FieldType {
	return schema.TextType
}

func (s *TextValue) String() string {
	if s == nil {
		return ""
	}

	return string(*s)
}

type U64Value uint64

func NewU64Value(v uint64) *U64Value {
	i := U64Value(v)
	return &i
}

func (i *U64Value) AsInterface() any {
	return uint64(*i)
}

func (i *U64Value) Output() any {
	return uint64(*i)
}

func (*U64Value) DataType() schema.FieldType {
	return schema.U64Type
}

func (i *U64Value) String() string {
	if i == nil {
		return ""
	}

	return strconv.FormatUint(uint64(*i), 10)
}

type F64Value float64

func NewF64Value(v float64) *F64Value {
	f := F64Value(v)
	return &f
}

func (f *F64Value) AsInterface() any {
	return float64(*f)
}

func (f *F64Value) Output() any {
	return float64(*f)
}

func (*F64Value) DataType() schema.FieldType {
	return schema.F64Type
}

func (f *F64Value) String() string {
	if f == nil {
		return ""
	}

	return strconv.FormatFloat(float64(*f), 'f', -1, 64)
}

type BoolValue bool

func NewBoolValue(v bool) *BoolValue {
	b := BoolValue(v)
	return &b
}

func (b *BoolValue) AsInterface() any {
	return bool(*b)
}

func (b *BoolValue) Output() any {
	return bool(*b)
}

func (*BoolValue) DataType() schema.FieldType {
	return schema.BoolType
}

func (b *BoolValue) String() string {
	if b == nil {
		return ""
	}

	return strconv.FormatBool(bool(*b))
}

type BytesValue []byte

func NewBytesValue(v []byte) *BytesValue {
	b := BytesValue(v)
	return &b
}

func (b *BytesValue) AsInterface() any {
	return []byte(*b)
}

func (b *BytesValue) Output() any {
	return base64.StdEncoding.EncodeToString(*b)
}

func (*BytesValue) DataType() schema.FieldType {
	return schema.BytesType
}

func (b *BytesValue) String() string {
	if b == nil {
		return ""
	}

	return base64.StdEncoding.EncodeToString(*b)
}

// DateTimeValue is a timestamp already truncated to the field precision.
type DateTimeValue struct {
	t    time.Time
	opts *schema.DatetimeOptions
}

func NewDateTimeValue(t time.Time, opts *schema.DatetimeOptions) *DateTimeValue {
	return &DateTimeValue{
		t:    t,
		opts: opts,
	}
}

func (d *DateTimeValue) Time() time.Time {
	return d.t
}

func (d *DateTimeValue) AsInterface() any {
	return d.t
}

func (d *DateTimeValue) Output() any {
	return d.opts.Output(d.t)
}

func (*DateTimeValue) DataType() schema.FieldType {
	return schema.DateTimeType
}

func (d *DateTimeValue) String() string {
	if d == nil {
		return ""
	}

	return d.t.Format(time.RFC3339Nano)
}
