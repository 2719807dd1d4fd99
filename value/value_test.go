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
	"testing"
	"time"

	"github.com/buger/jsonparser"
	"github.com/stretchr/testify/require"
	"github.com/tigrisdata/docmapper/errors"
	"github.com/tigrisdata/docmapper/schema"
)

func datetimeField(t *testing.T, inputs []string, output string, precision string) *schema.Field {
	opts, err := schema.NewDatetimeOptions(inputs, output, precision)
	require.NoError(t, err)
	return &schema.Field{FieldName: "ts", DataType: schema.DateTimeType, Datetime: opts}
}

func TestNewValue(t *testing.T) {
	text := &schema.Field{FieldName: "f", DataType: schema.TextType}
	u64 := &schema.Field{FieldName: "f", DataType: schema.U64Type}
	f64 := &schema.Field{FieldName: "f", DataType: schema.F64Type}
	boolean := &schema.Field{FieldName: "f", DataType: schema.BoolType}
	bytes := &schema.Field{FieldName: "f", DataType: schema.BytesType}

	cases := []struct {
		field     *schema.Field
		jsonValue []byte
		dataType  jsonparser.ValueType
		value     Value
		expError  bool
	}{
		{text, []byte(`foo`), jsonparser.String, NewTextValue("foo"), false},
		{text, []byte(`café`), jsonparser.String, NewTextValue("café"), false},
		{text, []byte(`12`), jsonparser.Number, nil, true},
		{u64, []byte(`12345678`), jsonparser.Number, NewU64Value(12345678), false},
		{u64, []byte(`42`), jsonparser.String, NewU64Value(42), false},
		{u64, []byte(`-1`), jsonparser.Number, nil, true},
		{u64, []byte(`1.5`), jsonparser.Number, nil, true},
		{u64, []byte(`true`), jsonparser.Boolean, nil, true},
		{f64, []byte(`1.01`), jsonparser.Number, NewF64Value(1.01), false},
		{f64, []byte(`1e3`), jsonparser.Number, NewF64Value(1000), false},
		{f64, []byte(`2.5`), jsonparser.String, NewF64Value(2.5), false},
		{f64, []byte(`abc`), jsonparser.String, nil, true},
		{boolean, []byte(`true`), jsonparser.Boolean, NewBoolValue(true), false},
		{boolean, []byte(`false`), jsonparser.String, NewBoolValue(false), false},
		{boolean, []byte(`yes`), jsonparser.String, nil, true},
		{boolean, []byte(`1`), jsonparser.Number, nil, true},
		// bytes are base64 decoded
		{bytes, []byte(`ImZvbyI=`), jsonparser.String, NewBytesValue([]byte(`"foo"`)), false},
		{bytes, []byte(`not base64!`), jsonparser.String, nil, true},
		{text, []byte(`null`), jsonparser.Null, nil, false},
		{u64, []byte(`{"a":1}`), jsonparser.Object, nil, true},
	}
	for _, c := range cases {
		v, err := NewValue(c.field, c.jsonValue, c.dataType)
		if c.expError {
			require.Error(t, err, string(c.jsonValue))
			require.Equal(t, errors.InvalidValue, errors.ReasonOf(err))
			require.Equal(t, errors.Document, err.(*errors.Error).Kind)
			continue
		}
		require.NoError(t, err, string(c.jsonValue))
		require.Equal(t, c.value, v)
	}
}

func TestNewValue_DateTime(t *testing.T) {
	field := datetimeField(t, []string{"unix_timestamp", "rfc3339"}, "unix_timestamp_millis", "milliseconds")
	expected := time.Date(2023, 5, 6, 16, 30, 49, 0, time.UTC)

	for _, c := range []struct {
		raw      string
		dataType jsonparser.ValueType
	}{
		{"1683390649", jsonparser.Number},
		{"1683390649000", jsonparser.Number},
		{"1683390649.0", jsonparser.Number},
		{"1683390649", jsonparser.String},
		{"2023-05-06T16:30:49Z", jsonparser.String},
		{"2023-05-06T18:30:49+02:00", jsonparser.String},
	} {
		v, err := NewValue(field, []byte(c.raw), c.dataType)
		require.NoError(t, err, c.raw)
		require.Equal(t, expected, v.(*DateTimeValue).Time(), c.raw)
		require.Equal(t, expected.UnixMilli(), v.Output())
	}

	_, err := NewValue(field, []byte(`06/05/2023`), jsonparser.String)
	require.True(t, errors.HasReason(err, errors.InvalidValue))

	rfcOnly := datetimeField(t, []string{"rfc3339"}, "", "")
	_, err = NewValue(rfcOnly, []byte(`1683390649`), jsonparser.Number)
	require.True(t, errors.HasReason(err, errors.InvalidValue))

	v, err := NewValue(rfcOnly, []byte(`2023-05-06T16:30:49.999Z`), jsonparser.String)
	require.NoError(t, err)
	require.Equal(t, "2023-05-06T16:30:49Z", v.Output())
}

func TestNewValue_Array(t *testing.T) {
	u64 := &schema.Field{FieldName: "codes", DataType: schema.U64Type}

	v, err := NewValue(u64, []byte(`[1, 2, null, "3"]`), jsonparser.Array)
	require.NoError(t, err)
	arr := v.(*ArrayValue)
	require.Len(t, arr.Values(), 3)
	require.Equal(t, []any{uint64(1), uint64(2), uint64(3)}, arr.AsInterface())
	require.Equal(t, schema.U64Type, arr.DataType())
	require.Equal(t, "[1, 2, 3]", arr.String())

	_, err = NewValue(u64, []byte(`[1, [2]]`), jsonparser.Array)
	require.True(t, errors.HasReason(err, errors.InvalidValue))

	_, err = NewValue(u64, []byte(`[1, "x"]`), jsonparser.Array)
	require.True(t, errors.HasReason(err, errors.InvalidValue))
}
