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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToFieldType(t *testing.T) {
	cases := []struct {
		name     string
		expected FieldType
	}{
		{"text", TextType},
		{"u64", U64Type},
		{"f64", F64Type},
		{"bool", BoolType},
		{"bytes", BytesType},
		{"datetime", DateTimeType},
		{"object", ObjectType},
		{"unknown", UnknownType},
		{"i64", UnknownType},
		{"Text", UnknownType},
		{"", UnknownType},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, ToFieldType(c.name), c.name)
	}

	require.Equal(t, "datetime", DateTimeType.String())
	require.Equal(t, "unknown", FieldType(42).String())
}

func TestSupportedFastType(t *testing.T) {
	cases := []struct {
		field    *Field
		expected bool
	}{
		{&Field{DataType: U64Type}, true},
		{&Field{DataType: F64Type}, true},
		{&Field{DataType: DateTimeType}, true},
		{&Field{DataType: TextType, SingleToken: true}, true},
		{&Field{DataType: TextType, SingleToken: false}, false},
		{&Field{DataType: BoolType}, false},
		{&Field{DataType: BytesType}, false},
		{&Field{DataType: ObjectType}, false},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, SupportedFastType(c.field), c.field.DataType.String())
	}
}

func TestGetFieldByPath(t *testing.T) {
	fields := []*Field{
		{FieldName: "id", DataType: U64Type},
		{FieldName: "attributes", DataType: ObjectType, Fields: []*Field{
			{FieldName: "status", DataType: TextType},
			{FieldName: "http", DataType: ObjectType, Fields: []*Field{
				{FieldName: "code", DataType: U64Type},
			}},
		}},
	}

	require.Equal(t, "id", GetFieldByPath(fields, "id").Name())
	require.Equal(t, "status", GetFieldByPath(fields, "attributes.status").Name())
	require.Equal(t, "code", GetFieldByPath(fields, "attributes.http.code").Name())
	require.Equal(t, ObjectType, GetFieldByPath(fields, "attributes.http").Type())
	require.Nil(t, GetFieldByPath(fields, "id.value"))
	require.Nil(t, GetFieldByPath(fields, "attributes.missing"))
	require.Nil(t, GetFieldByPath(fields, ""))
}
