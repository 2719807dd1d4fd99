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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tigrisdata/docmapper/errors"
)

const nestedConfig = `
version: "0.4"
index_id: inventory
doc_mapping:
  field_mappings:
    - name: sku
      type: text
      tokenizer: raw
    - name: attributes
      type: object
      field_mappings:
        - name: status
          type: text
        - name: weight
          type: f64
`

func TestLoad(t *testing.T) {
	doc, err := Load([]byte(productsConfig), FormatYAML)
	require.NoError(t, err)

	require.Equal(t, "0.4", doc.Version)
	require.Equal(t, "products", doc.IndexID)
	require.Equal(t, "ts", doc.DocMapping.TimestampField)
	require.Len(t, doc.DocMapping.FieldMappings, 6)
	require.Equal(t, []string{"unix_timestamp"}, doc.DocMapping.FieldMappings[0].InputFormats)
	require.True(t, *doc.DocMapping.FieldMappings[0].Fast)
	require.Nil(t, doc.DocMapping.FieldMappings[1].Fast)
	require.Equal(t, []string{"name", "description"}, doc.SearchSettings.DefaultSearchFields)
	require.Equal(t, int64(10_000_000), *doc.IndexingSettings.SplitNumDocsTarget)
	require.Nil(t, doc.IndexingSettings.CommitTimeoutSecs)
	require.Nil(t, doc.Retention)
}

func TestLoad_NumericVersion(t *testing.T) {
	cases := []struct {
		format   Format
		doc      string
		expected string
	}{
		{FormatYAML, "version: 0.4\n", "0.4"},
		{FormatYAML, "version: 0.10\n", "0.10"},
		{FormatYAML, "version: 1.20\n", "1.20"},
		{FormatYAML, "version: \"0.10\"\n", "0.10"},
		{FormatJSON, `{"version": 0.10}`, "0.10"},
		{FormatJSON, `{"version": 1.2}`, "1.2"},
	}
	for _, c := range cases {
		t.Run(string(c.format)+"/"+c.expected, func(t *testing.T) {
			tree, err := decodeTree([]byte(c.doc), c.format)
			require.NoError(t, err)
			root := tree.(map[string]interface{})

			normalizeVersion(root, []byte(c.doc), c.format)
			require.Equal(t, c.expected, root["version"])
		})
	}

	doc, err := Load([]byte(strings.Replace(productsConfig, "version: 0.4", "version: 0.10", 1)), FormatYAML)
	require.NoError(t, err)
	require.Equal(t, "0.10", doc.Version)
}

func TestLoad_JSON(t *testing.T) {
	doc, err := Load([]byte(`{
		"version": 0.4,
		"index_id": "products",
		"doc_mapping": {
			"field_mappings": [
				{"name": "id", "type": "u64", "fast": true},
				{"name": "tags", "type": "text", "tokenizer": "raw"}
			]
		},
		"indexing_settings": {"split_num_docs_target": 2000}
	}`), FormatJSON)
	require.NoError(t, err)
	require.Equal(t, "0.4", doc.Version)
	require.Equal(t, "raw", doc.DocMapping.FieldMappings[1].Tokenizer)
	require.Equal(t, int64(2000), *doc.IndexingSettings.SplitNumDocsTarget)

	_, err = Load([]byte(`{"version": "0.4"`), FormatJSON)
	require.True(t, errors.HasReason(err, errors.MalformedDocument))

	_, err = Load([]byte(`{"version": "0.4"} {}`), FormatJSON)
	require.True(t, errors.HasReason(err, errors.MalformedDocument))
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name    string
		doc     string
		reason  errors.Reason
		field   string
		setting string
	}{
		{
			"unknown top level key",
			nestedConfig + "shards: 3\n",
			errors.UnknownKey,
			"",
			"shards",
		},
		{
			"unknown doc mapping key",
			nestedConfig + "  timestamp: sku\n",
			errors.UnknownKey,
			"",
			"doc_mapping.timestamp",
		},
		{
			"unknown field key",
			nestedConfig + "          facet: true\n",
			errors.UnknownKey,
			"attributes.weight",
			"doc_mapping.field_mappings[1].field_mappings[1].facet",
		},
		{
			"unknown settings key",
			nestedConfig + "indexing_settings:\n  merge_factor: 10\n",
			errors.UnknownKey,
			"",
			"indexing_settings.merge_factor",
		},
		{
			"wrong value type",
			nestedConfig + "          stored: maybe\n",
			errors.MalformedDocument,
			"attributes.weight",
			"doc_mapping.field_mappings[1].field_mappings[1].stored",
		},
		{
			"missing index id",
			"version: \"0.4\"\ndoc_mapping:\n  field_mappings:\n    - name: a\n      type: u64\n",
			errors.MalformedDocument,
			"",
			"",
		},
		{
			"no field mappings",
			"version: \"0.4\"\nindex_id: abc\ndoc_mapping:\n  field_mappings: []\n",
			errors.MalformedDocument,
			"",
			"doc_mapping.field_mappings",
		},
		{
			"not a mapping",
			"- a\n- b\n",
			errors.MalformedDocument,
			"",
			"",
		},
		{
			"invalid yaml",
			"version: [0.4\n",
			errors.MalformedDocument,
			"",
			"",
		},
		{
			"duplicate key",
			nestedConfig + "index_id: other\n",
			errors.MalformedDocument,
			"",
			"",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc, err := Load([]byte(c.doc), FormatYAML)
			require.Nil(t, doc)
			require.Error(t, err)

			var e *errors.Error
			require.True(t, errors.As(err, &e), err.Error())
			require.Equal(t, c.reason, e.Reason, err.Error())
			require.Equal(t, errors.ConfigParse, e.Kind)
			require.Equal(t, c.field, e.Field)
			require.Equal(t, c.setting, e.Setting)
		})
	}
}

func TestFormat(t *testing.T) {
	require.Equal(t, FormatYAML, FormatFromPath("conf/index.yml"))
	require.Equal(t, FormatYAML, FormatFromPath("conf/index.yaml"))
	require.Equal(t, FormatJSON, FormatFromPath("index.JSON"))
	require.Equal(t, FormatMsgpack, FormatFromPath("index.msgpack"))
	require.Equal(t, FormatYAML, FormatFromPath("index"))

	f, err := ParseFormat("mp")
	require.NoError(t, err)
	require.Equal(t, FormatMsgpack, f)

	_, err = ParseFormat("toml")
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.yaml")
	require.NoError(t, os.WriteFile(path, []byte(productsConfig), 0o600))

	doc, format, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)
	require.Equal(t, "products", doc.IndexID)

	_, _, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}
