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
	"testing"

	"github.com/stretchr/testify/require"
)

const retentionConfig = `
version: 0.7.1
index_id: hdfs-logs
doc_mapping:
  mode: strict
  store_source: true
  tag_fields: [severity]
  timestamp_field: attributes.seen_at
  field_mappings:
    - name: body
      type: text
      tokenizer: en_stem
      description: log line
      stored: false
    - name: severity
      type: text
      tokenizer: raw
      fast: true
    - name: payload
      type: bytes
    - name: ok
      type: bool
    - name: attributes
      type: object
      field_mappings:
        - name: seen_at
          type: datetime
          input_formats: [rfc3339, unix_timestamp, "%Y-%m-%d %H:%M:%S"]
          output_format: unix_timestamp_micros
          precision: microseconds
          fast: true
        - name: host
          type: text
          tokenizer: raw
          indexed: false
search_settings:
  default_search_fields: [body, severity]
indexing_settings:
  commit_timeout_secs: 30
retention:
  period: 1 week
`

func TestRoundTrip(t *testing.T) {
	for _, source := range []string{productsConfig, retentionConfig} {
		compiler := testCompiler(t)
		cfg, err := compiler.CompileBytes([]byte(source), FormatYAML)
		require.NoError(t, err)

		for _, format := range []Format{FormatYAML, FormatJSON, FormatMsgpack} {
			t.Run(cfg.IndexID+"/"+string(format), func(t *testing.T) {
				data, err := Encode(cfg.Document(), format)
				require.NoError(t, err)

				again, err := compiler.CompileBytes(data, format)
				require.NoError(t, err, string(data))
				require.Equal(t, cfg, again)

				// normalized documents are a fixed point
				require.Equal(t, cfg.Document(), again.Document())
			})
		}
	}
}

func TestDocument_Normalized(t *testing.T) {
	cfg, err := testCompiler(t).CompileBytes([]byte(retentionConfig), FormatYAML)
	require.NoError(t, err)

	doc := cfg.Document()
	require.Equal(t, "strict", doc.DocMapping.Mode)
	require.True(t, *doc.DocMapping.StoreSource)
	require.Equal(t, int64(30), *doc.IndexingSettings.CommitTimeoutSecs)
	require.Equal(t, int64(10_000_000), *doc.IndexingSettings.SplitNumDocsTarget)
	require.Equal(t, &RetentionPolicy{Period: "1 week", Schedule: "daily"}, doc.Retention)

	body := doc.DocMapping.FieldMappings[0]
	require.Equal(t, "en_stem", body.Tokenizer)
	require.False(t, *body.Stored)
	require.True(t, *body.Indexed)
	require.False(t, *body.Fast)

	attributes := doc.DocMapping.FieldMappings[4]
	require.Nil(t, attributes.Fast)
	seenAt := attributes.FieldMappings[0]
	require.Equal(t, []string{"rfc3339", "unix_timestamp", "%Y-%m-%d %H:%M:%S"}, seenAt.InputFormats)
	require.Equal(t, "unix_timestamp_micros", seenAt.OutputFormat)
	require.Equal(t, "microseconds", seenAt.Precision)

	lenient, err := testCompiler(t).CompileBytes([]byte(productsConfig), FormatYAML)
	require.NoError(t, err)
	require.Equal(t, "lenient", lenient.Document().DocMapping.Mode)
	require.False(t, *lenient.Document().DocMapping.StoreSource)
	require.Equal(t, "default", lenient.Document().DocMapping.FieldMappings[5].Tokenizer)
	require.Equal(t, "unix_timestamp_millis", lenient.Document().DocMapping.FieldMappings[0].OutputFormat)
	require.Equal(t, []string{"name", "description"}, lenient.Document().SearchSettings.DefaultSearchFields)
}
