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
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	pkgerrors "github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tigrisdata/docmapper/errors"
	"github.com/ugorji/go/codec"
	"gopkg.in/yaml.v2"
)

// Format is the serialization of a configuration document.
type Format string

const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat accepts the format names and their common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unsupported format '%s'", s)
	}
}

// FormatFromPath detects the format from the file extension. Unknown extensions are read as YAML.
func FormatFromPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if f, err := ParseFormat(ext); err == nil {
		return f
	}
	return FormatYAML
}

var (
	validIndexID = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{2,254}$`)
	validVersion = regexp.MustCompile(`^(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)(\.(0|[1-9][0-9]*))?(-[0-9A-Za-z-]+(\.[0-9A-Za-z-]+)*)?$`)

	unknownKeyName = regexp.MustCompile(`'((?:[^'\\]|\\.)*)'`)
)

//go:embed config_schema.json
var configSchemaJSON string

var configSchema = jsonschema.MustCompileString("config_schema.json", configSchemaJSON)

var (
	jsonNumberAPI = jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
		UseNumber:              true,
	}.Froze()

	msgpackHandle = newMsgpackHandle()
)

func newMsgpackHandle() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	h.RawToString = true
	h.MapType = reflect.TypeOf(map[string]interface{}(nil))
	return h
}

// LoadFile reads a configuration document, the format is detected from the file extension.
func LoadFile(path string) (*Document, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", pkgerrors.Wrapf(err, "reading config document '%s'", path)
	}

	format := FormatFromPath(path)
	doc, err := Load(data, format)
	return doc, format, err
}

// Load parses a configuration document. The document structure is checked before any field is looked at: any key
// that is not part of the document layout is rejected, so a misspelled option never silently falls back to its
// default.
func Load(data []byte, format Format) (*Document, error) {
	tree, err := decodeTree(data, format)
	if err != nil {
		return nil, err
	}

	root, ok := tree.(map[string]interface{})
	if ok {
		normalizeVersion(root, data, format)
	}

	if err = configSchema.Validate(tree); err != nil {
		return nil, toParseError(tree, err)
	}

	// The tree is known to have the right shape, decoding into the typed document can't fail on structure.
	b, err := jsoniter.Marshal(tree)
	if err != nil {
		return nil, errors.New(errors.MalformedDocument, "%s", err.Error())
	}
	var doc Document
	if err = jsoniter.Unmarshal(b, &doc); err != nil {
		return nil, errors.New(errors.MalformedDocument, "%s", err.Error())
	}

	return &doc, nil
}

func decodeTree(data []byte, format Format) (interface{}, error) {
	var tree interface{}
	switch format {
	case FormatYAML:
		if err := yaml.UnmarshalStrict(data, &tree); err != nil {
			return nil, errors.New(errors.MalformedDocument, "invalid yaml: %s", err.Error())
		}
	case FormatJSON:
		if !jsonNumberAPI.Valid(data) {
			return nil, errors.New(errors.MalformedDocument, "invalid json")
		}
		if err := jsonNumberAPI.Unmarshal(data, &tree); err != nil {
			return nil, errors.New(errors.MalformedDocument, "invalid json: %s", err.Error())
		}
	case FormatMsgpack:
		if err := codec.NewDecoderBytes(data, msgpackHandle).Decode(&tree); err != nil {
			return nil, errors.New(errors.MalformedDocument, "invalid msgpack: %s", err.Error())
		}
	default:
		return nil, errors.New(errors.MalformedDocument, "unsupported format '%s'", format)
	}

	return normalizeTree(tree)
}

// normalizeTree converts the decoder specific maps to map[string]interface{}.
func normalizeTree(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			key, ok := k.(string)
			if !ok {
				return nil, errors.New(errors.MalformedDocument, "keys must be strings, found '%v'", k)
			}
			n, err := normalizeTree(val)
			if err != nil {
				return nil, err
			}
			m[key] = n
		}
		return m, nil
	case map[string]interface{}:
		for k, val := range t {
			n, err := normalizeTree(val)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case []interface{}:
		for i, val := range t {
			n, err := normalizeTree(val)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	case []byte:
		return string(t), nil
	default:
		return v, nil
	}
}

// normalizeVersion turns an unquoted version like `version: 0.4` into its string form. JSON numbers keep their
// literal. YAML numbers are read again as written, so that `0.10` stays "0.10" instead of the float's "0.1".
func normalizeVersion(root map[string]interface{}, data []byte, format Format) {
	switch v := root["version"].(type) {
	case float64:
		root["version"] = yamlVersionLiteral(data, format, strconv.FormatFloat(v, 'f', -1, 64))
	case float32:
		root["version"] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		root["version"] = yamlVersionLiteral(data, format, strconv.Itoa(v))
	case int64:
		root["version"] = strconv.FormatInt(v, 10)
	case uint64:
		root["version"] = strconv.FormatUint(v, 10)
	case json.Number:
		root["version"] = v.String()
	}
}

func yamlVersionLiteral(data []byte, format Format, fallback string) string {
	if format != FormatYAML {
		return fallback
	}

	// yaml.v2 stores the scalar text as is when the target is a string
	var header struct {
		Version *string `yaml:"version"`
	}
	if err := yaml.Unmarshal(data, &header); err != nil || header.Version == nil {
		return fallback
	}
	return *header.Version
}

// toParseError converts the first leaf of a validation error to a config parse error. The field context is
// resolved from the "name" of the field declarations on the way to the failing value.
func toParseError(tree interface{}, err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return errors.New(errors.MalformedDocument, "%s", err.Error())
	}

	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}

	segments := instanceSegments(leaf.InstanceLocation)
	setting := settingName(segments)

	var e *errors.Error
	if strings.HasSuffix(leaf.KeywordLocation, "additionalProperties") {
		key := ""
		if m := unknownKeyName.FindStringSubmatch(leaf.Message); len(m) > 1 {
			key = m[1]
		}
		if len(setting) > 0 && len(key) > 0 {
			setting += "." + key
		} else if len(key) > 0 {
			setting = key
		}
		e = errors.New(errors.UnknownKey, "unknown key '%s'", key)
	} else {
		e = errors.New(errors.MalformedDocument, "%s", leaf.Message)
	}

	if len(setting) > 0 {
		e = e.WithSetting(setting)
	}
	if field := fieldAt(tree, segments); len(field) > 0 {
		e = e.WithField(field)
	}

	return e
}

func instanceSegments(location string) []string {
	location = strings.TrimPrefix(location, "/")
	if len(location) == 0 {
		return nil
	}

	segments := strings.Split(location, "/")
	for i, s := range segments {
		if u, err := url.PathUnescape(s); err == nil {
			s = u
		}
		segments[i] = strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
	}
	return segments
}

// settingName renders the instance location as "doc_mapping.field_mappings[1].fast".
func settingName(segments []string) string {
	var sb strings.Builder
	for _, s := range segments {
		if _, err := strconv.Atoi(s); err == nil {
			sb.WriteString("[" + s + "]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func fieldAt(tree interface{}, segments []string) string {
	var path []string
	cur := tree
	for i, s := range segments {
		switch c := cur.(type) {
		case map[string]interface{}:
			cur = c[s]
		case []interface{}:
			idx, err := strconv.Atoi(s)
			if err != nil || idx < 0 || idx >= len(c) {
				return strings.Join(path, ".")
			}
			cur = c[idx]
			if i > 0 && segments[i-1] == "field_mappings" {
				if m, ok := cur.(map[string]interface{}); ok {
					if name, ok := m["name"].(string); ok {
						path = append(path, name)
					}
				}
			}
		default:
			return strings.Join(path, ".")
		}
	}

	return strings.Join(path, ".")
}

func validateHeader(doc *Document) error {
	if !validIndexID.MatchString(doc.IndexID) {
		return errors.NewSettingError(errors.InvalidIndexID, "index_id",
			"index id '%s' must start with a letter, contain only letters, digits, '-' or '_' and be 3 to 255 characters long",
			doc.IndexID)
	}
	if !validVersion.MatchString(doc.Version) {
		return errors.NewSettingError(errors.InvalidVersion, "version",
			"version '%s' is not a semantic version, expected MAJOR.MINOR[.PATCH][-PRERELEASE]", doc.Version)
	}

	return nil
}
