// Copyright 2022 Tigris Data, Inc.
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

package log

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/tigrisdata/docmapper/errors"
)

func TestCompileErr(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	CompileErr(logger.Warn(), errors.NewFieldError(errors.DuplicateField, "id", "declared twice")).Msg("compile failed")
	out := buf.String()
	require.Contains(t, out, `"kind":"field"`)
	require.Contains(t, out, `"reason":"DuplicateField"`)
	require.Contains(t, out, `"field":"id"`)
	require.Contains(t, out, `"error":"declared twice"`)
	require.NotContains(t, out, `"setting"`)

	buf.Reset()
	CompileErr(logger.Warn(), fmt.Errorf("plain")).Msg("compile failed")
	require.Contains(t, buf.String(), `"error":"plain"`)
}

func TestE(t *testing.T) {
	require.False(t, E(nil))
	require.True(t, E(fmt.Errorf("boom")))
	require.EqualError(t, CE("value %d", 1), "value 1")
}

func TestConsoleFormatCaller(t *testing.T) {
	require.Equal(t, "schema/document.go:10", consoleFormatCaller("/src/docmapper/schema/document.go:10"))
	require.Equal(t, "main.go:1", consoleFormatCaller("main.go:1"))
	require.Equal(t, "", consoleFormatCaller(nil))
}
