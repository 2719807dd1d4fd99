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
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tigrisdata/docmapper/errors"
)

func TestCache(t *testing.T) {
	require.Nil(t, NewCache(0, time.Minute))

	var disabled *Cache
	_, ok := disabled.Get([]byte(productsConfig), FormatYAML)
	require.False(t, ok)
	disabled.Put([]byte(productsConfig), FormatYAML, &CompiledIndexConfig{})
	require.Equal(t, 0, disabled.Len())

	compiler := testCompiler(t).WithCache(NewCache(2, time.Minute))

	first, err := compiler.CompileBytes([]byte(productsConfig), FormatYAML)
	require.NoError(t, err)
	second, err := compiler.CompileBytes([]byte(productsConfig), FormatYAML)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, compiler.cache.Len())

	// same bytes read as another format are a different entry
	_, ok = compiler.cache.Get([]byte(productsConfig), FormatJSON)
	require.False(t, ok)

	// failed compilations are not cached
	bad := strings.Replace(productsConfig, "timestamp_field: ts", "timestamp_field: price", 1)
	_, err = compiler.CompileBytes([]byte(bad), FormatYAML)
	require.Error(t, err)
	require.Equal(t, 1, compiler.cache.Len())

	compiler.cache.Purge()
	third, err := compiler.CompileBytes([]byte(productsConfig), FormatYAML)
	require.NoError(t, err)
	require.NotSame(t, first, third)
	require.Equal(t, first, third)
}

func TestHolder(t *testing.T) {
	compiler := testCompiler(t)
	v1, err := compiler.CompileBytes([]byte(productsConfig), FormatYAML)
	require.NoError(t, err)
	v2, err := compiler.CompileBytes([]byte(strings.Replace(productsConfig, "version: 0.4", "version: 0.5", 1)), FormatYAML)
	require.NoError(t, err)

	h := NewHolder(v1)
	inFlight := h.Load()
	require.Same(t, v1, h.Swap(v2))
	require.Same(t, v2, h.Load())

	// readers holding the old instance are unaffected
	require.Equal(t, "0.4", inFlight.Version)
	require.Equal(t, "0.5", h.Load().Version)
}

func TestStore(t *testing.T) {
	s := NewStore(testCompiler(t))

	cfg, err := s.Apply([]byte(productsConfig), FormatYAML)
	require.NoError(t, err)
	require.Same(t, cfg, s.Get("products"))
	holder := s.Holder("products")
	require.NotNil(t, holder)

	_, err = s.Apply([]byte(nestedConfig), FormatYAML)
	require.NoError(t, err)
	require.Equal(t, []string{"inventory", "products"}, s.List())

	// a failed apply keeps the published instance
	bad := strings.Replace(productsConfig, "default_search_fields: [name, description]", "default_search_fields: [price]", 1)
	_, err = s.Apply([]byte(bad), FormatYAML)
	require.True(t, errors.HasReason(err, errors.UnsupportedSearchFieldType))
	require.Same(t, cfg, s.Get("products"))

	updated, err := s.Apply([]byte(strings.Replace(productsConfig, "version: 0.4", "version: 0.5", 1)), FormatYAML)
	require.NoError(t, err)
	require.Same(t, updated, s.Get("products"))
	require.Same(t, holder, s.Holder("products"))
	require.Same(t, updated, holder.Load())

	s.Remove("inventory")
	require.Nil(t, s.Get("inventory"))
	require.Nil(t, s.Holder("inventory"))
	require.Equal(t, []string{"products"}, s.List())
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore(testCompiler(t))
	_, err := s.Apply([]byte(productsConfig), FormatYAML)
	require.NoError(t, err)

	versions := []string{"0.4", "0.5", "0.6"}
	var wg sync.WaitGroup
	for _, v := range versions {
		wg.Add(2)
		go func(v string) {
			defer wg.Done()
			_, err := s.Apply([]byte(strings.Replace(productsConfig, "version: 0.4", "version: "+v, 1)), FormatYAML)
			assert.NoError(t, err)
		}(v)
		go func() {
			defer wg.Done()
			cfg := s.Get("products")
			if assert.NotNil(t, cfg) {
				assert.Len(t, cfg.Schema.Fields, 6)
			}
		}()
	}
	wg.Wait()

	require.Contains(t, versions, s.Get("products").Version)
}
