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
	"bytes"
	"time"

	"github.com/bluele/gcache"
	"github.com/cespare/xxhash/v2"
	"github.com/tigrisdata/docmapper/server/metrics"
)

// Cache keeps recently compiled configurations keyed by the content of the raw document. Compiled configurations
// are immutable, so a hit hands out the same instance to every caller.
type Cache struct {
	lru gcache.Cache
}

type cacheEntry struct {
	data   []byte
	format Format
	cfg    *CompiledIndexConfig
}

// NewCache returns an LRU cache of the given size. Entries expire after ttl, a zero ttl keeps them until evicted.
// A size <= 0 returns a nil cache, which never hits.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		return nil
	}

	builder := gcache.New(size).LRU()
	if ttl > 0 {
		builder = builder.Expiration(ttl)
	}

	return &Cache{
		lru: builder.Build(),
	}
}

func cacheKey(data []byte, format Format) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(string(format))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(data)
	return h.Sum64()
}

func (c *Cache) Get(data []byte, format Format) (*CompiledIndexConfig, bool) {
	if c == nil {
		return nil, false
	}

	v, err := c.lru.Get(cacheKey(data, format))
	if err != nil {
		metrics.CountCacheLookup(false)
		return nil, false
	}

	// a hash collision must not hand out the configuration of another document
	entry := v.(*cacheEntry)
	if entry.format != format || !bytes.Equal(entry.data, data) {
		metrics.CountCacheLookup(false)
		return nil, false
	}

	metrics.CountCacheLookup(true)
	return entry.cfg, true
}

func (c *Cache) Put(data []byte, format Format, cfg *CompiledIndexConfig) {
	if c == nil {
		return
	}

	entry := &cacheEntry{
		data:   append([]byte(nil), data...),
		format: format,
		cfg:    cfg,
	}
	_ = c.lru.Set(cacheKey(data, format), entry)
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len(true)
}

func (c *Cache) Purge() {
	if c != nil {
		c.lru.Purge()
	}
}
