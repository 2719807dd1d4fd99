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
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"go.uber.org/atomic"
)

// Holder publishes the current compiled configuration of one index. Readers load the pointer once per operation and
// keep using that instance until they are done, a reload swaps in a new instance without touching the old one.
type Holder struct {
	current atomic.Pointer[CompiledIndexConfig]
}

func NewHolder(cfg *CompiledIndexConfig) *Holder {
	h := &Holder{}
	h.current.Store(cfg)
	return h
}

func (h *Holder) Load() *CompiledIndexConfig {
	return h.current.Load()
}

// Swap publishes cfg and returns the previous configuration.
func (h *Holder) Swap(cfg *CompiledIndexConfig) *CompiledIndexConfig {
	return h.current.Swap(cfg)
}

// Store keeps one holder per index id.
type Store struct {
	sync.RWMutex

	compiler *Compiler
	holders  map[string]*Holder
}

func NewStore(compiler *Compiler) *Store {
	return &Store{
		compiler: compiler,
		holders:  make(map[string]*Holder),
	}
}

// Apply compiles the document and publishes it under its index id. On failure the previously published
// configuration stays in place and the error is returned.
func (s *Store) Apply(data []byte, format Format) (*CompiledIndexConfig, error) {
	cfg, err := s.compiler.CompileBytes(data, format)
	if err != nil {
		return nil, err
	}

	s.Put(cfg)
	return cfg, nil
}

// Put publishes an already compiled configuration.
func (s *Store) Put(cfg *CompiledIndexConfig) {
	s.Lock()
	defer s.Unlock()

	h, ok := s.holders[cfg.IndexID]
	if !ok {
		s.holders[cfg.IndexID] = NewHolder(cfg)
		log.Info().Str("index_id", cfg.IndexID).Str("version", cfg.Version).Msg("index config published")
		return
	}

	if old := h.Swap(cfg); old != cfg {
		log.Info().Str("index_id", cfg.IndexID).Str("version", cfg.Version).Msg("index config replaced")
	}
}

// Holder returns the holder of the index, nil if the index is unknown. The holder stays valid across reloads.
func (s *Store) Holder(indexID string) *Holder {
	s.RLock()
	defer s.RUnlock()

	return s.holders[indexID]
}

// Get returns the current configuration of the index.
func (s *Store) Get(indexID string) *CompiledIndexConfig {
	if h := s.Holder(indexID); h != nil {
		return h.Load()
	}
	return nil
}

func (s *Store) Remove(indexID string) {
	s.Lock()
	defer s.Unlock()

	delete(s.holders, indexID)
}

// List returns the index ids in sorted order.
func (s *Store) List() []string {
	s.RLock()
	defer s.RUnlock()

	ids := make([]string, 0, len(s.holders))
	for id := range s.holders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
