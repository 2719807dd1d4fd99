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
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ApplyFunc is called with the outcome of every compilation triggered by Watch.
type ApplyFunc func(path string, cfg *CompiledIndexConfig, err error)

// Watch applies the configuration document at path and re-applies it every time the file is written, created or
// renamed into place. The parent directory is watched so that editors replacing the file are picked up. Watch blocks
// until ctx is done.
func (s *Store) Watch(ctx context.Context, path string, onApply ApplyFunc) error {
	path = filepath.Clean(path)
	format := FormatFromPath(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return pkgerrors.Wrap(err, "creating watcher")
	}
	defer func() { _ = watcher.Close() }()

	if err = watcher.Add(filepath.Dir(path)); err != nil {
		return pkgerrors.Wrapf(err, "watching '%s'", filepath.Dir(path))
	}

	apply := func() {
		data, err := os.ReadFile(path)
		if err != nil {
			onApply(path, nil, pkgerrors.Wrapf(err, "reading '%s'", path))
			return
		}
		cfg, err := s.Apply(data, format)
		onApply(path, cfg, err)
	}
	apply()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debug().Str("notify", event.Name).Str("op", event.Op.String()).Msg("config document changed")
			apply()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Str("path", path).Msg("watch error")
		}
	}
}
