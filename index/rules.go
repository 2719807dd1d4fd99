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
	"time"

	"github.com/tigrisdata/docmapper/errors"
	"github.com/tigrisdata/docmapper/lib/container"
	"github.com/tigrisdata/docmapper/schema"
	"github.com/tigrisdata/docmapper/server/config"
)

const (
	settingDefaultSearchFields = "search_settings.default_search_fields"
	settingSplitNumDocsTarget  = "indexing_settings.split_num_docs_target"
	settingCommitTimeoutSecs   = "indexing_settings.commit_timeout_secs"
	settingRetentionPeriod     = "retention.period"
	settingRetentionSchedule   = "retention.schedule"
)

// Binder attaches one group of index level settings to a configuration whose schema is already compiled.
type Binder interface {
	Bind(cfg *CompiledIndexConfig, doc *Document) error
}

func newBinders(limits config.CompilerConfig) []Binder {
	return []Binder{
		&SearchSettingsBinder{},
		&IndexingSettingsBinder{limits: limits},
		&RetentionBinder{},
	}
}

// SearchSettingsBinder resolves default search fields. A default search field must be an indexed text leaf, raw or
// tokenized; full text query parsing doesn't apply to the other types.
type SearchSettingsBinder struct{}

func (b *SearchSettingsBinder) Bind(cfg *CompiledIndexConfig, doc *Document) error {
	names := container.NewOrderedSet()
	for _, name := range doc.SearchSettings.DefaultSearchFields {
		if !names.Insert(name) {
			continue
		}

		q := cfg.Schema.Lookup(name)
		if q == nil {
			if f := cfg.Schema.FieldByPath(name); f != nil {
				return errors.NewSettingError(errors.UnsupportedSearchFieldType, settingDefaultSearchFields,
					"default search field '%s' is an object, list its text fields instead", name).WithField(name)
			}
			return errors.NewSettingError(errors.UnknownSearchField, settingDefaultSearchFields,
				"default search field '%s' is not declared", name).WithField(name)
		}
		if q.DataType != schema.TextType {
			return errors.NewSettingError(errors.UnsupportedSearchFieldType, settingDefaultSearchFields,
				"default search field '%s' must be of type '%s', found '%s'", name, schema.TextType, q.DataType).WithField(name)
		}
		if !q.Indexed {
			return errors.NewSettingError(errors.UnsupportedSearchFieldType, settingDefaultSearchFields,
				"default search field '%s' is not indexed", name).WithField(name)
		}

		cfg.SearchSettings.DefaultSearchFields = append(cfg.SearchSettings.DefaultSearchFields, q)
	}

	return nil
}

// IndexingSettingsBinder applies the split target and commit timeout, falling back to the configured defaults.
type IndexingSettingsBinder struct {
	limits config.CompilerConfig
}

func (b *IndexingSettingsBinder) Bind(cfg *CompiledIndexConfig, doc *Document) error {
	split := b.limits.DefaultSplitNumDocsTarget
	if target := doc.IndexingSettings.SplitNumDocsTarget; target != nil {
		if *target <= 0 || uint64(*target) > b.limits.MaxSplitNumDocsTarget {
			return errors.NewSettingError(errors.InvalidSplitTarget, settingSplitNumDocsTarget,
				"split target must be between 1 and %d, found %d", b.limits.MaxSplitNumDocsTarget, *target)
		}
		split = uint64(*target)
	}

	timeout := b.limits.DefaultCommitTimeoutSecs
	if secs := doc.IndexingSettings.CommitTimeoutSecs; secs != nil {
		if *secs <= 0 {
			return errors.NewSettingError(errors.InvalidCommitTimeout, settingCommitTimeoutSecs,
				"commit timeout must be a positive number of seconds, found %d", *secs)
		}
		timeout = uint64(*secs)
	}

	cfg.IndexingSettings = CompiledIndexingSettings{
		SplitNumDocsTarget: split,
		CommitTimeout:      time.Duration(timeout) * time.Second,
	}
	return nil
}

// RetentionBinder parses the retention policy. Retention deletes data by age, so it needs a timestamp field.
type RetentionBinder struct{}

func (b *RetentionBinder) Bind(cfg *CompiledIndexConfig, doc *Document) error {
	if doc.Retention == nil {
		return nil
	}

	if !cfg.Schema.HasTimestamp() {
		return errors.NewSettingError(errors.InvalidRetention, settingRetentionPeriod,
			"retention requires doc_mapping.timestamp_field to be set")
	}

	period, expr, err := ParsePeriod(doc.Retention.Period)
	if err != nil {
		return errors.NewSettingError(errors.InvalidRetention, settingRetentionPeriod, "%s", err.Error())
	}

	schedule := DefaultSchedule
	if len(doc.Retention.Schedule) > 0 {
		if schedule, err = ParseSchedule(doc.Retention.Schedule); err != nil {
			return errors.NewSettingError(errors.InvalidRetention, settingRetentionSchedule, "%s", err.Error())
		}
	}

	cfg.Retention = &Retention{
		Period:   period,
		Schedule: schedule,
		Expr:     expr,
	}
	return nil
}
