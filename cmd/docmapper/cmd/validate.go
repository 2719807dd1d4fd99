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

package cmd

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tigrisdata/docmapper/index"
	"github.com/tigrisdata/docmapper/schema"
)

type fieldDescription struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Tokenizer     string `json:"tokenizer,omitempty"`
	Fast          bool   `json:"fast"`
	Stored        bool   `json:"stored"`
	Indexed       bool   `json:"indexed"`
	Timestamp     bool   `json:"timestamp,omitempty"`
	Tag           bool   `json:"tag,omitempty"`
	DefaultSearch bool   `json:"default_search,omitempty"`
	Description   string `json:"description,omitempty"`
}

func (a *app) compile(path string) (*index.CompiledIndexConfig, error) {
	cfg, err := a.compiler.CompileFile(path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, path)
	}
	return cfg, nil
}

func summary(path string, cfg *index.CompiledIndexConfig) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: index_id=%s version=%s fields=%d", path, cfg.IndexID, cfg.Version,
		len(cfg.Schema.QueryableFields))
	if cfg.Schema.HasTimestamp() {
		fmt.Fprintf(&sb, " timestamp=%s", cfg.Schema.TimestampField)
	}
	if names := cfg.SearchSettings.Names(); len(names) > 0 {
		fmt.Fprintf(&sb, " default_search_fields=%s", strings.Join(names, ","))
	}
	return sb.String()
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Compile configuration documents and report the first failure",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				cfg, err := a.compile(path)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), summary(path, cfg))
			}
			return nil
		},
	}
}

func describe(cfg *index.CompiledIndexConfig) []fieldDescription {
	s := cfg.Schema
	tags := make(map[string]struct{}, len(s.TagFields))
	for _, t := range s.TagFields {
		tags[t] = struct{}{}
	}

	fields := make([]fieldDescription, 0, len(s.QueryableFields))
	for _, q := range s.QueryableFields {
		_, tag := tags[q.FieldName]
		d := fieldDescription{
			Name:          q.FieldName,
			Type:          q.DataType.String(),
			Fast:          q.Fast,
			Stored:        q.Stored,
			Indexed:       q.Indexed,
			Timestamp:     q.FieldName == s.TimestampField,
			Tag:           tag,
			DefaultSearch: cfg.SearchSettings.IsDefaultSearchField(q.FieldName),
			Description:   q.Field.Description,
		}
		if q.DataType == schema.TextType {
			d.Tokenizer = q.Tokenizer
		}
		fields = append(fields, d)
	}

	return fields
}

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe FILE",
		Short: "Print the flattened fields of a configuration document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.compile(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), describe(cfg))
		},
	}
}
