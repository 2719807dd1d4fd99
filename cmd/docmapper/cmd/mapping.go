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
	"github.com/spf13/cobra"
	"github.com/tigrisdata/docmapper/index"
	"github.com/tigrisdata/docmapper/store/search"
	ulog "github.com/tigrisdata/docmapper/util/log"
)

const (
	targetBleve     = "bleve"
	targetTypesense = "typesense"
)

func newMappingCmd(a *app) *cobra.Command {
	var target, name string

	c := &cobra.Command{
		Use:   "mapping FILE",
		Short: "Print the search engine mapping of a configuration document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.compile(args[0])
			if err != nil {
				return err
			}

			switch target {
			case targetBleve:
				im, err := search.BuildIndexMapping(cfg, a.compiler.Registry())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), im)
			case targetTypesense:
				if len(name) == 0 {
					name = cfg.IndexID
				}
				return printJSON(cmd.OutOrStdout(), search.BuildCollectionSchema(name, cfg))
			}
			return ulog.CE("unsupported target '%s', expected %s or %s", target, targetBleve, targetTypesense)
		},
	}
	c.Flags().StringVarP(&target, "target", "t", targetBleve, "mapping target, bleve or typesense")
	c.Flags().StringVar(&name, "name", "", "typesense collection name, defaults to the index id")

	return c
}

func newNormalizeCmd(a *app) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "normalize FILE",
		Short: "Print the configuration document with every default made explicit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := index.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := a.compile(args[0])
			if err != nil {
				return err
			}
			data, err := index.Encode(cfg.Document(), f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	c.Flags().StringVarP(&format, "format", "f", string(index.FormatYAML), "output format, yaml, json or msgpack")

	return c
}
