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
	"io"

	"github.com/davecgh/go-spew/spew"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tigrisdata/docmapper/index"
	"github.com/tigrisdata/docmapper/server/config"
	"github.com/tigrisdata/docmapper/server/metrics"
	"github.com/tigrisdata/docmapper/util"
	ulog "github.com/tigrisdata/docmapper/util/log"
)

// app is the state shared by all commands of one invocation.
type app struct {
	cfgFile  string
	cfg      *config.Config
	compiler *index.Compiler
	closer   io.Closer
}

func (a *app) setup(cmd *cobra.Command) error {
	v := viper.New()
	config.BindFlag(v, "log.level", cmd.Root().PersistentFlags().Lookup("log-level"))
	config.BindFlag(v, "log.format", cmd.Root().PersistentFlags().Lookup("log-format"))

	if err := config.LoadConfig(v, "docmapper", a.cfgFile, a.cfg); err != nil {
		return err
	}
	ulog.ConfigureOutput(a.cfg.Log, cmd.ErrOrStderr())

	if log.Logger.GetLevel() <= zerolog.DebugLevel {
		spew.Fdump(cmd.ErrOrStderr(), a.cfg)
	}

	a.closer = metrics.InitializeMetrics()

	compiler, err := index.NewCompilerFromConfig(a.cfg)
	if err != nil {
		return err
	}
	a.compiler = compiler

	return nil
}

func (a *app) teardown() {
	if a.closer != nil {
		ulog.E(a.closer.Close())
	}
}

// NewRootCmd returns the docmapper command tree. Command output goes to the command's out writer, logs and
// failures to its err writer.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: &config.DefaultConfig}

	rootCmd := &cobra.Command{
		Use:           "docmapper",
		Short:         "Compile and inspect search index configuration documents",
		Version:       version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "process configuration file")
	rootCmd.PersistentFlags().String("log-level", config.DefaultConfig.Log.Level, "log level")
	rootCmd.PersistentFlags().String("log-format", config.DefaultConfig.Log.Format, "log format, console or json")

	rootCmd.AddCommand(
		newValidateCmd(a),
		newDescribeCmd(a),
		newMappingCmd(a),
		newNormalizeCmd(a),
		newCheckCmd(a),
		newWatchCmd(a),
	)

	return rootCmd
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		util.PrintError(err)
		return 1
	}

	return 0
}

func version() string {
	if len(util.Version) == 0 {
		return "dev"
	}
	return util.Version
}

func printJSON(w io.Writer, v any) error {
	b, err := jsoniter.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
