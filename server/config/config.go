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

package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

var configPath = []string{
	"/etc/docmapper/",
	"$HOME/.docmapper/",
	"./config/",
	"./",
}

// envPrefix is used by viper to detect environment variables that should be used.
// viper will automatically uppercase this and append _ to it
var envPrefix = "docmapper"

var envEnv = "docmapper_environment"
var environment string

const (
	EnvTest        = "test"
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

func GetEnvironment() string {
	return environment
}

func LoadEnvironment() {
	env := os.Getenv(envEnv)
	if env == "" {
		env = os.Getenv(strings.ToUpper(envEnv))
	}

	environment = env
}

// LoadConfig fills config from, in increasing priority: the values already in config, the config file, the
// environment and the flags bound to v. An explicit file takes the place of the name based lookup.
func LoadConfig(v *viper.Viper, name string, file string, config interface{}) error {
	LoadEnvironment()

	if len(file) > 0 {
		v.SetConfigFile(file)
	} else {
		if GetEnvironment() != "" {
			name += "." + GetEnvironment()
		}

		v.SetConfigName(name)
		for _, p := range configPath {
			v.AddConfigPath(p)
		}
	}
	v.SetConfigType("yaml")

	// This is needed to automatically bind environment variables to config struct
	b, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "marshal default config")
	}
	if err = v.MergeConfig(bytes.NewBuffer(b)); err != nil {
		return errors.Wrap(err, "merge default config")
	}

	// This is needed to replace periods with underscores when mapping environment variables to multi-level
	// config keys. For example, this will allow compiler.max_nesting_depth to be mapped to
	// DOCMAPPER_COMPILER_MAX_NESTING_DEPTH
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The environment variables have a higher priority as compared to config values defined in the config file.
	// This allows us to override the config values using environment variables.
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err = v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || len(file) > 0 {
			return errors.Wrapf(err, "reading config")
		}
		log.Debug().Err(err).Msg("config file not found")
	}

	if err = v.Unmarshal(config); err != nil {
		return errors.Wrap(err, "unmarshalling config")
	}
	if n, ok := config.(interface{ normalize() }); ok {
		n.normalize()
	}

	log.Debug().Str("keys", spew.Sdump(v.AllKeys())).Interface("config", config).Msg("final config")

	return nil
}

// WatchConfig logs changes of the config file in use. Compiler settings are read once, a changed file only takes
// effect for documents compiled by a new process.
func WatchConfig(v *viper.Viper) {
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info().Str("notify", e.Name).Str("op", e.Op.String()).Msg("config file changed")
	})

	v.WatchConfig()
}

// BindFlag binds a command line flag to a config key, e.g. "log.level".
func BindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	if err := v.BindPFlag(key, flag); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("bind flag")
	}
}
