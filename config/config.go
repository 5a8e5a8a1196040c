/*
Copyright 2025 Parklane Compare Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

const DEFAULT_PORT = "5000"

var ConfigStore atomic.Value

type ServerConfig struct {
	Port string `json:"port" envconfig:"PARKLANE_SERVER_PORT"`
}

type DataSourceConfig struct {
	// Path of the SQLite database file; ":memory:" for an ephemeral store.
	Path string `json:"path" envconfig:"PARKLANE_DATA_SOURCE_PATH"`
}

type Configuration struct {
	ProjectName string              `json:"project_name" envconfig:"PARKLANE_PROJECT_NAME"`
	Server      ServerConfig        `json:"server"`
	DataSource  DataSourceConfig    `json:"data_source"`
	Matcher     model.MatcherConfig `json:"matcher"`
}

// SetConfig validates, applies defaults and stores the configuration.
func SetConfig(cfg *Configuration) error {
	if err := cfg.validateAndAddDefaults(); err != nil {
		return err
	}
	ConfigStore.Store(cfg)
	return nil
}

// Fetch retrieves the stored configuration.
func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	if config == nil {
		return nil, errors.New("config not loaded from file")
	}
	return config.(*Configuration), nil
}

// InitConfig loads a JSON configuration file, layers environment overrides on
// top and stores the result for Fetch.
func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func loadConfigFromFile(file string) error {
	cfg := &Configuration{Matcher: model.DefaultMatcherConfig()}
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return fmt.Errorf("decoding config file %s: %w", file, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// Environment overrides beat the file.
	if err := envconfig.Process("parklane", cfg); err != nil {
		return fmt.Errorf("processing env variables: %w", err)
	}

	return SetConfig(cfg)
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		logrus.Warn("project name is empty. Setting a default name.")
		cnf.ProjectName = "Parklane Compare"
	}
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		logrus.Warnf("Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}
	if cnf.DataSource.Path == "" {
		cnf.DataSource.Path = "parklane.db"
		logrus.Warn("Data source path not specified in config. Using parklane.db")
	}
	if err := cnf.Matcher.Validate(); err != nil {
		return fmt.Errorf("invalid matcher config: %w", err)
	}
	return nil
}

// MockConfig stores a configuration for tests, filling defaults the same way
// InitConfig does.
func MockConfig(mockConfig *Configuration) error {
	if mockConfig.Matcher.MaxCombinationSize == 0 {
		mockConfig.Matcher = model.DefaultMatcherConfig()
	}
	return SetConfig(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
