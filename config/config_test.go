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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parklane.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestInitConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"project_name": "Parklane Test",
		"server": {"port": "5001"},
		"data_source": {"path": ":memory:"},
		"matcher": {"similarity_threshold": 0.7}
	}`)

	require.NoError(t, InitConfig(path))
	cnf, err := Fetch()
	require.NoError(t, err)

	assert.Equal(t, "Parklane Test", cnf.ProjectName)
	assert.Equal(t, "5001", cnf.Server.Port)
	assert.Equal(t, ":memory:", cnf.DataSource.Path)
	assert.InDelta(t, 0.7, cnf.Matcher.SimilarityThreshold, 1e-9)
	// Untouched matcher fields keep their defaults.
	assert.InDelta(t, 0.5, cnf.Matcher.TextWeight, 1e-9)
	assert.Equal(t, 3, cnf.Matcher.MaxCombinationSize)
	assert.True(t, cnf.Matcher.Consolidate)
}

func TestInitConfigDefaults(t *testing.T) {
	require.NoError(t, InitConfig(filepath.Join(t.TempDir(), "does-not-exist.json")))
	cnf, err := Fetch()
	require.NoError(t, err)

	assert.Equal(t, DEFAULT_PORT, cnf.Server.Port)
	assert.Equal(t, "parklane.db", cnf.DataSource.Path)
	assert.Equal(t, model.DefaultMatcherConfig(), cnf.Matcher)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("PARKLANE_SERVER_PORT", "9900")
	path := writeConfigFile(t, `{"server": {"port": "5001"}}`)

	require.NoError(t, InitConfig(path))
	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "9900", cnf.Server.Port)
}

func TestInvalidMatcherConfigRejected(t *testing.T) {
	path := writeConfigFile(t, `{"matcher": {"text_weight": 5}}`)
	assert.Error(t, InitConfig(path))
}

func TestMockConfig(t *testing.T) {
	require.NoError(t, MockConfig(&Configuration{}))
	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, DEFAULT_PORT, cnf.Server.Port)
	assert.Equal(t, model.DefaultMatcherConfig(), cnf.Matcher)
}
