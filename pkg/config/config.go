// Copyright 2024 The shipway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"github.com/shipway/shipway/util"
	"gopkg.in/yaml.v2"
)

// DeploymentConfig holds every parameter of one deployment run.
//
// Token is the repository access token. It lives only in process memory:
// it is excluded from every serialized form and must never be written to a
// log or to the staged repository's remote configuration.
type DeploymentConfig struct {
	RepoURL    string `yaml:"repo_url" toml:"repo_url"`
	Token      string `yaml:"-" toml:"-"`
	Branch     string `yaml:"branch" toml:"branch" default:"main"`
	SSHUser    string `yaml:"ssh_user" toml:"ssh_user" default:"root"`
	ServerIP   string `yaml:"server_ip" toml:"server_ip"`
	SSHKeyPath string `yaml:"ssh_key_path" toml:"ssh_key_path" default:"~/.ssh/id_rsa"`
	AppPort    int    `yaml:"app_port" toml:"app_port" default:"3000"`
}

// New returns a config populated with defaults only.
func New() *DeploymentConfig {
	c := &DeploymentConfig{}
	_ = defaults.Set(c)
	return c
}

// Load reads a config file, either YAML or TOML by extension, on top of the
// defaults.
func Load(path string) (*DeploymentConfig, error) {
	c := New()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to read config file %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		err = yaml.Unmarshal(data, c)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to parse config file %s", path)
	}
	return c, nil
}

// KeyPath returns the SSH key path with a leading ~ expanded.
func (c *DeploymentConfig) KeyPath() string {
	return ExpandHome(c.SSHKeyPath)
}

// ExpandHome replaces a leading ~ with the current user's home directory.
func ExpandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(p, "~"), "/"))
	}
	return p
}

// SaveLast persists the parameters of a run for reuse as defaults on the
// next invocation. The token is stripped by the yaml:"-" tag.
func SaveLast(c *DeploymentConfig) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.WithStack(err)
	}
	return os.WriteFile(filepath.Join(util.BaseDir(), util.LastRunsFile), data, 0640)
}

// LoadLast loads the previous run's parameters; a missing file yields plain
// defaults.
func LoadLast() *DeploymentConfig {
	c, err := Load(filepath.Join(util.BaseDir(), util.LastRunsFile))
	if err != nil {
		return New()
	}
	return c
}
