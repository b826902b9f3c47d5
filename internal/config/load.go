/*
Copyright 2026 The Romulus Authors.

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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"
)

// Load reads and decodes a Romulus configuration file, expands
// home-relative SSH paths, and validates the result. The error, if
// any, is always either a decode error or a *ConfigError.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	return Parse(raw)
}

// Parse decodes and validates configuration already read into
// memory. Load uses it after reading the file; tests call it directly.
func Parse(raw []byte) (*Config, error) {
	var c Config

	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := expandSSHPaths(&c.SSH); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// expandSSHPaths resolves a leading "~/" in the SSH key paths against
// the invoking user's home directory.
func expandSSHPaths(ssh *SSH) error {
	expanded, err := expandHome(ssh.PublicKeyPath)
	if err != nil {
		return err
	}

	ssh.PublicKeyPath = expanded

	if ssh.PrivateKeyPath != "" {
		expanded, err := expandHome(ssh.PrivateKeyPath)
		if err != nil {
			return err
		}

		ssh.PrivateKeyPath = expanded
	}

	return nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") && path != "~" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", path, err)
	}

	if path == "~" {
		return home, nil
	}

	return filepath.Join(home, path[2:]), nil
}
