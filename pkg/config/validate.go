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
	"regexp"
	"strconv"
	"strings"

	"github.com/joomcode/errorx"
	"github.com/shipway/shipway/util"
)

var (
	errNS = errorx.NewNamespace("config")

	// ErrInvalidInput covers every rejected deployment parameter.
	ErrInvalidInput = errNS.NewType("invalid_input", util.ErrTraitPreCheck)
)

// Groups of 1-3 digits, no range check on octet values. Matching the
// documented accept rule, not RFC 791.
var ipPattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

var urlSchemes = []string{"https://", "git@", "ssh://"}

// ValidateRepoURL accepts https, scp-like git@ and ssh scheme URLs.
func ValidateRepoURL(raw string) error {
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(raw, scheme) {
			return nil
		}
	}
	return ErrInvalidInput.New("repository URL %q must start with one of %s", redactSecrets(raw), strings.Join(urlSchemes, ", "))
}

// ValidateServerIP accepts dotted-quad addresses.
func ValidateServerIP(raw string) error {
	if ipPattern.MatchString(raw) {
		return nil
	}
	return ErrInvalidInput.New("server address %q is not a dotted-quad IPv4 address", raw)
}

// ValidatePort accepts integers in (0, 65535].
func ValidatePort(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidInput.Wrap(err, "port %q is not a number", raw)
	}
	if n <= 0 || n > 65535 {
		return 0, ErrInvalidInput.New("port %d is out of range (0, 65535]", n)
	}
	return n, nil
}

// ValidateKeyPath requires the path, after ~ expansion, to name a readable
// file.
func ValidateKeyPath(raw string) error {
	p := ExpandHome(raw)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return ErrInvalidInput.New("SSH key %q does not exist", p)
	}
	f, err := os.Open(p)
	if err != nil {
		return ErrInvalidInput.Wrap(err, "SSH key %q is not readable", p)
	}
	_ = f.Close()
	return nil
}

// ValidateToken requires a non-empty access token.
func ValidateToken(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrInvalidInput.New("access token must not be empty")
	}
	return nil
}

// Validate checks an assembled config in one go.
func (c *DeploymentConfig) Validate() error {
	if err := ValidateRepoURL(c.RepoURL); err != nil {
		return err
	}
	if err := ValidateServerIP(c.ServerIP); err != nil {
		return err
	}
	if _, err := ValidatePort(strconv.Itoa(c.AppPort)); err != nil {
		return err
	}
	if err := ValidateKeyPath(c.SSHKeyPath); err != nil {
		return err
	}
	return ValidateToken(c.Token)
}

// redactSecrets removes userinfo from a URL before it reaches an error
// message or a log line.
func redactSecrets(raw string) string {
	if i := strings.Index(raw, "://"); i >= 0 {
		rest := raw[i+3:]
		if j := strings.Index(rest, "@"); j >= 0 {
			return raw[:i+3] + "***@" + rest[j+1:]
		}
	}
	return raw
}

// RedactURL is the exported form used by other packages when logging
// repository URLs.
func RedactURL(raw string) string { return redactSecrets(raw) }
