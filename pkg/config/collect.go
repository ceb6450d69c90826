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
	"fmt"
	"strconv"
)

// retryBudget bounds re-prompting per parameter before the run fails with
// an input validation error.
const retryBudget = 3

// Prompter supplies values for missing or rejected parameters. The gui
// package provides the stdin implementation; tests provide scripted ones.
type Prompter interface {
	Input(label string) string
	Secret(label string) string
}

// Collect validates every parameter of c, asking the prompter for a new
// value on each rejection, up to the retry budget. On success c holds only
// accepted values.
func Collect(c *DeploymentConfig, p Prompter) error {
	if err := collect(&c.RepoURL, p, "Repository URL (https://, git@ or ssh://)", ValidateRepoURL); err != nil {
		return err
	}
	if err := collect(&c.ServerIP, p, "Server IP address", ValidateServerIP); err != nil {
		return err
	}
	if err := collectPort(&c.AppPort, p); err != nil {
		return err
	}
	if err := collect(&c.SSHKeyPath, p, "SSH private key path", ValidateKeyPath); err != nil {
		return err
	}
	return collectSecret(&c.Token, p, "Repository access token", ValidateToken)
}

func collect(field *string, p Prompter, label string, validate func(string) error) error {
	var err error
	for attempt := 0; attempt < retryBudget; attempt++ {
		if *field != "" {
			if err = validate(*field); err == nil {
				return nil
			}
			fmt.Println(err)
		}
		*field = p.Input(label)
	}
	if err = validate(*field); err == nil {
		return nil
	}
	return err
}

func collectSecret(field *string, p Prompter, label string, validate func(string) error) error {
	var err error
	for attempt := 0; attempt < retryBudget; attempt++ {
		if err = validate(*field); err == nil {
			return nil
		}
		*field = p.Secret(label)
	}
	if err = validate(*field); err == nil {
		return nil
	}
	return err
}

func collectPort(field *int, p Prompter) error {
	raw := strconv.Itoa(*field)
	if *field == 0 {
		raw = ""
	}
	var err error
	for attempt := 0; attempt < retryBudget; attempt++ {
		if raw != "" {
			var n int
			if n, err = ValidatePort(raw); err == nil {
				*field = n
				return nil
			}
			fmt.Println(err)
		}
		raw = p.Input("Application port")
	}
	var n int
	if n, err = ValidatePort(raw); err == nil {
		*field = n
		return nil
	}
	return err
}
