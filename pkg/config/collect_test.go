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
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter replays canned answers.
type scriptedPrompter struct {
	answers []string
	secrets []string
}

func (p *scriptedPrompter) Input(string) string {
	if len(p.answers) == 0 {
		return ""
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a
}

func (p *scriptedPrompter) Secret(string) string {
	if len(p.secrets) == 0 {
		return ""
	}
	s := p.secrets[0]
	p.secrets = p.secrets[1:]
	return s
}

func testKey(t *testing.T) string {
	t.Helper()
	key := filepath.Join(t.TempDir(), "id_rsa")
	require.NoError(t, os.WriteFile(key, []byte("key"), 0600))
	return key
}

func TestCollectAllPreset(t *testing.T) {
	c := New()
	c.RepoURL = "https://github.com/acme/app.git"
	c.ServerIP = "192.168.1.10"
	c.SSHKeyPath = testKey(t)
	c.Token = "tok"

	require.NoError(t, Collect(c, &scriptedPrompter{}))
	assert.Equal(t, 3000, c.AppPort)
}

func TestCollectPromptsForMissing(t *testing.T) {
	key := testKey(t)
	c := New()
	c.SSHKeyPath = key

	p := &scriptedPrompter{
		answers: []string{"https://github.com/acme/app.git", "10.0.0.5"},
		secrets: []string{"tok"},
	}
	require.NoError(t, Collect(c, p))
	assert.Equal(t, "https://github.com/acme/app.git", c.RepoURL)
	assert.Equal(t, "10.0.0.5", c.ServerIP)
	assert.Equal(t, "tok", c.Token)
}

func TestCollectRetriesThenFails(t *testing.T) {
	c := New()
	c.SSHKeyPath = testKey(t)
	c.Token = "tok"
	c.ServerIP = "10.0.0.5"

	// every answer is rejected, the budget runs out
	p := &scriptedPrompter{answers: []string{"nope", "still-nope", "ftp://x", "ftp://y"}}
	err := Collect(c, p)
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, ErrInvalidInput))
}

func TestCollectRecoversWithinBudget(t *testing.T) {
	c := New()
	c.SSHKeyPath = testKey(t)
	c.Token = "tok"
	c.ServerIP = "10.0.0.5"
	c.RepoURL = "bogus"

	p := &scriptedPrompter{answers: []string{"https://github.com/acme/app.git"}}
	require.NoError(t, Collect(c, p))
	assert.Equal(t, "https://github.com/acme/app.git", c.RepoURL)
}
