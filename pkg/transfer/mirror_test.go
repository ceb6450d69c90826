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

package transfer

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsExcluded(t *testing.T) {
	assert.True(t, IsExcluded(".git"))
	assert.True(t, IsExcluded(".git/HEAD"))
	assert.True(t, IsExcluded(".git/objects/ab/cdef"))
	assert.True(t, IsExcluded(".gitmodules"))
	assert.True(t, IsExcluded(".gitattributes"))

	assert.False(t, IsExcluded("Dockerfile"))
	assert.False(t, IsExcluded("src/.git")) // only root-level metadata is special
	assert.False(t, IsExcluded(".github"))
	assert.False(t, IsExcluded(".gitignore"))
}

func TestExtraneous(t *testing.T) {
	local := map[string]fs.FileMode{
		"Dockerfile":  0644,
		"src/main.js": 0644,
	}
	remote := []string{"Dockerfile", "src/main.js", "old.txt", "a/b/c.txt", "a/d.txt"}

	got := Extraneous(local, remote)
	require.Equal(t, 3, len(got))
	// deepest first
	assert.Equal(t, "a/b/c.txt", got[0])
	assert.ElementsMatch(t, []string{"old.txt", "a/d.txt"}, got[1:])
}

func TestExtraneousNothingToRemove(t *testing.T) {
	local := map[string]fs.FileMode{"x": 0644}
	assert.Empty(t, Extraneous(local, []string{"x"}))
	assert.Empty(t, Extraneous(local, nil))
}

func TestCollectLocal(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "objects"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "HEAD"), []byte("ref"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Dockerfile"), []byte("FROM scratch"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "run.sh"), []byte("#!/bin/sh"), 0755))

	files, dirs, err := collectLocal(root)
	require.NoError(t, err)

	assert.Contains(t, files, "Dockerfile")
	assert.Contains(t, files, "src/run.sh")
	assert.NotContains(t, files, ".git/HEAD")
	assert.Equal(t, fs.FileMode(0755), files["src/run.sh"].Perm())

	assert.Equal(t, []string{"src"}, dirs)
}

func TestRelSlash(t *testing.T) {
	assert.Equal(t, ".", relSlash("/opt/app", "/opt/app"))
	assert.Equal(t, "x.txt", relSlash("/opt/app", "/opt/app/x.txt"))
	assert.Equal(t, "a/b", relSlash("/opt/app/", "/opt/app/a/b"))
}
