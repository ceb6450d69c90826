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

package stager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shipway/shipway/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0644))
	}
}

func TestDetectMode(t *testing.T) {
	t.Run("dockerfile only", func(t *testing.T) {
		root := t.TempDir()
		touch(t, root, "Dockerfile")
		mode, err := DetectMode(root)
		require.NoError(t, err)
		assert.Equal(t, util.ModeDockerfile, mode)
	})

	t.Run("compose only", func(t *testing.T) {
		root := t.TempDir()
		touch(t, root, "docker-compose.yml")
		mode, err := DetectMode(root)
		require.NoError(t, err)
		assert.Equal(t, util.ModeCompose, mode)
	})

	t.Run("compose yaml extension", func(t *testing.T) {
		root := t.TempDir()
		touch(t, root, "docker-compose.yaml")
		mode, err := DetectMode(root)
		require.NoError(t, err)
		assert.Equal(t, util.ModeCompose, mode)
	})

	t.Run("short compose names", func(t *testing.T) {
		for _, name := range []string{"compose.yml", "compose.yaml"} {
			root := t.TempDir()
			touch(t, root, name)
			mode, err := DetectMode(root)
			require.NoError(t, err, name)
			assert.Equal(t, util.ModeCompose, mode, name)
		}
	})

	t.Run("dockerfile wins over compose", func(t *testing.T) {
		root := t.TempDir()
		touch(t, root, "Dockerfile", "docker-compose.yml")
		mode, err := DetectMode(root)
		require.NoError(t, err)
		assert.Equal(t, util.ModeDockerfile, mode)
	})

	t.Run("neither artifact", func(t *testing.T) {
		root := t.TempDir()
		touch(t, root, "README.md")
		mode, err := DetectMode(root)
		assert.Equal(t, util.ModeUnknown, mode)
		assert.ErrorIs(t, err, util.ErrNoDeployArtifact)
	})

	t.Run("dockerfile must be a file", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(root, "Dockerfile"), 0755))
		_, err := DetectMode(root)
		assert.ErrorIs(t, err, util.ErrNoDeployArtifact)
	})
}
