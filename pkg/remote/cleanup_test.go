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

package remote

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/shipway/shipway/pkg/executor"
	"github.com/shipway/shipway/pkg/pipeline"
	"github.com/shipway/shipway/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cleanupContext points the local staging removal at a throwaway dir.
func cleanupContext(t *testing.T, fake *executor.FakeExecutor) *pipeline.RunContext {
	t.Helper()
	rc := newTestContext(fake)
	rc.StagingDir = filepath.Join(t.TempDir(), "src")
	return rc
}

func TestCleanupRemovesEverything(t *testing.T) {
	fake := &executor.FakeExecutor{}
	rc := cleanupContext(t, fake)

	require.NoError(t, CleanupCommand{}.Execute(context.Background(), rc))

	assert.True(t, fake.Ran("docker stop shipway-app"))
	assert.True(t, fake.Ran("docker rm -f shipway-app"))
	assert.True(t, fake.Ran("docker network rm app_default"))
	assert.True(t, fake.Ran("rm -rf /opt/shipway/app"))
	assert.True(t, fake.Ran("rm -f "+util.NginxEnabledPath))
	assert.True(t, fake.Ran("systemctl reload nginx"))
	for _, sudo := range fake.Sudo {
		assert.True(t, sudo)
	}
}

func TestCleanupRemovesLocalStaging(t *testing.T) {
	fake := &executor.FakeExecutor{}
	rc := cleanupContext(t, fake)

	require.NoError(t, os.MkdirAll(filepath.Join(rc.StagingDir, "app"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(rc.StagingDir, "app", "Dockerfile"), []byte("FROM scratch"), 0644))

	require.NoError(t, CleanupCommand{}.Execute(context.Background(), rc))

	_, err := os.Stat(rc.StagingDir)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanupToleratesAbsentResources(t *testing.T) {
	// an already-clean host answers every step with an error
	fake := &executor.FakeExecutor{Responses: []executor.FakeResponse{
		{Match: "", Err: errors.New("No such container: shipway-app")},
	}}
	rc := cleanupContext(t, fake)

	assert.NoError(t, CleanupCommand{}.Execute(context.Background(), rc))
	// every step was still attempted
	assert.Equal(t, 6, len(fake.Commands))
}

func TestCleanupIsRepeatable(t *testing.T) {
	fake := &executor.FakeExecutor{}
	rc := cleanupContext(t, fake)

	require.NoError(t, CleanupCommand{}.Execute(context.Background(), rc))
	require.NoError(t, CleanupCommand{}.Execute(context.Background(), rc))
	assert.Equal(t, 12, len(fake.Commands))
}
