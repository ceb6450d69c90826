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
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shipway/shipway/pkg/executor"
	"github.com/shipway/shipway/pkg/pipeline"
	"github.com/shipway/shipway/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noMirror(context.Context, *pipeline.RunContext) error { return nil }

func fastDeploy(mirror MirrorFunc) DeployCommand {
	return DeployCommand{Mirror: mirror, Settle: time.Millisecond}
}

func TestDeployDockerfileFirstRun(t *testing.T) {
	fake := &executor.FakeExecutor{} // ps -aq answers empty, no prior container
	rc := newTestContext(fake)
	rc.Mode = util.ModeDockerfile

	require.NoError(t, fastDeploy(noMirror).Execute(context.Background(), rc))

	assert.True(t, fake.Ran("docker build -t shipway-app /opt/shipway/app"))
	assert.True(t, fake.Ran("docker run -d --name shipway-app --restart unless-stopped -p 3000:3000 shipway-app"))
	// no prior container, nothing to stop
	assert.False(t, fake.Ran("docker stop"))
	for _, sudo := range fake.Sudo {
		assert.True(t, sudo)
	}
}

func TestDeployReplacesPriorContainer(t *testing.T) {
	fake := &executor.FakeExecutor{Responses: []executor.FakeResponse{
		{Match: "docker ps -aq", Stdout: "5f2a9c\n"},
	}}
	rc := newTestContext(fake)

	require.NoError(t, fastDeploy(noMirror).Execute(context.Background(), rc))
	assert.True(t, fake.Ran("docker stop shipway-app"))
	assert.True(t, fake.Ran("docker rm -f shipway-app"))
}

func TestDeployCompose(t *testing.T) {
	fake := &executor.FakeExecutor{}
	rc := newTestContext(fake)
	rc.Mode = util.ModeCompose

	require.NoError(t, fastDeploy(noMirror).Execute(context.Background(), rc))
	assert.True(t, fake.Ran("docker compose down --remove-orphans"))
	assert.True(t, fake.Ran("docker compose pull"))
	assert.True(t, fake.Ran("cd /opt/shipway/app && docker compose up -d --build"))
	assert.False(t, fake.Ran("docker build"))
}

func TestDeployComposeUpFailure(t *testing.T) {
	fake := &executor.FakeExecutor{Responses: []executor.FakeResponse{
		{Match: "docker compose up", Err: errors.New("port is already allocated")},
	}}
	rc := newTestContext(fake)
	rc.Mode = util.ModeCompose

	err := fastDeploy(noMirror).Execute(context.Background(), rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/opt/shipway/app")
}

func TestDeployBuildFailure(t *testing.T) {
	fake := &executor.FakeExecutor{Responses: []executor.FakeResponse{
		{Match: "docker build", Err: errors.New("no such instruction")},
	}}
	rc := newTestContext(fake)

	err := fastDeploy(noMirror).Execute(context.Background(), rc)
	require.Error(t, err)
	assert.False(t, fake.Ran("docker run"))
}

func TestDeployMirrorFailureStopsEverything(t *testing.T) {
	fake := &executor.FakeExecutor{}
	rc := newTestContext(fake)

	failing := func(context.Context, *pipeline.RunContext) error {
		return errors.New("sftp session lost")
	}
	err := fastDeploy(failing).Execute(context.Background(), rc)
	require.Error(t, err)
	assert.Empty(t, fake.Commands)
}

func TestDeployUnknownMode(t *testing.T) {
	fake := &executor.FakeExecutor{}
	rc := newTestContext(fake)
	rc.Mode = util.ModeUnknown

	err := fastDeploy(noMirror).Execute(context.Background(), rc)
	require.Error(t, err)
}
