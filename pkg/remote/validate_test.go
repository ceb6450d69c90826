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

	"github.com/pkg/errors"
	"github.com/shipway/shipway/pkg/executor"
	"github.com/shipway/shipway/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthyResponses() []executor.FakeResponse {
	return []executor.FakeResponse{
		{Match: "systemctl is-active", Stdout: "active\n"},
		{Match: "docker ps --filter", Stdout: util.AppName + "\n"},
		{Match: "curl", Stdout: "200"},
	}
}

func TestValidateAllChecksPass(t *testing.T) {
	fake := &executor.FakeExecutor{Responses: healthyResponses()}
	rc := newTestContext(fake)

	require.NoError(t, ValidateCommand{}.Execute(context.Background(), rc))

	// the http probe runs as the plain user, everything else needs sudo
	require.Equal(t, 4, len(fake.Commands))
	assert.False(t, fake.Sudo[3])
	assert.True(t, fake.Sudo[0])
}

func TestValidateReportsEveryFailure(t *testing.T) {
	// docker inactive, container missing, nginx active, probe 502
	fake := &executor.FakeExecutor{Responses: []executor.FakeResponse{
		{Match: "is-active docker", Stdout: "inactive\n"},
		{Match: "is-active nginx", Stdout: "active\n"},
		{Match: "docker ps --filter", Stdout: ""},
		{Match: "curl", Stdout: "502"},
	}}
	rc := newTestContext(fake)

	err := ValidateCommand{}.Execute(context.Background(), rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 of 4 checks failed")
	assert.Contains(t, err.Error(), "docker service")
	assert.Contains(t, err.Error(), "application container")
	assert.Contains(t, err.Error(), "502")
	assert.NotContains(t, err.Error(), "nginx service is not active")

	// a later check still ran after an earlier failure
	assert.True(t, fake.Ran("curl"))
}

func TestValidateMissingContainerListsAll(t *testing.T) {
	responses := healthyResponses()
	responses[1] = executor.FakeResponse{Match: "docker ps --filter", Stdout: ""}
	fake := &executor.FakeExecutor{Responses: responses}
	rc := newTestContext(fake)

	err := ValidateCommand{}.Execute(context.Background(), rc)
	require.Error(t, err)
	assert.True(t, fake.Ran("docker ps -a"))
}

func TestValidateProbeFailureFetchesLogs(t *testing.T) {
	responses := healthyResponses()
	responses[2] = executor.FakeResponse{Match: "curl", Err: errors.New("exit status 7")}
	fake := &executor.FakeExecutor{Responses: responses}
	rc := newTestContext(fake)

	err := ValidateCommand{}.Execute(context.Background(), rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 4 checks failed")
	assert.True(t, fake.Ran("docker logs --tail"))
}
