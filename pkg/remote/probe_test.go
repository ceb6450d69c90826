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

func okPing(context.Context, string) error   { return nil }
func downPing(context.Context, string) error { return errors.New("100% packet loss") }

func TestProbeSentinelEchoed(t *testing.T) {
	fake := &executor.FakeExecutor{Responses: []executor.FakeResponse{
		{Match: "echo", Stdout: util.ConnectSentinel + "\n"},
	}}
	cmd := ProbeCommand{Ping: okPing}

	require.NoError(t, cmd.Execute(context.Background(), newTestContext(fake)))
	assert.True(t, fake.Ran(util.ConnectSentinel))
	// the sentinel echo needs no privileges
	require.Equal(t, 1, len(fake.Sudo))
	assert.False(t, fake.Sudo[0])
}

func TestProbeICMPFailureIsTolerated(t *testing.T) {
	fake := &executor.FakeExecutor{Responses: []executor.FakeResponse{
		{Match: "echo", Stdout: util.ConnectSentinel},
	}}
	cmd := ProbeCommand{Ping: downPing}

	assert.NoError(t, cmd.Execute(context.Background(), newTestContext(fake)))
}

func TestProbeSSHFailure(t *testing.T) {
	fake := &executor.FakeExecutor{Responses: []executor.FakeResponse{
		{Match: "echo", Err: errors.New("connection refused")},
	}}
	cmd := ProbeCommand{Ping: okPing}

	err := cmd.Execute(context.Background(), newTestContext(fake))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10.0.0.5")
}

func TestProbeSentinelMismatch(t *testing.T) {
	fake := &executor.FakeExecutor{Responses: []executor.FakeResponse{
		{Match: "echo", Stdout: "Welcome banner, no sentinel here"},
	}}
	cmd := ProbeCommand{Ping: okPing}

	err := cmd.Execute(context.Background(), newTestContext(fake))
	require.Error(t, err)
	assert.Contains(t, err.Error(), util.ErrSentinelMismatch.Error())
}
