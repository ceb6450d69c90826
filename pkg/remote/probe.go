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
	"fmt"
	"os/exec"
	"strings"

	"github.com/shipway/shipway/pkg/gui"
	"github.com/shipway/shipway/pkg/pipeline"
	"github.com/shipway/shipway/util"
	"go.uber.org/zap"
)

// ProbeCommand verifies the target host is reachable and the SSH channel
// works. The ICMP check is best-effort: ICMP may legitimately be filtered,
// so its failure is only a warning and cannot distinguish "host down" from
// "host up, ICMP filtered". The SSH sentinel round-trip is mandatory.
type ProbeCommand struct {
	// Ping overrides the ICMP check; nil shells out to the system ping.
	Ping func(ctx context.Context, host string) error
}

func (ProbeCommand) String() string { return "probe connectivity" }

func (ProbeCommand) ExitClass() pipeline.ExitClass { return pipeline.ExitConnectivity }

func (p ProbeCommand) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	ping := p.Ping
	if ping == nil {
		ping = systemPing
	}
	if err := ping(ctx, rc.Config.ServerIP); err != nil {
		rc.Logger.Warn("ICMP probe failed, continuing with SSH check",
			zap.String("host", rc.Config.ServerIP), zap.Error(err))
	}

	stdout, _, err := rc.Exec.Execute(ctx, fmt.Sprintf("echo %s", util.ConnectSentinel), false, util.SSHConnectTimeout)
	if err != nil {
		return ErrProbeFailed.
			Wrap(err, "cannot execute commands on %s@%s", rc.Config.SSHUser, rc.Config.ServerIP).
			WithProperty(gui.SuggestionFromFormat(
				"Check that the host is up, sshd is running and the key %s is authorized for %s.",
				rc.Config.KeyPath(), rc.Config.SSHUser))
	}
	if !strings.Contains(string(stdout), util.ConnectSentinel) {
		return ErrProbeFailed.Wrap(util.ErrSentinelMismatch, "unexpected reply from %s", rc.Config.ServerIP)
	}
	return nil
}

func systemPing(ctx context.Context, host string) error {
	return exec.CommandContext(ctx, "ping", "-c", "1", "-W", "2", host).Run()
}
