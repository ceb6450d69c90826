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
	"strings"
	"time"

	"github.com/shipway/shipway/pkg/pipeline"
	"github.com/shipway/shipway/util"
	"go.uber.org/zap"
)

// MirrorFunc transfers the staged source tree to the remote application
// directory. The production implementation is the transfer package; tests
// substitute a stub.
type MirrorFunc func(ctx context.Context, rc *pipeline.RunContext) error

// DeployCommand mirrors the staged source to the host and reconciles the
// running application to it: a prior container under the fixed name is
// replaced, an absent one is simply created.
type DeployCommand struct {
	Mirror MirrorFunc
	// Settle is how long to wait before collecting diagnostics; zero means
	// the default.
	Settle time.Duration
}

func (DeployCommand) String() string { return "deploy application" }

func (DeployCommand) ExitClass() pipeline.ExitClass { return pipeline.ExitDeploy }

func (d DeployCommand) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	if err := d.Mirror(ctx, rc); err != nil {
		return ErrDeployFailed.Wrap(err, "failed to transfer source to %s", rc.Remote.AppDir)
	}

	d.replacePrior(ctx, rc)

	var err error
	switch rc.Mode {
	case util.ModeCompose:
		err = d.composeUp(ctx, rc)
	case util.ModeDockerfile:
		err = d.dockerRun(ctx, rc)
	default:
		return ErrDeployFailed.New("no deploy mode resolved for %s", rc.SrcPath)
	}
	if err != nil {
		return err
	}

	settle := d.Settle
	if settle == 0 {
		settle = util.SettleDelay
	}
	time.Sleep(settle)
	d.diagnostics(ctx, rc)
	return nil
}

// replacePrior stops and removes a container left by an earlier run. Absence
// is the normal case on a first deploy and not an error.
func (DeployCommand) replacePrior(ctx context.Context, rc *pipeline.RunContext) {
	name := rc.Remote.ContainerName
	stdout, _, err := rc.Exec.Execute(ctx, fmt.Sprintf("docker ps -aq --filter name=%s", name), true)
	if err != nil || strings.TrimSpace(string(stdout)) == "" {
		return
	}
	rc.Logger.Info("replacing prior container", zap.String("name", name))
	_, _, _ = rc.Exec.Execute(ctx, fmt.Sprintf("docker stop %s", name), true)
	_, _, _ = rc.Exec.Execute(ctx, fmt.Sprintf("docker rm -f %s", name), true)
}

func (DeployCommand) composeUp(ctx context.Context, rc *pipeline.RunContext) error {
	dir := rc.Remote.AppDir
	// absence of a prior stack is fine
	_, _, _ = rc.Exec.Execute(ctx, fmt.Sprintf("cd %s && docker compose down --remove-orphans", dir), true)
	// pull is best-effort, locally built images have nothing to pull
	_, _, _ = rc.Exec.Execute(ctx, fmt.Sprintf("cd %s && docker compose pull", dir), true, util.SSHExecuteTimeout)

	_, _, err := rc.Exec.Execute(ctx, fmt.Sprintf("cd %s && docker compose up -d --build", dir), true, util.SSHExecuteTimeout)
	if err != nil {
		return ErrDeployFailed.Wrap(err, "failed to start compose stack in %s", dir)
	}
	return nil
}

func (DeployCommand) dockerRun(ctx context.Context, rc *pipeline.RunContext) error {
	name := rc.Remote.ContainerName
	port := rc.Config.AppPort

	_, _, err := rc.Exec.Execute(ctx, fmt.Sprintf("docker build -t %s %s", name, rc.Remote.AppDir), true, util.SSHExecuteTimeout)
	if err != nil {
		return ErrDeployFailed.Wrap(err, "failed to build image %s", name)
	}

	_, _, err = rc.Exec.Execute(ctx,
		fmt.Sprintf("docker run -d --name %s --restart unless-stopped -p %d:%d %s", name, port, port, name),
		true)
	if err != nil {
		return ErrDeployFailed.Wrap(err, "failed to run container %s", name)
	}
	return nil
}

// diagnostics surfaces container status and recent logs. The container may
// still be starting, so nothing here is fatal.
func (DeployCommand) diagnostics(ctx context.Context, rc *pipeline.RunContext) {
	name := rc.Remote.ContainerName
	if out, _, err := rc.Exec.Execute(ctx,
		fmt.Sprintf("docker ps --filter name=%s --format '{{.Names}} {{.Status}}'", name), true); err == nil {
		rc.Logger.Info("container status", zap.String("status", strings.TrimSpace(string(out))))
	}
	if out, _, err := rc.Exec.Execute(ctx,
		fmt.Sprintf("docker logs --tail %d %s", util.LogTailSize, name), true); err == nil {
		rc.Logger.Info("recent container logs", zap.String("logs", string(out)))
	} else {
		rc.Logger.Warn("container logs not available yet", zap.String("name", name))
	}
}
