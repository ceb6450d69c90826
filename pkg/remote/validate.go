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

	"github.com/shipway/shipway/pkg/pipeline"
	"github.com/shipway/shipway/util"
	"go.uber.org/zap"
)

// ValidateCommand confirms the deployment actually serves: runtime services
// active, container running, proxy answering with 200. Every check runs even
// after an earlier one fails, so one pass reports everything that is wrong.
type ValidateCommand struct{}

func (ValidateCommand) String() string { return "validate deployment" }

func (ValidateCommand) ExitClass() pipeline.ExitClass { return pipeline.ExitValidation }

func (v ValidateCommand) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	checks := []struct {
		name string
		fn   func(context.Context, *pipeline.RunContext) error
	}{
		{"docker service", v.dockerActive},
		{"application container", v.containerRunning},
		{"nginx service", v.nginxActive},
		{"http probe", v.httpProbe},
	}

	var failed []string
	for _, check := range checks {
		if err := check.fn(ctx, rc); err != nil {
			rc.Logger.Error("validation check failed", zap.String("check", check.name), zap.Error(err))
			failed = append(failed, fmt.Sprintf("%s: %v", check.name, err))
		} else {
			rc.Logger.Info("validation check passed", zap.String("check", check.name))
		}
	}
	if len(failed) > 0 {
		return ErrValidateFailed.New("%d of %d checks failed:\n%s", len(failed), len(checks), strings.Join(failed, "\n"))
	}
	return nil
}

func (ValidateCommand) dockerActive(ctx context.Context, rc *pipeline.RunContext) error {
	stdout, _, err := rc.Exec.Execute(ctx, "systemctl is-active docker", true)
	if err != nil || strings.TrimSpace(string(stdout)) != "active" {
		return fmt.Errorf("docker service is not active")
	}
	return nil
}

func (ValidateCommand) containerRunning(ctx context.Context, rc *pipeline.RunContext) error {
	name := rc.Remote.ContainerName
	stdout, _, err := rc.Exec.Execute(ctx,
		fmt.Sprintf("docker ps --filter name=%s --format '{{.Names}}'", name), true)
	if err == nil && strings.Contains(string(stdout), name) {
		return nil
	}
	// list everything that is running or stopped for diagnosis
	if all, _, lerr := rc.Exec.Execute(ctx, "docker ps -a", true); lerr == nil {
		rc.Logger.Info("all containers on host", zap.String("containers", string(all)))
	}
	return fmt.Errorf("no running container named %s", name)
}

func (ValidateCommand) nginxActive(ctx context.Context, rc *pipeline.RunContext) error {
	stdout, _, err := rc.Exec.Execute(ctx, "systemctl is-active nginx", true)
	if err != nil || strings.TrimSpace(string(stdout)) != "active" {
		return fmt.Errorf("nginx service is not active")
	}
	return nil
}

func (ValidateCommand) httpProbe(ctx context.Context, rc *pipeline.RunContext) error {
	stdout, _, err := rc.Exec.Execute(ctx,
		"curl -s -o /dev/null -w '%{http_code}' --max-time 10 http://127.0.0.1:80/", false)
	code := strings.TrimSpace(string(stdout))
	if err == nil && code == "200" {
		return nil
	}
	// capture application logs before reporting, the status alone rarely
	// explains anything
	if logs, _, lerr := rc.Exec.Execute(ctx,
		fmt.Sprintf("docker logs --tail %d %s", util.LogTailSize, rc.Remote.ContainerName), true); lerr == nil {
		rc.Logger.Info("recent container logs", zap.String("logs", string(logs)))
	}
	if err != nil {
		return fmt.Errorf("http probe through the proxy failed: %v", err)
	}
	return fmt.Errorf("http probe returned status %s, want 200", code)
}
