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
	"os"

	"github.com/shipway/shipway/pkg/pipeline"
	"github.com/shipway/shipway/util"
	"go.uber.org/zap"
)

// CleanupCommand is the exact inverse of deploy and proxy configuration:
// container, network, application directory and proxy rule all go away.
// Every step tolerates the resource being absent already, so cleaning an
// already-clean host is a no-op.
type CleanupCommand struct{}

func (CleanupCommand) String() string { return "cleanup" }

func (CleanupCommand) ExitClass() pipeline.ExitClass { return pipeline.ExitGeneral }

func (CleanupCommand) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	steps := []struct {
		what string
		cmd  string
	}{
		{"stop container", fmt.Sprintf("docker stop %s", rc.Remote.ContainerName)},
		{"remove container", fmt.Sprintf("docker rm -f %s", rc.Remote.ContainerName)},
		{"remove network", fmt.Sprintf("docker network rm %s", rc.Remote.NetworkName)},
		{"remove application directory", fmt.Sprintf("rm -rf %s", rc.Remote.AppDir)},
		{"remove proxy rule", fmt.Sprintf("rm -f %s %s", util.NginxEnabledPath, util.NginxAvailablePath)},
		// the rule is already gone, a failed reload here is tolerable
		{"reload nginx", "systemctl reload nginx"},
	}

	for _, step := range steps {
		if _, _, err := rc.Exec.Execute(ctx, step.cmd, true); err != nil {
			rc.Logger.Info("cleanup step skipped, resource absent",
				zap.String("step", step.what), zap.Error(err))
		} else {
			rc.Logger.Info("cleanup step done", zap.String("step", step.what))
		}
	}

	staging := rc.StagingDir
	if staging == "" {
		staging = util.SrcDir()
	}
	if err := os.RemoveAll(staging); err != nil {
		rc.Logger.Warn("failed to remove local staging directory", zap.Error(err))
	}
	return nil
}
