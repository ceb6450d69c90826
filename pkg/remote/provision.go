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
	"strings"
	"time"

	"github.com/shipway/shipway/pkg/pipeline"
	"go.uber.org/zap"
)

const (
	provisionTemplate  = "templates/scripts/provision.sh.tpl"
	provisionRemote    = "/tmp/shipway-provision.sh"
	provisionRunWindow = 15 * time.Minute
)

// ProvisionCommand makes sure docker, the compose plugin and nginx are
// installed and running on the target host. The script installs a component
// only when its presence check fails, so re-running against a provisioned
// host changes nothing.
type ProvisionCommand struct{}

func (ProvisionCommand) String() string { return "provision host" }

func (ProvisionCommand) ExitClass() pipeline.ExitClass { return pipeline.ExitProvision }

func (ProvisionCommand) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	local, err := renderTemplate(provisionTemplate, map[string]string{
		"User":   rc.Config.SSHUser,
		"AppDir": rc.Remote.AppDir,
	})
	if err != nil {
		return ErrProvisionFailed.WrapWithNoMessage(err)
	}
	defer os.Remove(local)

	if err := rc.Exec.Transfer(ctx, local, provisionRemote); err != nil {
		return ErrProvisionFailed.Wrap(err, "failed to upload provision script")
	}

	stdout, _, err := rc.Exec.Execute(ctx,
		fmt.Sprintf("bash %s && rm -f %s", provisionRemote, provisionRemote),
		true, provisionRunWindow)
	if err != nil {
		return ErrProvisionFailed.Wrap(err, "failed to provision %s", rc.Config.ServerIP)
	}

	for _, line := range strings.Split(strings.TrimSpace(string(stdout)), "\n") {
		if line != "" {
			rc.Logger.Info("provision", zap.String("line", line))
		}
	}
	return nil
}
