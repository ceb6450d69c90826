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

	"github.com/shipway/shipway/pkg/gui"
	"github.com/shipway/shipway/pkg/pipeline"
	"github.com/shipway/shipway/util"
)

const (
	nginxTemplate  = "templates/nginx/app.conf.tpl"
	proxyRemoteTmp = "/tmp/" + util.AppName + ".conf"
)

// ProxyCommand installs the nginx rule routing port 80 to the application
// port and reloads nginx, but only after the full configuration passes the
// syntax check. On a failed check the previously active configuration stays
// loaded.
type ProxyCommand struct{}

func (ProxyCommand) String() string { return "configure reverse proxy" }

// A broken proxy rule is a setup problem, not a deploy or validation one.
func (ProxyCommand) ExitClass() pipeline.ExitClass { return pipeline.ExitGeneral }

func (ProxyCommand) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	local, err := renderTemplate(nginxTemplate, map[string]int{"Port": rc.Config.AppPort})
	if err != nil {
		return ErrProxyFailed.WrapWithNoMessage(err)
	}
	defer os.Remove(local)

	if err := rc.Exec.Transfer(ctx, local, proxyRemoteTmp); err != nil {
		return ErrProxyFailed.Wrap(err, "failed to upload proxy rule")
	}

	steps := []string{
		fmt.Sprintf("install -m 0644 %s %s", proxyRemoteTmp, util.NginxAvailablePath),
		fmt.Sprintf("ln -sf %s %s", util.NginxAvailablePath, util.NginxEnabledPath),
		fmt.Sprintf("rm -f %s %s", util.NginxDefaultSite, proxyRemoteTmp),
	}
	for _, step := range steps {
		if _, _, err := rc.Exec.Execute(ctx, step, true); err != nil {
			return ErrProxyFailed.Wrap(err, "failed to install proxy rule")
		}
	}

	if _, _, err := rc.Exec.Execute(ctx, "nginx -t", true); err != nil {
		// never reload over a broken config, the previous one keeps serving
		return ErrProxyFailed.
			Wrap(err, "proxy configuration failed the syntax check, nginx was not reloaded").
			WithProperty(gui.SuggestionFromFormat("Inspect %s on the host, the previous configuration is still active.", util.NginxAvailablePath))
	}

	if _, _, err := rc.Exec.Execute(ctx, "systemctl reload nginx", true); err != nil {
		return ErrProxyFailed.Wrap(err, "failed to reload nginx")
	}
	return nil
}
