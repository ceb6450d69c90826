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

// Package remote holds the typed remote operations of the pipeline. Each
// operation goes through the single Executor interface, so all of them are
// testable against a scripted fake without a host.
package remote

import (
	"bytes"
	"os"
	"text/template"

	"github.com/joomcode/errorx"
	"github.com/pkg/errors"
	"github.com/shipway/shipway/embed"
)

var (
	errNS = errorx.NewNamespace("remote")

	// ErrProbeFailed means the mandatory SSH round-trip did not succeed.
	ErrProbeFailed = errNS.NewType("probe_failed")
	// ErrProvisionFailed means a required component could not be installed.
	ErrProvisionFailed = errNS.NewType("provision_failed")
	// ErrDeployFailed covers transfer, build and container start failures.
	ErrDeployFailed = errNS.NewType("deploy_failed")
	// ErrProxyFailed covers proxy rule install and syntax check failures.
	ErrProxyFailed = errNS.NewType("proxy_failed")
	// ErrValidateFailed means a post-deploy check did not pass.
	ErrValidateFailed = errNS.NewType("validate_failed")
)

// renderTemplate renders an embedded template to a local temp file and
// returns its path. The caller removes the file.
func renderTemplate(tplPath string, data any) (string, error) {
	raw, err := embed.ReadTemplate(tplPath)
	if err != nil {
		return "", errors.WithMessagef(err, "failed to read template %s", tplPath)
	}
	tpl, err := template.New(tplPath).Parse(string(raw))
	if err != nil {
		return "", errors.WithMessagef(err, "failed to parse template %s", tplPath)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", errors.WithMessagef(err, "failed to render template %s", tplPath)
	}

	f, err := os.CreateTemp("", "shipway-*")
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer f.Close()
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = os.Remove(f.Name())
		return "", errors.WithStack(err)
	}
	return f.Name(), nil
}
