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
	"github.com/shipway/shipway/pkg/config"
	"github.com/shipway/shipway/pkg/executor"
	"github.com/shipway/shipway/pkg/pipeline"
	"github.com/shipway/shipway/util"
	"go.uber.org/zap"
)

func newTestContext(fake *executor.FakeExecutor) *pipeline.RunContext {
	cfg := config.New()
	cfg.RepoURL = "https://github.com/acme/app.git"
	cfg.ServerIP = "10.0.0.5"
	cfg.Token = "tok"

	rc := pipeline.NewRunContext(cfg, zap.NewNop(), "/tmp/test.log")
	rc.Exec = fake
	rc.Mode = util.ModeDockerfile
	rc.SrcPath = "/tmp/src"
	return rc
}
