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

package pipeline

import (
	"github.com/shipway/shipway/pkg/config"
	"github.com/shipway/shipway/pkg/executor"
	"github.com/shipway/shipway/util"
	"go.uber.org/zap"
)

// RemoteState is the identity of everything a deployment leaves on the
// target host. The fixed names are what make a later run able to find and
// replace a previous instance.
type RemoteState struct {
	ContainerName   string
	NetworkName     string
	AppDir          string
	ProxyConfigPath string
}

// RunContext is the single mutable object threaded through every stage of a
// run. It is created once at pipeline start; the log file it references is
// flushed on every exit path.
type RunContext struct {
	Config  *config.DeploymentConfig
	Logger  *zap.Logger
	LogPath string

	// set by the source stage
	SrcPath string
	Mode    util.DeployMode

	// StagingDir is the local directory holding staged working copies; zero
	// means the default under ~/.shipway.
	StagingDir string

	Remote RemoteState
	Exec   executor.Executor
}

// NewRunContext builds a run context with the fixed remote identity.
func NewRunContext(cfg *config.DeploymentConfig, logger *zap.Logger, logPath string) *RunContext {
	return &RunContext{
		Config:  cfg,
		Logger:  logger,
		LogPath: logPath,
		Remote: RemoteState{
			ContainerName:   util.AppName,
			NetworkName:     util.NetworkName,
			AppDir:          util.RemoteAppDir,
			ProxyConfigPath: util.NginxAvailablePath,
		},
	}
}
