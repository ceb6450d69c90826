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

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/shipway/shipway/pkg/config"
	"github.com/shipway/shipway/pkg/executor"
	"github.com/shipway/shipway/pkg/gui"
	"github.com/shipway/shipway/pkg/logger"
	"github.com/shipway/shipway/pkg/pipeline"
	"github.com/shipway/shipway/pkg/remote"
	"github.com/shipway/shipway/pkg/stager"
	"github.com/shipway/shipway/pkg/transfer"
	"github.com/shipway/shipway/util"
	"github.com/spf13/cobra"
)

func runDeploy(cmd *cobra.Command) error {
	rc, closeLog, err := prepareRun(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	if !flags.yes {
		if err := confirmDeployment(rc.Config); err != nil {
			fmt.Println(err)
			return &ExitError{Class: pipeline.ExitGeneral}
		}
	}

	runner := pipeline.NewRunner(
		stager.SourceStage{},
		remote.ProbeCommand{},
		remote.ProvisionCommand{},
		remote.DeployCommand{Mirror: mirrorViaSFTP},
		remote.ProxyCommand{},
		remote.ValidateCommand{},
	)

	results, class := runner.Run(cmd.Context(), rc)
	pipeline.PrintSummary(results, class, rc.LogPath)

	if class != pipeline.ExitOK {
		return &ExitError{Class: class}
	}

	// reuse everything except the token as defaults next time
	if err := config.SaveLast(rc.Config); err != nil {
		rc.Logger.Warn(fmt.Sprintf("failed to save run parameters: %v", err))
	}
	fmt.Printf("Application is serving at %s\n", color.CyanString("http://%s/", rc.Config.ServerIP))
	return nil
}

// prepareRun assembles the validated config, opens the run log and builds
// the run context with its SSH executor.
func prepareRun(cmd *cobra.Command) (*pipeline.RunContext, func(), error) {
	cfg, err := baseConfig()
	if err != nil {
		return nil, nil, err
	}
	applyFlagOverrides(cfg)

	lg, logPath, closeLog, err := logger.Init(util.LogDir())
	if err != nil {
		return nil, nil, err
	}

	if err := config.Collect(cfg, gui.StdPrompter{}); err != nil {
		fmt.Println(color.RedString("Invalid deployment parameters: %v", err))
		closeLog()
		return nil, nil, &ExitError{Class: pipeline.ExitInput}
	}

	rc := pipeline.NewRunContext(cfg, lg, logPath)
	exec, err := executor.New(false, executor.SSHConfig{
		Host:       cfg.ServerIP,
		Port:       util.SSHPort,
		User:       cfg.SSHUser,
		KeyFile:    cfg.KeyPath(),
		Timeout:    util.SSHConnectTimeout,
		ExeTimeout: util.SSHExecuteTimeout,
	})
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	rc.Exec = exec
	return rc, closeLog, nil
}

func baseConfig() (*config.DeploymentConfig, error) {
	if flags.configFile != "" {
		return config.Load(flags.configFile)
	}
	return config.LoadLast(), nil
}

func applyFlagOverrides(cfg *config.DeploymentConfig) {
	if flags.repoURL != "" {
		cfg.RepoURL = flags.repoURL
	}
	if flags.branch != "" {
		cfg.Branch = flags.branch
	}
	if flags.sshUser != "" {
		cfg.SSHUser = flags.sshUser
	}
	if flags.serverIP != "" {
		cfg.ServerIP = flags.serverIP
	}
	if flags.sshKeyPath != "" {
		cfg.SSHKeyPath = flags.sshKeyPath
	}
	if flags.appPort != 0 {
		cfg.AppPort = flags.appPort
	}
	if tok := tokenFromEnv(); tok != "" && cfg.Token == "" {
		cfg.Token = tok
	}
}

// tokenFromEnv lets CI pass the access token without a prompt.
func tokenFromEnv() string {
	return os.Getenv("SHIPWAY_TOKEN")
}

func confirmDeployment(cfg *config.DeploymentConfig) error {
	fmt.Println("Please confirm your deployment:")
	gui.PrintTable([][]string{
		{"Repository", "Branch", "Target", "App port"},
		{config.RedactURL(cfg.RepoURL), cfg.Branch, cfg.SSHUser + "@" + cfg.ServerIP, strconv.Itoa(cfg.AppPort)},
	}, true)
	return gui.PromptForConfirmOrAbortError("Do you want to continue? [y/N]: ")
}

// mirrorViaSFTP is the production MirrorFunc of the deploy stage.
func mirrorViaSFTP(ctx context.Context, rc *pipeline.RunContext) error {
	client, err := transfer.NewClient(rc.Config.ServerIP, util.SSHPort, rc.Config.SSHUser, rc.Config.KeyPath())
	if err != nil {
		return err
	}
	defer client.Close()
	return client.MirrorTree(ctx, rc.SrcPath, rc.Remote.AppDir)
}
