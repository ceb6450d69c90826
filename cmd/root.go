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
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/shipway/shipway/pkg/pipeline"
	"github.com/spf13/cobra"
)

var flags struct {
	configFile string
	repoURL    string
	branch     string
	sshUser    string
	serverIP   string
	sshKeyPath string
	appPort    int
	yes        bool
	cleanup    bool
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "shipway",
	Short: "One-command deployment of a containerized application to a single host",
	Long: `Shipway deploys a containerized application from a git repository to a
single remote host over SSH: it stages the source locally, provisions the
host with docker and nginx, transfers and starts the application, routes
port 80 to it and validates the result. Run with --cleanup to tear the
deployment down again.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flags.cleanup {
			return runCleanup(cmd)
		}
		return runDeploy(cmd)
	},
}

func init() {
	RootCmd.Flags().StringVarP(&flags.configFile, "config", "f", "", "path to a YAML or TOML deployment config file")
	RootCmd.Flags().StringVar(&flags.repoURL, "repo", "", "repository URL (https://, git@ or ssh://)")
	RootCmd.Flags().StringVarP(&flags.branch, "branch", "b", "", "branch to deploy")
	RootCmd.Flags().StringVarP(&flags.sshUser, "user", "u", "", "user to login to the target host via SSH")
	RootCmd.Flags().StringVarP(&flags.serverIP, "server", "s", "", "IPv4 address of the target host")
	RootCmd.Flags().StringVarP(&flags.sshKeyPath, "key", "k", "", "path of the SSH identity file")
	RootCmd.Flags().IntVarP(&flags.appPort, "port", "p", 0, "port the application listens on inside the host")
	RootCmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "skip the confirmation prompt")
	RootCmd.Flags().BoolVarP(&flags.cleanup, "cleanup", "c", false, "remove the deployment from the host and exit")
}

// ExitError carries the exit class of a failed run up to Execute. The
// failure itself is already reported by the time it is returned.
type ExitError struct {
	Class pipeline.ExitClass
}

func (e *ExitError) Error() string { return e.Class.String() }

// Execute runs the root command and maps the outcome to the process exit
// code contract: 0 success, 1 general, 2 input, 3 connectivity,
// 4 provisioning, 5 deploy, 6 validation.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		var ee *ExitError
		if errors.As(err, &ee) {
			os.Exit(int(ee.Class))
		}
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(int(pipeline.ExitGeneral))
	}
}
