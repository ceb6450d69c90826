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

	"github.com/fatih/color"
	"github.com/shipway/shipway/pkg/gui"
	"github.com/shipway/shipway/pkg/pipeline"
	"github.com/shipway/shipway/pkg/remote"
	"github.com/spf13/cobra"
)

// runCleanup tears the deployment down instead of running the pipeline.
// Re-running it against an already-clean host succeeds as a no-op.
func runCleanup(cmd *cobra.Command) error {
	rc, closeLog, err := prepareRun(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	if !flags.yes {
		if err := gui.PromptForConfirmOrAbortError(
			"This removes the %s container, its sources and the proxy rule from %s. Continue? [y/N]: ",
			rc.Remote.ContainerName, rc.Config.ServerIP); err != nil {
			fmt.Println(err)
			return &ExitError{Class: pipeline.ExitGeneral}
		}
	}

	runner := pipeline.NewRunner(
		remote.ProbeCommand{},
		remote.CleanupCommand{},
	)
	results, class := runner.Run(cmd.Context(), rc)
	pipeline.PrintSummary(results, class, rc.LogPath)

	if class != pipeline.ExitOK {
		return &ExitError{Class: class}
	}
	fmt.Println(color.GreenString("Cleanup finished, the host is back to a clean state."))
	return nil
}
