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
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/shipway/shipway/pkg/gui"
	"github.com/shipway/shipway/pkg/gui/progress"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type (
	// Stage is one gated step of a deployment run.
	Stage interface {
		fmt.Stringer
		// ExitClass is the failure category this stage maps to when it aborts
		// the run.
		ExitClass() ExitClass
		Execute(ctx context.Context, rc *RunContext) error
	}

	// StageResult is what the orchestrator records per stage to decide
	// continue or abort.
	StageResult struct {
		StageName string
		Succeeded bool
		ExitClass ExitClass
		Message   string
	}
)

// Runner executes stages strictly in order. The first failure aborts the
// run; no stage is retried.
type Runner struct {
	stages []Stage
}

// NewRunner builds a Runner over the given stages.
func NewRunner(stages ...Stage) *Runner {
	return &Runner{stages: stages}
}

// Run executes every stage until one fails. It returns the per-stage
// results and the exit class of the run.
func (r *Runner) Run(ctx context.Context, rc *RunContext) ([]StageResult, ExitClass) {
	var results []StageResult
	for _, s := range r.stages {
		err := r.execute(ctx, s, rc)
		if err != nil {
			rc.Logger.Error("stage failed",
				zap.String("stage", s.String()),
				zap.Int("exit_class", int(s.ExitClass())),
				zap.Error(err))
			results = append(results, StageResult{
				StageName: s.String(),
				Succeeded: false,
				ExitClass: s.ExitClass(),
				Message:   err.Error(),
			})
			return results, s.ExitClass()
		}
		rc.Logger.Info("stage succeeded", zap.String("stage", s.String()))
		results = append(results, StageResult{
			StageName: s.String(),
			Succeeded: true,
			ExitClass: ExitOK,
			Message:   "ok",
		})
	}
	return results, ExitOK
}

func (r *Runner) execute(ctx context.Context, s Stage, rc *RunContext) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("+ [ Serial ] - %s\n", s.String())
		return s.Execute(ctx, rc)
	}

	p := progress.NewSpinnerProgram(fmt.Sprintf("+ %s", s.String()))
	go p.Run() // nolint:errcheck
	err := s.Execute(ctx, rc)
	if err != nil {
		p.Send(progress.ErrMsg{Err: err})
	} else {
		p.Send(progress.FinishedMsg{Finished: true})
	}
	p.Wait()
	return err
}

// PrintSummary renders the stage result table and the final status line.
// The log file path is always referenced so failures are diagnosable after
// the fact.
func PrintSummary(results []StageResult, class ExitClass, logPath string) {
	rows := [][]string{{"Stage", "Result", "Message"}}
	for _, res := range results {
		status := color.GreenString("ok")
		if !res.Succeeded {
			status = color.RedString("failed")
		}
		rows = append(rows, []string{res.StageName, status, res.Message})
	}
	gui.PrintTable(rows, true)

	if class == ExitOK {
		fmt.Printf("%s Full log: %s\n", color.GreenString("All stages completed."), logPath)
	} else {
		fmt.Printf("%s (exit %d, %s) Full log: %s\n",
			color.RedString("Pipeline aborted."), int(class), class, logPath)
	}
}
