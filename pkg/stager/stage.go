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

package stager

import (
	"context"

	"github.com/shipway/shipway/pkg/pipeline"
)

// SourceStage stages the repository locally and records the result on the
// run context. It runs before any remote interaction: a repository with no
// deploy artifact stops the pipeline here.
type SourceStage struct{}

func (SourceStage) String() string { return "stage source" }

func (SourceStage) ExitClass() pipeline.ExitClass { return pipeline.ExitGeneral }

func (SourceStage) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	path, mode, err := Stage(ctx, rc.Config)
	if err != nil {
		return err
	}
	rc.SrcPath = path
	rc.Mode = mode
	return nil
}
