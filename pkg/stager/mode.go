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
	"os"
	"path/filepath"

	"github.com/shipway/shipway/util"
)

var composeManifests = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

// DetectMode inspects the repository root. A Dockerfile wins over a compose
// manifest; with neither present the deployment has nothing to build and
// must stop before any remote interaction.
func DetectMode(root string) (util.DeployMode, error) {
	if fileExists(filepath.Join(root, "Dockerfile")) {
		return util.ModeDockerfile, nil
	}
	for _, name := range composeManifests {
		if fileExists(filepath.Join(root, name)) {
			return util.ModeCompose, nil
		}
	}
	return util.ModeUnknown, util.ErrNoDeployArtifact
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
