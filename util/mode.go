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

package util

// DeployMode tells how the staged application is built and started on the
// remote host.
type DeployMode int

const (
	// ModeUnknown means the staged source has not been inspected yet.
	ModeUnknown DeployMode = iota
	// ModeDockerfile builds a single image from a Dockerfile and runs it.
	ModeDockerfile
	// ModeCompose brings up a multi-service stack from a compose manifest.
	ModeCompose
)

func (m DeployMode) String() string {
	switch m {
	case ModeDockerfile:
		return "dockerfile"
	case ModeCompose:
		return "compose"
	default:
		return "unknown"
	}
}
