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

// ExitClass is the numeric category of a pipeline-terminating failure. The
// first failing stage's class becomes the process exit code, so callers can
// script against it.
type ExitClass int

const (
	ExitOK           ExitClass = 0
	ExitGeneral      ExitClass = 1 // missing deploy artifacts, unexpected error
	ExitInput        ExitClass = 2 // rejected deployment parameter
	ExitConnectivity ExitClass = 3
	ExitProvision    ExitClass = 4
	ExitDeploy       ExitClass = 5
	ExitValidation   ExitClass = 6
)

func (c ExitClass) String() string {
	switch c {
	case ExitOK:
		return "success"
	case ExitGeneral:
		return "general failure"
	case ExitInput:
		return "input validation failure"
	case ExitConnectivity:
		return "connectivity failure"
	case ExitProvision:
		return "remote provisioning failure"
	case ExitDeploy:
		return "deploy failure"
	case ExitValidation:
		return "post-deploy validation failure"
	default:
		return "unknown failure"
	}
}
