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

import (
	"errors"

	"github.com/joomcode/errorx"
)

var (
	ErrNoDeployArtifact = errors.New("no Dockerfile or compose manifest in repository root")

	ErrSentinelMismatch = errors.New("remote host did not echo the connect sentinel")
)

// ErrPropSuggestion is attached to user-facing errors; its value is printed
// under the error message as a hint for fixing the problem.
var ErrPropSuggestion = errorx.RegisterPrintableProperty("suggestion")

// ErrTraitPreCheck marks errors raised before anything was changed, locally
// or on the remote host.
var ErrTraitPreCheck = errorx.RegisterTrait("pre_check")
