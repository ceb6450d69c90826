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

package executor

import (
	"context"
	"strings"
	"time"
)

// FakeResponse scripts the outcome of commands containing Match.
type FakeResponse struct {
	Match  string
	Stdout string
	Stderr string
	Err    error
}

// FakeExecutor records every command and file transfer and answers from a
// scripted response table. Remote operations are tested against it without
// any SSH connection.
type FakeExecutor struct {
	Responses []FakeResponse

	Commands  []string // every command line, in order
	Sudo      []bool   // sudo flag per command
	Transfers []string // "src -> dst" per transfer

	TransferErr error
}

// Execute implements Executor.
func (f *FakeExecutor) Execute(_ context.Context, cmd string, sudo bool, _ ...time.Duration) ([]byte, []byte, error) {
	f.Commands = append(f.Commands, cmd)
	f.Sudo = append(f.Sudo, sudo)
	for _, r := range f.Responses {
		if strings.Contains(cmd, r.Match) {
			return []byte(r.Stdout), []byte(r.Stderr), r.Err
		}
	}
	return nil, nil, nil
}

// Transfer implements Executor.
func (f *FakeExecutor) Transfer(_ context.Context, src, dst string) error {
	f.Transfers = append(f.Transfers, src+" -> "+dst)
	return f.TransferErr
}

// Ran reports whether any executed command contains the given fragment.
func (f *FakeExecutor) Ran(fragment string) bool {
	for _, c := range f.Commands {
		if strings.Contains(c, fragment) {
			return true
		}
	}
	return false
}
