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

package gui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompt displays a message and reads one line from stdin.
func Prompt(msg string) string {
	fmt.Print(msg)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(input)
}

// PromptForPassword reads a secret from stdin without echoing it back.
func PromptForPassword(msg string) string {
	fmt.Print(msg)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// PromptForConfirmOrAbortError accepts yes / y and returns an aborted error
// on any other answer.
func PromptForConfirmOrAbortError(format string, a ...any) error {
	ans := strings.ToLower(Prompt(fmt.Sprintf(format, a...)))
	switch ans {
	case "y", "yes":
		return nil
	default:
		return errOperationAbort.New("Operation aborted by user (with answer '%s')", ans)
	}
}

// StdPrompter collects deployment parameters interactively. It satisfies the
// config.Prompter interface.
type StdPrompter struct{}

// Input reads a plain value.
func (StdPrompter) Input(label string) string {
	return Prompt(label + ": ")
}

// Secret reads a value that must not be echoed.
func (StdPrompter) Secret(label string) string {
	return PromptForPassword(label + ": ")
}
