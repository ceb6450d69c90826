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
	"fmt"
	"os"
	"strings"

	"github.com/joomcode/errorx"
	"github.com/olekukonko/tablewriter"
	"github.com/shipway/shipway/util"
)

var (
	errNS             = errorx.NewNamespace("gui")
	errOperationAbort = errNS.NewType("operation_aborted", util.ErrTraitPreCheck)
)

// SuggestionFromString creates a suggestion from string.
// Usage: SomeErrorX.WithProperty(SuggestionFromString(..))
func SuggestionFromString(str string) (errorx.Property, string) {
	return util.ErrPropSuggestion, strings.TrimSpace(str)
}

// SuggestionFromFormat creates a suggestion from a format.
// Usage: SomeErrorX.WithProperty(SuggestionFromFormat(..))
func SuggestionFromFormat(format string, a ...any) (errorx.Property, string) {
	s := fmt.Sprintf(format, a...)
	return SuggestionFromString(s)
}

// PrintTable renders rows to stdout, treating the first row as a header when
// header is true.
func PrintTable(rows [][]string, header bool) {
	if len(rows) == 0 {
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetColWidth(100)
	if header {
		table.SetHeader(rows[0])
		rows = rows[1:]
	}
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}
