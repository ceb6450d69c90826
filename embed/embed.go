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

package embed

import (
	goembed "embed"
	"io/fs"
)

//go:embed templates
var embededFiles goembed.FS

// ReadTemplate read the template file embed.
func ReadTemplate(path string) ([]byte, error) {
	return embededFiles.ReadFile(path)
}

// ReadTemplateDir read the template dirs embed.
func ReadTemplateDir(name string) ([]fs.DirEntry, error) {
	return embededFiles.ReadDir(name)
}
