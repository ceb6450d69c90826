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
	"os"
	"path/filepath"
	"time"
)

// Application identity. Every remote resource (container, image, compose
// network, proxy rule) is keyed by AppName so that a later run can always
// find and replace what a previous run left behind.
const (
	AppName = "shipway-app"

	// compose derives its default network from the remote app directory name
	NetworkName = "app_default"
)

// remote
const (
	RemoteAppDir = "/opt/shipway/app"

	NginxAvailablePath = "/etc/nginx/sites-available/" + AppName + ".conf"
	NginxEnabledPath   = "/etc/nginx/sites-enabled/" + AppName + ".conf"
	NginxDefaultSite   = "/etc/nginx/sites-enabled/default"
)

// connectivity
const (
	ConnectSentinel = "shipway-conn-ok"

	SSHConnectTimeout = 10 * time.Second
	SSHExecuteTimeout = 10 * time.Minute
	SSHPort           = 22
)

// deploy
const (
	SettleDelay = 5 * time.Second
	LogTailSize = 40
)

// local workspace layout, everything lives under ~/.shipway
const (
	baseDirName = ".shipway"

	LogDirName   = "logs"
	SrcDirName   = "src"
	LastRunsFile = "last.yaml"
)

// BaseDir returns the local state directory, creating it if needed.
func BaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, baseDirName)
	_ = os.MkdirAll(dir, 0750)
	return dir
}

// LogDir returns the directory holding per-run log files.
func LogDir() string {
	dir := filepath.Join(BaseDir(), LogDirName)
	_ = os.MkdirAll(dir, 0750)
	return dir
}

// SrcDir returns the directory holding staged working copies.
func SrcDir() string {
	dir := filepath.Join(BaseDir(), SrcDirName)
	_ = os.MkdirAll(dir, 0750)
	return dir
}
