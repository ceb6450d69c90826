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

package logger

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init opens the per-run log file under dir and installs a global zap logger
// writing to both the console (info and up) and the file (debug and up).
// It returns the logger, the log file path and a flush function that must run
// on every exit path.
func Init(dir string) (*zap.Logger, string, func(), error) {
	logPath := filepath.Join(dir, "shipway-"+time.Now().Format("20060102-150405")+".log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, "", nil, errors.WithMessagef(err, "failed to open log file %s", logPath)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCfg := encCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleCfg.TimeKey = "" // timestamps only in the file

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), zapcore.InfoLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(f), zapcore.DebugLevel),
	)

	lg := zap.New(core)
	undo := zap.ReplaceGlobals(lg)

	closeFn := func() {
		_ = lg.Sync()
		undo()
		_ = f.Close()
	}
	return lg, logPath, closeFn, nil
}
