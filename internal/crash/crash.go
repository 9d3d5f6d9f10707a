/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic at an entry point into a crash report on disk.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	applog "roomviz/internal/log"
	"roomviz/internal/telemetry"
	"roomviz/internal/version"
)

// exitFn is swapped out by tests.
var exitFn = os.Exit

var (
	mu       sync.Mutex
	dir      string
	uploader *telemetry.Client
)

// Configure sets where reports go and the client used for opt-in uploads.
// An empty dir means os.TempDir().
func Configure(reportDir string, client *telemetry.Client) {
	mu.Lock()
	dir, uploader = reportDir, client
	mu.Unlock()
}

// Recover must be deferred directly. On panic it logs the stack, writes a
// crash-<stamp>.log report (with the output of dump appended when dump is
// non-nil) and exits with status 2.
//
//	defer crash.Recover(ws.DumpState)
func Recover(dump func() []byte) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	var state []byte
	if dump != nil {
		state = safeDump(dump)
	}
	path, err := writeReport(r, stack, state)
	if err != nil {
		l.Error("crash report not written", slog.Any("err", err), slog.String("path", path))
	}
	fmt.Fprintf(os.Stderr, "roomviz crashed. Report: %s\nVersion: %s (%s/%s)\n", path, version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

// safeDump runs dump and swallows a second panic from inside it.
func safeDump(dump func() []byte) (out []byte) {
	defer func() {
		if r := recover(); r != nil {
			out = []byte(fmt.Sprintf("state dump failed: %v\n", r))
		}
	}()
	return dump()
}

func writeReport(panicVal any, stack, state []byte) (string, error) {
	mu.Lock()
	d, up := dir, uploader
	mu.Unlock()
	if d == "" {
		d = os.TempDir()
	}
	path := filepath.Join(d, fmt.Sprintf("crash-%s.log", time.Now().Format("20060102-150405.000")))
	if err := os.MkdirAll(d, 0o755); err != nil {
		return path, fmt.Errorf("create report dir: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "roomviz crash report\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&buf, "\nPanic: %v\n\nStack:\n%s\n", panicVal, stack)
	if len(state) > 0 {
		fmt.Fprintf(&buf, "\nState:\n%s\n", state)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, fmt.Errorf("write crash report: %w", err)
	}
	if up != nil {
		_ = up.UploadCrash(buf.Bytes())
	}
	return path, nil
}
