/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleLineCarriesAttrs(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "console", Console: &buf})
	WithOperation(WithComponent("viewport"), "wheel").Debug("zoom", "scale", 1.5, "note", "two words")

	line := buf.String()
	for _, want := range []string{"DBG", "zoom", "app=roomviz", "component=viewport", "op=wheel", "scale=1.5", `note="two words"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("console line %q missing %q", line, want)
		}
	}
}

func TestLevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Console: &buf})
	L().Info("hidden")
	L().Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "WRN shown") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Format: "json", Console: &buf})
	L().Info("hello", "k", 3)

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("json output not parseable: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "hello" || rec["app"] != "roomviz" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestGroupPrefixesKeys(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Console: &buf})
	L().WithGroup("rig").Info("moved", "x", 10)
	if !strings.Contains(buf.String(), "rig.x=10") {
		t.Fatalf("group prefix missing: %q", buf.String())
	}
}

func TestFileOutputWritesJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roomviz.log")
	var console bytes.Buffer
	Init(Options{Console: &console, File: path})
	L().Error("disk", "code", 7)
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"disk"`) {
		t.Fatalf("file log missing record: %s", data)
	}
	if !strings.Contains(console.String(), "ERR disk") {
		t.Fatalf("console missing record: %q", console.String())
	}
	// Re-init so later tests do not write to the temp dir.
	Init(Options{Console: &console})
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvFormat, "json")
	t.Setenv(EnvSource, "yes")
	t.Setenv(EnvFile, "")
	o := FromEnv()
	if o.Level != "debug" || o.Format != "json" || !o.AddSource || o.File != "" {
		t.Fatalf("FromEnv = %+v", o)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConsoleSourceLocation(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Console: &buf, AddSource: true})
	L().Info("with source")
	if line := buf.String(); !strings.Contains(line, " src=") || !strings.Contains(line, "logger_test.go:") {
		t.Fatalf("console line %q missing source location", line)
	}
}
