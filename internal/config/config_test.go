/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	t.Setenv(EnvConfigFile, path)
	for _, o := range overrides {
		t.Setenv(o.env, "")
	}
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("cfg = %#v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := isolate(t)
	want := Defaults()
	want.Canvas.ZoomSensitivity = 0.002
	want.Editor.PresetDir = "/srv/presets"
	want.Export.Format = "webp"
	want.General.TelemetryOptIn = true
	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("got %#v\nwant %#v", got, want)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := isolate(t)
	if err := os.WriteFile(path, []byte("canvas:\n  zoom_step: 0.5\nlogging:\n  level: DEBUG\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Canvas.ZoomStep != 0.5 || cfg.Canvas.ZoomSensitivity != 0.001 || cfg.Canvas.CardWidth != 400 {
		t.Fatalf("canvas = %#v", cfg.Canvas)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("logging = %#v", cfg.Logging)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvTelemetryOptIn, "yes")
	t.Setenv(EnvZoomSensitivity, "0.004")
	t.Setenv(EnvExportFormat, "PDF")
	t.Setenv(EnvLogFile, "/tmp/rvz.log")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.General.TelemetryOptIn || cfg.Canvas.ZoomSensitivity != 0.004 || cfg.Export.Format != "pdf" || cfg.Logging.File != "/tmp/rvz.log" {
		t.Fatalf("overrides not applied: %#v", cfg)
	}
	if env, ok := EnvOverrideFor("canvas.zoom_sensitivity"); !ok || env != EnvZoomSensitivity {
		t.Fatalf("EnvOverrideFor = %q %v", env, ok)
	}
	if _, ok := EnvOverrideFor("editor.preset_dir"); ok {
		t.Fatal("unset env reported as override")
	}
}

func TestBadEnvNumber(t *testing.T) {
	isolate(t)
	t.Setenv(EnvZoomSensitivity, "fast")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), EnvZoomSensitivity) {
		t.Fatalf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	c := Defaults()
	c.Export.Format = "bmp"
	c.Export.Supersample = 0
	c.Canvas.ZoomStep = -1
	err := c.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"export.format", "supersample", "zoom_step"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestCorruptFile(t *testing.T) {
	path := isolate(t)
	if err := os.WriteFile(path, []byte("canvas: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDirHonorsXDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG only applies on unix-like systems")
	}
	x := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", x)
	d, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if d != filepath.Join(x, "roomviz") {
		t.Fatalf("dir = %q", d)
	}
}
