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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user configuration stored as YAML in the per-user config
// directory. Environment variables override file values at runtime and are
// never written back.

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
}

type CanvasConfig struct {
	ZoomSensitivity float64 `yaml:"zoom_sensitivity"`
	ZoomStep        float64 `yaml:"zoom_step"`
	CardWidth       float64 `yaml:"card_width"`
	CardHeight      float64 `yaml:"card_height"`
}

type EditorConfig struct {
	PresetDir string `yaml:"preset_dir"`
}

type ExportConfig struct {
	OutputDir   string `yaml:"output_dir"`
	Supersample int    `yaml:"supersample"`
	Format      string `yaml:"format"` // png | webp | svg | pdf
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Editor        EditorConfig  `yaml:"editor"`
	Export        ExportConfig  `yaml:"export"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults. Cards are 400 wide: a 4:3
// image plus a 40 unit caption strip.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "system"},
		Canvas:        CanvasConfig{ZoomSensitivity: 0.001, ZoomStep: 0.2, CardWidth: 400, CardHeight: 340},
		Export:        ExportConfig{OutputDir: ".", Supersample: 2, Format: "png"},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile      = "RVZ_CONFIG"
	EnvTelemetryOptIn  = "RVZ_TELEMETRY_OPT_IN"
	EnvTheme           = "RVZ_THEME"
	EnvZoomSensitivity = "RVZ_ZOOM_SENSITIVITY"
	EnvPresetDir       = "RVZ_PRESET_DIR"
	EnvExportDir       = "RVZ_EXPORT_DIR"
	EnvExportFormat    = "RVZ_EXPORT_FORMAT"
	EnvLogLevel        = "RVZ_LOG_LEVEL"
	EnvLogFormat       = "RVZ_LOG_FORMAT"
	EnvLogSource       = "RVZ_LOG_SOURCE"
	EnvLogFile         = "RVZ_LOG_FILE"
)

// override binds one env var to one config key.
type override struct {
	key   string
	env   string
	apply func(cfg *AppConfig, v string) error
}

var overrides = []override{
	{"general.telemetry_opt_in", EnvTelemetryOptIn, func(c *AppConfig, v string) error {
		c.General.TelemetryOptIn = parseBool(v)
		return nil
	}},
	{"general.theme", EnvTheme, func(c *AppConfig, v string) error {
		c.General.Theme = strings.ToLower(v)
		return nil
	}},
	{"canvas.zoom_sensitivity", EnvZoomSensitivity, func(c *AppConfig, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		c.Canvas.ZoomSensitivity = f
		return nil
	}},
	{"editor.preset_dir", EnvPresetDir, func(c *AppConfig, v string) error {
		c.Editor.PresetDir = v
		return nil
	}},
	{"export.output_dir", EnvExportDir, func(c *AppConfig, v string) error {
		c.Export.OutputDir = v
		return nil
	}},
	{"export.format", EnvExportFormat, func(c *AppConfig, v string) error {
		c.Export.Format = strings.ToLower(v)
		return nil
	}},
	{"logging.level", EnvLogLevel, func(c *AppConfig, v string) error {
		c.Logging.Level = strings.ToLower(v)
		return nil
	}},
	{"logging.format", EnvLogFormat, func(c *AppConfig, v string) error {
		c.Logging.Format = strings.ToLower(v)
		return nil
	}},
	{"logging.source", EnvLogSource, func(c *AppConfig, v string) error {
		c.Logging.Source = parseBool(v)
		return nil
	}},
	{"logging.file", EnvLogFile, func(c *AppConfig, v string) error {
		c.Logging.File = v
		return nil
	}},
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Dir returns the per-user configuration directory for roomviz.
func Dir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "RoomViz")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "RoomViz")
	default:
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "roomviz")
		} else if h := os.Getenv("HOME"); h != "" {
			base = filepath.Join(h, ".config", "roomviz")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the config file path. RVZ_CONFIG takes precedence.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	d, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}

// CrashDir is where crash reports are written.
func CrashDir() string {
	if d, err := Dir(); err == nil {
		return filepath.Join(d, "crash")
	}
	return os.TempDir()
}

// Load reads the config file (a missing file is fine), merges it over the
// defaults and applies environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		return cfg, applyEnvOverrides(&cfg)
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file path.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Save writes cfg to the config path.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as YAML to path.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects values the application cannot use.
func (c AppConfig) Validate() error {
	var errs []error
	if c.Canvas.ZoomSensitivity <= 0 {
		errs = append(errs, fmt.Errorf("canvas.zoom_sensitivity must be > 0, got %v", c.Canvas.ZoomSensitivity))
	}
	if c.Canvas.ZoomStep <= 0 {
		errs = append(errs, fmt.Errorf("canvas.zoom_step must be > 0, got %v", c.Canvas.ZoomStep))
	}
	if c.Canvas.CardWidth <= 0 || c.Canvas.CardHeight <= 0 {
		errs = append(errs, errors.New("canvas card size must be positive"))
	}
	if c.Export.Supersample < 1 || c.Export.Supersample > 8 {
		errs = append(errs, fmt.Errorf("export.supersample must be 1..8, got %d", c.Export.Supersample))
	}
	switch c.Export.Format {
	case "png", "webp", "svg", "pdf":
	default:
		errs = append(errs, fmt.Errorf("export.format %q not supported", c.Export.Format))
	}
	return errors.Join(errs...)
}

func mergeInto(dst, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	setString(&dst.General.Theme, src.General.Theme, true)

	setFloat(&dst.Canvas.ZoomSensitivity, src.Canvas.ZoomSensitivity)
	setFloat(&dst.Canvas.ZoomStep, src.Canvas.ZoomStep)
	setFloat(&dst.Canvas.CardWidth, src.Canvas.CardWidth)
	setFloat(&dst.Canvas.CardHeight, src.Canvas.CardHeight)

	setString(&dst.Editor.PresetDir, src.Editor.PresetDir, false)

	setString(&dst.Export.OutputDir, src.Export.OutputDir, false)
	setString(&dst.Export.Format, src.Export.Format, true)
	if src.Export.Supersample != 0 {
		dst.Export.Supersample = src.Export.Supersample
	}

	setString(&dst.Logging.Level, src.Logging.Level, true)
	setString(&dst.Logging.Format, src.Logging.Format, true)
	dst.Logging.Source = src.Logging.Source
	setString(&dst.Logging.File, src.Logging.File, false)
}

func setString(dst *string, v string, lower bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if lower {
		v = strings.ToLower(v)
	}
	*dst = v
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func applyEnvOverrides(cfg *AppConfig) error {
	for _, o := range overrides {
		v := strings.TrimSpace(os.Getenv(o.env))
		if v == "" {
			continue
		}
		if err := o.apply(cfg, v); err != nil {
			return fmt.Errorf("%s=%q: %w", o.env, v, err)
		}
	}
	return nil
}

// EnvOverrideFor returns the env var overriding key ("section.field"), if set.
func EnvOverrideFor(key string) (string, bool) {
	for _, o := range overrides {
		if o.key == key && os.Getenv(o.env) != "" {
			return o.env, true
		}
	}
	return "", false
}
