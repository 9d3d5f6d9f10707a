/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package presetpack reads and writes camera preset packs: zip archives holding
// a presets.json document plus a short manifest.
package presetpack

import (
	"archive/zip"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"roomviz/internal/cone"
	"roomviz/internal/geom"
	applog "roomviz/internal/log"
)

const (
	// PresetsFile is the document every pack must carry at its root.
	PresetsFile  = "presets.json"
	ManifestFile = "presetpack.manifest.txt"
)

// ErrInvalidPack reports a pack that is unreadable or fails the schema.
var ErrInvalidPack = errors.New("invalid preset pack")

//go:embed preset.schema.json
var schemaJSON []byte

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type entry struct {
	Name   string  `json:"name"`
	Camera point   `json:"camera"`
	Target point   `json:"target"`
	FOV    float64 `json:"fov"`
}

type document struct {
	Version int     `json:"version"`
	Name    string  `json:"name,omitempty"`
	Presets []entry `json:"presets"`
}

// Validate checks a presets.json document against the embedded schema and
// decodes it. Rigs are clamped on the way out.
func Validate(data []byte) ([]cone.Preset, error) {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidPack, strings.Join(msgs, "; "))
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	out := make([]cone.Preset, 0, len(doc.Presets))
	for _, e := range doc.Presets {
		out = append(out, cone.Preset{
			Name: strings.TrimSpace(e.Name),
			Rig: cone.Rig{
				Camera: geom.P(e.Camera.X, e.Camera.Y),
				Target: geom.P(e.Target.X, e.Target.Y),
				FOV:    e.FOV,
			}.Clamped(),
		})
	}
	return out, nil
}

// Encode renders presets as a presets.json document.
func Encode(name string, presets []cone.Preset) ([]byte, error) {
	doc := document{Version: 1, Name: name, Presets: make([]entry, 0, len(presets))}
	for _, p := range presets {
		r := p.Rig.Clamped()
		doc.Presets = append(doc.Presets, entry{
			Name:   p.Name,
			Camera: point{X: r.Camera.X, Y: r.Camera.Y},
			Target: point{X: r.Target.X, Y: r.Target.Y},
			FOV:    r.FOV,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Load reads the presets of a single pack archive.
func Load(zipPath string) ([]cone.Preset, error) {
	data, err := readPresets(zipPath)
	if err != nil {
		return nil, err
	}
	return Validate(data)
}

func readPresets(zipPath string) ([]byte, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()
	for _, f := range r.File {
		if f.Name != PresetsFile {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", PresetsFile, err)
		}
		defer func() { _ = rc.Close() }()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", PresetsFile, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: missing %s", ErrInvalidPack, PresetsFile)
}

// Export writes presets into a new pack archive at destZipPath.
func Export(destZipPath string, name string, presets []cone.Preset) error {
	l := applog.WithOperation(applog.WithComponent("presetpack"), "export").With(slog.String("zip", destZipPath))
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destZipPath is required")
	}
	if len(presets) == 0 {
		return fmt.Errorf("%w: no presets", ErrInvalidPack)
	}
	data, err := Encode(name, presets)
	if err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)

	manifest := fmt.Sprintf("Roomviz Camera Preset Pack\nName: %s\nCreated: %s\nPresets: %d\n",
		name, time.Now().Format(time.RFC3339), len(presets))
	for _, f := range []struct {
		name string
		body []byte
	}{{ManifestFile, []byte(manifest)}, {PresetsFile, data}} {
		w, err := zw.Create(f.name)
		if err != nil {
			return fmt.Errorf("add %s: %w", f.name, err)
		}
		if _, err := w.Write(f.body); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish zip: %w", err)
	}
	l.Info("preset pack exported", slog.Int("presets", len(presets)))
	return nil
}

// Install validates a pack and stores its presets.json in dir as
// <archive-name>.json. An existing file is left alone and reported as not
// installed.
func Install(dir string, packZipPath string) (bool, error) {
	l := applog.WithOperation(applog.WithComponent("presetpack"), "install").With(slog.String("pack", packZipPath))
	if strings.TrimSpace(dir) == "" {
		return false, errors.New("dir is required")
	}
	data, err := readPresets(packZipPath)
	if err != nil {
		return false, err
	}
	ps, err := Validate(data)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("ensure preset dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(packZipPath), filepath.Ext(packZipPath))
	target := filepath.Join(dir, base+".json")
	if _, err := os.Stat(target); err == nil {
		l.Warn("skip existing pack", slog.String("path", target))
		return false, nil
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", target, err)
	}
	l.Info("preset pack installed", slog.Int("presets", len(ps)), slog.String("path", target))
	return true, nil
}

// LoadDir returns the presets of every installed pack in dir, ordered by file
// name. A missing dir yields no presets. Invalid files are logged and skipped.
func LoadDir(dir string) ([]cone.Preset, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preset dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	l := applog.WithOperation(applog.WithComponent("presetpack"), "load")
	var out []cone.Preset
	for _, n := range names {
		data, err := os.ReadFile(filepath.Join(dir, n))
		if err != nil {
			return out, fmt.Errorf("read %s: %w", n, err)
		}
		ps, err := Validate(data)
		if err != nil {
			l.Warn("skip invalid pack", slog.String("file", n), slog.Any("err", err))
			continue
		}
		out = append(out, ps...)
	}
	return out, nil
}
