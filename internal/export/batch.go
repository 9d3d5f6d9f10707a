/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"roomviz/internal/cone"
)

// ErrUnsupportedFormat is returned for unknown output extensions or format names.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// PresetName names a batch export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// Shot bundles what every exporter needs.
type Shot struct {
	Shot  cone.Shot
	Rig   cone.Rig
	Brief BriefOptions
	Cone  ConeOptions
}

// FormatFor maps a file extension (".png") to a format name.
func FormatFor(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "png", "webp", "svg", "pdf":
		return ext, nil
	}
	return "", fmt.Errorf("%q: %w", path, ErrUnsupportedFormat)
}

// WriteFile renders s to path, choosing the encoder from the extension.
func WriteFile(path string, s Shot) (err error) {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	switch format {
	case "png":
		return WriteConePNG(f, s.Rig, s.Cone)
	case "webp":
		return WriteConeWebP(f, s.Rig, s.Cone)
	case "svg":
		return WriteConeSVG(f, s.Rig)
	default:
		return WriteShotBrief(f, s.Shot, s.Rig, s.Brief)
	}
}

// BatchOptions controls a multi-format export.
type BatchOptions struct {
	Preset  PresetName
	Formats []string // empty means the preset's formats
	OutDir  string
	// Base is the file name without extension. Default "shot".
	Base string
}

func presetFormats(p PresetName) []string {
	switch p {
	case PresetPrint:
		return []string{"pdf", "svg", "png"}
	default:
		return []string{"png", "webp"}
	}
}

func presetWidth(p PresetName) int {
	if p == PresetPrint {
		return 2000
	}
	return 1000
}

// BatchExport writes s once per format and returns the written paths.
func BatchExport(s Shot, opt BatchOptions) ([]string, error) {
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetFormats(opt.Preset)
	}
	base := opt.Base
	if base == "" {
		base = "shot"
	}
	if s.Cone.Width == 0 {
		s.Cone.Width = presetWidth(opt.Preset)
	}
	var paths []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		path := filepath.Join(opt.OutDir, base+"."+f)
		if err := WriteFile(path, s); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
