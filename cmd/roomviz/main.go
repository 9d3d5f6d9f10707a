/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"roomviz/internal/cone"
	"roomviz/internal/config"
	"roomviz/internal/crash"
	"roomviz/internal/domain"
	"roomviz/internal/export"
	"roomviz/internal/geom"
	applog "roomviz/internal/log"
	"roomviz/internal/presetpack"
	"roomviz/internal/telemetry"
	"roomviz/internal/ui"
	"roomviz/internal/version"
	"roomviz/internal/workspace"
)

func usage() {
	fmt.Println("Roomviz: interior render board and camera planner")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  roomviz version|-v|--version                 Show version")
	fmt.Println("  roomviz presets [<packDir>]                   List built-in and installed camera presets")
	fmt.Println("  roomviz shot <preset> [-o out.png|.webp|.svg|.pdf] [-batch web|print] [-desc text]")
	fmt.Println("                                                Render a camera preset")
	fmt.Println("  roomviz demo [-dump state.yaml] [-board board.png]")
	fmt.Println("                                                Replay a scripted session through the workspace")
	fmt.Println("  roomviz pack export <zip> [name]              Write all known presets into a pack")
	fmt.Println("  roomviz pack install <zip>                    Install a preset pack")
	fmt.Println("  roomviz ui                                    Launch desktop UI (build with -tags fyne for full UI)")
}

// app bundles what every command needs after startup.
type app struct {
	cfg config.AppConfig
	tel *telemetry.Client
	log *slog.Logger
	ws  *workspace.Workspace
}

func main() {
	os.Exit(runMain(os.Args))
}

// runMain runs one invocation and returns its exit code. Deferred
// flushes happen before main calls os.Exit.
func runMain(args []string) int {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")

	a := &app{log: l}
	defer crash.Recover(func() []byte {
		if a.ws == nil {
			return nil
		}
		return a.ws.DumpState()
	})

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed; using defaults", slog.Any("err", err))
	}
	a.cfg = cfg
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	defer func() { _ = applog.Close() }()
	a.log = applog.WithComponent("cli")

	tc := telemetry.FromEnv()
	tc.OptIn = tc.OptIn || cfg.General.TelemetryOptIn
	a.tel = telemetry.New(tc)
	telemetry.SetDefault(a.tel)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		a.tel.Flush(ctx)
		a.tel.Close()
	}()
	crash.Configure(config.CrashDir(), a.tel)

	a.log.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return 0
	}
	return a.run(args[1], args[2:])
}

// run dispatches one subcommand and returns the process exit code.
func (a *app) run(cmd string, args []string) int {
	var err error
	switch cmd {
	case "version", "--version", "-v":
		fmt.Println("Roomviz")
		fmt.Println(version.String())
		return 0
	case "presets":
		err = a.cmdPresets(args)
	case "shot":
		err = a.cmdShot(args)
	case "demo":
		err = a.cmdDemo(args)
	case "pack":
		err = a.cmdPack(args)
	case "ui":
		a.ws = a.newWorkspace()
		a.loadInstalled(a.ws.Editor(), "")
		err = ui.Run(a.ws, a.cfg)
	default:
		usage()
		return 2
	}
	if errors.Is(err, errUsage) {
		usage()
		return 2
	}
	if err != nil {
		a.log.Error(cmd+" failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		return 1
	}
	return 0
}

var errUsage = errors.New("usage")

func (a *app) presetDir(override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	if a.cfg.Editor.PresetDir != "" {
		return a.cfg.Editor.PresetDir
	}
	if d, err := config.Dir(); err == nil {
		return filepath.Join(d, "presets")
	}
	return ""
}

func (a *app) newWorkspace() *workspace.Workspace {
	p := domain.SeedProjects()[0]
	return workspace.New(p, domain.SeedProjectData(), workspace.Options{
		CardSize:    geom.Size{W: a.cfg.Canvas.CardWidth, H: a.cfg.Canvas.CardHeight},
		Sensitivity: a.cfg.Canvas.ZoomSensitivity,
		ZoomStep:    a.cfg.Canvas.ZoomStep,
		Telemetry:   a.tel,
	})
}

// loadInstalled adds installed presets to ed; failures only log.
func (a *app) loadInstalled(ed *cone.Editor, dir string) int {
	ps, err := presetpack.LoadDir(a.presetDir(dir))
	if err != nil {
		a.log.Warn("installed presets unavailable", slog.Any("err", err))
	}
	ed.AddPresets(ps...)
	return len(ps)
}

func (a *app) cmdPresets(args []string) error {
	var dir string
	if len(args) > 0 {
		dir = args[0]
	}
	ed := cone.NewEditor(nil, nil)
	n := a.loadInstalled(ed, dir)
	for _, p := range ed.Presets() {
		r := p.Rig
		fmt.Printf("%-16s camera (%5.1f,%5.1f)  target (%5.1f,%5.1f)  fov %5.1f°  %dmm\n",
			p.Name, r.Camera.X, r.Camera.Y, r.Target.X, r.Target.Y, r.FOV, cone.LensMM(r.FOV))
	}
	fmt.Printf("%d built-in, %d installed\n", len(cone.Builtin()), n)
	return nil
}

func (a *app) cmdShot(args []string) error {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		fmt.Println("shot requires <preset>")
		return errUsage
	}
	name := args[0]
	fs := flag.NewFlagSet("shot", flag.ContinueOnError)
	out := fs.String("o", "", "output file (.png, .webp, .svg, .pdf)")
	batch := fs.String("batch", "", "export preset: web or print")
	desc := fs.String("desc", "", "override the generated description")
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}

	a.ws = a.newWorkspace()
	a.loadInstalled(a.ws.Editor(), "")
	a.ws.OpenCamera()
	if !a.ws.Editor().ApplyPreset(name) {
		_ = a.ws.CancelCamera()
		return fmt.Errorf("unknown preset %q", name)
	}
	if *desc != "" {
		a.ws.Editor().SetDescription(*desc)
	}
	shot, err := a.ws.ConfirmCamera()
	if err != nil {
		return err
	}
	_, rig, _ := a.ws.LastShot()
	fmt.Printf("Preset:   %s\n", name)
	fmt.Printf("Position: (%.1f, %.1f)  rotation %.1f°\n", shot.X, shot.Y, shot.RotationDegrees)
	fmt.Printf("Lens:     %dmm (fov %.0f°)\n", shot.LensMM, shot.FOV)
	fmt.Printf("Brief:    %s\n", shot.Description)

	s := export.Shot{
		Shot:  shot,
		Rig:   rig,
		Brief: export.BriefOptions{Project: a.ws.Project().Name, Title: name},
		Cone:  export.ConeOptions{Supersample: a.cfg.Export.Supersample},
	}
	switch {
	case *batch != "":
		paths, err := export.BatchExport(s, export.BatchOptions{
			Preset: export.PresetName(strings.ToLower(*batch)),
			OutDir: a.cfg.Export.OutputDir,
			Base:   slug(name),
		})
		for _, p := range paths {
			fmt.Println("Wrote", p)
		}
		return err
	case *out != "":
		if err := export.WriteFile(*out, s); err != nil {
			return err
		}
		fmt.Println("Wrote", *out)
	}
	return nil
}

func (a *app) cmdPack(args []string) error {
	if len(args) < 2 {
		fmt.Println("pack requires export|install and <zip>")
		return errUsage
	}
	switch args[0] {
	case "export":
		name := strings.TrimSuffix(filepath.Base(args[1]), filepath.Ext(args[1]))
		if len(args) > 2 {
			name = args[2]
		}
		ed := cone.NewEditor(nil, nil)
		a.loadInstalled(ed, "")
		if err := presetpack.Export(args[1], name, ed.Presets()); err != nil {
			return err
		}
		fmt.Println("Exported", len(ed.Presets()), "presets to", args[1])
	case "install":
		dir := a.presetDir("")
		ok, err := presetpack.Install(dir, args[1])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Pack already installed in", dir)
			return nil
		}
		fmt.Println("Installed", args[1], "into", dir)
	default:
		return errUsage
	}
	return nil
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	dash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
