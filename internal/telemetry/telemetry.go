/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry is the opt-in usage event sender. Events carry no
// personal data: only the event name, build info and a few numeric props
// such as lens and field of view.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	applog "roomviz/internal/log"
	"roomviz/internal/version"
)

// Event names emitted by the workspace.
const (
	ShotConfirmed   = "shot_confirmed"
	ShotCancelled   = "shot_cancelled"
	RenderRequested = "render_requested"
)

// Sink accepts events. *Client and Nop implement it.
type Sink interface {
	Event(name string, props map[string]any)
}

// Nop drops everything.
type Nop struct{}

func (Nop) Event(string, map[string]any) {}

// Config controls the sender. Nothing is sent unless OptIn is set and a URL
// is configured.
//
// Environment (FromEnv):
//   - RVZ_TELEMETRY_OPT_IN=1|true|yes|on
//   - RVZ_TELEMETRY_URL=<events endpoint>
//   - RVZ_CRASH_UPLOAD_URL=<crash endpoint>
//   - RVZ_TELEMETRY_TIMEOUT_MS=<ms> (default 1500)
//   - RVZ_TELEMETRY_DEBUG=<any>
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

const defaultTimeout = 1500 * time.Millisecond

func FromEnv() Config {
	cfg := Config{
		OptIn:        parseBool(os.Getenv("RVZ_TELEMETRY_OPT_IN")),
		EventsURL:    strings.TrimSpace(os.Getenv("RVZ_TELEMETRY_URL")),
		CrashURL:     strings.TrimSpace(os.Getenv("RVZ_CRASH_UPLOAD_URL")),
		Timeout:      defaultTimeout,
		DebugLogging: os.Getenv("RVZ_TELEMETRY_DEBUG") != "",
	}
	if ms := strings.TrimSpace(os.Getenv("RVZ_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil && v > 0 {
			cfg.Timeout = v
		}
	}
	return cfg
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// envelope is the JSON body of one event.
type envelope struct {
	Name    string         `json:"name"`
	TS      string         `json:"ts"`
	Version string         `json:"version"`
	OS      string         `json:"os"`
	Arch    string         `json:"arch"`
	Props   map[string]any `json:"props,omitempty"`
}

// Client sends events from one background goroutine. Event never blocks;
// when the queue is full the event is dropped.
type Client struct {
	cfg     Config
	log     *slog.Logger
	http    *http.Client
	q       chan envelope
	pending atomic.Int64
	stop    chan struct{}
	once    sync.Once
	done    chan struct{}
}

// New starts a client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := &Client{
		cfg:  cfg,
		log:  applog.WithComponent("telemetry"),
		http: &http.Client{Timeout: cfg.Timeout},
		q:    make(chan envelope, 64),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether events would be sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Event queues name with props.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	env := envelope{
		Name:    name,
		TS:      time.Now().UTC().Format(time.RFC3339Nano),
		Version: version.String(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
	if len(props) > 0 {
		env.Props = make(map[string]any, len(props))
		for k, v := range props {
			env.Props[k] = v
		}
	}
	c.pending.Add(1)
	select {
	case c.q <- env:
	default:
		c.pending.Add(-1)
		c.debug("telemetry queue full", "event", name)
	}
}

// Flush waits until queued events were attempted, ctx ends, or the
// client's timeout elapses.
func (c *Client) Flush(ctx context.Context) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	t := time.NewTicker(10 * time.Millisecond)
	defer t.Stop()
	for c.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// Close stops the sender goroutine and waits for it to exit.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.stop) })
	<-c.done
}

func (c *Client) loop() {
	defer close(c.done)
	for {
		select {
		case <-c.stop:
			return
		case env := <-c.q:
			c.send(env)
			c.pending.Add(-1)
		}
	}
}

func (c *Client) send(env envelope) {
	buf, err := json.Marshal(env)
	if err != nil {
		c.debug("telemetry encode failed", "err", err)
		return
	}
	if err := c.post(c.cfg.EventsURL, "application/json", buf); err != nil {
		c.debug("telemetry send failed", "event", env.Name, "err", err)
		return
	}
	c.debug("telemetry event sent", "event", env.Name)
}

func (c *Client) post(url, contentType string, body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// UploadCrash posts a crash report synchronously when opted in. Crash
// handlers call it right before the process exits.
func (c *Client) UploadCrash(report []byte) error {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return nil
	}
	if err := c.post(c.cfg.CrashURL, "text/plain; charset=utf-8", report); err != nil {
		c.debug("crash upload failed", "err", err)
		return err
	}
	c.debug("crash report uploaded", "bytes", len(report))
	return nil
}

func (c *Client) debug(msg string, args ...any) {
	if c.cfg.DebugLogging {
		c.log.Debug(msg, args...)
	}
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns the process-wide client, created from the environment on first use.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = New(FromEnv())
	}
	return defaultClient
}

// SetDefault installs c as the process-wide client and returns the previous one.
func SetDefault(c *Client) *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	old := defaultClient
	defaultClient = c
	return old
}
