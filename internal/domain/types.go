/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

// Records shared by the workspace, the CLI and the exporters. They serialize
// to JSON for telemetry payloads and to YAML for view-state dumps.

import (
	"fmt"
	"strings"
)

// ProjectStatus is the lifecycle state shown on the dashboard.
type ProjectStatus string

const (
	StatusActive   ProjectStatus = "Active"
	StatusArchived ProjectStatus = "Archived"
	StatusPending  ProjectStatus = "Pending"
	StatusDraft    ProjectStatus = "Draft"
)

// ParseProjectStatus accepts a status name case-insensitively.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	for _, st := range []ProjectStatus{StatusActive, StatusArchived, StatusPending, StatusDraft} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown project status %q", s)
}

// Project is a dashboard entry.
type Project struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	RoomType     string        `json:"roomType" yaml:"room_type"`
	LastEdited   string        `json:"lastEdited" yaml:"last_edited"`
	Status       ProjectStatus `json:"status" yaml:"status"`
	ThumbnailURL string        `json:"thumbnailUrl,omitempty" yaml:"thumbnail_url,omitempty"`
}

// User is the signed-in designer shown in the navbar.
type User struct {
	Name      string `json:"name" yaml:"name"`
	AvatarURL string `json:"avatarUrl" yaml:"avatar_url"`
}

// Point is a world-space position on the render board.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// RenderSettings is the prompt data a render was generated from.
type RenderSettings struct {
	Lighting string `json:"lighting" yaml:"lighting"`
	Style    string `json:"style" yaml:"style"`
}

// RenderNode is one generated image placed on the board.
type RenderNode struct {
	ID        string         `json:"id" yaml:"id"`
	ImageURL  string         `json:"imageUrl" yaml:"image_url"`
	Position  Point          `json:"position" yaml:"position"`
	Settings  RenderSettings `json:"settings" yaml:"settings"`
	IsSaved   bool           `json:"isSaved" yaml:"is_saved"`
	Title     string         `json:"title" yaml:"title"`
	Timestamp string         `json:"timestamp" yaml:"timestamp"`
}

// BOQItem is a bill-of-quantities line.
type BOQItem struct {
	Name       string `json:"name" yaml:"name"`
	Brand      string `json:"brand" yaml:"brand"`
	Price      string `json:"price" yaml:"price"`
	Commission string `json:"commission" yaml:"commission"`
	Img        string `json:"img" yaml:"img"`
	Sponsored  bool   `json:"sponsored,omitempty" yaml:"sponsored,omitempty"`
}

// RoomSettings drives the next generation request.
type RoomSettings struct {
	Viewpoint        string `json:"viewpoint" yaml:"viewpoint"`
	Lens             string `json:"lens" yaml:"lens"`
	Angle            string `json:"angle" yaml:"angle"`
	LightingScenario string `json:"lightingScenario" yaml:"lighting_scenario"`
	Mood             string `json:"mood" yaml:"mood"`
	Style            string `json:"style" yaml:"style"`
	Creativity       int    `json:"creativity" yaml:"creativity"`
	ExcludePrompt    string `json:"excludePrompt" yaml:"exclude_prompt"`
}

// ViewpointCustom marks settings whose camera came from the shot editor.
const ViewpointCustom = "Custom"

// Product is a catalog entry.
type Product struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Brand         string `json:"brand" yaml:"brand"`
	ImageURL      string `json:"imageUrl" yaml:"image_url"`
	Category      string `json:"category" yaml:"category"` // flooring, sofa, wall, lighting, ...
	IsSponsored   bool   `json:"isSponsored" yaml:"is_sponsored"`
	AffiliateLink string `json:"affiliateLink,omitempty" yaml:"affiliate_link,omitempty"`
	Price         string `json:"price,omitempty" yaml:"price,omitempty"`
	Texture       string `json:"texture,omitempty" yaml:"texture,omitempty"`
}

// ProjectData is everything a workspace edits.
type ProjectData struct {
	Renders      []RenderNode `json:"renders" yaml:"renders"`
	BOQ          []BOQItem    `json:"boq" yaml:"boq"`
	RoomSettings RoomSettings `json:"roomSettings" yaml:"room_settings"`
}

// Render returns the render with id and its index, or -1.
func (d ProjectData) Render(id string) (RenderNode, int) {
	for i, r := range d.Renders {
		if r.ID == id {
			return r, i
		}
	}
	return RenderNode{}, -1
}
