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

const (
	loftImage   = "https://images.unsplash.com/photo-1600607686527-6fb886090705?q=80&w=2700&auto=format&fit=crop"
	modernImage = "https://images.unsplash.com/photo-1600210492486-724fe5c67fb0?auto=format&fit=crop&q=80&w=800"
	eveningImg  = "https://images.unsplash.com/photo-1600585154340-be6161a56a0c?auto=format&fit=crop&q=80&w=800"
)

// PlaceholderImage is used for mock generations.
const PlaceholderImage = loftImage

// SeedProjects returns the demo dashboard.
func SeedProjects() []Project {
	return []Project{
		{ID: "1", Name: "Modern Loft Renovation", RoomType: "Living Room", LastEdited: "2 hours ago", Status: StatusActive},
		{ID: "2", Name: "Seaside Villa", RoomType: "Master Bedroom", LastEdited: "1 day ago", Status: StatusPending},
		{ID: "3", Name: "Corporate Office HQ", RoomType: "Open Plan Office", LastEdited: "3 days ago", Status: StatusActive},
		{ID: "4", Name: "Mountain Cabin", RoomType: "Kitchen & Dining", LastEdited: "1 week ago", Status: StatusDraft},
		{ID: "5", Name: "Urban Coffee Shop", RoomType: "Commercial", LastEdited: "2 weeks ago", Status: StatusArchived},
		{ID: "6", Name: "Minimalist Studio", RoomType: "Apartment", LastEdited: "1 month ago", Status: StatusDraft},
	}
}

// SeedRenders returns the three drafts a demo workspace starts with.
func SeedRenders() []RenderNode {
	return []RenderNode{
		{ID: "1", ImageURL: loftImage, Position: Point{0, 0}, Settings: RenderSettings{"Daylight", "Japandi"}, IsSaved: true, Title: "Draft #3", Timestamp: "10:42 AM"},
		{ID: "2", ImageURL: modernImage, Position: Point{-380, 50}, Settings: RenderSettings{"Golden Hour", "Modern"}, IsSaved: true, Title: "Draft #2", Timestamp: "10:30 AM"},
		{ID: "3", ImageURL: eveningImg, Position: Point{380, -50}, Settings: RenderSettings{"Evening", "Industrial"}, Title: "Draft #1", Timestamp: "10:15 AM"},
	}
}

// SeedBOQ returns the demo bill of quantities.
func SeedBOQ() []BOQItem {
	const q = "?auto=format&fit=crop&q=80&w=100"
	return []BOQItem{
		{Name: "Harmony Sofa", Brand: "West Elm", Price: "₹1,25,000", Commission: "₹4,500", Img: "https://images.unsplash.com/photo-1555041469-a586c61ea9bc" + q, Sponsored: true},
		{Name: "Oak Parquet", Brand: "Tarkett", Price: "₹85,000", Commission: "₹2,100", Img: "https://images.unsplash.com/photo-1581858726768-fd8a652aeb56" + q},
		{Name: "Noguchi Table", Brand: "Herman Miller", Price: "₹1,12,000", Commission: "₹5,000", Img: "https://images.unsplash.com/photo-1532372320572-cda25653a26d" + q},
		{Name: "Kelim Rug", Brand: "Jaipur Rugs", Price: "₹28,000", Commission: "₹800", Img: "https://images.unsplash.com/photo-1575414003591-ece8d141619a" + q},
		{Name: "Floor Lamp", Brand: "Flos", Price: "₹45,000", Commission: "₹1,200", Img: "https://images.unsplash.com/photo-1513506003013-d5347e0f95d1" + q},
	}
}

// SeedRoomSettings returns the settings a new workspace opens with.
func SeedRoomSettings() RoomSettings {
	return RoomSettings{
		Viewpoint:        "Hero (Entry)",
		Lens:             "1x",
		Angle:            "Eye-Level",
		LightingScenario: "Daylight",
		Mood:             "Standard",
		Style:            "Japandi",
		Creativity:       30,
	}
}

// SeedProjectData bundles the seeds into a fresh workspace payload.
func SeedProjectData() ProjectData {
	return ProjectData{Renders: SeedRenders(), BOQ: SeedBOQ(), RoomSettings: SeedRoomSettings()}
}
