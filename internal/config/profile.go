/*
This project is the monolithic backend API for the OpenSourceDUTH team. Access to open data compiled and provided by the OpenSourceDUTH University Team as well as helper endpoints to integrate with our apps.
API Copyright (C) 2025 OpenSourceDUTH
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package config

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"MessAPI/internal/rotation"
	"MessAPI/internal/weekmenu"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var builtinProfiles embed.FS

const DefaultProfile = "sindhi-mess"

// Mode is how menus are published for a deployment.
type Mode string

const (
	// ModeWeekly serves one menu file per calendar week, named by its date range.
	ModeWeekly Mode = "weekly"
	// ModeRotation cycles through numbered menu variants week by week.
	ModeRotation Mode = "rotation"
	// ModeFixed serves the same menu every week.
	ModeFixed Mode = "fixed"
)

// Profile describes one mess deployment.
type Profile struct {
	Name        string         `yaml:"name"`
	FoodCourt   string         `yaml:"foodCourt"`
	Timezone    string         `yaml:"timezone"`
	Mode        Mode           `yaml:"mode"`
	FixedID     string         `yaml:"fixedId"`
	DaysPerWeek int            `yaml:"daysPerWeek"`
	Meals       []MealSlot     `yaml:"meals"`
	Sections    []Section      `yaml:"sections"`
	NoteItems   []string       `yaml:"noteItems"`
	Extras      ExtrasConfig   `yaml:"extras"`
	Rotation    RotationConfig `yaml:"rotation"`
}

type MealSlot struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"name"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type Section struct {
	Kind  string `yaml:"kind"`
	Title string `yaml:"title"`
}

type ExtrasConfig struct {
	Policy   string      `yaml:"policy"`
	Category string      `yaml:"category"`
	Currency string      `yaml:"currency"`
	Items    []ExtraItem `yaml:"items"`
}

type ExtraItem struct {
	Name  string  `yaml:"name"`
	Price float64 `yaml:"price"`
}

type RotationConfig struct {
	ReferenceMonday string `yaml:"referenceMonday"`
	ReferenceWeek   int    `yaml:"referenceWeek"`
	Variants        int    `yaml:"variants"`
	VariantPrefix   string `yaml:"variantPrefix"`
}

// LoadProfile reads the profile file when one is given, otherwise the
// built-in profile with the given name.
func LoadProfile(name, file string) (Profile, error) {
	var (
		data []byte
		err  error
	)
	if file != "" {
		data, err = os.ReadFile(file)
		if err != nil {
			return Profile{}, fmt.Errorf("reading profile %s: %w", file, err)
		}
	} else {
		if name == "" {
			name = DefaultProfile
		}
		data, err = builtinProfiles.ReadFile("profiles/" + name + ".yaml")
		if err != nil {
			return Profile{}, fmt.Errorf("unknown profile %q", name)
		}
	}
	return ParseProfile(data)
}

// BuiltinProfiles lists the names of the embedded profiles.
func BuiltinProfiles() []string {
	entries, err := builtinProfiles.ReadDir("profiles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return names
}

func ParseProfile(data []byte) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile: %w", err)
	}
	if p.Mode == "" {
		p.Mode = ModeWeekly
	}
	if p.DaysPerWeek == 0 {
		p.DaysPerWeek = 6
	}
	if len(p.Sections) == 0 {
		for _, s := range weekmenu.DefaultSections() {
			p.Sections = append(p.Sections, Section{Kind: string(s.Kind), Title: s.Title})
		}
	}
	if p.Mode == ModeFixed && p.FixedID == "" {
		p.FixedID = "menu"
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return p, nil
}

func (p Profile) Validate() error {
	switch p.Mode {
	case ModeWeekly, ModeFixed:
	case ModeRotation:
		if p.Rotation.ReferenceMonday == "" {
			return fmt.Errorf("rotation mode needs rotation.referenceMonday")
		}
	default:
		return fmt.Errorf("unknown mode %q", p.Mode)
	}
	return p.Layout().Validate()
}

// Layout converts the profile into the normalizer's menu layout.
func (p Profile) Layout() weekmenu.Layout {
	layout := weekmenu.Layout{
		FoodCourt:    p.FoodCourt,
		DaysPerWeek:  p.DaysPerWeek,
		NoteItems:    p.NoteItems,
		ExtrasPolicy: weekmenu.ExtrasPolicy(p.Extras.Policy),
		Currency:     strings.ToUpper(p.Extras.Currency),
	}
	for _, m := range p.Meals {
		layout.Meals = append(layout.Meals, weekmenu.MealSlot{
			Key:   weekmenu.MealKey(m.Key),
			Name:  m.Name,
			Start: m.Start,
			End:   m.End,
		})
	}
	for _, s := range p.Sections {
		layout.Sections = append(layout.Sections, weekmenu.Section{Kind: weekmenu.SectionKind(s.Kind), Title: s.Title})
	}
	if len(p.Extras.Items) > 0 {
		fallback := &weekmenu.MenuExtras{
			Category: p.Extras.Category,
			Currency: layout.Currency,
		}
		if fallback.Category == "" {
			fallback.Category = weekmenu.DefaultExtrasCategory
		}
		if fallback.Currency == "" {
			fallback.Currency = weekmenu.DefaultCurrency
		}
		for _, item := range p.Extras.Items {
			fallback.Items = append(fallback.Items, weekmenu.ExtraItem{Name: item.Name, Price: item.Price})
		}
		layout.FallbackExtras = fallback
	}
	return layout
}

func (p Profile) RotationOptions() rotation.Options {
	return rotation.Options{
		ReferenceMonday: p.Rotation.ReferenceMonday,
		ReferenceWeek:   p.Rotation.ReferenceWeek,
		Variants:        p.Rotation.Variants,
		VariantPrefix:   p.Rotation.VariantPrefix,
	}
}
