/*
   FluxDrive - vintage floppy flux decoder
   Copyright (c) 2026, Alexander Vollschwitz

   This file is part of FluxDrive.

   FluxDrive is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   FluxDrive is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with FluxDrive. If not, see <http://www.gnu.org/licenses/>.
*/

/*
	Package config assembles the decoder configuration from layered
	profiles. A profile carries a base layer, named options the user can
	select, and option groups where the group members are mutually
	exclusive and the first member is the group default. User overrides
	merge last. The outcome is one immutable Config value handed to the
	decoder driver.
*/
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//
type Option struct {
	Name    string   `yaml:"name"`
	Comment string   `yaml:"comment"`
	Config  Settings `yaml:"config"`
}

//
type OptionGroup struct {
	Comment string   `yaml:"comment"`
	Options []Option `yaml:"options"`
}

//
type Profile struct {
	Comment      string        `yaml:"comment"`
	Config       Settings      `yaml:"config"`
	Options      []Option      `yaml:"options"`
	OptionGroups []OptionGroup `yaml:"option_groups"`
}

// LoadProfile reads a profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read profile '%s': %v", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("cannot parse profile '%s': %v", path, err)
	}
	return &p, nil
}

/*
	Apply combines a profile with the selected option names and the user
	overrides into a Config. Standalone options merge in their
	declaration order when selected. For each option group, exactly one
	member applies, defaulting to the first; selecting two members of
	the same group is an error. Overrides merge last and win over
	everything. Unknown option names are rejected.
*/
func Apply(p *Profile, selected []string, overrides Settings) (*Config, error) {

	pending := map[string]bool{}
	for _, name := range selected {
		pending[name] = true
	}

	combined := Settings{}
	combined.merge(p.Config)

	for _, opt := range p.Options {
		if pending[opt.Name] {
			combined.merge(opt.Config)
			delete(pending, opt.Name)
		}
	}

	for _, group := range p.OptionGroups {

		if len(group.Options) == 0 {
			continue
		}

		chosen := &group.Options[0]
		count := 0

		for ix := range group.Options {
			opt := &group.Options[ix]
			if pending[opt.Name] {
				chosen = opt
				delete(pending, opt.Name)
				if count++; count == 2 {
					return nil, fmt.Errorf(
						"multiple mutually exclusive options set for "+
							"group '%s'", group.Comment)
				}
			}
		}

		combined.merge(chosen.Config)
	}

	if len(pending) > 0 {
		for name := range pending {
			return nil, fmt.Errorf("'%s' is not a known option", name)
		}
	}

	combined.merge(overrides)

	cfg := newConfig(combined)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
