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

package config

import (
	"fmt"
	"sort"
)

//
func str(s string) *string { return &s }

func number(n int) *int { return &n }

func float(f float64) *float64 { return &f }

func span(start, end int) *Range {
	return &Range{Start: start, End: end}
}

// builtins are the profiles shipped with the decoder, keyed by name.
var builtins = map[string]*Profile{

	"aeslanier": {
		Comment: "AES Lanier 'No Problem', 77 track SSDD, M2FM",
		Config: Settings{
			Variant:         str("aeslanier"),
			Tracks:          span(0, 76),
			Sides:           span(0, 0),
			FirstSector:     number(0),
			SectorsPerTrack: number(32),
			SectorSize:      number(256),
		},
		Options: []Option{
			{
				Name:    "tight-pll",
				Comment: "slower but steadier clock tracking",
				Config:  Settings{PLLPhaseGain: float(0.02)},
			},
		},
		OptionGroups: []OptionGroup{
			{
				Comment: "drive stepping",
				Options: []Option{
					{
						Name:    "40track",
						Comment: "40 track drive",
						Config:  Settings{Tracks: span(0, 39)},
					},
					{
						Name:    "80track",
						Comment: "80 track drive",
						Config:  Settings{Tracks: span(0, 76)},
					},
				},
			},
		},
	},
}

// Builtin returns the named built-in profile.
func Builtin(name string) (*Profile, error) {
	if p, ok := builtins[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("'%s' is not a built-in profile", name)
}

//
func Builtins() []string {
	ret := make([]string, 0, len(builtins))
	for name := range builtins {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}
