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
	"strconv"
	"strings"
)

/*
	Range is an inclusive span of track or side numbers, e.g. "0-76" or
	just "5".
*/
type Range struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

//
func ParseRange(s string) (Range, error) {

	var ret Range
	parts := strings.SplitN(s, "-", 2)

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return ret, fmt.Errorf("invalid range '%s': %v", s, err)
	}
	ret.Start = start
	ret.End = start

	if len(parts) == 2 {
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return ret, fmt.Errorf("invalid range '%s': %v", s, err)
		}
		ret.End = end
	}

	if ret.End < ret.Start {
		return ret, fmt.Errorf("invalid range '%s': end before start", s)
	}
	return ret, nil
}

/*
	Settings is one layer of decoder configuration. All fields are
	optional; a nil field means the layer does not touch that setting.
	Layers combine via merge, where the merged-in layer wins on the
	fields it sets.
*/
type Settings struct {
	Variant            *string  `yaml:"variant"`
	PLLPhaseGain       *float64 `yaml:"pll_phase_gain"`
	NominalCellTicks   *uint64  `yaml:"nominal_cell_ticks"`
	MinCellTicks       *uint64  `yaml:"min_cell_ticks"`
	MaxCellTicks       *uint64  `yaml:"max_cell_ticks"`
	MaxRecordsPerTrack *int     `yaml:"max_records_per_track"`
	Tracks             *Range   `yaml:"tracks"`
	Sides              *Range   `yaml:"sides"`
	FirstSector        *int     `yaml:"first_sector"`
	SectorsPerTrack    *int     `yaml:"sectors_per_track"`
	SectorSize         *int     `yaml:"sector_size"`
	Revolutions        *int     `yaml:"revolutions"`
	Workers            *int     `yaml:"workers"`
	FillerByte         *int     `yaml:"filler_byte"`
	Flux               *string  `yaml:"flux"`
	Output             *string  `yaml:"output"`
	CopyFluxTo         *string  `yaml:"copy_flux_to"`
}

//
func (s *Settings) merge(other Settings) {

	if other.Variant != nil {
		s.Variant = other.Variant
	}
	if other.PLLPhaseGain != nil {
		s.PLLPhaseGain = other.PLLPhaseGain
	}
	if other.NominalCellTicks != nil {
		s.NominalCellTicks = other.NominalCellTicks
	}
	if other.MinCellTicks != nil {
		s.MinCellTicks = other.MinCellTicks
	}
	if other.MaxCellTicks != nil {
		s.MaxCellTicks = other.MaxCellTicks
	}
	if other.MaxRecordsPerTrack != nil {
		s.MaxRecordsPerTrack = other.MaxRecordsPerTrack
	}
	if other.Tracks != nil {
		s.Tracks = other.Tracks
	}
	if other.Sides != nil {
		s.Sides = other.Sides
	}
	if other.FirstSector != nil {
		s.FirstSector = other.FirstSector
	}
	if other.SectorsPerTrack != nil {
		s.SectorsPerTrack = other.SectorsPerTrack
	}
	if other.SectorSize != nil {
		s.SectorSize = other.SectorSize
	}
	if other.Revolutions != nil {
		s.Revolutions = other.Revolutions
	}
	if other.Workers != nil {
		s.Workers = other.Workers
	}
	if other.FillerByte != nil {
		s.FillerByte = other.FillerByte
	}
	if other.Flux != nil {
		s.Flux = other.Flux
	}
	if other.Output != nil {
		s.Output = other.Output
	}
	if other.CopyFluxTo != nil {
		s.CopyFluxTo = other.CopyFluxTo
	}
}

/*
	Set assigns a single setting by its key name, with the value given
	as a string, as used for command line overrides of the form
	key=value.
*/
func (s *Settings) Set(key, value string) error {

	str := func() *string { v := value; return &v }

	num := func() (*int, error) {
		v, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("setting '%s': %v", key, err)
		}
		return &v, nil
	}

	num64 := func() (*uint64, error) {
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("setting '%s': %v", key, err)
		}
		return &v, nil
	}

	var err error

	switch key {

	case "variant":
		s.Variant = str()

	case "pll_phase_gain":
		v, e := strconv.ParseFloat(value, 64)
		if e != nil {
			return fmt.Errorf("setting '%s': %v", key, e)
		}
		s.PLLPhaseGain = &v

	case "nominal_cell_ticks":
		s.NominalCellTicks, err = num64()

	case "min_cell_ticks":
		s.MinCellTicks, err = num64()

	case "max_cell_ticks":
		s.MaxCellTicks, err = num64()

	case "max_records_per_track":
		s.MaxRecordsPerTrack, err = num()

	case "tracks":
		r, e := ParseRange(value)
		if e != nil {
			return e
		}
		s.Tracks = &r

	case "sides":
		r, e := ParseRange(value)
		if e != nil {
			return e
		}
		s.Sides = &r

	case "first_sector":
		s.FirstSector, err = num()

	case "sectors_per_track":
		s.SectorsPerTrack, err = num()

	case "sector_size":
		s.SectorSize, err = num()

	case "revolutions":
		s.Revolutions, err = num()

	case "workers":
		s.Workers, err = num()

	case "filler_byte":
		s.FillerByte, err = num()

	case "flux":
		s.Flux = str()

	case "output":
		s.Output = str()

	case "copy_flux_to":
		s.CopyFluxTo = str()

	default:
		return fmt.Errorf("'%s' is not a known setting", key)
	}

	return err
}
