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

	"github.com/xelalexv/fluxdrive/pkg/flux"
)

// fallback values for settings no layer provides
const (
	defaultPhaseGain  = 0.05
	defaultMaxRecords = 128
	defaultWorkers    = 1
	defaultFiller     = 0xe5
)

/*
	Config is the combined decoder configuration. It is constructed once
	via Apply, validated, and from then on only read; the decoder driver
	receives it by reference and never modifies it.
*/
type Config struct {
	Variant string
	//
	PLLPhaseGain     float64
	NominalCellTicks flux.Ticks
	MinCellTicks     flux.Ticks
	MaxCellTicks     flux.Ticks
	//
	MaxRecordsPerTrack int
	Tracks             Range
	Sides              Range
	FirstSector        int
	SectorsPerTrack    int
	SectorSize         int
	Revolutions        int
	Workers            int
	FillerByte         byte
	//
	Flux       string
	Output     string
	CopyFluxTo string
}

//
func newConfig(s Settings) *Config {

	c := &Config{
		PLLPhaseGain:       defaultPhaseGain,
		MaxRecordsPerTrack: defaultMaxRecords,
		Revolutions:        1,
		Workers:            defaultWorkers,
		FillerByte:         defaultFiller,
	}

	if s.Variant != nil {
		c.Variant = *s.Variant
	}
	if s.PLLPhaseGain != nil {
		c.PLLPhaseGain = *s.PLLPhaseGain
	}
	if s.NominalCellTicks != nil {
		c.NominalCellTicks = flux.Ticks(*s.NominalCellTicks)
	}
	if s.MinCellTicks != nil {
		c.MinCellTicks = flux.Ticks(*s.MinCellTicks)
	}
	if s.MaxCellTicks != nil {
		c.MaxCellTicks = flux.Ticks(*s.MaxCellTicks)
	}
	if s.MaxRecordsPerTrack != nil {
		c.MaxRecordsPerTrack = *s.MaxRecordsPerTrack
	}
	if s.Tracks != nil {
		c.Tracks = *s.Tracks
	}
	if s.Sides != nil {
		c.Sides = *s.Sides
	}
	if s.FirstSector != nil {
		c.FirstSector = *s.FirstSector
	}
	if s.SectorsPerTrack != nil {
		c.SectorsPerTrack = *s.SectorsPerTrack
	}
	if s.SectorSize != nil {
		c.SectorSize = *s.SectorSize
	}
	if s.Revolutions != nil {
		c.Revolutions = *s.Revolutions
	}
	if s.Workers != nil {
		c.Workers = *s.Workers
	}
	if s.FillerByte != nil {
		c.FillerByte = byte(*s.FillerByte)
	}
	if s.Flux != nil {
		c.Flux = *s.Flux
	}
	if s.Output != nil {
		c.Output = *s.Output
	}
	if s.CopyFluxTo != nil {
		c.CopyFluxTo = *s.CopyFluxTo
	}

	return c
}

/*
	Validate checks the combined configuration before any flux is read.
	The variant name itself is vetted by the decoder registry when the
	driver is created.
*/
func (c *Config) Validate() error {

	if c.Variant == "" {
		return fmt.Errorf("no decoder variant configured")
	}

	if c.PLLPhaseGain < 0.01 || c.PLLPhaseGain > 0.2 {
		return fmt.Errorf(
			"pll_phase_gain %v out of range [0.01,0.2]", c.PLLPhaseGain)
	}

	if c.NominalCellTicks != 0 {
		if c.MinCellTicks == 0 || c.MaxCellTicks == 0 ||
			c.MinCellTicks > c.NominalCellTicks ||
			c.NominalCellTicks > c.MaxCellTicks {
			return fmt.Errorf(
				"cell period bounds [%d,%d] do not bracket nominal %d",
				c.MinCellTicks, c.MaxCellTicks, c.NominalCellTicks)
		}
	}

	if c.Tracks.Start < 0 || c.Tracks.End < c.Tracks.Start {
		return fmt.Errorf("invalid track range %d-%d",
			c.Tracks.Start, c.Tracks.End)
	}
	if c.Sides.Start < 0 || c.Sides.End < c.Sides.Start {
		return fmt.Errorf("invalid side range %d-%d",
			c.Sides.Start, c.Sides.End)
	}

	if c.MaxRecordsPerTrack < 1 {
		return fmt.Errorf("max_records_per_track must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if c.Revolutions < 1 {
		return fmt.Errorf("revolutions must be positive")
	}
	if c.SectorsPerTrack < 0 || c.FirstSector < 0 || c.SectorSize < 0 {
		return fmt.Errorf("sector geometry must not be negative")
	}

	return nil
}

// Clock returns the cell clock parameters for the bit separator. When
// the configuration does not set a nominal cell period, the variant's
// default applies.
func (c *Config) Clock(fallback flux.ClockSpec) flux.ClockSpec {

	ret := fallback
	if c.NominalCellTicks != 0 {
		ret.Nominal = c.NominalCellTicks
		ret.Min = c.MinCellTicks
		ret.Max = c.MaxCellTicks
	}
	ret.PhaseGain = c.PLLPhaseGain
	return ret
}
