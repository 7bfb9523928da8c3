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

package run

import (
	"fmt"
	"os"

	"github.com/xelalexv/fluxdrive/pkg/flux"
	"github.com/xelalexv/fluxdrive/pkg/flux/stream"
)

//
func NewInspect() *Inspect {

	i := &Inspect{}
	i.Runner = *NewRunner(
		"inspect -f|--file {stream file}",
		"inspect a flux stream file",
		`
Use the inspect command to look at a captured KryoFlux stream file without
decoding it. It reports pulse and index counts, capture duration, and the
distribution of the flux intervals.`,
		"", runnerHelpEpilogue, i.Run)

	i.AddSetting(&i.File, "file", "f", "", nil,
		"stream file to inspect", true)

	return i
}

//
type Inspect struct {
	//
	Runner
	//
	File string
}

//
func (i *Inspect) Run() error {

	i.ParseSettings()

	data, err := os.ReadFile(i.File)
	if err != nil {
		return err
	}

	fm, err := stream.Parse(data)
	if err != nil {
		return err
	}

	var count int
	var min, max, sum flux.Ticks

	r := flux.NewRawReader(fm)
	for !r.AtEnd() {
		interval, kind, err := r.ReadEvent()
		if err != nil {
			break
		}
		if kind != flux.Pulse {
			continue
		}
		if count == 0 || interval < min {
			min = interval
		}
		if interval > max {
			max = interval
		}
		sum += interval
		count++
	}

	fmt.Printf("\nfile:     %s\n", i.File)
	fmt.Printf("bytes:    %d\n", len(data))
	fmt.Printf("pulses:   %d\n", fm.Pulses())
	fmt.Printf("indexes:  %d\n", fm.Indexes())
	fmt.Printf("duration: %.2f ms\n", fm.Duration().Milliseconds())

	if count > 0 {
		fmt.Printf("interval: min %.2f µs, avg %.2f µs, max %.2f µs\n",
			min.Duration().Seconds()*1e6,
			(sum / flux.Ticks(count)).Duration().Seconds()*1e6,
			max.Duration().Seconds()*1e6)
	}

	return nil
}
