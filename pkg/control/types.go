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

package control

import (
	"fmt"

	"github.com/xelalexv/fluxdrive/pkg/decode"
)

/*
	Status is the API representation of the server state and the most
	recent decode job.
*/
type Status struct {
	Variant string         `json:"variant"`
	Running bool           `json:"running"`
	Flux    string         `json:"flux,omitempty"`
	Output  string         `json:"output,omitempty"`
	Error   string         `json:"error,omitempty"`
	Totals  map[string]int `json:"totals,omitempty"`
}

//
func (s *Status) String() string {

	state := "idle"
	if s.Running {
		state = "decoding"
	}

	ret := fmt.Sprintf("\nvariant: %s\nstate:   %s", s.Variant, state)
	if s.Flux != "" {
		ret += fmt.Sprintf("\nflux:    %s", s.Flux)
	}
	if s.Output != "" {
		ret += fmt.Sprintf("\noutput:  %s", s.Output)
	}
	if s.Error != "" {
		ret += fmt.Sprintf("\nerror:   %s", s.Error)
	}
	for status, count := range s.Totals {
		ret += fmt.Sprintf("\n  %-12s %4d", status, count)
	}
	return ret
}

// TrackSummary is the API representation of one decoded track.
type TrackSummary struct {
	Track  int            `json:"track"`
	Side   int            `json:"side"`
	Counts map[string]int `json:"counts"`
}

//
func summarize(ti *decode.TrackInfo) *TrackSummary {

	counts := map[string]int{}
	for status, count := range ti.Counts() {
		counts[status.String()] = count
	}

	return &TrackSummary{Track: ti.Track, Side: ti.Side, Counts: counts}
}
