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

package decode

//
type EventKind int

const (
	// TrackBegin is emitted when work on a track starts, before its flux
	// is read from the source.
	TrackBegin EventKind = iota
	// SectorDone is emitted for each merged sector, in logical sector
	// order, in (track, side) ascending order across tracks.
	SectorDone
	// TrackDone is emitted after the last sector of a track, carrying
	// the per-status sector counts.
	TrackDone
)

//
func (k EventKind) String() string {
	switch k {
	case TrackBegin:
		return "track begin"
	case SectorDone:
		return "sector done"
	case TrackDone:
		return "track done"
	}
	return "unknown"
}

/*
	Event is one decode progress event. Any number of observers can
	subscribe to the driver's event stream; a CLI renderer, the API
	server and the metrics adapter all consume the same events.
*/
type Event struct {
	Kind  EventKind
	Track int
	Side  int
	// Sector is set on SectorDone events.
	Sector *Sector
	// Counts is set on TrackDone events.
	Counts map[Status]int
}
