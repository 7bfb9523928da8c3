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

import (
	"bytes"
	"sort"
)

//
type Status int

const (
	// OK means the sector decoded with a valid data checksum.
	OK Status = iota
	// BadChecksum means the sector decoded but its data checksum did
	// not verify.
	BadChecksum
	// Missing means no record for the sector was found on any
	// revolution.
	Missing
	// Conflict means two clean decodes of the same sector disagreed on
	// the payload.
	Conflict
	// DataMissing means the sector header was found but its data record
	// was not.
	DataMissing
)

//
func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case BadChecksum:
		return "bad checksum"
	case Missing:
		return "missing"
	case Conflict:
		return "conflict"
	case DataMissing:
		return "data missing"
	}
	return "unknown"
}

/*
	Sector is one decoded sector. The logical location comes from the
	decoded record header, which need not match the physical location the
	flux was read from. A sector owns its payload; it never aliases the
	decode buffers.
*/
type Sector struct {
	LogicalTrack  int
	LogicalSide   int
	LogicalSector int
	Data          []byte
	Status        Status
}

/*
	TrackInfo collects the sectors decoded from one physical (track,
	side), merging repeated decodes across revolutions down to one
	representative per logical sector.
*/
type TrackInfo struct {
	Track int
	Side  int
	//
	sectors map[int]*Sector
}

//
func NewTrackInfo(track, side int) *TrackInfo {
	return &TrackInfo{
		Track:   track,
		Side:    side,
		sectors: map[int]*Sector{},
	}
}

/*
	Merge folds a decoded sector into the track result. The first clean
	decode of a sector wins and is never downgraded by later bad ones.
	Two clean decodes with differing payloads mark the sector as
	conflicting. Failing decodes only ever stand in until a clean one
	arrives.
*/
func (t *TrackInfo) Merge(s *Sector) {

	prev, ok := t.sectors[s.LogicalSector]
	if !ok {
		t.sectors[s.LogicalSector] = s
		return
	}

	switch prev.Status {

	case OK:
		if s.Status == OK && !bytes.Equal(prev.Data, s.Data) {
			prev.Status = Conflict
		}

	case BadChecksum, Missing, DataMissing:
		if s.Status == OK {
			t.sectors[s.LogicalSector] = s
		}
	}
}

// FillMissing adds placeholder sectors with status Missing for all
// expected logical sector numbers that have no decode.
func (t *TrackInfo) FillMissing(first, count int) {
	for sec := first; sec < first+count; sec++ {
		if _, ok := t.sectors[sec]; !ok {
			t.sectors[sec] = &Sector{
				LogicalTrack:  t.Track,
				LogicalSide:   t.Side,
				LogicalSector: sec,
				Status:        Missing,
			}
		}
	}
}

// Sectors returns the merged sectors ordered by logical sector number.
func (t *TrackInfo) Sectors() []*Sector {

	ret := make([]*Sector, 0, len(t.sectors))
	for _, s := range t.sectors {
		ret = append(ret, s)
	}

	sort.Slice(ret, func(i, j int) bool {
		return ret[i].LogicalSector < ret[j].LogicalSector
	})
	return ret
}

// Counts returns the number of sectors per status.
func (t *TrackInfo) Counts() map[Status]int {
	ret := map[Status]int{}
	for _, s := range t.sectors {
		ret[s.Status]++
	}
	return ret
}

// Good returns the number of cleanly decoded sectors.
func (t *TrackInfo) Good() int {
	return t.Counts()[OK]
}
