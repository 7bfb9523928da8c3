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

package flux

import (
	"time"
)

// TickFrequency is the internal time base of a flux map, in Hz. All
// interval arithmetic inside the decoder happens in ticks of this clock.
const TickFrequency = 48000000

// Ticks counts time in units of 1/TickFrequency seconds.
type Ticks uint64

//
func (t Ticks) Duration() time.Duration {
	return time.Duration(uint64(t) * uint64(time.Second) / TickFrequency)
}

//
func (t Ticks) Milliseconds() float64 {
	return float64(t) * 1000.0 / TickFrequency
}

//
type EventKind int

const (
	// Pulse is a detected flux transition.
	Pulse EventKind = iota
	// Index is the once-per-revolution mechanical marker.
	Index
)

//
func (k EventKind) String() string {
	switch k {
	case Pulse:
		return "pulse"
	case Index:
		return "index"
	}
	return "unknown"
}

//
type event struct {
	interval Ticks
	kind     EventKind
}

/*
	Fluxmap is an append-only log of flux events for a single track read.
	Intervals accumulate via AppendInterval until committed by a following
	pulse or index, so consumers always observe atomic (interval, kind)
	units. A flux map must not be modified once handed to a Reader.
*/
type Fluxmap struct {
	events  []event
	pending Ticks
	//
	duration Ticks
	pulses   int
	indexes  int
}

//
func NewFluxmap() *Fluxmap {
	return &Fluxmap{}
}

// AppendInterval adds t ticks to the interval preceding the next pulse
// or index mark.
func (m *Fluxmap) AppendInterval(t Ticks) {
	m.pending += t
}

//
func (m *Fluxmap) AppendPulse() {
	m.commit(Pulse)
	m.pulses++
}

//
func (m *Fluxmap) AppendIndex() {
	m.commit(Index)
	m.indexes++
}

//
func (m *Fluxmap) commit(kind EventKind) {
	m.events = append(m.events, event{interval: m.pending, kind: kind})
	m.duration += m.pending
	m.pending = 0
}

// Duration returns the total time covered by all committed events.
func (m *Fluxmap) Duration() Ticks {
	return m.duration
}

//
func (m *Fluxmap) Pulses() int {
	return m.pulses
}

//
func (m *Fluxmap) Indexes() int {
	return m.indexes
}

//
func (m *Fluxmap) Events() int {
	return len(m.events)
}

// Append concatenates another flux map onto this one, e.g. for stitching
// several revolutions of the same track into a single decode pass.
func (m *Fluxmap) Append(other *Fluxmap) {
	for _, ev := range other.events {
		m.AppendInterval(ev.interval)
		m.commit(ev.kind)
		if ev.kind == Pulse {
			m.pulses++
		} else {
			m.indexes++
		}
	}
}
