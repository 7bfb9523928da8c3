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
	"fmt"
	"math"
)

// default ratio of interval to cell period beyond which the clock is
// considered lost
const defaultMaxCellsPerInterval = 16

/*
	ClockSpec parameterizes the adaptive cell clock used for bit
	separation. Nominal is the starting cell period estimate; Min and Max
	clamp the recovered period; PhaseGain is the adaptation gain of the
	tracking loop.
*/
type ClockSpec struct {
	Nominal Ticks
	Min     Ticks
	Max     Ticks
	//
	PhaseGain float64
	// MaxCellsPerInterval caps the number of cells a single pulse
	// interval may span before it is treated as clock loss.
	MaxCellsPerInterval int
}

//
func (c ClockSpec) Validate() error {

	if c.Nominal == 0 {
		return fmt.Errorf("nominal cell period not set")
	}
	if c.Min == 0 || c.Max == 0 || c.Min > c.Nominal || c.Nominal > c.Max {
		return fmt.Errorf(
			"cell period bounds [%d,%d] do not bracket nominal %d",
			c.Min, c.Max, c.Nominal)
	}
	if c.PhaseGain < 0.01 || c.PhaseGain > 0.2 {
		return fmt.Errorf(
			"phase gain %v out of range [0.01,0.2]", c.PhaseGain)
	}
	return nil
}

/*
	Reader is a rewindable cursor over a Fluxmap. On top of raw event
	access it runs the adaptive bit separator, exposing the flux as a
	stream of raw cells: a 1 cell where a pulse landed, 0 cells in
	between. A Reader must not be shared across goroutines.
*/
type Reader struct {
	fluxmap *Fluxmap
	next    int
	// tick position at cell granularity
	position float64
	// separation state
	period   float64
	min, max float64
	gain     float64
	maxCells int
	//
	zeros int
	one   bool
	cell  float64
	carry float64
}

//
func NewReader(m *Fluxmap, clock ClockSpec) *Reader {

	maxCells := clock.MaxCellsPerInterval
	if maxCells <= 0 {
		maxCells = defaultMaxCellsPerInterval
	}

	return &Reader{
		fluxmap:  m,
		period:   float64(clock.Nominal),
		min:      float64(clock.Min),
		max:      float64(clock.Max),
		gain:     clock.PhaseGain,
		maxCells: maxCells,
	}
}

// NewRawReader returns a cursor for raw event access only. Bit
// separation is not set up; only ReadEvent, Seek and Tell may be used.
func NewRawReader(m *Fluxmap) *Reader {
	return &Reader{fluxmap: m}
}

// Tell returns the current cursor position in ticks.
func (r *Reader) Tell() Ticks {
	return Ticks(math.Round(r.position))
}

// Seek positions the cursor at the event boundary closest to, but not
// beyond, the given tick position, and resets the bit separation state.
func (r *Reader) Seek(t Ticks) {

	r.next = 0
	r.position = 0
	r.resetBits()

	for r.next < len(r.fluxmap.events) {
		iv := float64(r.fluxmap.events[r.next].interval)
		if Ticks(math.Round(r.position+iv)) > t {
			break
		}
		r.position += iv
		r.next++
	}
}

//
func (r *Reader) Rewind() {
	r.Seek(0)
}

//
func (r *Reader) resetBits() {
	r.zeros = 0
	r.one = false
	r.carry = 0
}

// AtEnd reports whether all events and all pending cells are consumed.
func (r *Reader) AtEnd() bool {
	return r.next >= len(r.fluxmap.events) && r.zeros == 0 && !r.one
}

// Period returns the current cell period estimate of the tracking loop.
func (r *Reader) Period() Ticks {
	return Ticks(math.Round(r.period))
}

// ReadEvent returns the next committed flux unit as (interval, kind),
// or ErrEndOfFlux at exhaustion.
func (r *Reader) ReadEvent() (Ticks, EventKind, error) {

	if r.next >= len(r.fluxmap.events) {
		return 0, 0, ErrEndOfFlux
	}

	ev := r.fluxmap.events[r.next]
	r.next++
	r.position += float64(ev.interval)
	return ev.interval, ev.kind, nil
}

// pulseInterval returns the ticks from the previous pulse to the next
// one, accumulating across index marks.
func (r *Reader) pulseInterval() (Ticks, error) {

	var total Ticks

	for r.next < len(r.fluxmap.events) {
		ev := r.fluxmap.events[r.next]
		r.next++
		total += ev.interval
		if ev.kind == Pulse {
			return total, nil
		}
	}

	return 0, ErrEndOfFlux
}

/*
	NextBit emits the next raw cell. For each pulse interval d the
	separator emits k-1 zero cells followed by a one cell, where k is the
	number of nominal cell periods the interval spans, and nudges the
	period estimate towards d/k. Degenerate intervals shorter than half
	the minimum period fold into the preceding cell. Intervals spanning
	more than the configured maximum of cells yield ErrClockLoss.
*/
func (r *Reader) NextBit() (bool, error) {

	for {
		if r.zeros > 0 {
			r.zeros--
			r.position += r.cell
			return false, nil
		}

		if r.one {
			r.one = false
			r.position += r.cell
			return true, nil
		}

		delta, err := r.pulseInterval()
		if err != nil {
			return false, err
		}

		d := float64(delta) + r.carry
		r.carry = 0

		if d < r.min/2 {
			r.carry = d
			continue
		}

		if d > r.period*float64(r.maxCells) {
			r.position += d
			return false, ErrClockLoss
		}

		k := int(math.Round(d / r.period))
		if k < 1 {
			k = 1
		}

		r.period += (d/float64(k) - r.period) * r.gain
		if r.period < r.min {
			r.period = r.min
		} else if r.period > r.max {
			r.period = r.max
		}

		r.cell = d / float64(k)
		r.zeros = k - 1
		r.one = true
	}
}

// ReadRawBits extracts n raw cells at the current clock estimate. Any
// clock loss or flux exhaustion within the run aborts the read.
func (r *Reader) ReadRawBits(n int) ([]bool, error) {

	bits := make([]bool, n)
	for ix := 0; ix < n; ix++ {
		b, err := r.NextBit()
		if err != nil {
			return nil, err
		}
		bits[ix] = b
	}
	return bits, nil
}

/*
	SeekToPattern advances the cursor until the trailing cells exactly
	match the pattern, leaving the cursor immediately after the final
	pattern cell. It returns the number of ticks skipped. Clock loss
	resets the match window; exhaustion yields ErrNoMatch.
*/
func (r *Reader) SeekToPattern(p Pattern) (Ticks, error) {

	start := r.position
	var window uint64
	valid := 0

	for {
		b, err := r.NextBit()
		if err == ErrClockLoss {
			window = 0
			valid = 0
			continue
		}
		if err != nil {
			return Ticks(math.Round(r.position - start)), ErrNoMatch
		}

		window <<= 1
		if b {
			window |= 1
		}
		if valid < p.width {
			valid++
		}

		if valid >= p.width && p.matches(window) {
			return Ticks(math.Round(r.position - start)), nil
		}
	}
}
