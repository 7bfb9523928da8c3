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

package stream

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/fluxdrive/pkg/flux"
)

//
func events(t *testing.T, m *flux.Fluxmap) []flux.EventKind {

	var kinds []flux.EventKind
	r := flux.NewRawReader(m)

	for {
		_, kind, err := r.ReadEvent()
		if err != nil {
			require.ErrorIs(t, err, flux.ErrEndOfFlux)
			return kinds
		}
		kinds = append(kinds, kind)
	}
}

func TestParse_PulseIndexPulse(t *testing.T) {

	// Flux3 0x1000, index mark at stream position 7, Flux1 0xff; the
	// index position lies between the two pulse opcodes, so the index
	// event lands between the pulses.
	data := []byte{
		0x0c, 0x10, 0x00,
		0x0d, 0x02, 0x04, 0x00, 0x07, 0x00, 0x00, 0x00,
		0xff,
	}

	m, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Pulses())
	assert.Equal(t, 1, m.Indexes())
	assert.Equal(t,
		[]flux.EventKind{flux.Pulse, flux.Index, flux.Pulse}, events(t, m))
	assert.Equal(t, SclkToTicks(0x1000)+SclkToTicks(0xff), m.Duration())
}

func TestParse_Flux2(t *testing.T) {

	m, err := Parse([]byte{0x07, 0xff})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Pulses())
	assert.Equal(t, SclkToTicks(0x07ff), m.Duration())
}

func TestParse_Ovl16(t *testing.T) {

	m, err := Parse([]byte{0x0b, 0x0b, 0x20})
	require.NoError(t, err)

	assert.Equal(t, 1, m.Pulses())
	assert.Equal(t, SclkToTicks(0x10000+0x10000+0x20), m.Duration())
}

func TestParse_Nops(t *testing.T) {

	m, err := Parse([]byte{0x08, 0x09, 0xaa, 0x0a, 0xbb, 0xcc, 0x10})
	require.NoError(t, err)

	assert.Equal(t, 1, m.Pulses())
	assert.Equal(t, SclkToTicks(0x10), m.Duration())
}

func TestParse_StreamInfoDelta(t *testing.T) {

	// stream info block at position 1 declaring baseline position 1;
	// the index at position 3 fires before the second pulse
	data := []byte{
		0x20,
		0x0d, 0x01, 0x04, 0x00, 0x01, 0x00, 0x00, 0x00,
		0x0d, 0x02, 0x04, 0x00, 0x03, 0x00, 0x00, 0x00,
		0x30,
	}

	m, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Pulses())
	assert.Equal(t, 1, m.Indexes())
	assert.Equal(t,
		[]flux.EventKind{flux.Pulse, flux.Index, flux.Pulse}, events(t, m))
}

func TestParse_PendingIndexesSpreadOverPulses(t *testing.T) {

	// two index marks accumulate between the first and second pulse;
	// each pulse picks up at most one of them, the second mark waits
	// for the third pulse
	data := []byte{
		0x20,
		0x0d, 0x02, 0x04, 0x00, 0x05, 0x00, 0x00, 0x00,
		0x0d, 0x02, 0x04, 0x00, 0x06, 0x00, 0x00, 0x00,
		0x30,
		0x40,
	}

	m, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, 3, m.Pulses())
	assert.Equal(t, 2, m.Indexes())
	assert.Equal(t,
		[]flux.EventKind{
			flux.Pulse, flux.Index, flux.Pulse, flux.Index, flux.Pulse},
		events(t, m))
}

func TestParse_TruncatedFluxOpcode(t *testing.T) {

	_, err := Parse([]byte{0x03})
	assert.ErrorIs(t, err, ErrTruncatedStream)

	_, err = Parse([]byte{0x0c, 0x10})
	assert.ErrorIs(t, err, ErrTruncatedStream)
}

func TestParse_TruncatedOOBEndsStream(t *testing.T) {

	m, err := Parse([]byte{0x10, 0x0d, 0x02})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Pulses())
}

func TestRoundTrip(t *testing.T) {

	rnd := rand.New(rand.NewSource(7))
	m := flux.NewFluxmap()

	for ix := 0; ix < 2000; ix++ {

		var sclk uint32
		switch ix % 4 {
		case 0:
			sclk = uint32(0x0e + rnd.Intn(0xf2)) // Flux1 range
		case 1:
			sclk = uint32(rnd.Intn(0x800)) // Flux2 range
		case 2:
			sclk = uint32(0x800 + rnd.Intn(0x10000-0x800)) // Flux3 range
		case 3:
			sclk = uint32(0x10000 + rnd.Intn(0x10000)) // Ovl16 needed
		}

		m.AppendInterval(SclkToTicks(sclk))

		if ix%500 == 250 {
			m.AppendIndex()
			m.AppendInterval(SclkToTicks(uint32(0x20 + rnd.Intn(0x100))))
		}
		m.AppendPulse()
	}

	m2, err := Parse(Encode(m))
	require.NoError(t, err)

	assert.Equal(t, m.Pulses(), m2.Pulses())
	assert.Equal(t, m.Indexes(), m2.Indexes())

	// index intervals fold into the following pulse delay on encode,
	// which costs at most one tick of rounding per index mark
	assert.InDelta(t,
		float64(m.Duration()), float64(m2.Duration()), float64(m.Indexes()))
}

func TestSclkTicksConversion(t *testing.T) {

	for _, sclk := range []uint32{0, 1, 0x0e, 0xff, 0x7ff, 0xffff, 0x1ffff} {
		assert.Equal(t, sclk, TicksToSclk(SclkToTicks(sclk)), "sclk %#x", sclk)
	}
}
