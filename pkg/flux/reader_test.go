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
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCell = Ticks(48)

func testClock() ClockSpec {
	return ClockSpec{
		Nominal:   testCell,
		Min:       testCell * 3 / 4,
		Max:       testCell * 5 / 4,
		PhaseGain: 0.05,
	}
}

// fluxmapFromBits synthesizes a flux map whose bit separation yields the
// given cell string, one pulse per 1 cell. Trailing 0 cells are not
// representable and are dropped.
func fluxmapFromBits(bits string, cell Ticks) *Fluxmap {

	m := NewFluxmap()
	zeros := Ticks(0)

	for _, b := range bits {
		switch b {
		case '0':
			zeros++
		case '1':
			m.AppendInterval(cell * (zeros + 1))
			m.AppendPulse()
			zeros = 0
		}
	}
	return m
}

//
func bitString(v uint64, width int) string {
	var sb strings.Builder
	for ix := width - 1; ix >= 0; ix-- {
		if v&(1<<uint(ix)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func TestReader_BitSeparation(t *testing.T) {

	bits := "1011001000101"
	m := fluxmapFromBits(bits+"1", testCell)
	r := NewReader(m, testClock())

	for ix, want := range bits {
		b, err := r.NextBit()
		require.NoError(t, err, "bit %d", ix)
		assert.Equal(t, want == '1', b, "bit %d", ix)
	}
}

func TestReader_SeekToPattern(t *testing.T) {

	p := MustPattern(32, 0x55555122)
	filler := strings.Repeat("100", 12)
	m := fluxmapFromBits(filler+bitString(0x55555122, 32)+"1001", testCell)

	r := NewReader(m, testClock())
	skipped, err := r.SeekToPattern(p)
	require.NoError(t, err)

	// cursor sits immediately after the final pattern cell
	assert.Equal(t, Ticks(len(filler)+32)*testCell, skipped)

	bits, err := r.ReadRawBits(3)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false}, bits)
}

func TestReader_SeekToPatternNoMatch(t *testing.T) {

	p := MustPattern(32, 0x55555122)
	m := fluxmapFromBits(strings.Repeat("100", 40), testCell)

	r := NewReader(m, testClock())
	_, err := r.SeekToPattern(p)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestReader_PLLStability(t *testing.T) {

	const nominal = 100.0
	rnd := rand.New(rand.NewSource(1))

	m := NewFluxmap()
	for ix := 0; ix < 10000; ix++ {
		d := nominal * (1 + 0.02*rnd.NormFloat64())
		m.AppendInterval(Ticks(math.Round(d)))
		m.AppendPulse()
	}

	r := NewReader(m, ClockSpec{
		Nominal: 100, Min: 80, Max: 120, PhaseGain: 0.05,
	})

	for ix := 0; ; ix++ {
		if _, err := r.NextBit(); err != nil {
			assert.ErrorIs(t, err, ErrEndOfFlux)
			break
		}
		if ix > 100 {
			p := float64(r.Period())
			require.InDelta(t, nominal, p, 5.0, "pulse %d", ix)
		}
	}
}

func TestReader_PLLTracksDrift(t *testing.T) {

	m := NewFluxmap()
	for ix := 0; ix < 5000; ix++ {
		// cell period drifting from 100 to 104 ticks
		d := 100.0 + 4.0*float64(ix)/5000.0
		m.AppendInterval(Ticks(math.Round(d)))
		m.AppendPulse()
	}

	r := NewReader(m, ClockSpec{
		Nominal: 100, Min: 90, Max: 110, PhaseGain: 0.05,
	})

	for {
		if _, err := r.NextBit(); err != nil {
			break
		}
	}

	assert.InDelta(t, 104.0, float64(r.Period()), 2.0)
}

func TestReader_ClockLoss(t *testing.T) {

	m := NewFluxmap()
	m.AppendInterval(testCell)
	m.AppendPulse()
	m.AppendInterval(testCell * 20)
	m.AppendPulse()
	m.AppendInterval(testCell)
	m.AppendPulse()

	r := NewReader(m, testClock())

	b, err := r.NextBit()
	require.NoError(t, err)
	assert.True(t, b)

	_, err = r.NextBit()
	assert.ErrorIs(t, err, ErrClockLoss)

	// separation resumes at the next pulse
	b, err = r.NextBit()
	require.NoError(t, err)
	assert.True(t, b)
}

func TestReader_DegenerateIntervalFolds(t *testing.T) {

	m := NewFluxmap()
	m.AppendInterval(testCell)
	m.AppendPulse()
	// runt pulse, folds into the next interval
	m.AppendInterval(testCell / 8)
	m.AppendPulse()
	m.AppendInterval(testCell * 7 / 8)
	m.AppendPulse()

	r := NewReader(m, testClock())

	for ix := 0; ix < 2; ix++ {
		b, err := r.NextBit()
		require.NoError(t, err)
		assert.True(t, b, "bit %d", ix)
	}

	_, err := r.NextBit()
	assert.ErrorIs(t, err, ErrEndOfFlux)
}

func TestReader_SeekTell(t *testing.T) {

	m := fluxmapFromBits("1111", testCell)
	r := NewReader(m, testClock())

	_, err := r.ReadRawBits(4)
	require.NoError(t, err)
	assert.Equal(t, testCell*4, r.Tell())

	r.Seek(testCell * 2)
	assert.Equal(t, testCell*2, r.Tell())

	iv, kind, err := r.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, testCell, iv)
	assert.Equal(t, Pulse, kind)

	r.Rewind()
	assert.Equal(t, Ticks(0), r.Tell())
	assert.False(t, r.AtEnd())
}

func TestReader_IndexMarksTransparentToBits(t *testing.T) {

	m := NewFluxmap()
	m.AppendInterval(testCell)
	m.AppendPulse()
	m.AppendInterval(testCell / 2)
	m.AppendIndex()
	m.AppendInterval(testCell / 2)
	m.AppendPulse()

	r := NewReader(m, testClock())

	for ix := 0; ix < 2; ix++ {
		b, err := r.NextBit()
		require.NoError(t, err)
		assert.True(t, b, "bit %d", ix)
	}
}
