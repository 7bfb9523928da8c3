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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFluxmap_PendingIntervalCommit(t *testing.T) {

	m := NewFluxmap()
	m.AppendInterval(10)
	m.AppendInterval(5)
	m.AppendPulse()
	m.AppendInterval(7)
	m.AppendIndex()

	assert.Equal(t, 2, m.Events())
	assert.Equal(t, 1, m.Pulses())
	assert.Equal(t, 1, m.Indexes())
	assert.Equal(t, Ticks(22), m.Duration())

	r := NewRawReader(m)

	iv, kind, err := r.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, Ticks(15), iv)
	assert.Equal(t, Pulse, kind)

	iv, kind, err = r.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, Ticks(7), iv)
	assert.Equal(t, Index, kind)

	_, _, err = r.ReadEvent()
	assert.ErrorIs(t, err, ErrEndOfFlux)
}

func TestFluxmap_UncommittedIntervalNotCounted(t *testing.T) {

	m := NewFluxmap()
	m.AppendInterval(100)

	assert.Equal(t, 0, m.Events())
	assert.Equal(t, Ticks(0), m.Duration())
}

func TestFluxmap_Append(t *testing.T) {

	a := NewFluxmap()
	a.AppendInterval(10)
	a.AppendPulse()

	b := NewFluxmap()
	b.AppendInterval(20)
	b.AppendPulse()
	b.AppendInterval(5)
	b.AppendIndex()

	a.Append(b)

	assert.Equal(t, 3, a.Events())
	assert.Equal(t, 2, a.Pulses())
	assert.Equal(t, 1, a.Indexes())
	assert.Equal(t, Ticks(35), a.Duration())
}

func TestPattern_Validation(t *testing.T) {

	_, err := NewPattern(4, 0x0f)
	assert.Error(t, err)

	_, err = NewPattern(65, 1)
	assert.Error(t, err)

	_, err = NewPattern(16, 0)
	assert.Error(t, err)

	// bits outside the width are not significant
	_, err = NewPattern(8, 0xf00)
	assert.Error(t, err)

	p, err := NewPattern(32, 0x55555122)
	require.NoError(t, err)
	assert.Equal(t, 32, p.Width())
}

func TestPattern_MaskedMatch(t *testing.T) {

	p, err := NewMaskedPattern(8, 0xa0, 0xf0)
	require.NoError(t, err)

	assert.True(t, p.matches(0xa0))
	assert.True(t, p.matches(0xaf))
	assert.False(t, p.matches(0xb0))

	// window bits beyond the pattern width are ignored
	assert.True(t, p.matches(0xffa3))
}

func TestTicks_Duration(t *testing.T) {
	assert.Equal(t, float64(1000), Ticks(TickFrequency).Milliseconds())
	assert.Equal(t, "pulse", Pulse.String())
	assert.Equal(t, "index", Index.String())
}
