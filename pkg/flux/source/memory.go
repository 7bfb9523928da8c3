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

package source

import (
	"github.com/xelalexv/fluxdrive/pkg/flux"
)

//
type key struct {
	track, side int
}

/*
	Memory is a flux source backed by pre-loaded flux maps, used for
	synthesized flux in tests and for replaying already parsed captures.
	Tracks without a flux map read as empty.
*/
type Memory struct {
	tracks map[key]*flux.Fluxmap
}

//
func NewMemory() *Memory {
	return &Memory{tracks: map[key]*flux.Fluxmap{}}
}

//
func (m *Memory) Put(track, side int, fm *flux.Fluxmap) *Memory {
	m.tracks[key{track, side}] = fm
	return m
}

//
func (m *Memory) ReadFlux(track, side int) (*flux.Fluxmap, error) {
	if fm, ok := m.tracks[key{track, side}]; ok {
		return fm, nil
	}
	return flux.NewFluxmap(), nil
}

//
func (m *Memory) Recalibrate() error {
	return nil
}

//
func (m *Memory) Reentrant() bool {
	return true
}

//
func (m *Memory) Close() error {
	return nil
}
