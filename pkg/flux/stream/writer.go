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
	"math"

	"github.com/xelalexv/fluxdrive/pkg/flux"
)

// TicksToSclk converts flux map ticks to sample clock units.
func TicksToSclk(t flux.Ticks) uint32 {
	return uint32(math.Round(float64(t) / ticksPerSclk))
}

/*
	Encode renders a Fluxmap back into the capture stream format. Index
	marks become out-of-band index blocks carrying the stream position of
	the pulse that follows them, and their intervals fold into the next
	pulse delay, so Parse(Encode(m)) reproduces the pulse timing of m. No
	stream info blocks are emitted; the implied baseline delta is zero.
*/
func Encode(m *flux.Fluxmap) []byte {

	var out []byte
	var pending uint32

	r := flux.NewRawReader(m)

	for {
		iv, kind, err := r.ReadEvent()
		if err != nil {
			break
		}

		switch kind {

		case flux.Index:
			pending += TicksToSclk(iv)
			out = appendOOB(out, oobIndex, uint32(len(out)+8))

		case flux.Pulse:
			out = appendPulse(out, pending+TicksToSclk(iv))
			pending = 0
		}
	}

	return out
}

// appendPulse emits the shortest opcode sequence encoding a pulse delay
// of sclk sample clock units.
func appendPulse(out []byte, sclk uint32) []byte {

	for sclk > 0xffff {
		out = append(out, opOvl16)
		sclk -= 0x10000
	}

	switch {

	case sclk >= uint32(opFlux1Min) && sclk <= 0xff:
		out = append(out, byte(sclk))

	case sclk <= 0x7ff:
		out = append(out, byte(sclk>>8), byte(sclk))

	default:
		out = append(out, opFlux3, byte(sclk>>8), byte(sclk))
	}

	return out
}

// appendOOB emits an out-of-band block with a single le32 payload.
func appendOOB(out []byte, blockType byte, value uint32) []byte {
	return append(out, opOOB, blockType, 4, 0,
		byte(value), byte(value>>8), byte(value>>16), byte(value>>24))
}
