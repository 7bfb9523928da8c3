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

/*
	Package stream implements the capture-device flux stream format: a
	sequence of 8-bit opcodes carrying pulse delays in sample clock
	units, interspersed with out-of-band blocks for stream position
	baselines and index marks.
*/
package stream

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/xelalexv/fluxdrive/pkg/flux"
)

// capture device clock tree
const (
	MclkHz = 18432000.0 * 73.0 / 14.0 / 2.0
	SclkHz = MclkHz / 2
	IclkHz = MclkHz / 16
)

// ticks per sample clock unit
const ticksPerSclk = flux.TickFrequency / SclkHz

// opcodes
const (
	opFlux2Max = 0x07
	opNop1     = 0x08
	opNop2     = 0x09
	opNop3     = 0x0a
	opOvl16    = 0x0b
	opFlux3    = 0x0c
	opOOB      = 0x0d
	opFlux1Min = 0x0e
)

// out-of-band block types
const (
	oobStreamInfo = 0x01
	oobIndex      = 0x02
)

var (
	// ErrUnknownOpcode signals a stream byte outside the opcode map; the
	// containing track is abandoned.
	ErrUnknownOpcode = errors.New("unknown stream opcode")

	// ErrTruncatedStream signals a flux opcode with missing operand
	// bytes.
	ErrTruncatedStream = errors.New("truncated flux stream")
)

// SclkToTicks converts sample clock units to flux map ticks.
func SclkToTicks(sclk uint32) flux.Ticks {
	return flux.Ticks(math.Round(float64(sclk) * ticksPerSclk))
}

/*
	Parse decodes a raw capture stream into a Fluxmap. It runs two
	passes: the first collects the index mark stream positions from the
	asynchronously inserted out-of-band blocks, the second emits the
	pulses, appending an index event before a pulse once the read
	position passes the pending index position adjusted by the stream
	baseline delta.
*/
func Parse(data []byte) (*flux.Fluxmap, error) {

	indexes, err := scanIndexes(data)
	if err != nil {
		return nil, err
	}

	m := flux.NewFluxmap()
	streamDelta := 0
	var extraSclks uint32

	writeFlux := func(pos int, sclk uint32) {
		// at most one index mark per pulse; further pending marks wait
		// for the following pulses
		if len(indexes) > 0 && pos >= int(indexes[0])+streamDelta {
			m.AppendIndex()
			indexes = indexes[1:]
		}
		m.AppendInterval(SclkToTicks(sclk))
		m.AppendPulse()
	}

	for p := 0; p < len(data); {

		b := data[p]
		p++

		switch {

		case b <= opFlux2Max:
			if p >= len(data) {
				return nil, fmt.Errorf("%w at 0x%08x", ErrTruncatedStream, p-1)
			}
			writeFlux(p+1, extraSclks+uint32(b)<<8|uint32(data[p]))
			extraSclks = 0
			p++

		case b == opNop1:

		case b == opNop2:
			p++

		case b == opNop3:
			p += 2

		case b == opOvl16:
			// next pulse delay is 0x10000 sclks longer
			extraSclks += 0x10000

		case b == opFlux3:
			if p+1 >= len(data) {
				return nil, fmt.Errorf("%w at 0x%08x", ErrTruncatedStream, p-1)
			}
			// yes, really big-endian
			writeFlux(p+2, extraSclks+uint32(data[p])<<8|uint32(data[p+1]))
			extraSclks = 0
			p += 2

		case b == opOOB:
			if p+2 >= len(data) {
				return m, nil
			}
			blockType := data[p]
			blockLen := int(data[p+1]) | int(data[p+2])<<8
			p += 3

			if blockType == oobStreamInfo && p+3 < len(data) {
				blockPos := p - 3
				streamDelta = blockPos - le32(data[p:])
				blockLen -= 4
				p += 4
			}

			if p+blockLen > len(data) {
				return m, nil
			}
			p += blockLen

		case b >= opFlux1Min:
			writeFlux(p, extraSclks+uint32(b))
			extraSclks = 0

		default:
			// every byte value is a defined opcode, but keep the guard
			// the hardware protocol specifies
			return nil, fmt.Errorf(
				"%w 0x%02x at 0x%08x", ErrUnknownOpcode, b, p-1)
		}
	}

	return m, nil
}

// scanIndexes is the pre-scan pass, skipping over all flux opcodes and
// collecting index mark positions from out-of-band blocks.
func scanIndexes(data []byte) ([]uint32, error) {

	var indexes []uint32

	for p := 0; p < len(data); {

		b := data[p]
		p++

		switch {

		case b <= opFlux2Max, b == opNop2:
			p++

		case b == opNop1, b == opOvl16:

		case b == opNop3, b == opFlux3:
			p += 2

		case b == opOOB:
			if p+2 >= len(data) {
				return indexes, nil
			}
			blockType := data[p]
			blockLen := int(data[p+1]) | int(data[p+2])<<8
			p += 3

			if blockType == oobIndex && p+3 < len(data) {
				indexes = append(indexes, uint32(le32(data[p:])))
				blockLen -= 4
				p += 4
			}

			if p+blockLen > len(data) {
				return indexes, nil
			}
			p += blockLen

		case b >= opFlux1Min:

		default:
			return nil, fmt.Errorf(
				"%w 0x%02x at 0x%08x", ErrUnknownOpcode, b, p-1)
		}
	}

	sort.Slice(indexes, func(i, j int) bool { return indexes[i] < indexes[j] })
	return indexes, nil
}

//
func le32(data []byte) int {
	return int(data[0]) | int(data[1])<<8 | int(data[2])<<16 | int(data[3])<<24
}
