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
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/fluxdrive/pkg/flux"
)

const testCell = flux.Ticks(96)

//
func testClock() flux.ClockSpec {
	return flux.ClockSpec{
		Nominal:   testCell,
		Min:       testCell * 3 / 4,
		Max:       testCell * 5 / 4,
		PhaseGain: 0.05,
	}
}

// fluxmapFromCells synthesizes a flux map whose bit separation yields
// the given cell string, one pulse per 1 cell.
func fluxmapFromCells(bits string, cell flux.Ticks) *flux.Fluxmap {

	m := flux.NewFluxmap()
	zeros := flux.Ticks(0)

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
func cellString(v uint64, width int) string {
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

// recordCells FM-codes record bytes the way the drive writes them, bit
// order reversed, clock cells all set.
func recordCells(record []byte) string {

	var sb strings.Builder

	for _, b := range record {
		d := ReverseBits(b)
		for ix := 7; ix >= 0; ix-- {
			sb.WriteByte('1')
			if d&(1<<uint(ix)) != 0 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}

/*
	buildRecord assembles a raw sector record: ID byte, track, sector,
	header sum, payload, data CRC. The payload may be shorter than the
	data area, the rest stays zero.
*/
func buildRecord(track, sector byte, payload []byte) []byte {

	record := make([]byte, aeslanierRecordSize)
	record[0] = 0xfe
	record[1] = track
	record[2] = sector
	record[3] = track + sector
	copy(record[4:4+len(payload)], payload)

	crc := CRC16Ref(ModbusPolyRef, record[1:1+aeslanierSectorLength])
	record[0x101] = byte(crc)
	record[0x102] = byte(crc >> 8)

	return record
}

// trackFlux lays the given records onto a synthetic track, with record
// separators and gap filler in between.
func trackFlux(records ...[]byte) *flux.Fluxmap {

	var sb strings.Builder
	sb.WriteString(strings.Repeat("10", 24))

	for _, rec := range records {
		sb.WriteString(cellString(aeslanierRecordSeparator, 32))
		sb.WriteString(strings.Repeat("10", 8)) // ID mark cells
		sb.WriteString(recordCells(rec))
		sb.WriteString(strings.Repeat("10", 24))
	}

	sb.WriteString("1")
	return fluxmapFromCells(sb.String(), testCell)
}

func TestAESLanier_DecodeGoodSector(t *testing.T) {

	payload := []byte("directory listing, page one")
	fm := trackFlux(buildRecord(5, 3, payload))

	ti := NewTrackInfo(5, 0)
	v, err := NewVariant("aeslanier")
	require.NoError(t, err)

	require.NoError(t, DecodeTrack(
		context.Background(), v, fm, testClock(), 5, 0, 16, ti))

	sectors := ti.Sectors()
	require.Len(t, sectors, 1)

	s := sectors[0]
	assert.Equal(t, OK, s.Status)
	assert.Equal(t, 5, s.LogicalTrack)
	assert.Equal(t, 0, s.LogicalSide)
	assert.Equal(t, 3, s.LogicalSector)

	require.Len(t, s.Data, aeslanierSectorLength)
	assert.Equal(t, byte(5), s.Data[0])
	assert.Equal(t, byte(3), s.Data[1])
	assert.Equal(t, payload, s.Data[3:3+len(payload)])
}

func TestAESLanier_BadDataChecksum(t *testing.T) {

	record := buildRecord(2, 7, []byte{0xaa, 0xbb})
	record[0x101] ^= 0xff // corrupt the stored CRC

	ti := NewTrackInfo(2, 0)
	v, err := NewVariant("aeslanier")
	require.NoError(t, err)

	require.NoError(t, DecodeTrack(
		context.Background(), v, trackFlux(record), testClock(), 2, 0, 16, ti))

	sectors := ti.Sectors()
	require.Len(t, sectors, 1)
	assert.Equal(t, BadChecksum, sectors[0].Status)
	assert.Equal(t, 7, sectors[0].LogicalSector)
}

func TestAESLanier_HeaderSumMismatchDropsRecord(t *testing.T) {

	record := buildRecord(2, 7, nil)
	record[3]++ // break the header sum

	ti := NewTrackInfo(2, 0)
	v, err := NewVariant("aeslanier")
	require.NoError(t, err)

	require.NoError(t, DecodeTrack(
		context.Background(), v, trackFlux(record), testClock(), 2, 0, 16, ti))

	assert.Empty(t, ti.Sectors())
}

func TestAESLanier_MultipleSectorsOneTrack(t *testing.T) {

	fm := trackFlux(
		buildRecord(1, 0, []byte{0x11}),
		buildRecord(1, 1, []byte{0x22}),
		buildRecord(1, 2, []byte{0x33}),
	)

	ti := NewTrackInfo(1, 0)
	v, err := NewVariant("aeslanier")
	require.NoError(t, err)

	require.NoError(t, DecodeTrack(
		context.Background(), v, fm, testClock(), 1, 0, 16, ti))

	sectors := ti.Sectors()
	require.Len(t, sectors, 3)
	for ix, s := range sectors {
		assert.Equal(t, ix, s.LogicalSector)
		assert.Equal(t, OK, s.Status)
	}
	assert.Equal(t, 3, ti.Good())
}

func TestAESLanier_DecodeIsRepeatable(t *testing.T) {

	fm := trackFlux(
		buildRecord(3, 0, []byte{0xde, 0xad}),
		buildRecord(3, 1, []byte{0xbe, 0xef}),
	)

	v, err := NewVariant("aeslanier")
	require.NoError(t, err)

	var runs [][]*Sector
	for ix := 0; ix < 2; ix++ {
		ti := NewTrackInfo(3, 0)
		require.NoError(t, DecodeTrack(
			context.Background(), v, fm, testClock(), 3, 0, 16, ti))
		runs = append(runs, ti.Sectors())
	}

	require.Len(t, runs[0], 2)
	require.Len(t, runs[1], 2)

	for ix := range runs[0] {
		assert.Equal(t, runs[0][ix].Status, runs[1][ix].Status)
		assert.Equal(t, runs[0][ix].LogicalSector, runs[1][ix].LogicalSector)
		assert.Equal(t, runs[0][ix].Data, runs[1][ix].Data)
	}
}

func TestAESLanier_RecordCapStopsLoop(t *testing.T) {

	fm := trackFlux(
		buildRecord(0, 0, nil),
		buildRecord(0, 1, nil),
		buildRecord(0, 2, nil),
	)

	ti := NewTrackInfo(0, 0)
	v, err := NewVariant("aeslanier")
	require.NoError(t, err)

	require.NoError(t, DecodeTrack(
		context.Background(), v, fm, testClock(), 0, 0, 2, ti))

	assert.Len(t, ti.Sectors(), 2)
}

func TestAESLanier_TruncatedRecordIgnored(t *testing.T) {

	// separator followed by too little flux for a full record
	var sb strings.Builder
	sb.WriteString(strings.Repeat("10", 24))
	sb.WriteString(cellString(aeslanierRecordSeparator, 32))
	sb.WriteString(strings.Repeat("10", 40))
	sb.WriteString("1")

	ti := NewTrackInfo(0, 0)
	v, err := NewVariant("aeslanier")
	require.NoError(t, err)

	require.NoError(t, DecodeTrack(context.Background(), v,
		fluxmapFromCells(sb.String(), testCell),
		testClock(), 0, 0, 16, ti))

	assert.Empty(t, ti.Sectors())
}

func TestNewVariant_Unknown(t *testing.T) {
	_, err := NewVariant("nosuch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aeslanier")
}

func TestVariants_ListsRegistered(t *testing.T) {
	assert.Contains(t, Variants(), "aeslanier")
}
