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
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdrive/pkg/flux"
)

// This is actually M2FM rather than MFM, but the permissive FM family
// decoder copes fine with it.
const (
	aeslanierRecordSeparator = 0x55555122
	aeslanierSectorLength    = 256
	aeslanierRecordSize      = aeslanierSectorLength + 5
)

//
var aeslanierSectorPattern = flux.MustPattern(32, aeslanierRecordSeparator)

//
func init() {
	register("aeslanier", func() Variant { return &aesLanier{} })
}

//
type aesLanier struct{}

//
func (a *aesLanier) Name() string {
	return "aeslanier"
}

//
func (a *aesLanier) DefaultClock() flux.ClockSpec {
	return flux.ClockSpec{
		Nominal: 96, // 2us cells
		Min:     72,
		Max:     120,
	}
}

//
func (a *aesLanier) AdvanceToNextRecord(r *flux.Reader) (flux.Ticks, error) {
	return r.SeekToPattern(aeslanierSectorPattern)
}

//
func (a *aesLanier) DecodeSectorRecord(
	r *flux.Reader, track, side int) (*Sector, error) {

	// skip the ID mark, we know it's a record separator
	if _, err := r.ReadRawBits(16); err != nil {
		return nil, err
	}

	raw, err := r.ReadRawBits(aeslanierRecordSize * 16)
	if err != nil {
		return nil, err
	}

	if v := CountClockViolations(raw); v > 0 {
		log.WithFields(log.Fields{
			"track":      track,
			"violations": v,
		}).Trace("clock violations in record")
	}

	record := ReverseBitsAll(DecodeFmMfm(raw)[:aeslanierRecordSize])

	sector := &Sector{
		LogicalTrack:  int(record[1]),
		LogicalSide:   0,
		LogicalSector: int(record[2]),
	}

	// The header checksum seems far too simple to mean much. A mismatch
	// just drops the record, it may not have been a sector at all.
	if record[3] != record[1]+record[2] {
		return nil, nil
	}

	sector.Data = append([]byte(nil),
		record[1:1+aeslanierSectorLength]...)

	// the data checksum also covers the header bytes and is
	// significantly better
	wanted := uint16(record[0x101]) | uint16(record[0x102])<<8
	got := CRC16Ref(ModbusPolyRef, sector.Data)

	if wanted == got {
		sector.Status = OK
	} else {
		sector.Status = BadChecksum
	}
	return sector, nil
}
