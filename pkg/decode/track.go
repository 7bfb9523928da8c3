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

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdrive/pkg/flux"
)

/*
	DecodeTrack runs the record loop over one flux map: seek the next
	record mark, decode the record, merge the sector, until the flux is
	exhausted or the record cap is reached. Decode failures of a single
	record abort that record only; the loop resynchronizes at the next
	mark. Cancellation is honored between records, so an in-flight
	record always finishes.
*/
func DecodeTrack(ctx context.Context, v Variant, fm *flux.Fluxmap,
	clock flux.ClockSpec, track, side, maxRecords int,
	into *TrackInfo) error {

	r := flux.NewReader(fm, clock)

	for records := 0; records < maxRecords; records++ {

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := v.AdvanceToNextRecord(r); err != nil {
			// no further record on this track
			return nil
		}

		sector, err := v.DecodeSectorRecord(r, track, side)
		if err == flux.ErrEndOfFlux {
			return nil
		}
		if err != nil {
			log.WithFields(log.Fields{
				"track": track,
				"side":  side,
			}).Debugf("record dropped: %v", err)
			continue
		}
		if sector == nil {
			continue
		}

		into.Merge(sector)
	}

	return nil
}
