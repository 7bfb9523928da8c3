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
	"errors"
)

var (
	// ErrEndOfFlux signals normal exhaustion of a flux map; it is a
	// termination condition, not a failure.
	ErrEndOfFlux = errors.New("end of flux")

	// ErrNoMatch signals that a pattern seek reached the end of the flux
	// map without finding the pattern.
	ErrNoMatch = errors.New("pattern not found")

	// ErrClockLoss signals that a pulse interval spanned more cells than
	// the clock allows; the record being read is unusable, decoding
	// continues at the next record.
	ErrClockLoss = errors.New("clock loss")
)
