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
	Package decode reconstructs sectors from flux. It walks the raw cell
	stream of a track, synchronizes on the record marks of the configured
	format variant, decodes the record payloads, verifies their
	checksums, and merges repeated reads across revolutions into one
	result per sector.
*/
package decode

import (
	"fmt"
	"sort"

	"github.com/xelalexv/fluxdrive/pkg/flux"
)

/*
	Variant is one format family the decoder understands. A variant
	supplies the record synchronization and the record decode; the track
	loop and revolution merging around it are shared. DecodeSectorRecord
	may return a nil sector without error for records that fail the
	header check, since such a record need not have been a sector at all.
*/
type Variant interface {
	//
	Name() string
	// DefaultClock returns the cell clock of the format, used unless
	// the configuration overrides it.
	DefaultClock() flux.ClockSpec
	//
	AdvanceToNextRecord(r *flux.Reader) (flux.Ticks, error)
	//
	DecodeSectorRecord(r *flux.Reader, track, side int) (*Sector, error)
}

//
var variants = map[string]func() Variant{}

//
func register(name string, create func() Variant) {
	variants[name] = create
}

// NewVariant creates the named format variant; unregistered names are a
// configuration error.
func NewVariant(name string) (Variant, error) {
	if create, ok := variants[name]; ok {
		return create(), nil
	}
	return nil, fmt.Errorf(
		"'%s' is not a known decoder variant; known variants are: %v",
		name, Variants())
}

// Variants lists the registered format variant names.
func Variants() []string {
	ret := make([]string, 0, len(variants))
	for name := range variants {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}
