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
	"fmt"
)

/*
	Pattern is a fixed cell-level bit pattern, such as a record separator
	or address mark, that a Reader can synchronize on. Width is the number
	of trailing raw cells compared; mask restricts the comparison to the
	cells the pattern declares significant.
*/
type Pattern struct {
	width int
	bits  uint64
	mask  uint64
}

//
func NewPattern(width int, bits uint64) (Pattern, error) {
	return NewMaskedPattern(width, bits, widthMask(width))
}

//
func NewMaskedPattern(width int, bits, mask uint64) (Pattern, error) {

	if width < 8 || width > 64 {
		return Pattern{}, fmt.Errorf(
			"pattern width %d out of range [8,64]", width)
	}

	mask &= widthMask(width)
	if bits&mask == 0 {
		return Pattern{}, fmt.Errorf("pattern has no significant set bits")
	}

	return Pattern{width: width, bits: bits & mask, mask: mask}, nil
}

// MustPattern is for statically known patterns; it panics on an invalid
// spec.
func MustPattern(width int, bits uint64) Pattern {
	p, err := NewPattern(width, bits)
	if err != nil {
		panic(err)
	}
	return p
}

//
func (p Pattern) Width() int {
	return p.width
}

//
func (p Pattern) matches(window uint64) bool {
	return window&p.mask == p.bits
}

//
func (p Pattern) String() string {
	return fmt.Sprintf("%d/%0*b", p.width, p.width, p.bits)
}

//
func widthMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}
