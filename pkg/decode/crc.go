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

// ModbusPolyRef is the bit-reflected form of the CRC-16/MODBUS
// polynomial 0x8005.
const ModbusPolyRef uint16 = 0xa001

// CRC16Ref computes a bit-reflected CRC-16 with initial value 0xffff
// over data, shifting right with the given reflected polynomial.
func CRC16Ref(poly uint16, data []byte) uint16 {

	crc := uint16(0xffff)

	for _, b := range data {
		crc ^= uint16(b)
		for ix := 0; ix < 8; ix++ {
			if crc&1 != 0 {
				crc = crc>>1 ^ poly
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}
