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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC16Ref_CheckValue(t *testing.T) {
	// CRC-16/MODBUS check value
	assert.Equal(t, uint16(0x4b37),
		CRC16Ref(ModbusPolyRef, []byte("123456789")))
}

func TestCRC16Ref_Empty(t *testing.T) {
	assert.Equal(t, uint16(0xffff), CRC16Ref(ModbusPolyRef, nil))
}

func TestCRC16Ref_SensitiveToEveryByte(t *testing.T) {

	data := make([]byte, 64)
	for ix := range data {
		data[ix] = byte(ix)
	}
	ref := CRC16Ref(ModbusPolyRef, data)

	for ix := range data {
		data[ix] ^= 0x01
		assert.NotEqual(t, ref, CRC16Ref(ModbusPolyRef, data), "byte %d", ix)
		data[ix] ^= 0x01
	}
}
