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

package image

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelalexv/fluxdrive/pkg/config"
	"github.com/xelalexv/fluxdrive/pkg/decode"
)

//
func imgConfig(size int) *config.Config {
	return &config.Config{SectorSize: size, FillerByte: 0xe5}
}

//
func fill(size int, b byte) []byte {
	ret := make([]byte, size)
	for ix := range ret {
		ret[ix] = b
	}
	return ret
}

func TestImg_WritesSectorsInOrder(t *testing.T) {

	path := filepath.Join(t.TempDir(), "disk.img")
	w := NewImg(path, imgConfig(4))

	// arrival order differs from image order
	require.NoError(t, w.WriteSector(&decode.Sector{
		LogicalTrack: 1, LogicalSector: 0, Data: fill(4, 0x22)}))
	require.NoError(t, w.WriteSector(&decode.Sector{
		LogicalTrack: 0, LogicalSector: 1, Data: fill(4, 0x11)}))
	require.NoError(t, w.WriteSector(&decode.Sector{
		LogicalTrack: 0, LogicalSector: 0, Data: fill(4, 0x00)}))

	require.NoError(t, w.Finish())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := bytes.Join([][]byte{
		fill(4, 0x00), fill(4, 0x11), fill(4, 0x22)}, nil)
	assert.Equal(t, want, data)
}

func TestImg_FillsDamagedSectors(t *testing.T) {

	path := filepath.Join(t.TempDir(), "disk.img")
	w := NewImg(path, imgConfig(4))

	require.NoError(t, w.WriteSector(&decode.Sector{
		LogicalSector: 0, Data: fill(4, 0xaa)}))
	// missing sector, no payload
	require.NoError(t, w.WriteSector(&decode.Sector{
		LogicalSector: 1, Status: decode.Missing}))
	// short payload from a broken decode
	require.NoError(t, w.WriteSector(&decode.Sector{
		LogicalSector: 2, Data: fill(2, 0xbb)}))

	require.NoError(t, w.Finish())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := bytes.Join([][]byte{
		fill(4, 0xaa), fill(4, 0xe5), fill(4, 0xe5)}, nil)
	assert.Equal(t, want, data)
}

func TestImg_RejectsDuplicateSector(t *testing.T) {

	w := NewImg(filepath.Join(t.TempDir(), "disk.img"), imgConfig(4))

	require.NoError(t, w.WriteSector(&decode.Sector{
		LogicalSector: 3, Data: fill(4, 0x01)}))
	assert.Error(t, w.WriteSector(&decode.Sector{
		LogicalSector: 3, Data: fill(4, 0x02)}))
}

func TestImg_InfersSectorSize(t *testing.T) {

	path := filepath.Join(t.TempDir(), "disk.img")
	w := NewImg(path, imgConfig(0))

	require.NoError(t, w.WriteSector(&decode.Sector{
		LogicalSector: 1, Status: decode.Missing}))
	require.NoError(t, w.WriteSector(&decode.Sector{
		LogicalSector: 0, Data: fill(8, 0x77)}))

	require.NoError(t, w.Finish())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append(fill(8, 0x77), fill(8, 0xe5)...), data)
}

func TestNewWriter(t *testing.T) {

	w, err := NewWriter("out.img", imgConfig(256))
	require.NoError(t, err)
	assert.IsType(t, &Img{}, w)

	w, err = NewWriter("out.IMG", imgConfig(256))
	require.NoError(t, err)
	assert.IsType(t, &Img{}, w)

	_, err = NewWriter("out.d64", imgConfig(256))
	assert.Error(t, err)
}
