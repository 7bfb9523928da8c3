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

package source

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdrive/pkg/flux"
	"github.com/xelalexv/fluxdrive/pkg/flux/stream"
)

// StreamFileName is the capture file naming convention within a stream
// folder, NN.S.raw.
func StreamFileName(track, side int) string {
	return fmt.Sprintf("%02d.%d.raw", track, side)
}

/*
	StreamFolder reads a folder of per-track capture stream files, as
	written by stream-dumping capture tools, one NN.S.raw file per
	(track, side).
*/
type StreamFolder struct {
	path string
}

//
func NewStreamFolder(path string) *StreamFolder {
	return &StreamFolder{path: path}
}

//
func (f *StreamFolder) ReadFlux(track, side int) (*flux.Fluxmap, error) {

	name := filepath.Join(f.path, StreamFileName(track, side))

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("cannot read flux for track %d.%d: %v",
			track, side, err)
	}

	log.WithFields(log.Fields{
		"track": track,
		"side":  side,
		"bytes": len(data),
	}).Debug("reading capture stream")

	return stream.Parse(data)
}

//
func (f *StreamFolder) Recalibrate() error {
	return nil
}

//
func (f *StreamFolder) Reentrant() bool {
	return true
}

//
func (f *StreamFolder) Close() error {
	return nil
}

/*
	StreamFile reads a single capture stream file holding the flux of one
	track. It serves that flux for whatever (track, side) is requested,
	so a single capture can be decoded regardless of which physical track
	it was taken from.
*/
type StreamFile struct {
	fluxmap *flux.Fluxmap
}

//
func NewStreamFile(path string) (*StreamFile, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read flux file '%s': %v", path, err)
	}

	fm, err := stream.Parse(data)
	if err != nil {
		return nil, err
	}

	return &StreamFile{fluxmap: fm}, nil
}

//
func (f *StreamFile) ReadFlux(track, side int) (*flux.Fluxmap, error) {
	return f.fluxmap, nil
}

//
func (f *StreamFile) Recalibrate() error {
	return nil
}

//
func (f *StreamFile) Reentrant() bool {
	return true
}

//
func (f *StreamFile) Close() error {
	return nil
}
