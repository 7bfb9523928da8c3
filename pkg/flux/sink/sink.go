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
	Package sink writes flux maps back out, mainly for diagnostic
	capture of the flux the decoder actually saw.
*/
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdrive/pkg/flux"
	"github.com/xelalexv/fluxdrive/pkg/flux/stream"
)

//
type Sink interface {
	//
	WriteFlux(track, side int, fm *flux.Fluxmap) error
	//
	Close() error
}

/*
	Resolve creates a sink from a sink spec string; currently the only
	form is a folder, absolute or prefixed with "kryoflux:", receiving
	one NN.S.raw capture stream file per track.
*/
func Resolve(spec string) (Sink, error) {
	if spec == "" {
		return nil, fmt.Errorf("no flux sink specified")
	}
	return NewStreamFolder(strings.TrimPrefix(spec, "kryoflux:"))
}

/*
	StreamFolder writes one capture stream file per (track, side) into a
	folder, mirroring the naming convention the stream folder source
	reads. Safe for concurrent writers.
*/
type StreamFolder struct {
	path string
	mux  sync.Mutex
}

//
func NewStreamFolder(path string) (*StreamFolder, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("cannot create sink folder '%s': %v", path, err)
	}
	return &StreamFolder{path: path}, nil
}

//
func (f *StreamFolder) WriteFlux(track, side int, fm *flux.Fluxmap) error {

	f.mux.Lock()
	defer f.mux.Unlock()

	name := filepath.Join(f.path, fmt.Sprintf("%02d.%d.raw", track, side))

	log.WithFields(log.Fields{
		"track": track,
		"side":  side,
		"file":  name,
	}).Debug("copying flux")

	if err := os.WriteFile(name, stream.Encode(fm), 0644); err != nil {
		return fmt.Errorf("cannot write flux copy: %v", err)
	}
	return nil
}

//
func (f *StreamFolder) Close() error {
	return nil
}
