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
	Package source provides the flux sources the decoder can read from:
	capture stream directories, single stream files, in-memory flux maps,
	and a serial-attached capture device.
*/
package source

import (
	"fmt"
	"os"
	"strings"

	"github.com/xelalexv/fluxdrive/pkg/flux"
)

/*
	Source yields one Fluxmap per (track, side), lazily, on demand. A
	source declaring itself reentrant may be read by several tracks in
	parallel; live hardware sources are not reentrant.
*/
type Source interface {
	//
	ReadFlux(track, side int) (*flux.Fluxmap, error)
	//
	Recalibrate() error
	//
	Reentrant() bool
	//
	Close() error
}

/*
	Resolve creates a source from a source spec string:

		kryoflux:{folder}	capture stream folder with NN.S.raw files
		serial:{device}		serial-attached capture device
		{folder}		same as kryoflux:{folder}
		{file}			single capture stream file
*/
func Resolve(spec string) (Source, error) {

	if spec == "" {
		return nil, fmt.Errorf("no flux source specified")
	}

	if path, ok := cutPrefix(spec, "kryoflux:"); ok {
		return NewStreamFolder(path), nil
	}

	if dev, ok := cutPrefix(spec, "serial:"); ok {
		return NewSerial(dev)
	}

	info, err := os.Stat(spec)
	if err != nil {
		return nil, fmt.Errorf("cannot access flux source '%s': %v", spec, err)
	}

	if info.IsDir() {
		return NewStreamFolder(spec), nil
	}
	return NewStreamFile(spec)
}

//
func cutPrefix(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return strings.TrimPrefix(s, prefix), true
	}
	return s, false
}
