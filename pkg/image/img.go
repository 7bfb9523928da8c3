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
	"fmt"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdrive/pkg/config"
	"github.com/xelalexv/fluxdrive/pkg/decode"
)

//
type location struct {
	track, side, sector int
}

//
func (l location) less(o location) bool {
	if l.track != o.track {
		return l.track < o.track
	}
	if l.side != o.side {
		return l.side < o.side
	}
	return l.sector < o.sector
}

/*
	Img is the flat sector dump writer. Sectors collect until Finish,
	then write out ordered by track, side and sector. Sectors that are
	missing or have no payload fill with the configured filler byte, so
	the image keeps its geometry even for damaged disks.
*/
type Img struct {
	path    string
	size    int
	filler  byte
	sectors map[location][]byte
}

//
func NewImg(path string, cfg *config.Config) *Img {
	return &Img{
		path:    path,
		size:    cfg.SectorSize,
		filler:  cfg.FillerByte,
		sectors: map[location][]byte{},
	}
}

//
func (w *Img) WriteSector(s *decode.Sector) error {

	loc := location{s.LogicalTrack, s.LogicalSide, s.LogicalSector}

	if _, ok := w.sectors[loc]; ok {
		return fmt.Errorf("duplicate sector %d.%d.%d",
			loc.track, loc.side, loc.sector)
	}

	w.sectors[loc] = s.Data

	if w.size == 0 && len(s.Data) > 0 {
		w.size = len(s.Data)
	}
	return nil
}

//
func (w *Img) Finish() error {

	locs := make([]location, 0, len(w.sectors))
	for loc := range w.sectors {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i].less(locs[j]) })

	filler := make([]byte, w.size)
	for ix := range filler {
		filler[ix] = w.filler
	}

	out, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("cannot create image '%s': %v", w.path, err)
	}
	defer out.Close()

	for _, loc := range locs {
		data := w.sectors[loc]
		if len(data) != w.size {
			data = filler
		}
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("cannot write image '%s': %v", w.path, err)
		}
	}

	log.WithFields(log.Fields{
		"file":    w.path,
		"sectors": len(locs),
		"bytes":   len(locs) * w.size,
	}).Info("image written")

	return nil
}
