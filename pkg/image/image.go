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
	Package image writes decoded sectors into disk image files. Only the
	flat sector dump is built in; richer legacy formats live in separate
	tools that consume the same sector stream.
*/
package image

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xelalexv/fluxdrive/pkg/config"
	"github.com/xelalexv/fluxdrive/pkg/decode"
)

/*
	NewWriter creates an image writer for the given output file, chosen
	by file extension.
*/
func NewWriter(path string, cfg *config.Config) (decode.SectorWriter, error) {

	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {

	case "img":
		return NewImg(path, cfg), nil
	}

	return nil, fmt.Errorf("unsupported image format: '%s'", path)
}
