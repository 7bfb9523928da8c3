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

package run

import (
	"fmt"
	"io"
)

//
func NewTracks() *Tracks {

	t := &Tracks{}
	t.Runner = *NewRunner(
		"tracks [-p|--port {port}]",
		"get per-track results from decode server",
		"\nUse the tracks command to list the per-track results of the most recent decode job.",
		"", runnerHelpEpilogue, t.Run)

	t.AddBaseSettings()

	return t
}

//
type Tracks struct {
	Runner
}

//
func (t *Tracks) Run() error {

	t.ParseSettings()

	resp, err := t.apiCall("GET", "/tracks", false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	list, err := io.ReadAll(resp)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", list)
	return nil
}
