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
	"net/url"
)

//
func NewStart() *Start {

	s := &Start{}
	s.Runner = *NewRunner(
		"start [-f|--flux {flux source}] [-o|--output {image file}] [-p|--port {port}]",
		"start a decode job on the decode server",
		`
Use the start command to start a decode job on the decode server. Flux source
and output image fall back to the server's defaults when omitted. Job progress
shows up in the status and tracks commands.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Flux, "flux", "f", "", nil,
		"flux source to decode, server default when omitted", false)
	s.AddSetting(&s.Output, "output", "o", "", nil,
		"output image file, server default when omitted", false)

	return s
}

//
type Start struct {
	//
	Runner
	//
	Flux   string
	Output string
}

//
func (s *Start) Run() error {

	s.ParseSettings()

	query := url.Values{}
	if s.Flux != "" {
		query.Set("flux", s.Flux)
	}
	if s.Output != "" {
		query.Set("output", s.Output)
	}

	path := "/decode"
	if len(query) > 0 {
		path = fmt.Sprintf("%s?%s", path, query.Encode())
	}

	resp, err := s.apiCall("POST", path, false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	msg, err := io.ReadAll(resp)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", msg)
	return nil
}
