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

package main

import (
	"fmt"
	"os"

	"github.com/xelalexv/fluxdrive/pkg/run"
)

//
var FluxDriveVersion string

//
func synopsis() {
	fmt.Print(`
synopsis: fluxctl {decode|serve|start|status|tracks|inspect|variants|version} ...

run 'fluxctl {action} -h|--help' to see detailed info

`)
}

//
func version() {
	fmt.Printf("\nFluxDrive %s\n\n", FluxDriveVersion)
}

//
func main() {

	var action string
	var args []string

	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	if len(os.Args) > 2 {
		args = os.Args[2:]
	}

	switch action {

	case "decode":
		run.DieOnError(run.NewDecode().Execute(args))

	case "serve":
		version()
		run.DieOnError(run.NewServe().Execute(args))

	case "start":
		run.DieOnError(run.NewStart().Execute(args))

	case "status":
		run.DieOnError(run.NewStatus().Execute(args))

	case "tracks":
		run.DieOnError(run.NewTracks().Execute(args))

	case "inspect":
		run.DieOnError(run.NewInspect().Execute(args))

	case "variants":
		run.DieOnError(run.NewVariants().Execute(args))

	case "version":
		version()

	case "":
		fallthrough
	case "-h":
		fallthrough
	case "--help":
		synopsis()

	default:
		run.Die("unknown action: %s\n", action)
	}
}
