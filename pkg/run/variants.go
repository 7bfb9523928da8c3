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

	"github.com/xelalexv/fluxdrive/pkg/config"
	"github.com/xelalexv/fluxdrive/pkg/decode"
)

//
func NewVariants() *Variants {

	v := &Variants{}
	v.Runner = *NewRunner(
		"variants",
		"list format variants & built-in profiles",
		"\nUse the variants command to list the available format variants and built-in decode profiles.",
		"", "", v.Run)

	return v
}

//
type Variants struct {
	Runner
}

//
func (v *Variants) Run() error {

	v.ParseSettings()

	fmt.Println("\nvariants:")
	for _, name := range decode.Variants() {
		fmt.Printf("  %s\n", name)
	}

	fmt.Println("\nbuilt-in profiles:")
	for _, name := range config.Builtins() {
		fmt.Printf("  %s\n", name)
	}

	return nil
}
