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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdrive/pkg/config"
	"github.com/xelalexv/fluxdrive/pkg/decode"
	"github.com/xelalexv/fluxdrive/pkg/flux/source"
	"github.com/xelalexv/fluxdrive/pkg/image"
)

//
func NewDecode() *Decode {

	d := &Decode{}
	d.Runner = *NewRunner(
		`decode -f|--flux {flux source} -o|--output {image file} [-P|--profile {profile}]
       [--option {name}]... [--set {key=value}]... [--copy-flux {folder}]
       [-w|--workers {count}] [-r|--revolutions {count}]`,
		"decode flux into a disk image",
		`
Use the decode command to decode captured flux into a disk image. The flux
source can be a KryoFlux stream folder, a single stream file, or an attached
capture device ('serial:{device}'). The decode profile provides the format
parameters; individual settings can be switched on via profile options, or
overridden directly with --set.`,
		"", runnerHelpEpilogue, d.Run)

	d.AddSetting(&d.Flux, "flux", "f", "FLUXDRIVE_FLUX", nil,
		"flux source to decode", true)
	d.AddSetting(&d.Output, "output", "o", "FLUXDRIVE_OUTPUT", nil,
		"output image file", true)
	d.AddSetting(&d.Profile, "profile", "P", "FLUXDRIVE_PROFILE", "aeslanier",
		"decode profile, file or name of a built-in", false)
	d.AddSetting(&d.Options, "option", "", "", nil,
		"profile option to select, can be repeated", false)
	d.AddSetting(&d.Overrides, "set", "", "", nil,
		"config override of the form key=value, can be repeated", false)
	d.AddSetting(&d.CopyFlux, "copy-flux", "", "", nil,
		"also save the flux read from the source into this stream folder",
		false)
	d.AddSetting(&d.Workers, "workers", "w", "", 0,
		"number of tracks to decode in parallel", false)
	d.AddSetting(&d.Revolutions, "revolutions", "r", "", 0,
		"number of disk revolutions to read per track", false)

	return d
}

//
type Decode struct {
	//
	Runner
	//
	Flux        string
	Output      string
	Profile     string
	Options     []string
	Overrides   []string
	CopyFlux    string
	Workers     int
	Revolutions int
}

//
func (d *Decode) Run() error {

	d.ParseSettings()

	prof, err := loadProfile(d.Profile)
	if err != nil {
		return err
	}

	overrides, err := parseOverrides(d.Overrides)
	if err != nil {
		return err
	}

	overrides.Flux = &d.Flux
	overrides.Output = &d.Output
	if d.CopyFlux != "" {
		overrides.CopyFluxTo = &d.CopyFlux
	}
	if d.Workers > 0 {
		overrides.Workers = &d.Workers
	}
	if d.Revolutions > 0 {
		overrides.Revolutions = &d.Revolutions
	}

	cfg, err := config.Apply(prof, d.Options, overrides)
	if err != nil {
		return err
	}

	src, err := source.Resolve(cfg.Flux)
	if err != nil {
		return err
	}
	defer src.Close()

	writer, err := image.NewWriter(cfg.Output, cfg)
	if err != nil {
		return err
	}

	driver, err := decode.NewDriver(cfg, src, writer)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if sig, ok := <-sigs; ok {
			log.WithField("signal", sig).Info("aborting decode")
			cancel()
		}
	}()

	err = driver.Run(ctx)
	signal.Stop(sigs)
	close(sigs)

	printSummary(driver.Tracks())
	return err
}

//
func printSummary(tracks []*decode.TrackInfo) {

	totals := map[decode.Status]int{}
	for _, ti := range tracks {
		for status, count := range ti.Counts() {
			totals[status] += count
		}
	}

	fmt.Println()
	for _, status := range []decode.Status{decode.OK, decode.BadChecksum,
		decode.Conflict, decode.DataMissing, decode.Missing} {
		if count, ok := totals[status]; ok {
			fmt.Printf("%-14s %5d\n", status, count)
		}
	}
}
