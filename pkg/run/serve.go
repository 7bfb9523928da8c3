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
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdrive/pkg/config"
	"github.com/xelalexv/fluxdrive/pkg/control"
)

//
func NewServe() *Serve {

	s := &Serve{}
	s.Runner = *NewRunner(
		`serve [-a|--address {address}] [-P|--profile {profile}] [--option {name}]...
      [--set {key=value}]... [-f|--flux {flux source}] [-o|--output {image file}]`,
		"decode server & API command",
		`
Use the serve command for running the decode server and its API. Decode jobs
are started via the API; the profile given here provides the format parameters
for all jobs, flux source and output image are per-job defaults that API calls
may override.`,
		"", `- Logging can be configured with these environment variables:

  LOG_FORMAT		set to 'json' for JSON logging
  LOG_FORCE_COLORS	set to non-empty for forcing colorized log entries
  LOG_METHODS		set to non-empty for including methods in log
  LOG_LEVEL		panic, fatal, error, warn, info, debug, trace

`+runnerHelpEpilogue, s.Run)

	s.AddSetting(&s.Address, "address", "a", "FLUXDRIVE_ADDRESS", nil,
		"address the API server listens on", false)
	s.AddSetting(&s.Profile, "profile", "P", "FLUXDRIVE_PROFILE", "aeslanier",
		"decode profile, file or name of a built-in", false)
	s.AddSetting(&s.Options, "option", "", "", nil,
		"profile option to select, can be repeated", false)
	s.AddSetting(&s.Overrides, "set", "", "", nil,
		"config override of the form key=value, can be repeated", false)
	s.AddSetting(&s.Flux, "flux", "f", "FLUXDRIVE_FLUX", nil,
		"default flux source for decode jobs", false)
	s.AddSetting(&s.Output, "output", "o", "FLUXDRIVE_OUTPUT", nil,
		"default output image file for decode jobs", false)

	return s
}

//
type Serve struct {
	//
	Runner
	//
	Address   string
	Profile   string
	Options   []string
	Overrides []string
	Flux      string
	Output    string
}

//
func (s *Serve) Run() error {

	s.ParseSettings()

	prof, err := loadProfile(s.Profile)
	if err != nil {
		return err
	}

	overrides, err := parseOverrides(s.Overrides)
	if err != nil {
		return err
	}

	if s.Flux != "" {
		overrides.Flux = &s.Flux
	}
	if s.Output != "" {
		overrides.Output = &s.Output
	}

	cfg, err := config.Apply(prof, s.Options, overrides)
	if err != nil {
		return err
	}

	wg := &sync.WaitGroup{}
	wg.Add(1)

	api := control.NewAPIServer(s.Address, cfg)
	go func() {
		defer wg.Done()
		if err := api.Serve(); err != nil {
			log.Errorf("API server closed with error: %v", err)
		} else {
			log.Info("API server stopped")
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sigCount := 0
	done := make(chan bool)

	for {

		select {

		case sig := <-sigs: // interrupt signal
			log.WithField("signal", sig).Info("signal received")
			sigCount++

			switch sigCount {

			case 1:
				go func() {
					log.Info("shutting down, hit Ctrl-C twice to force exit...")
					api.Stop()
					wg.Wait()
					log.Info("FluxDrive stopped")
					done <- true
				}()

			case 2:
				log.Warn("shutdown in progress, hit Ctrl-C again to force exit")

			default:
				log.Warn("forcing server to stop immediately")
				os.Exit(1)
			}

		case <-done: // shutdown sequence complete
			return nil
		}
	}
}
