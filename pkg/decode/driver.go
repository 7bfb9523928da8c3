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

package decode

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdrive/pkg/config"
	"github.com/xelalexv/fluxdrive/pkg/flux"
	"github.com/xelalexv/fluxdrive/pkg/flux/sink"
	"github.com/xelalexv/fluxdrive/pkg/flux/source"
	"github.com/xelalexv/fluxdrive/pkg/flux/stream"
)

/*
	SectorWriter receives the decoded sectors, in ascending (track, side,
	sector) order, and is told when the last sector has been written.
	Image writers implement this.
*/
type SectorWriter interface {
	//
	WriteSector(*Sector) error
	//
	Finish() error
}

//
type job struct {
	ix          int
	track, side int
}

/*
	Driver iterates the configured (track, side) ranges, obtains the flux
	for each from the source, runs the per-track decode, and hands the
	merged sectors to the writer. Distinct tracks decode in parallel
	worker goroutines when the source permits it; delivery to the writer
	is nevertheless strictly ordered through a reorder buffer.
*/
type Driver struct {
	cfg     *config.Config
	variant Variant
	clock   flux.ClockSpec
	src     source.Source
	writer  SectorWriter
	copyTo  sink.Sink
	//
	subs []chan Event
	//
	tracks []*TrackInfo
}

//
func NewDriver(cfg *config.Config, src source.Source,
	w SectorWriter) (*Driver, error) {

	variant, err := NewVariant(cfg.Variant)
	if err != nil {
		return nil, err
	}

	clock := cfg.Clock(variant.DefaultClock())
	if err := clock.Validate(); err != nil {
		return nil, err
	}

	d := &Driver{
		cfg:     cfg,
		variant: variant,
		clock:   clock,
		src:     src,
		writer:  w,
	}

	if cfg.CopyFluxTo != "" {
		if d.copyTo, err = sink.Resolve(cfg.CopyFluxTo); err != nil {
			return nil, err
		}
	}

	return d, nil
}

/*
	Subscribe returns a channel of decode progress events. Events are
	sent without blocking; a subscriber that does not keep up misses
	events rather than stalling the decode. The channel closes when the
	run ends.
*/
func (d *Driver) Subscribe(buffer int) <-chan Event {
	ch := make(chan Event, buffer)
	d.subs = append(d.subs, ch)
	return ch
}

//
func (d *Driver) emit(ev Event) {
	for _, ch := range d.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Tracks returns the per-track results of the last run, in (track,
// side) ascending order.
func (d *Driver) Tracks() []*TrackInfo {
	return d.tracks
}

/*
	Run performs the decode. It returns ErrNoGoodSectors when any
	configured track yielded no clean sector at all, and the underlying
	error when the source failed outright. Flux format errors abandon
	the affected track and decoding continues.
*/
func (d *Driver) Run(ctx context.Context) error {

	defer func() {
		for _, ch := range d.subs {
			close(ch)
		}
		d.subs = nil
	}()

	var jobs []job
	for track := d.cfg.Tracks.Start; track <= d.cfg.Tracks.End; track++ {
		for side := d.cfg.Sides.Start; side <= d.cfg.Sides.End; side++ {
			jobs = append(jobs, job{ix: len(jobs), track: track, side: side})
		}
	}

	workers := d.cfg.Workers
	if !d.src.Reentrant() {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	log.WithFields(log.Fields{
		"variant": d.variant.Name(),
		"tracks":  len(jobs),
		"workers": workers,
	}).Info("decode starts")

	d.tracks = make([]*TrackInfo, len(jobs))
	delivery := &delivery{driver: d, pending: map[int]*TrackInfo{}}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan job)
	var fatal error
	var fatalMux sync.Mutex
	var wg sync.WaitGroup

	abort := func(err error) {
		fatalMux.Lock()
		if fatal == nil {
			fatal = err
		}
		fatalMux.Unlock()
		cancel()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				if ctx.Err() != nil {
					delivery.push(j.ix, d.failedTrack(j))
					continue
				}
				ti, err := d.decodeOne(ctx, j)
				if err != nil {
					abort(err)
					ti = d.failedTrack(j)
				}
				delivery.push(j.ix, ti)
			}
		}()
	}

	for _, j := range jobs {
		queue <- j
	}
	close(queue)
	wg.Wait()

	if err := d.writer.Finish(); err != nil {
		return err
	}
	if d.copyTo != nil {
		if err := d.copyTo.Close(); err != nil {
			return err
		}
	}

	if fatal != nil {
		return fatal
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	failed := 0
	for _, ti := range d.tracks {
		if ti.Good() == 0 {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrNoGoodSectors, failed, len(jobs))
	}
	return nil
}

/*
	decodeOne reads and decodes the flux for one (track, side), once per
	configured revolution, so flaky sectors get retries without
	recapture. Flux format errors abandon
	the track; anything else from the source is fatal for the run.
*/
func (d *Driver) decodeOne(ctx context.Context, j job) (*TrackInfo, error) {

	ti := NewTrackInfo(j.track, j.side)

	d.emit(Event{Kind: TrackBegin, Track: j.track, Side: j.side})

	for rev := 0; rev < d.cfg.Revolutions; rev++ {

		fm, err := d.src.ReadFlux(j.track, j.side)
		if err != nil {
			if errors.Is(err, stream.ErrUnknownOpcode) ||
				errors.Is(err, stream.ErrTruncatedStream) {
				log.WithFields(log.Fields{
					"track": j.track,
					"side":  j.side,
				}).Errorf("abandoning track: %v", err)
				d.fillMissing(ti)
				return ti, nil
			}
			return nil, err
		}

		if d.copyTo != nil {
			if err := d.copyTo.WriteFlux(j.track, j.side, fm); err != nil {
				log.Errorf("flux copy failed: %v", err)
			}
		}

		if err := DecodeTrack(ctx, d.variant, fm, d.clock,
			j.track, j.side, d.cfg.MaxRecordsPerTrack, ti); err != nil {
			return nil, err
		}
	}

	d.fillMissing(ti)
	return ti, nil
}

//
func (d *Driver) fillMissing(ti *TrackInfo) {
	if d.cfg.SectorsPerTrack > 0 {
		ti.FillMissing(d.cfg.FirstSector, d.cfg.SectorsPerTrack)
	}
}

//
func (d *Driver) failedTrack(j job) *TrackInfo {
	ti := NewTrackInfo(j.track, j.side)
	d.fillMissing(ti)
	return ti
}

/*
	delivery is the reorder buffer between the decode workers and the
	sector writer. Workers push completed tracks in any order; tracks
	are released to the writer strictly in job index order, which is
	(track, side) ascending.
*/
type delivery struct {
	driver  *Driver
	mux     sync.Mutex
	next    int
	pending map[int]*TrackInfo
}

//
func (y *delivery) push(ix int, ti *TrackInfo) {

	y.mux.Lock()
	defer y.mux.Unlock()

	y.pending[ix] = ti

	for {
		ready, ok := y.pending[y.next]
		if !ok {
			return
		}
		delete(y.pending, y.next)
		y.driver.tracks[y.next] = ready
		y.next++
		y.deliver(ready)
	}
}

//
func (y *delivery) deliver(ti *TrackInfo) {

	d := y.driver

	for _, s := range ti.Sectors() {
		if err := d.writer.WriteSector(s); err != nil {
			log.Errorf("sector write failed: %v", err)
			continue
		}
		d.emit(Event{
			Kind: SectorDone, Track: ti.Track, Side: ti.Side, Sector: s,
		})
	}

	counts := ti.Counts()
	d.emit(Event{
		Kind: TrackDone, Track: ti.Track, Side: ti.Side, Counts: counts,
	})

	log.WithFields(log.Fields{
		"track":   ti.Track,
		"side":    ti.Side,
		"good":    counts[OK],
		"bad":     counts[BadChecksum],
		"missing": counts[Missing],
	}).Info("track done")
}
