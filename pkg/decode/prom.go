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
	"github.com/prometheus/client_golang/prometheus"
)

/*
	Metrics is the Prometheus adapter for the decode progress stream. It
	is just another event subscriber; the decoder itself knows nothing
	about metrics.
*/
type Metrics struct {
	tracksBegun   prometheus.Counter
	tracksDone    prometheus.Counter
	sectors       *prometheus.CounterVec
	tracksRunning prometheus.Gauge
}

//
func NewMetrics(reg prometheus.Registerer) *Metrics {

	m := &Metrics{
		tracksBegun: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fluxdrive_tracks_begun_total",
			Help: "tracks for which decoding has started",
		}),
		tracksDone: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fluxdrive_tracks_done_total",
			Help: "tracks for which decoding has finished",
		}),
		sectors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fluxdrive_sectors_total",
			Help: "decoded sectors by status",
		}, []string{"status"}),
		tracksRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fluxdrive_tracks_in_progress",
			Help: "tracks currently being decoded",
		}),
	}

	reg.MustRegister(m.tracksBegun, m.tracksDone, m.sectors, m.tracksRunning)
	return m
}

// Observe consumes a driver event subscription until it closes.
// Typically run as a goroutine per decode job.
func (m *Metrics) Observe(events <-chan Event) {

	for ev := range events {
		switch ev.Kind {

		case TrackBegin:
			m.tracksBegun.Inc()
			m.tracksRunning.Inc()

		case SectorDone:
			m.sectors.WithLabelValues(ev.Sector.Status.String()).Inc()

		case TrackDone:
			m.tracksDone.Inc()
			m.tracksRunning.Dec()
		}
	}
}
