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
	Package control is the HTTP API of the decode server. Decode jobs
	run one at a time; progress is observable through the status and
	track routes, and through Prometheus metrics fed by the decoder's
	event stream.
*/
package control

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/fluxdrive/pkg/config"
	"github.com/xelalexv/fluxdrive/pkg/decode"
	"github.com/xelalexv/fluxdrive/pkg/flux/source"
	"github.com/xelalexv/fluxdrive/pkg/image"
)

//
type APIServer interface {
	Serve() error
	Stop() error
}

//
func NewAPIServer(addr string, cfg *config.Config) APIServer {

	registry := prometheus.NewRegistry()

	return &api{
		address:  addr,
		cfg:      cfg,
		registry: registry,
		metrics:  decode.NewMetrics(registry),
	}
}

//
type api struct {
	address string
	cfg     *config.Config
	server  *http.Server
	//
	registry *prometheus.Registry
	metrics  *decode.Metrics
	//
	mux     sync.Mutex
	running bool
	status  Status
	tracks  []*TrackSummary
}

//
func (a *api) Serve() error {

	router := mux.NewRouter().StrictSlash(true)

	addRoute(router, "status", "GET", "/status", a.getStatus)
	addRoute(router, "decode", "POST", "/decode", a.postDecode)
	addRoute(router, "tracks", "GET", "/tracks", a.getTracks)

	router.Methods("GET").Path("/metrics").Name("metrics").Handler(
		requestLogger(promhttp.HandlerFor(
			a.registry, promhttp.HandlerOpts{}), "metrics"))

	addr := a.address
	if len(strings.Split(addr, ":")) < 2 {
		addr = fmt.Sprintf("%s:8888", a.address)
	}

	log.Infof("FluxDrive API starts listening on %s", addr)
	a.server = &http.Server{Addr: addr, Handler: router}

	err := a.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

//
func (a *api) Stop() error {
	if a.server != nil {
		log.Info("API server stopping...")
		err := a.server.Shutdown(context.Background())
		a.server = nil
		return err
	}
	return nil
}

//
func addRoute(r *mux.Router, name, method, pattern string,
	handler http.HandlerFunc) {
	r.Methods(method).
		Path(pattern).
		Name(name).
		Handler(requestLogger(handler, name))
}

//
func requestLogger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		log.WithFields(log.Fields{
			"remote": r.RemoteAddr,
			"method": r.Method,
			"path":   r.RequestURI,
		}).Debugf("API BEGIN | %s", name)

		start := time.Now()
		inner.ServeHTTP(w, r)

		log.WithFields(log.Fields{
			"remote":   r.RemoteAddr,
			"method":   r.Method,
			"path":     r.RequestURI,
			"duration": time.Since(start),
		}).Debugf("API END   | %s", name)
	})
}

//
func (a *api) getStatus(w http.ResponseWriter, req *http.Request) {

	a.mux.Lock()
	stat := a.status
	stat.Variant = a.cfg.Variant
	stat.Running = a.running
	a.mux.Unlock()

	if wantsJSON(req) {
		sendJSONReply(&stat, http.StatusOK, w)
	} else {
		sendReply([]byte(stat.String()), http.StatusOK, w)
	}
}

//
func (a *api) getTracks(w http.ResponseWriter, req *http.Request) {

	a.mux.Lock()
	tracks := a.tracks
	a.mux.Unlock()

	if wantsJSON(req) {
		sendJSONReply(tracks, http.StatusOK, w)

	} else {
		strList := "\nTRACK SIDE SECTORS"
		for _, t := range tracks {
			strList += fmt.Sprintf("\n %3d   %d   %v", t.Track, t.Side, t.Counts)
		}
		sendReply([]byte(strList), http.StatusOK, w)
	}
}

/*
	postDecode starts a decode job. The flux source and output image
	come from the query, falling back to the server configuration. Only
	one job runs at a time; the job runs asynchronously, its outcome
	shows up in the status route.
*/
func (a *api) postDecode(w http.ResponseWriter, req *http.Request) {

	fluxSpec := getArg(req, "flux")
	if fluxSpec == "" {
		fluxSpec = a.cfg.Flux
	}
	output := getArg(req, "output")
	if output == "" {
		output = a.cfg.Output
	}

	a.mux.Lock()
	if a.running {
		a.mux.Unlock()
		handleError(fmt.Errorf("decode already running"),
			http.StatusConflict, w)
		return
	}
	a.running = true
	a.status = Status{Flux: fluxSpec, Output: output}
	a.tracks = nil
	a.mux.Unlock()

	src, err := source.Resolve(fluxSpec)
	if err == nil {
		var writer decode.SectorWriter
		if writer, err = image.NewWriter(output, a.cfg); err == nil {
			var driver *decode.Driver
			if driver, err = decode.NewDriver(a.cfg, src, writer); err == nil {
				go a.runJob(driver, src)
				sendReply([]byte("decode started"), http.StatusOK, w)
				return
			}
		}
		src.Close()
	}

	a.mux.Lock()
	a.running = false
	a.status.Error = err.Error()
	a.mux.Unlock()
	handleError(err, http.StatusUnprocessableEntity, w)
}

//
func (a *api) runJob(driver *decode.Driver, src source.Source) {

	go a.metrics.Observe(driver.Subscribe(64))
	err := driver.Run(context.Background())
	src.Close()

	a.mux.Lock()
	defer a.mux.Unlock()

	a.running = false
	if err != nil {
		a.status.Error = err.Error()
	}

	totals := map[string]int{}
	for _, ti := range driver.Tracks() {
		a.tracks = append(a.tracks, summarize(ti))
		for status, count := range ti.Counts() {
			totals[status.String()] += count
		}
	}
	a.status.Totals = totals
}

//
func getArg(req *http.Request, arg string) string {
	return req.URL.Query().Get(arg)
}

//
func setHeaders(h http.Header, json bool) {
	if json {
		h.Set("Content-Type", "application/json; charset=UTF-8")
	} else {
		h.Set("Content-Type", "text/plain; charset=UTF-8")
	}
}

//
func handleError(e error, statusCode int, w http.ResponseWriter) bool {

	if e == nil {
		return false
	}

	log.Errorf("%v", e)

	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(fmt.Sprintf("%v\n", e))); err != nil {
		log.Errorf("problem writing error: %v", err)
	}

	return true
}

//
func sendReply(body []byte, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := fmt.Fprintf(w, "%s\n", body); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendJSONReply(obj interface{}, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), true)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Errorf("problem writing error: %v", err)
	}
}

//
func wantsJSON(req *http.Request) bool {
	return req.Header.Get("Content-Type") == "application/json"
}
