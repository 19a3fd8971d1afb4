// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dsphttp exposes the DSP volume over HTTP.
//
// A single route is served: GET /dsp?volume=<percent>. The percentage is
// written to the DSP and the response body echoes the query value exactly as
// received. A missing or non-numeric value writes nothing and answers with an
// empty body.
package dsphttp

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/golang/glog"
)

const (
	// Path is the only route served.
	Path = "/dsp"
	// QueryKey is the query parameter carrying the percentage.
	QueryKey = "volume"
)

// Setter applies a volume percentage, returning the register value written.
// *sigmadsp.Writer implements it.
type Setter interface {
	SetVolume(ctx context.Context, percent int) (uint32, error)
}

// Event describes one volume write attempted by the handler.
type Event struct {
	// Raw is the query value as received.
	Raw     string
	Percent int
	Value   uint32
	Err     error
}

// Options for Handler.
type Options struct {
	// Strict answers 502 Bad Gateway when the bus write fails. By default the
	// failure is only logged and the client gets the usual echo.
	Strict bool
	// Notify, when set, is called after every write attempt.
	Notify func(Event)
}

// Handler serves Path.
type Handler struct {
	dsp    Setter
	strict bool
	notify func(Event)
}

var _ http.Handler = (*Handler)(nil)

// NewHandler returns a Handler writing through dsp. opts may be nil.
func NewHandler(dsp Setter, opts *Options) *Handler {
	h := &Handler{dsp: dsp}
	if opts != nil {
		h.strict = opts.Strict
		h.notify = opts.Notify
	}
	return h
}

// NewMux returns a mux routing Path to h.
func NewMux(h http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(Path, h)
	return mux
}

// volumeFromQuery returns the raw volume value and its parsed form. ok is
// false when the key is absent or the value is not a 32 bit decimal integer.
func volumeFromQuery(values url.Values) (raw string, percent int, ok bool) {
	raw = values.Get(QueryKey)
	if raw == "" {
		return "", 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		glog.V(1).Infof("dsphttp: ignoring %s=%q: %v", QueryKey, raw, err)
		return "", 0, false
	}
	return raw, int(n), true
}

// ServeHTTP handles GET requests on Path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.Body.Close(); err != nil {
		glog.Warningf("dsphttp: closing request body: %v", err)
	}

	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	raw, percent, ok := volumeFromQuery(r.URL.Query())
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}

	// A submitted transaction is not abandoned when the client goes away.
	v, err := h.dsp.SetVolume(context.WithoutCancel(r.Context()), percent)
	if h.notify != nil {
		h.notify(Event{Raw: raw, Percent: percent, Value: v, Err: err})
	}
	if err != nil {
		glog.Errorf("dsphttp: setting volume %d: %v", percent, err)
		if h.strict {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}

	if _, err := w.Write([]byte(raw)); err != nil {
		glog.V(1).Infof("dsphttp: writing response: %v", err)
	}
}
