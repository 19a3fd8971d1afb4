// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package netwatch

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the polling period of a Watcher.
const DefaultInterval = 2 * time.Second

// Probe reports whether the network is usable.
type Probe func() (bool, error)

// Handler receives connectivity edges. *Controller implements it.
type Handler interface {
	OnConnect() error
	OnDisconnect() error
}

// Watcher polls a Probe and reports changes to a Handler.
type Watcher struct {
	Probe    Probe
	Handler  Handler
	Interval time.Duration
}

// Run polls until ctx is done. The first result is always reported, so the
// Handler learns the initial state. A probe error counts as disconnected.
// Handler errors are logged; the edge is reported again on the next poll.
func (w *Watcher) Run(ctx context.Context) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	known, up := false, false
	for {
		ok, err := w.Probe()
		if err != nil {
			glog.Warningf("netwatch: probe: %v", err)
			ok = false
		}
		if !known || ok != up {
			if err := w.report(ok); err != nil {
				glog.Errorf("netwatch: %v", err)
				known = false
			} else {
				known, up = true, ok
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *Watcher) report(up bool) error {
	if up {
		if err := w.Handler.OnConnect(); err != nil {
			return fmt.Errorf("starting listener: %w", err)
		}
		return nil
	}
	if err := w.Handler.OnDisconnect(); err != nil {
		return fmt.Errorf("stopping listener: %w", err)
	}
	return nil
}

// InterfaceProbe reports whether an interface that is up has a non loopback
// IPv4 address. An empty name accepts any interface.
func InterfaceProbe(name string) Probe {
	return func() (bool, error) {
		var ifaces []net.Interface
		if name != "" {
			iface, err := net.InterfaceByName(name)
			if err != nil {
				return false, err
			}
			ifaces = []net.Interface{*iface}
		} else {
			var err error
			if ifaces, err = net.Interfaces(); err != nil {
				return false, err
			}
		}
		for _, iface := range ifaces {
			if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
				continue
			}
			addrs, err := iface.Addrs()
			if err != nil {
				return false, err
			}
			for _, a := range addrs {
				if ipn, ok := a.(*net.IPNet); ok && ipn.IP.To4() != nil && !ipn.IP.IsLoopback() {
					return true, nil
				}
			}
		}
		return false, nil
	}
}
