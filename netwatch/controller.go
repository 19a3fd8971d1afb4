// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package netwatch starts and stops a listener as network connectivity comes
// and goes.
package netwatch

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// StopTimeout bounds the graceful stop of the listener on disconnect.
const StopTimeout = 5 * time.Second

// Listener is a service that only makes sense while the network is up.
// *dsphttp.Server implements it.
type Listener interface {
	Start() error
	Stop(ctx context.Context) error
}

// Controller owns the running state of a Listener.
type Controller struct {
	l Listener

	mu      sync.Mutex
	running bool
}

// NewController returns a Controller for a stopped l.
func NewController(l Listener) *Controller {
	return &Controller{l: l}
}

// OnConnect starts the listener unless it is already running. When Start
// fails the listener is considered stopped and the next OnConnect tries
// again.
func (c *Controller) OnConnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}
	glog.Info("netwatch: connected, starting listener")
	if err := c.l.Start(); err != nil {
		return err
	}
	c.running = true
	return nil
}

// OnDisconnect stops the listener if it is running.
func (c *Controller) OnDisconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return nil
	}
	glog.Info("netwatch: disconnected, stopping listener")
	ctx, cancel := context.WithTimeout(context.Background(), StopTimeout)
	defer cancel()
	c.running = false
	return c.l.Stop(ctx)
}

// Running reports whether the listener was started and not stopped since.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
