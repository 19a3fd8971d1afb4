// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dsphttp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
)

var errRunning = errors.New("dsphttp: server already running")

// Server is an HTTP listener that can be started and stopped repeatedly.
type Server struct {
	addr    string
	handler http.Handler

	mu   sync.Mutex
	srv  *http.Server
	ln   net.Listener
	done chan struct{}
}

// NewServer returns a stopped Server that will listen on addr.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{addr: addr, handler: handler}
}

// Start binds the listening socket and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return errRunning
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			glog.Errorf("dsphttp: serving on %s: %v", ln.Addr(), err)
		}
	}()
	s.srv, s.ln, s.done = srv, ln, done
	glog.Infof("dsphttp: listening on %s", ln.Addr())
	return nil
}

// Stop shuts the server down, waiting for active requests until ctx is done.
// Stopping a stopped server does nothing.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return nil
	}
	err := s.srv.Shutdown(ctx)
	if err != nil {
		// ctx expired with requests in flight; cut them off.
		err = s.srv.Close()
	}
	<-s.done
	glog.Infof("dsphttp: stopped listening on %s", s.ln.Addr())
	s.srv, s.ln, s.done = nil, nil, nil
	return err
}

// Addr returns the bound address, or nil when stopped.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}
