// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package netwatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// edges records the calls made by a Watcher.
type edges struct {
	mu      sync.Mutex
	events  []bool
	failOne bool
}

func (e *edges) OnConnect() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failOne {
		e.failOne = false
		return errors.New("bind failed")
	}
	e.events = append(e.events, true)
	return nil
}

func (e *edges) OnDisconnect() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, false)
	return nil
}

func (e *edges) get() []bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]bool(nil), e.events...)
}

// sequence returns a probe walking through states, then repeating the last.
func sequence(states ...bool) (Probe, func() int) {
	var mu sync.Mutex
	i := 0
	probe := func() (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		s := states[i]
		if i < len(states)-1 {
			i++
		}
		return s, nil
	}
	done := func() int {
		mu.Lock()
		defer mu.Unlock()
		return i
	}
	return probe, done
}

func runUntil(t *testing.T, w *Watcher, cond func() bool) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("watcher did not reach the expected state")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	assert.Equal(t, context.Canceled, <-errc)
}

func TestWatcherEdges(t *testing.T) {
	states := []bool{false, false, true, true, true, false, true, true}
	probe, pos := sequence(states...)
	e := &edges{}
	w := &Watcher{Probe: probe, Handler: e, Interval: time.Millisecond}
	runUntil(t, w, func() bool { return pos() == len(states)-1 && len(e.get()) == 4 })
	assert.Equal(t, []bool{false, true, false, true}, e.get())
}

func TestWatcherRetriesFailedEdge(t *testing.T) {
	probe, _ := sequence(true)
	e := &edges{failOne: true}
	w := &Watcher{Probe: probe, Handler: e, Interval: time.Millisecond}
	runUntil(t, w, func() bool { return len(e.get()) == 1 })
	assert.Equal(t, []bool{true}, e.get())
}

func TestWatcherProbeError(t *testing.T) {
	e := &edges{}
	w := &Watcher{
		Probe:    func() (bool, error) { return true, errors.New("netlink unavailable") },
		Handler:  e,
		Interval: time.Millisecond,
	}
	runUntil(t, w, func() bool { return len(e.get()) == 1 })
	assert.Equal(t, []bool{false}, e.get())
}

func TestInterfaceProbe(t *testing.T) {
	_, err := InterfaceProbe("does-not-exist0")()
	assert.Error(t, err)

	// The result depends on the host; only check it runs.
	_, err = InterfaceProbe("")()
	require.NoError(t, err)
}

func TestWatcherDrivesController(t *testing.T) {
	probe, pos := sequence(true, false)
	l := &fakeListener{}
	c := NewController(l)
	w := &Watcher{Probe: probe, Handler: c, Interval: time.Millisecond}
	runUntil(t, w, func() bool {
		_, stops := l.counts()
		return pos() == 1 && stops == 1
	})
	starts, stops := l.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)
	assert.False(t, c.Running())
}
