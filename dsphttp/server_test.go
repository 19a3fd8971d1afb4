// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dsphttp

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetch(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestServerRestart(t *testing.T) {
	f := &fakeSetter{}
	s := NewServer("127.0.0.1:0", NewMux(NewHandler(f, nil)))
	assert.Nil(t, s.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, v := range []string{"10", "20"} {
		require.NoError(t, s.Start())
		require.NotNil(t, s.Addr())
		assert.Equal(t, v, fetch(t, "http://"+s.Addr().String()+"/dsp?volume="+v))

		addr := s.Addr().String()
		require.NoError(t, s.Stop(ctx))
		assert.Nil(t, s.Addr())
		_, err := http.Get("http://" + addr + "/dsp")
		assert.Error(t, err, "listener still accepting after Stop")
	}
	assert.Equal(t, []int{10, 20}, f.calls)
}

func TestServerStartTwice(t *testing.T) {
	s := NewServer("127.0.0.1:0", http.NotFoundHandler())
	require.NoError(t, s.Start())
	defer s.Stop(context.Background())
	assert.Equal(t, errRunning, s.Start())
}

func TestServerStopStopped(t *testing.T) {
	s := NewServer("127.0.0.1:0", http.NotFoundHandler())
	assert.NoError(t, s.Stop(context.Background()))
}

func TestServerListenError(t *testing.T) {
	s := NewServer("256.0.0.1:http", http.NotFoundHandler())
	assert.Error(t, s.Start())
	assert.Nil(t, s.Addr())
}
