// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

// Normalize fills in defaults. Call it after Validate.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = DefaultHTTPAddr
	}
	if cfg.Bus.Address == 0 {
		cfg.Bus.Address = DefaultAddress
	}
	if cfg.Bus.TimeoutMs == 0 {
		cfg.Bus.TimeoutMs = DefaultTimeoutMs
	}
	if cfg.Network.PollMs == 0 {
		cfg.Network.PollMs = DefaultPollMs
	}
}
