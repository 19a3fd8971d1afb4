// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net"
	"net/url"
)

// Validate checks the configuration. It does not modify cfg. Zero values are
// valid and mean "default".
func Validate(cfg *Config) error {
	if cfg.HTTP.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
			return fmt.Errorf("http.addr %q: %w", cfg.HTTP.Addr, err)
		}
	}

	if cfg.Bus.Address > 0x7f {
		return fmt.Errorf("bus.address 0x%x is not a 7 bit address", cfg.Bus.Address)
	}
	// 0x00-0x07 and 0x78-0x7f are reserved by the I²C specification.
	if cfg.Bus.Address != 0 && (cfg.Bus.Address < 0x08 || cfg.Bus.Address > 0x77) {
		return fmt.Errorf("bus.address 0x%02x is reserved", cfg.Bus.Address)
	}
	if cfg.Bus.SpeedHz < 0 {
		return fmt.Errorf("bus.speed_hz must not be negative, got %d", cfg.Bus.SpeedHz)
	}
	if cfg.Bus.TimeoutMs < 0 {
		return fmt.Errorf("bus.timeout_ms must not be negative, got %d", cfg.Bus.TimeoutMs)
	}

	if cfg.Network.PollMs < 0 {
		return fmt.Errorf("network.poll_ms must not be negative, got %d", cfg.Network.PollMs)
	}

	if cfg.MQTT.URL != "" {
		u, err := url.Parse(cfg.MQTT.URL)
		if err != nil {
			return fmt.Errorf("mqtt.url: %w", err)
		}
		switch u.Scheme {
		case "mqtt", "tcp", "ssl", "tls", "ws", "wss":
		default:
			return fmt.Errorf("mqtt.url: unsupported scheme %q", u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("mqtt.url %q has no host", cfg.MQTT.URL)
		}
	}
	return nil
}
