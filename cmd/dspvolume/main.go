// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// dspvolume serves GET /dsp?volume=<percent> and writes the volume to a
// SigmaDSP over I²C. The HTTP listener runs only while the network is up.
//
// Set bus.name to "sim" to log transactions instead of touching hardware.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/dspvolume/config"
	"github.com/GermanBionicSystems/dspvolume/dsphttp"
	"github.com/GermanBionicSystems/dspvolume/mqttnotify"
	"github.com/GermanBionicSystems/dspvolume/netwatch"
	"github.com/GermanBionicSystems/dspvolume/sigmadsp"
	"github.com/GermanBionicSystems/dspvolume/tinyi2c"
)

const simBus = "sim"

var (
	configPath = ""
	httpAddr   = ""
	busName    = ""
	mqttURL    = ""
)

func init() {
	if val := os.Getenv("DSP_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&configPath, "config", configPath, "YAML configuration file.")
	flag.StringVar(&httpAddr, "addr", httpAddr, "HTTP listen address, overrides http.addr.")
	flag.StringVar(&busName, "bus", busName, "I²C bus name, overrides bus.name.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL, overrides mqtt.url.")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if httpAddr != "" {
		cfg.HTTP.Addr = httpAddr
	}
	if busName != "" {
		cfg.Bus.Name = busName
	}
	if mqttURL != "" {
		cfg.MQTT.URL = mqttURL
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}

func newWriter(cfg *config.Config) *sigmadsp.Writer {
	w := &sigmadsp.Writer{
		Bus:     cfg.Bus.Name,
		Addr:    cfg.Bus.Addr(),
		Speed:   cfg.Bus.Speed(),
		Timeout: cfg.Bus.Timeout(),
	}
	if cfg.Bus.Name == simBus {
		w.Open = tinyi2c.Opener(&tinyi2c.Bus{
			Name: simBus,
			I2C:  &tinyi2c.Logger{},
			// The simulated bus accepts any clock.
			Configure: func(physic.Frequency) error { return nil },
		})
	}
	return w
}

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := loadConfig()
	if err != nil {
		glog.Fatalf("config: %v", err)
	}
	if cfg.Bus.Name != simBus {
		if _, err := host.Init(); err != nil {
			glog.Fatalf("host init: %v", err)
		}
	}

	opts := &dsphttp.Options{Strict: cfg.HTTP.Strict}
	if cfg.MQTT.URL != "" {
		pub, err := mqttnotify.New(cfg.MQTT.URL)
		if err != nil {
			glog.Fatalf("mqtt: %v", err)
		}
		if err := pub.Connect(); err != nil {
			glog.Errorf("mqtt: %v, volume changes will not be published", err)
		} else {
			opts.Notify = pub.Notify
			defer pub.Close()
		}
	}

	h := dsphttp.NewHandler(newWriter(cfg), opts)
	srv := dsphttp.NewServer(cfg.HTTP.Addr, dsphttp.NewMux(h))
	ctl := netwatch.NewController(srv)
	w := &netwatch.Watcher{
		Probe:    netwatch.InterfaceProbe(cfg.Network.Interface),
		Handler:  ctl,
		Interval: cfg.Network.Interval(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	glog.Infof("dspvolume: bus %q device 0x%02x", cfg.Bus.Name, cfg.Bus.Address)
	_ = w.Run(ctx)
	if err := ctl.OnDisconnect(); err != nil {
		glog.Errorf("dspvolume: %v", err)
	}
}
