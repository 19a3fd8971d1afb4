// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tinyi2c adapts TinyGo I²C buses to periph.io.
//
// On TinyGo targets pass machine.I2C0 and friends; on a host, Logger stands
// in for a bus so the rest of the stack can run without hardware.
package tinyi2c

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

var (
	errNoSpeed = errors.New("tinyi2c: bus speed is fixed")
	errNoBus   = errors.New("tinyi2c: no such bus")
)

// Bus exposes a drivers.I2C as an i2c.BusCloser.
type Bus struct {
	Name string
	I2C  drivers.I2C
	// Configure sets the bus clock. When nil, SetSpeed fails.
	Configure func(f physic.Frequency) error
}

var _ i2c.BusCloser = (*Bus)(nil)

func (b *Bus) String() string {
	return b.Name
}

// Tx implements i2c.Bus.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	return b.I2C.Tx(addr, w, r)
}

// SetSpeed implements i2c.Bus.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	if b.Configure == nil {
		return errNoSpeed
	}
	return b.Configure(f)
}

// Close implements io.Closer. TinyGo buses are never released.
func (b *Bus) Close() error {
	return nil
}

// Opener returns a function suitable for sigmadsp.Writer.Open that looks
// buses up by Name. The empty name selects the first bus.
func Opener(buses ...*Bus) func(name string) (i2c.BusCloser, error) {
	return func(name string) (i2c.BusCloser, error) {
		for _, b := range buses {
			if name == "" || b.Name == name {
				return b, nil
			}
		}
		return nil, fmt.Errorf("%w: %q", errNoBus, name)
	}
}

// Logger is a drivers.I2C that acknowledges every write and logs it. Reads
// return zeros.
type Logger struct {
	mu  sync.Mutex
	txs int
}

// Tx implements drivers.I2C.
func (l *Logger) Tx(addr uint16, w, r []byte) error {
	l.mu.Lock()
	l.txs++
	l.mu.Unlock()
	glog.Infof("tinyi2c: 0x%02x W[% x] R%d", addr, w, len(r))
	clear(r)
	return nil
}

// Count returns the number of transactions seen.
func (l *Logger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.txs
}
