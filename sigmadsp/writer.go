// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sigmadsp

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
)

// DefaultTimeout bounds a single register write.
const DefaultTimeout = time.Second

// OpenFunc opens an I²C bus by name. i2creg.Open is the default.
type OpenFunc func(name string) (i2c.BusCloser, error)

// Writer writes DSP registers, opening the bus for each write and closing it
// afterwards. The zero value writes to DefaultAddress on the first registered
// bus.
//
// Writer holds no bus between calls; concurrent writes each open their own
// handle and are serialized by the bus driver.
type Writer struct {
	// Bus is the name passed to Open. Empty selects the first bus.
	Bus string
	// Addr is the 7 bit device address. Zero means DefaultAddress.
	Addr i2c.Addr
	// Speed is applied with SetSpeed after opening. Zero leaves the bus
	// clock as configured by the host.
	Speed physic.Frequency
	// Timeout bounds the transaction. Zero means DefaultTimeout.
	Timeout time.Duration
	// Open defaults to i2creg.Open.
	Open OpenFunc
}

func (w *Writer) addr() i2c.Addr {
	if w.Addr == 0 {
		return DefaultAddress
	}
	return w.Addr
}

// Write sends value to register reg in one transaction.
//
// The bus is closed before Write returns, except when the wait for the
// transaction times out or ctx is done; the bus is then closed as soon as the
// pending transaction returns. A ctx that is already done when Write is called
// touches no bus. Failures are reported as *BusError; Kind is Timeout only
// when the bound or the ctx deadline expired.
func (w *Writer) Write(ctx context.Context, reg uint16, value uint32) error {
	if err := ctx.Err(); err != nil {
		return &BusError{Kind: waitKind(err), Op: "open", Err: err}
	}
	addr := w.addr()
	if addr > 0x7f {
		return &BusError{Kind: DriverFault, Op: "open", Err: errInvalidAddress}
	}
	open := w.Open
	if open == nil {
		open = i2creg.Open
	}
	bus, err := open(w.Bus)
	if err != nil {
		return &BusError{Kind: DriverFault, Op: "open", Err: err}
	}
	if w.Speed != 0 {
		if err := bus.SetSpeed(w.Speed); err != nil {
			closeBus(bus)
			return &BusError{Kind: DriverFault, Op: "speed", Err: err}
		}
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := payload(addr, reg, value)
	if glog.V(2) {
		glog.Infof("sigmadsp: %s write % x", bus, Frame(addr, reg, value))
	}
	d := i2c.Dev{Bus: bus, Addr: uint16(addr)}
	done := make(chan error, 1)
	go func() {
		err := d.Tx(p, nil)
		closeBus(bus)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return classify("tx", err)
		}
		return nil
	case <-ctx.Done():
		return &BusError{Kind: waitKind(ctx.Err()), Op: "tx", Err: ctx.Err()}
	}
}

// waitKind classifies the end of a wait on ctx.
func waitKind(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	return DriverFault
}

// SetVolume encodes percent and writes it to VolumeRegister. The encoded
// value is returned even when the write fails.
func (w *Writer) SetVolume(ctx context.Context, percent int) (uint32, error) {
	v := Encode(percent)
	glog.V(1).Infof("sigmadsp: volume %d%% -> 0x%08x", percent, v)
	return v, w.Write(ctx, VolumeRegister, v)
}

func closeBus(bus i2c.BusCloser) {
	if err := bus.Close(); err != nil {
		glog.Warningf("sigmadsp: closing %s: %v", bus, err)
	}
}
