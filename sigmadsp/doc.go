// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sigmadsp drives the parameter RAM of an Analog Devices SigmaDSP
// audio processor over I²C.
//
// Parameters are addressed by a 16 bit register number and hold 8.24 fixed
// point values, so 1.0 is 0x01000000. A write is a single transaction made of
// the device address, the big endian register number and the big endian 32
// bit value.
//
// Two drivers are provided. Dev wraps an i2c.Bus the caller keeps open.
// Writer opens the bus by name for every write and closes it afterwards, with
// a bounded wait for the transaction; this suits boards where the bus is
// shared with other processes between writes.
//
// # Volume
//
// Encode maps a 0-100 percentage onto the 0.0-1.0 gain range of a volume
// cell using truncating integer arithmetic, matching the rounding used by the
// DSP firmware tooling.
//
// # Datasheet
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/ADAU1452-1451-1450.pdf
package sigmadsp
