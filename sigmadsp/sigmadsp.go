// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sigmadsp

import (
	"errors"

	"periph.io/x/conn/v3/i2c"
)

const (
	// DefaultAddress is the default I²C address (0x38) of the DSP.
	DefaultAddress i2c.Addr = 0x38
	// VolumeRegister is the parameter address of the master volume cell.
	VolumeRegister uint16 = 0x32C3

	// FullScale is 1.0 in 8.24 fixed point.
	FullScale uint32 = 0x01000000
	// MaxPercent is the percentage encoded as FullScale.
	MaxPercent = 100

	writeBit byte = 0x00
	// Header byte, two register bytes and four value bytes.
	frameLen = 7
)

var errInvalidAddress = errors.New("sigmadsp: invalid 7 bit address")

// Encode converts a volume percentage into a register value.
//
// Percentages of MaxPercent and above encode as FullScale. The division is
// done before the multiplication, so intermediate percentages are truncated
// the same way the firmware does: Encode(50) is 0x007FFFF8, not 0x00800000.
// Negative percentages encode as 0.
func Encode(percent int) uint32 {
	if percent >= MaxPercent {
		return FullScale
	}
	if percent <= 0 {
		return 0
	}
	return FullScale / MaxPercent * uint32(percent)
}

// Decode converts a register value back to the percentage Encode would have
// been given to produce it, rounding down. Values above FullScale decode as
// MaxPercent.
func Decode(value uint32) int {
	if value >= FullScale {
		return MaxPercent
	}
	return int(value / (FullScale / MaxPercent))
}

// Frame returns the bytes of a register write as they appear on the wire:
// the address byte with the write bit, the register number and the value,
// both most significant byte first.
func Frame(addr i2c.Addr, reg uint16, value uint32) []byte {
	return []byte{
		byte(addr)<<1 | writeBit,
		byte(reg >> 8),
		byte(reg),
		byte(value >> 24),
		byte(value >> 16),
		byte(value >> 8),
		byte(value),
	}
}

// payload returns the bytes handed to i2c.Dev.Tx; the bus driver emits the
// address byte itself.
func payload(addr i2c.Addr, reg uint16, value uint32) []byte {
	return Frame(addr, reg, value)[1:frameLen]
}

// Dev is a SigmaDSP on a bus owned by the caller.
type Dev struct {
	d i2c.Dev
}

// New returns a Dev talking to the DSP at addr on bus.
func New(bus i2c.Bus, addr i2c.Addr) (*Dev, error) {
	if addr > 0x7f {
		return nil, errInvalidAddress
	}
	return &Dev{d: i2c.Dev{Bus: bus, Addr: uint16(addr)}}, nil
}

// WriteRegister writes value to the parameter register reg.
func (d *Dev) WriteRegister(reg uint16, value uint32) error {
	if err := d.d.Tx(payload(i2c.Addr(d.d.Addr), reg, value), nil); err != nil {
		return classify("tx", err)
	}
	return nil
}

// SetVolume encodes percent and writes it to VolumeRegister. The encoded
// value is returned even when the write fails.
func (d *Dev) SetVolume(percent int) (uint32, error) {
	v := Encode(percent)
	return v, d.WriteRegister(VolumeRegister, v)
}

// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) String() string {
	return "SigmaDSP{" + d.d.String() + "}"
}
