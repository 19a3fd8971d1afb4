// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sigmadsp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
)

// Kind classifies a failed bus transaction.
type Kind int

const (
	// DriverFault is any failure of the bus controller itself, including
	// opening and configuring it.
	DriverFault Kind = iota
	// Timeout means the transaction did not complete in time.
	Timeout
	// Nack means the device did not acknowledge a byte.
	Nack
)

func (k Kind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case Nack:
		return "nack"
	default:
		return "driver fault"
	}
}

// Sentinels matched by errors.Is against a *BusError of the same Kind.
var (
	ErrDriverFault = errors.New("sigmadsp: driver fault")
	ErrTimeout     = errors.New("sigmadsp: bus timeout")
	ErrNack        = errors.New("sigmadsp: device did not acknowledge")
)

// BusError is returned by Writer and Dev when a transaction fails.
type BusError struct {
	Kind Kind
	// Op is the step that failed: "open", "speed" or "tx".
	Op  string
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("sigmadsp: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *BusError) Is(target error) bool {
	switch target {
	case ErrDriverFault:
		return e.Kind == DriverFault
	case ErrTimeout:
		return e.Kind == Timeout
	case ErrNack:
		return e.Kind == Nack
	}
	return false
}

// nacker is implemented by bus errors that know they were caused by a
// missing acknowledge.
type nacker interface {
	Nack() bool
}

// classify wraps err from step op into a *BusError.
func classify(op string, err error) *BusError {
	var be *BusError
	if errors.As(err, &be) {
		return be
	}
	return &BusError{Kind: kindOf(err), Op: op, Err: err}
}

func kindOf(err error) Kind {
	var n nacker
	if errors.As(err, &n) && n.Nack() {
		return Nack
	}
	for _, errno := range nackErrnos {
		if errors.Is(err, errno) {
			return Nack
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, syscall.ETIMEDOUT) {
		return Timeout
	}
	// sysfs-i2c formats the ioctl errno with %v, so only the text survives.
	msg := err.Error()
	for _, errno := range nackErrnos {
		if strings.Contains(msg, errno.Error()) {
			return Nack
		}
	}
	if strings.Contains(msg, syscall.ETIMEDOUT.Error()) {
		return Timeout
	}
	return DriverFault
}
