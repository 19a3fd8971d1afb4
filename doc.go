// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dspvolume sets the volume of a SigmaDSP audio processor from HTTP.
//
// The driver lives in sigmadsp, the HTTP surface in dsphttp and the daemon
// in cmd/dspvolume. cmd/dspshell drives the DSP interactively.
package dspvolume
