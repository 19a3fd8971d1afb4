// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package sigmadsp

import "syscall"

var nackErrnos = []syscall.Errno{syscall.ENXIO}
