// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sigmadsp

import "syscall"

// i2c-dev reports a missing acknowledge as EREMOTEIO on most adapters and
// ENXIO on a few.
var nackErrnos = []syscall.Errno{syscall.EREMOTEIO, syscall.ENXIO}
