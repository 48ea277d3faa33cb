// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// ErrNoReport is reported by /status before the first sync run finished.
var ErrNoReport = errors.New("no sync run finished yet")
