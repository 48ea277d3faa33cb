// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoServersAreCreated is returned when the status address is not set.
var errNoServersAreCreated = errors.New("no status server configured")
