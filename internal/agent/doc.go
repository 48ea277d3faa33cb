// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package agent implements the commands of the data-publish agent.
//
// It wires configuration, storage, the API adapter, the sync services, the
// optional status server and the repeat scheduler into a process lifecycle.
package agent
