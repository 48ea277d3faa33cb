// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// SyncCursor identifies an exact pagination position within a collection:
// the version watermark the sync started from and the number of items
// already consumed at that version.
//
// The zero value is the cursor of a never-synced collection.
type SyncCursor struct {
	Version int64 `json:"version"`
	Offset  int64 `json:"offset"`
}

// Advance returns the cursor moved past n items of the current version.
func (c SyncCursor) Advance(n int) SyncCursor {
	return SyncCursor{Version: c.Version, Offset: c.Offset + int64(n)}
}

// Complete returns the cursor for the next run once the remote side reported
// no more updates. The watermark never moves backwards and the offset is
// always reset.
func (c SyncCursor) Complete(finalVersion int64) SyncCursor {
	if finalVersion < c.Version {
		finalVersion = c.Version
	}
	return SyncCursor{Version: finalVersion}
}

func (c SyncCursor) String() string {
	return fmt.Sprintf("version=%d offset=%d", c.Version, c.Offset)
}

// Scope is the parent key of a child collection. Root collections use the
// zero Scope, per-client collections set ClientID, per-project collections
// set both.
type Scope struct {
	ClientID  string `json:"client_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
}

// IsRoot reports whether s is the empty scope.
func (s Scope) IsRoot() bool {
	return s.ClientID == "" && s.ProjectID == ""
}

// Level returns the depth of the scope: 0 for root, 1 for a client, 2 for
// a project.
func (s Scope) Level() int {
	switch {
	case s.ProjectID != "":
		return 2
	case s.ClientID != "":
		return 1
	default:
		return 0
	}
}

// Segments returns the non-empty scope keys in path order.
func (s Scope) Segments() []string {
	segments := make([]string, 0, 2)
	if s.ClientID != "" {
		segments = append(segments, s.ClientID)
	}
	if s.ProjectID != "" {
		segments = append(segments, s.ProjectID)
	}
	return segments
}

func (s Scope) String() string {
	switch s.Level() {
	case 2:
		return s.ClientID + "/" + s.ProjectID
	case 1:
		return s.ClientID
	default:
		return "-"
	}
}
