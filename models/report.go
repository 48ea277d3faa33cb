// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// CollectionReport is the outcome of syncing one collection for one scope.
type CollectionReport struct {
	Collection string     `json:"collection"`
	Scope      Scope      `json:"scope"`
	Start      SyncCursor `json:"start"`
	End        SyncCursor `json:"end"`
	Pages      int        `json:"pages"`
	Items      int        `json:"items"`
	Done       bool       `json:"done"`
	Error      string     `json:"error,omitempty"`
}

// SyncReport summarises one sync run.
type SyncReport struct {
	RunID      string             `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	ClientIDs  []string           `json:"client_ids"`
	Reports    []CollectionReport `json:"collections"`
	Error      string             `json:"error,omitempty"`
}

// Items returns the total number of items received during the run.
func (r SyncReport) Items() int {
	total := 0
	for _, c := range r.Reports {
		total += c.Items
	}
	return total
}

// Failed returns the collection reports that ended with an error.
func (r SyncReport) Failed() []CollectionReport {
	var failed []CollectionReport
	for _, c := range r.Reports {
		if c.Error != "" {
			failed = append(failed, c)
		}
	}
	return failed
}
