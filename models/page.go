// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// Page is one bounded batch of updates plus continuation metadata.
//
// When MoreUpdates is false, FinalVersion is the watermark the next sync of
// the collection starts from. When MoreUpdates is true FinalVersion carries
// no meaning and only the cursor offset moves.
type Page struct {
	Items        []Entity
	MoreUpdates  bool
	FinalVersion int64

	// Skipped counts items the server sent that carry no usable key. They
	// still move the offset.
	Skipped int
}

// Received returns the number of items the server sent in this page.
func (p Page) Received() int {
	return len(p.Items) + p.Skipped
}

// Entity is an opaque record of a collection. Only the identifying key, the
// deletion flag and the record version are interpreted; the rest of the
// record is kept verbatim in Raw.
type Entity struct {
	Key     string          `json:"key"`
	Deleted bool            `json:"deleted"`
	Version int64           `json:"version"`
	Raw     json.RawMessage `json:"raw"`
}

// Keys returns the keys of entities in order.
func Keys(entities []Entity) []string {
	keys := make([]string, 0, len(entities))
	for _, e := range entities {
		keys = append(keys, e.Key)
	}
	return keys
}
