// Package snapshot stores frozen captures of materialized days and enforces
// each user's retention policy.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/manav03panchal/daymark/internal/model"
)

// SchemaVersion is the layout version written into new snapshots.
const SchemaVersion = 1

// upgraders rewrite a state document of version v into version v+1.
// Decoding walks the chain until it reaches SchemaVersion.
var upgraders = map[int]func(json.RawMessage) (json.RawMessage, error){}

// encode serializes a day state for storage.
func encode(state *model.DayState) (json.RawMessage, error) {
	return json.Marshal(state)
}

// decode reads a stored snapshot, upgrading older layouts first.
func decode(snap *model.Snapshot) (*model.DayState, error) {
	version := snap.SchemaVersion
	if version == 0 {
		// Documents written before versioning carried the current layout.
		version = 1
	}
	if version > SchemaVersion {
		return nil, fmt.Errorf("snapshot %s uses schema version %d, newest supported is %d",
			snap.Date, version, SchemaVersion)
	}

	raw := snap.State
	for v := version; v < SchemaVersion; v++ {
		upgrade, ok := upgraders[v]
		if !ok {
			return nil, fmt.Errorf("no upgrade path from snapshot schema version %d", v)
		}
		var err error
		if raw, err = upgrade(raw); err != nil {
			return nil, fmt.Errorf("upgrade snapshot %s from version %d: %w", snap.Date, v, err)
		}
	}

	state := &model.DayState{}
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", snap.Date, err)
	}
	return state, nil
}
